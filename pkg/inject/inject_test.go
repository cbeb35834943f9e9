package inject

import (
	"testing"

	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelworld/reverbtrace/pkg/acoustics"
	"github.com/voxelworld/reverbtrace/pkg/geometry"
	"github.com/voxelworld/reverbtrace/pkg/trace"
	"github.com/voxelworld/reverbtrace/pkg/worldapi"
)

type fakeSink struct {
	submissions []submission
}

type submission struct {
	anchor      int64
	sampleCount int
}

func (f *fakeSink) AddSpatialAudioToBuffer(sampleTimeAnchor int64, pcm []byte, sampleCount int) {
	f.submissions = append(f.submissions, submission{anchor: sampleTimeAnchor, sampleCount: sampleCount})
}

func testBatch() *audio.IntBuffer {
	data := make([]int, 8) // 4 stereo frames
	for i := range data {
		data[i] = 1000
	}
	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: 48000},
		Data:           data,
		SourceBitDepth: 16,
	}
}

func TestInjectRejectsBadBitDepth(t *testing.T) {
	params, err := acoustics.NewParametersBuilder().Build()
	require.NoError(t, err)
	model := acoustics.NewModel(params, nil)
	injector := New(model, params, 48000, nil, nil)

	batch := testBatch()
	batch.SourceBitDepth = 24

	sink := &fakeSink{}
	err = injector.Inject(trace.NewResult(), batch, EarPositions{}, 0, sink)
	assert.Error(t, err)
}

func TestInjectRejectsMisalignedBatch(t *testing.T) {
	params, err := acoustics.NewParametersBuilder().Build()
	require.NoError(t, err)
	model := acoustics.NewModel(params, nil)
	injector := New(model, params, 48000, nil, nil)

	batch := testBatch()
	batch.Data = batch.Data[:7]

	sink := &fakeSink{}
	err = injector.Inject(trace.NewResult(), batch, EarPositions{}, 0, sink)
	assert.Error(t, err)
}

func TestInjectSubmitsOneLeftAndOneRightPerAudiblePoint(t *testing.T) {
	params, err := acoustics.NewParametersBuilder().Build()
	require.NoError(t, err)
	model := acoustics.NewModel(params, nil)
	injector := New(model, params, 48000, nil, nil)

	result := trace.NewResult()
	result.AudiblePoints = append(result.AudiblePoints, trace.AudiblePoint{
		Location:     geometry.Vec3{X: 5},
		DelayMs:      10,
		Attenuation:  0.5,
		PathDistance: 5,
	})

	sink := &fakeSink{}
	ears := EarPositions{Left: geometry.Vec3{X: -0.1}, Right: geometry.Vec3{X: 0.1}}
	err = injector.Inject(result, testBatch(), ears, 1000, sink)
	require.NoError(t, err)

	assert.Len(t, sink.submissions, 2)
}

func TestInjectIsolatesEarChannels(t *testing.T) {
	params, err := acoustics.NewParametersBuilder().WithStereoSource(true).Build()
	require.NoError(t, err)
	model := acoustics.NewModel(params, nil)
	injector := New(model, params, 48000, nil, nil)

	c := contribution{leftDelayMs: 0, rightDelayMs: 0, leftAtten: 1, rightAtten: 1}
	left, right := injector.renderEar(testBatch(), c)

	for i := 0; i < len(left); i += 2 {
		assert.NotZero(t, left[i])
		assert.Zero(t, left[i+1])
		assert.Zero(t, right[i])
		assert.NotZero(t, right[i+1])
	}
}

func TestResolveEarPositions(t *testing.T) {
	pose := worldapi.ListenerPose{
		Position:         geometry.Vec3{X: 1},
		LeftEarPosition:  geometry.Vec3{X: 0.9},
		RightEarPosition: geometry.Vec3{X: 1.1},
	}

	separate := Resolve(pose, true)
	assert.Equal(t, pose.LeftEarPosition, separate.Left)
	assert.Equal(t, pose.RightEarPosition, separate.Right)

	joint := Resolve(pose, false)
	assert.Equal(t, pose.Position, joint.Left)
	assert.Equal(t, pose.Position, joint.Right)
}

func TestPackInt16Wraps(t *testing.T) {
	out := packInt16([]int{40000})
	assert.Len(t, out, 2)
	// 40000 wraps to int16 -25536, whose little-endian bit pattern is 0x9C40.
	assert.Equal(t, []byte{0x40, 0x9C}, out)
}
