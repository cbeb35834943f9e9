// Package inject implements SampleInjector (spec.md §4.5): turning one
// TraceResult and one inbound PCM batch into per-ear delayed/attenuated
// contributions submitted to a worldapi.SpatialMixSink.
package inject

import (
	"encoding/binary"
	"fmt"

	"github.com/go-audio/audio"

	"github.com/voxelworld/reverbtrace/pkg/acoustics"
	"github.com/voxelworld/reverbtrace/pkg/geometry"
	"github.com/voxelworld/reverbtrace/pkg/trace"
	"github.com/voxelworld/reverbtrace/pkg/worldapi"
)

const channels = 2

// EarPositions resolves the left/right ear locations for one render tick
// (spec.md §4.5: "true left/right ear positions from the head; otherwise
// both equal head center").
type EarPositions struct {
	Left, Right geometry.Vec3
}

// Resolve picks true ear positions or the head center for both ears,
// depending on separateEars.
func Resolve(pose worldapi.ListenerPose, separateEars bool) EarPositions {
	if separateEars {
		return EarPositions{Left: pose.LeftEarPosition, Right: pose.RightEarPosition}
	}
	return EarPositions{Left: pose.Position, Right: pose.Position}
}

// Injector turns a TraceResult into per-ear contributions against one
// inbound audio batch (spec.md §4.5).
type Injector struct {
	model      *acoustics.Model
	params     *acoustics.Parameters
	sampleRate float64
	guard      *BufferGuard
	recorder   *Recorder
}

// New creates an Injector. guard and recorder may be nil to disable the
// corresponding expanded feature.
func New(model *acoustics.Model, params *acoustics.Parameters, sampleRate float64, guard *BufferGuard, recorder *Recorder) *Injector {
	return &Injector{model: model, params: params, sampleRate: sampleRate, guard: guard, recorder: recorder}
}

// Inject implements spec.md §4.5 steps 1-5 against one TraceResult, per
// ear, for every contribution the engine's strategy produced. sampleTime
// is the tick anchor in the sink's sample clock.
func (inj *Injector) Inject(result *trace.Result, batch *audio.IntBuffer, ears EarPositions, sampleTime int64, sink worldapi.SpatialMixSink) error {
	if batch.SourceBitDepth != 0 && batch.SourceBitDepth != 16 {
		return fmt.Errorf("inject: unsupported bit depth %d, want 16", batch.SourceBitDepth)
	}
	if len(batch.Data)%channels != 0 {
		return fmt.Errorf("inject: batch length %d not a multiple of %d channels", len(batch.Data), channels)
	}

	contributions := inj.contributions(result, ears)

	for _, c := range contributions {
		leftOut, rightOut := inj.renderEar(batch, c)

		if inj.guard != nil {
			inj.guard.Check("left", leftOut)
			inj.guard.Check("right", rightOut)
		}
		if inj.recorder != nil {
			inj.recorder.Capture(leftOut, rightOut)
		}

		leftDelaySamples := delayToSamples(c.leftDelayMs, inj.sampleRate)
		rightDelaySamples := delayToSamples(c.rightDelayMs, inj.sampleRate)

		sink.AddSpatialAudioToBuffer(sampleTime+leftDelaySamples, packInt16(leftOut), len(leftOut))
		sink.AddSpatialAudioToBuffer(sampleTime+rightDelaySamples, packInt16(rightOut), len(rightOut))
	}

	return nil
}

// contribution is one ear-delay/attenuation pair derived from either an
// AudiblePoint (diffusion engine) or a chain reflection segment (chain
// engine), per spec.md §4.5.
type contribution struct {
	leftDelayMs, rightDelayMs float64
	leftAtten, rightAtten     float64
}

// contributions builds the per-ear contribution list for result,
// branching on inj.params.Strategy: the diffusion engine's AudiblePoints
// already carry the gated surface-split attenuation, while the chain
// engine's Paths must be walked segment by segment (spec.md §4.5,
// "Chain engine" bullet). Under the diffusion strategy Paths must not
// also feed the contributions, since every AudiblePoint the
// diffusion engine emits is paired with the same reflection point
// appended to its path's Reflections.
func (inj *Injector) contributions(result *trace.Result, ears EarPositions) []contribution {
	var out []contribution

	if inj.params.Strategy == acoustics.Chain {
		for _, ps := range result.Paths {
			out = append(out, inj.fromChainPath(ps, ears)...)
		}
		return out
	}

	for _, p := range result.AudiblePoints {
		out = append(out, inj.fromAudiblePoint(p, ears))
	}
	return out
}

// fromAudiblePoint implements spec.md §4.5's diffusion-engine bullet: per
// ear, earDelayMs = delayFromDistance(|location-earPos|) + point.delayMs;
// earAtten = point.attenuation * distanceAttenuation(|location-earPos| +
// point.pathDistance).
func (inj *Injector) fromAudiblePoint(p trace.AudiblePoint, ears EarPositions) contribution {
	leftDist := geometry.Distance(p.Location, ears.Left)
	rightDist := geometry.Distance(p.Location, ears.Right)

	return contribution{
		leftDelayMs:  inj.model.DelayFromDistance(leftDist, false) + p.DelayMs,
		rightDelayMs: inj.model.DelayFromDistance(rightDist, false) + p.DelayMs,
		leftAtten:    p.Attenuation * inj.model.DistanceAttenuation(leftDist+p.PathDistance),
		rightAtten:   p.Attenuation * inj.model.DistanceAttenuation(rightDist+p.PathDistance),
	}
}

// fromChainPath walks one finished chain path's Reflections polyline,
// recomputing rightDistance/leftDistance segment-by-segment along the
// chain rather than from a precomputed pathDistance (spec.md §4.5), then
// closes each contribution with the distance from the reflection point to
// the actual ear position rather than a single shared listener point.
func (inj *Injector) fromChainPath(ps trace.PathState, ears EarPositions) []contribution {
	var out []contribution

	origin := ps.Origin
	pathDistance := 0.0
	bounceCount := 0

	for _, point := range ps.Reflections {
		pathDistance += geometry.Distance(origin, point)
		bounceCount++

		leftDist := geometry.Distance(point, ears.Left)
		rightDist := geometry.Distance(point, ears.Right)
		bounceAtten := inj.model.BounceAttenuation(bounceCount)

		out = append(out, contribution{
			leftDelayMs:  inj.model.DelayFromDistance(pathDistance+leftDist, true),
			rightDelayMs: inj.model.DelayFromDistance(pathDistance+rightDist, true),
			leftAtten:    inj.model.DistanceAttenuation(pathDistance+leftDist) * bounceAtten,
			rightAtten:   inj.model.DistanceAttenuation(pathDistance+rightDist) * bounceAtten,
		})

		origin = point
	}

	return out
}

// renderEar implements spec.md §4.5 steps 2-3: isolated per-ear buffers,
// left contribution filling only the left stereo channel and vice versa.
func (inj *Injector) renderEar(batch *audio.IntBuffer, c contribution) (left, right []int) {
	n := len(batch.Data)
	left = make([]int, n)
	right = make([]int, n)

	frames := n / channels
	for i := 0; i < frames; i++ {
		l := batch.Data[2*i]
		r := l
		if inj.params.StereoSource {
			r = batch.Data[2*i+1]
		}

		left[2*i] = int(float64(l) * c.leftAtten)
		left[2*i+1] = 0
		right[2*i] = 0
		right[2*i+1] = int(float64(r) * c.rightAtten)
	}

	return left, right
}

func delayToSamples(delayMs, sampleRate float64) int64 {
	return int64(delayMs*sampleRate/1000.0 + 0.5)
}

// packInt16 packs wrap-on-overflow 16-bit samples as little-endian bytes
// (spec.md §4.5 "Numeric notes": wrapping is the reference behavior).
func packInt16(samples []int) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(s)))
	}
	return out
}
