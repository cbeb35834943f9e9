package reflection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/quat"

	"github.com/voxelworld/reverbtrace/pkg/acoustics"
	"github.com/voxelworld/reverbtrace/pkg/geometry"
	"github.com/voxelworld/reverbtrace/pkg/logging"
	"github.com/voxelworld/reverbtrace/pkg/worldapi"
)

// boxOracle is a minimal cube room for exercising the engine without a
// real voxel grid.
type boxOracle struct {
	half float64
}

func (b *boxOracle) Intersect(start, dir geometry.Vec3) (worldapi.Hit, bool) {
	dir = geometry.Unit(dir)
	best := -1.0
	bestFace := geometry.FaceMinX

	test := func(origin, d, half float64, minFace, maxFace geometry.BoxFace) {
		if d == 0 {
			return
		}
		for _, c := range [2]struct {
			coord float64
			face  geometry.BoxFace
		}{{half, maxFace}, {-half, minFace}} {
			t := (c.coord - origin) / d
			if t > 1e-9 && (best < 0 || t < best) {
				best = t
				bestFace = c.face
			}
		}
	}

	test(start.X, dir.X, b.half, geometry.FaceMinX, geometry.FaceMaxX)
	test(start.Y, dir.Y, b.half, geometry.FaceMinY, geometry.FaceMaxY)
	test(start.Z, dir.Z, b.half, geometry.FaceMinZ, geometry.FaceMaxZ)

	if best < 0 {
		return worldapi.Hit{}, false
	}
	return worldapi.Hit{Distance: best, Face: bestFace, Element: "wall"}, true
}

// missOracle never reports a hit, exercising the immediate-termination path.
type missOracle struct{}

func (missOracle) Intersect(start, dir geometry.Vec3) (worldapi.Hit, bool) {
	return worldapi.Hit{}, false
}

func TestTraceChainProducesOnePathPerSeed(t *testing.T) {
	params, err := acoustics.NewParametersBuilder().WithStrategy(acoustics.Chain).Build()
	require.NoError(t, err)
	model := acoustics.NewModel(params, nil)
	oracle := &boxOracle{half: 5}
	jitter := geometry.NewJitter(1)

	e := New(params, model, oracle, jitter, logging.Default(), acoustics.MaxActivePaths)
	result := e.Trace(geometry.Vec3{}, quat.Number{Real: 1})

	assert.Len(t, result.Paths, 14)
	for _, p := range result.Paths {
		assert.True(t, p.Terminated)
		assert.NotEmpty(t, p.Reflections)
	}
}

func TestTraceChainTerminatesImmediatelyOnMiss(t *testing.T) {
	params, err := acoustics.NewParametersBuilder().WithStrategy(acoustics.Chain).Build()
	require.NoError(t, err)
	model := acoustics.NewModel(params, nil)
	jitter := geometry.NewJitter(1)

	e := New(params, model, missOracle{}, jitter, logging.Default(), acoustics.MaxActivePaths)
	result := e.Trace(geometry.Vec3{}, quat.Number{Real: 1})

	assert.Len(t, result.Paths, 14)
	for _, p := range result.Paths {
		assert.Empty(t, p.Reflections)
	}
}

func TestTraceDiffusionProducesAudiblePoints(t *testing.T) {
	params, err := acoustics.NewParametersBuilder().WithStrategy(acoustics.Diffusion).WithDiffusionFanout(2).Build()
	require.NoError(t, err)
	model := acoustics.NewModel(params, nil)
	oracle := &boxOracle{half: 3}
	jitter := geometry.NewJitter(5)

	e := New(params, model, oracle, jitter, logging.Default(), 500)
	result := e.Trace(geometry.Vec3{}, quat.Number{Real: 1})

	assert.NotEmpty(t, result.AudiblePoints)
	for _, p := range result.AudiblePoints {
		assert.GreaterOrEqual(t, p.Attenuation, 0.0)
		assert.Less(t, p.DelayMs, acoustics.MaxDelayMs)
	}
}

func TestTraceDiffusionRespectsActivePathCeiling(t *testing.T) {
	params, err := acoustics.NewParametersBuilder().
		WithStrategy(acoustics.Diffusion).
		WithDiffusionFanout(8).
		WithAbsorption(0).
		WithDiffusionRatio(0.9).
		Build()
	require.NoError(t, err)
	model := acoustics.NewModel(params, nil)
	oracle := &boxOracle{half: 3}
	jitter := geometry.NewJitter(3)

	e := New(params, model, oracle, jitter, logging.Default(), 20)
	result := e.Trace(geometry.Vec3{}, quat.Number{Real: 1})

	assert.LessOrEqual(t, len(result.Paths), 20+result.RunawayTerminations+14)
}

// TestDiffusionMatchesChainBounceCountWhenFanoutIsZero is the scenario 4
// regression from spec.md §8: a closed, fully reflective box with
// DiffusionFanout=0 must make the diffusion engine reproduce the chain
// engine's bounce count exactly (testable property 5). The box is sized
// so cumulative path distance never approaches the attenuation floor,
// isolating the bounce-count parity from any early termination on
// attenuation or delay.
func TestDiffusionMatchesChainBounceCountWhenFanoutIsZero(t *testing.T) {
	oracle := &boxOracle{half: 0.05}

	chainParams, err := acoustics.NewParametersBuilder().
		WithStrategy(acoustics.Chain).
		WithAbsorption(0).
		WithDiffusionRatio(0).
		Build()
	require.NoError(t, err)
	chainModel := acoustics.NewModel(chainParams, nil)
	chainEngine := New(chainParams, chainModel, oracle, geometry.NewJitter(1), logging.Default(), acoustics.MaxActivePaths)
	chainResult := chainEngine.Trace(geometry.Vec3{}, quat.Number{Real: 1})

	diffusionParams, err := acoustics.NewParametersBuilder().
		WithStrategy(acoustics.Diffusion).
		WithDiffusionFanout(0).
		WithAbsorption(0).
		WithDiffusionRatio(0).
		Build()
	require.NoError(t, err)
	diffusionModel := acoustics.NewModel(diffusionParams, nil)
	diffusionEngine := New(diffusionParams, diffusionModel, oracle, geometry.NewJitter(1), logging.Default(), acoustics.MaxActivePaths)
	diffusionResult := diffusionEngine.Trace(geometry.Vec3{}, quat.Number{Real: 1})

	chainBounces := 0
	for _, p := range chainResult.Paths {
		chainBounces += len(p.Reflections)
		assert.LessOrEqual(t, p.BounceDepth, acoustics.MaxBounces)
	}

	for _, p := range diffusionResult.Paths {
		assert.LessOrEqual(t, p.BounceDepth, acoustics.MaxBounces)
	}

	assert.Equal(t, 140, chainBounces)
	assert.Equal(t, chainBounces, len(diffusionResult.AudiblePoints))
}

func TestTraceIsDeterministicGivenSeed(t *testing.T) {
	params, err := acoustics.NewParametersBuilder().WithStrategy(acoustics.Diffusion).Build()
	require.NoError(t, err)
	model := acoustics.NewModel(params, nil)
	oracle := &boxOracle{half: 4}

	e1 := New(params, model, oracle, geometry.NewJitter(99), logging.Default(), acoustics.MaxActivePaths)
	e2 := New(params, model, oracle, geometry.NewJitter(99), logging.Default(), acoustics.MaxActivePaths)

	r1 := e1.Trace(geometry.Vec3{}, quat.Number{Real: 1})
	r2 := e2.Trace(geometry.Vec3{}, quat.Number{Real: 1})

	require.Equal(t, len(r1.AudiblePoints), len(r2.AudiblePoints))
	for i := range r1.AudiblePoints {
		assert.InDelta(t, r1.AudiblePoints[i].DelayMs, r2.AudiblePoints[i].DelayMs, 1e-9)
		assert.InDelta(t, r1.AudiblePoints[i].Attenuation, r2.AudiblePoints[i].Attenuation, 1e-9)
	}
}
