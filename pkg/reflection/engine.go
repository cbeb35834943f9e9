// Package reflection implements the ray-tracing reflection engine: firing
// the 14 seed directions from the listener, bouncing them off voxel
// surfaces, and — when diffusion is enabled — spawning scattered children
// at each bounce (spec.md §4.3).
package reflection

import (
	"github.com/google/uuid"

	"github.com/voxelworld/reverbtrace/pkg/acoustics"
	"github.com/voxelworld/reverbtrace/pkg/geometry"
	"github.com/voxelworld/reverbtrace/pkg/logging"
	"github.com/voxelworld/reverbtrace/pkg/trace"
	"github.com/voxelworld/reverbtrace/pkg/worldapi"
)

// Engine fires seed rays from the listener and produces a trace.Result
// using whichever strategy params.Strategy selects (spec.md §9: "Dispatch
// between engines ... model as a tagged variant, not polymorphic objects").
type Engine struct {
	params         *acoustics.Parameters
	model          *acoustics.Model
	oracle         worldapi.RayHitOracle
	jitter         *geometry.Jitter
	log            *logging.Logger
	maxActivePaths int
}

// New creates a ReflectionEngine. maxActivePaths bounds diffusion spawning
// (spec.md §5); pass acoustics.MaxActivePaths for the spec default.
func New(params *acoustics.Parameters, model *acoustics.Model, oracle worldapi.RayHitOracle, jitter *geometry.Jitter, log *logging.Logger, maxActivePaths int) *Engine {
	if log == nil {
		log = logging.Default()
	}
	return &Engine{
		params:         params,
		model:          model,
		oracle:         oracle,
		jitter:         jitter,
		log:            log,
		maxActivePaths: maxActivePaths,
	}
}

// Trace fires the 14 seed directions from listener, rotated by orientation,
// and runs whichever strategy params.Strategy selects.
func (e *Engine) Trace(listener geometry.Vec3, orientation geometry.Quat) *trace.Result {
	seeds := geometry.SeedDirections(orientation)
	result := trace.NewResult()

	switch e.params.Strategy {
	case acoustics.Chain:
		e.traceChain(listener, seeds, result)
	default:
		e.traceDiffusion(listener, seeds, result)
	}

	return result
}

// traceChain runs the single-bounce-chain strategy (spec.md §4.3.1): one
// chain per seed direction, terminating on miss, the min-attenuation floor,
// the delay ceiling, or the bounce ceiling.
func (e *Engine) traceChain(listener geometry.Vec3, seeds [14]geometry.Vec3, result *trace.Result) {
	for _, dir := range seeds {
		result.Paths = append(result.Paths, e.runChain(listener, dir))
	}
}

func (e *Engine) runChain(listener, dir0 geometry.Vec3) trace.PathState {
	ps := trace.PathState{
		ID:         uuid.New(),
		Origin:     listener,
		Direction:  dir0,
		SeedOrigin: listener,
	}

	start := listener
	dir := dir0
	pathDistance := 0.0
	bounceCount := 0

	for {
		hit, ok := e.oracle.Intersect(start, dir)
		if !ok {
			break
		}

		end := geometry.Add(start, geometry.Scale(hit.Distance*acoustics.SlightlyShort, dir))
		segLen := geometry.Distance(start, end)
		pathDistance += segLen
		earDistance := geometry.Distance(end, listener)
		bounceCount++

		totalDelay := e.model.DelayFromDistance(earDistance+pathDistance, true)
		attenuation := e.model.DistanceAttenuation(earDistance+pathDistance) * e.model.BounceAttenuation(bounceCount)

		ps.Reflections = append(ps.Reflections, end)
		ps.DelayMs = totalDelay
		ps.Attenuation = attenuation
		ps.Distance = pathDistance
		ps.BounceDepth = bounceCount

		if attenuation <= acoustics.MinAttenuation || totalDelay >= acoustics.MaxDelayMs || bounceCount >= acoustics.MaxBounces {
			break
		}

		normal := e.jitter.JitteredNormal(hit.Face, e.params.JitterNormals)
		dir = geometry.Reflect(dir, normal)
		start = end
	}

	ps.Terminated = true
	return ps
}

// traceDiffusion runs the diffusion strategy (spec.md §4.3.2): a bounded
// queue of active paths, advanced one step per tick, spawning scattered
// children at each bounce and emitting audible points as gated by the
// surface's reflective/diffusion split.
func (e *Engine) traceDiffusion(listener geometry.Vec3, seeds [14]geometry.Vec3, result *trace.Result) {
	pool := NewPathPool(e.maxActivePaths)

	initDelay := 0.0
	if e.params.PreDelayMs > 0 {
		initDelay = e.params.PreDelayMs
	}

	for _, dir := range seeds {
		pool.Spawn(&trace.PathState{
			ID:          uuid.New(),
			Origin:      listener,
			Direction:   dir,
			DelayMs:     initDelay,
			Attenuation: 1,
			SeedOrigin:  listener,
		})
	}

	for pool.HasActive() {
		// Only step the paths already active at the start of this tick;
		// children spawned below are stepped on the next tick.
		tickCount := len(pool.Active())
		batch := pool.Active()[:tickCount]

		for _, ps := range batch {
			e.stepDiffusionPath(ps, listener, pool, result)
		}

		pool.Sweep()
	}

	result.Paths = append(result.Paths, pool.Finished()...)
	result.RunawayTerminations = pool.RunawayTerminations()

	if n := pool.RunawayTerminations(); n > 0 {
		e.log.Warn("diffusion active-path ceiling exceeded",
			"terminations", n, "ceiling", e.maxActivePaths, "spawned", pool.SpawnedTotal())
	}
}

// stepDiffusionPath advances one diffusion path by one bounce (spec.md
// §4.3.2 steps 1-7).
func (e *Engine) stepDiffusionPath(ps *trace.PathState, listener geometry.Vec3, pool *PathPool, result *trace.Result) {
	if ps.BounceDepth >= acoustics.MaxBounces {
		ps.Terminated = true
		return
	}

	hit, ok := e.oracle.Intersect(ps.Origin, ps.Direction)
	if !ok {
		ps.Terminated = true
		return
	}

	end := geometry.Add(ps.Origin, geometry.Scale(hit.Distance*acoustics.SlightlyShort, ps.Direction))
	segLen := geometry.Distance(ps.Origin, end)
	newDistance := ps.Distance + segLen
	toListener := geometry.Distance(end, listener)

	newDelay := ps.DelayMs + e.model.DelayFromDistance(segLen, false)
	totalDelay := newDelay + e.model.DelayFromDistance(toListener, false)
	attenToListener := e.model.DistanceAttenuation(toListener + newDistance)

	surf := e.model.Surface(hit.Element)
	reflAtten := ps.Attenuation * surf.Reflective
	diffTotal := ps.Attenuation * surf.Diffusion

	var diffEach float64
	if e.params.DiffusionFanout >= 1 {
		diffEach = diffTotal / float64(e.params.DiffusionFanout)
	}

	if diffEach*attenToListener > acoustics.MinAttenuation && totalDelay < acoustics.MaxDelayMs {
		for i := 0; i < e.params.DiffusionFanout; i++ {
			childDir := e.jitter.DiffusionDirection(hit.Face)
			pool.Spawn(&trace.PathState{
				ID:          uuid.New(),
				Origin:      end,
				Direction:   childDir,
				DelayMs:     newDelay,
				Attenuation: diffEach,
				Distance:    newDistance,
				SeedOrigin:  end,
			})
		}
	}

	if (reflAtten+diffTotal)*attenToListener > acoustics.MinAttenuation && totalDelay < acoustics.MaxDelayMs {
		result.AudiblePoints = append(result.AudiblePoints, trace.AudiblePoint{
			Location:     end,
			DelayMs:      newDelay,
			Attenuation:  reflAtten + diffTotal,
			PathDistance: newDistance,
		})
		ps.Reflections = append(ps.Reflections, end)
	}

	if reflAtten*attenToListener > acoustics.MinAttenuation {
		normal := e.jitter.JitteredNormal(hit.Face, e.params.JitterNormals)
		ps.Origin = end
		ps.Direction = geometry.Reflect(ps.Direction, normal)
		ps.DelayMs = newDelay
		ps.Attenuation = reflAtten
		ps.Distance = newDistance
		ps.BounceDepth++
		return
	}

	ps.Terminated = true
}
