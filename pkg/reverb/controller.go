// Package reverb implements ReverbController (spec.md §4.4): the
// staleness-gated coordinator that decides when to retrace, caches the
// last TraceResult, and forwards inbound audio batches to SampleInjector.
package reverb

import (
	"sync"

	"github.com/go-audio/audio"

	"github.com/voxelworld/reverbtrace/pkg/acoustics"
	"github.com/voxelworld/reverbtrace/pkg/geometry"
	"github.com/voxelworld/reverbtrace/pkg/inject"
	"github.com/voxelworld/reverbtrace/pkg/logging"
	"github.com/voxelworld/reverbtrace/pkg/reflection"
	"github.com/voxelworld/reverbtrace/pkg/trace"
	"github.com/voxelworld/reverbtrace/pkg/worldapi"
)

// Thresholds gates retracing (spec.md §9's suggested epsilons): small
// absolute position/orientation deltas below which a pose change is
// treated as noise rather than movement.
type Thresholds struct {
	PositionEpsilon    float64
	OrientationEpsilon float64 // minimum acceptable geometry.QuatDot; spec.md §9 suggests >= 0.9999
}

// DefaultThresholds returns spec.md §9's suggested values: 1cm position,
// 0.9999 orientation dot product.
func DefaultThresholds() Thresholds {
	return Thresholds{PositionEpsilon: 0.01, OrientationEpsilon: 0.9999}
}

// cachedPose is the last pose a trace was computed from, used to decide
// staleness on the next tick (spec.md §4.4 step 2).
type cachedPose struct {
	valid         bool
	position      geometry.Vec3
	orientation   geometry.Quat
	leftEar       geometry.Vec3
	rightEar      geometry.Vec3
	withDiffusion bool
}

// Controller holds the cached TraceResult and pose, and decides on each
// render tick whether to retrace (spec.md §4.4).
type Controller struct {
	mu sync.RWMutex

	engine *reflection.Engine
	params *acoustics.Parameters
	model  *acoustics.Model
	inj    *inject.Injector
	stats  *StatsTracker
	log    *logging.Logger

	thresholds Thresholds

	pose   cachedPose
	result *trace.Result
}

// New creates a Controller wired to engine for tracing, inj for sample
// injection, and stats for aggregate statistics.
func New(engine *reflection.Engine, params *acoustics.Parameters, model *acoustics.Model, inj *inject.Injector, stats *StatsTracker, log *logging.Logger, thresholds Thresholds) *Controller {
	if log == nil {
		log = logging.Default()
	}
	return &Controller{
		engine:     engine,
		params:     params,
		model:      model,
		inj:        inj,
		stats:      stats,
		log:        log,
		thresholds: thresholds,
	}
}

// Render implements spec.md §4.4's four-step render tick: pull the pose,
// decide staleness, retrace if stale, and forward batch to the injector
// regardless.
func (c *Controller) Render(pose worldapi.ListenerPose, batch *audio.IntBuffer, sampleTime int64, sink worldapi.SpatialMixSink) error {
	orientation := pose.Orientation
	if c.params.HeadOriented {
		orientation = pose.HeadOrientation
	}

	ears := inject.Resolve(pose, c.params.SeparateEars)

	if c.isStale(pose.Position, orientation, ears) {
		result := c.engine.Trace(pose.Position, orientation)

		c.mu.Lock()
		c.result = result
		c.pose = cachedPose{
			valid:         true,
			position:      pose.Position,
			orientation:   orientation,
			leftEar:       ears.Left,
			rightEar:      ears.Right,
			withDiffusion: c.params.Strategy == acoustics.Diffusion,
		}
		c.mu.Unlock()

		c.stats.RecomputeFromResult(result, result.RunawayTerminations)

		c.log.Debug("retraced", "trace_id", result.TraceID, "audible_points", len(result.AudiblePoints), "paths", len(result.Paths))
	}

	c.mu.RLock()
	result := c.result
	if result == nil {
		c.mu.RUnlock()
		return nil
	}

	err := c.inj.Inject(result, batch, ears, sampleTime, sink)
	c.mu.RUnlock()
	if err != nil {
		return err
	}

	if c.params.Strategy == acoustics.Chain {
		delays, attens := collectChainStats(result)
		c.stats.RecomputeFromDelaysAttens(delays, attens)
	}

	return nil
}

// isStale implements spec.md §4.4 step 2.
func (c *Controller) isStale(position geometry.Vec3, orientation geometry.Quat, ears inject.EarPositions) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pose
	if !p.valid {
		return true
	}
	if geometry.Distance(position, p.position) > c.thresholds.PositionEpsilon {
		return true
	}
	if geometry.QuatDot(orientation, p.orientation) < c.thresholds.OrientationEpsilon {
		return true
	}
	if geometry.Distance(ears.Left, p.leftEar) > c.thresholds.PositionEpsilon {
		return true
	}
	if geometry.Distance(ears.Right, p.rightEar) > c.thresholds.PositionEpsilon {
		return true
	}
	if p.withDiffusion != (c.params.Strategy == acoustics.Diffusion) {
		return true
	}
	return false
}

// Stats returns the current aggregate statistics snapshot.
func (c *Controller) Stats() Stats {
	return c.stats.Snapshot()
}

// collectChainStats flattens every chain path's running delay/attenuation
// into the flat slices StatsTracker.RecomputeFromDelaysAttens expects,
// recomputed on each inbound batch for the chain engine (spec.md §4.4).
func collectChainStats(result *trace.Result) (delays, attens []float64) {
	for _, p := range result.Paths {
		delays = append(delays, p.DelayMs)
		attens = append(attens, p.Attenuation)
	}
	return delays, attens
}
