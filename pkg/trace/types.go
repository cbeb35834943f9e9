// Package trace holds the value types produced and consumed by one
// reflection-engine trace pass: in-flight path state, the audible points a
// trace emits, and the aggregate TraceResult (spec.md §3).
package trace

import (
	"github.com/google/uuid"
	"github.com/voxelworld/reverbtrace/pkg/geometry"
)

// AudiblePoint is an immutable record of a point in space from which
// reflected or diffused sound reaches the listener (spec.md §3).
type AudiblePoint struct {
	Location     geometry.Vec3
	DelayMs      float64
	Attenuation  float64
	PathDistance float64
}

// PathState is the mutable record of one in-flight ray (spec.md §3). It
// exists only during a trace pass; finished paths are retained in
// Result.Paths for visualization, for aggregate statistics, and, under the
// chain strategy, as the source of the injector's contributions.
type PathState struct {
	ID          uuid.UUID
	Origin      geometry.Vec3
	Direction   geometry.Vec3
	DelayMs     float64
	Attenuation float64
	Distance    float64
	BounceDepth int
	Terminated  bool
	Reflections []geometry.Vec3
	SeedOrigin  geometry.Vec3
}

// IsPrimary reports whether this path originated directly from a seed
// direction rather than from a diffusion spawn (spec.md §3: classified by
// comparing Origin's lineage to SeedOrigin at spawn time; primaries are
// spawned with SeedOrigin == Origin).
func (p *PathState) IsPrimary() bool {
	return p.Origin == p.SeedOrigin
}

// Result is the output of one ReflectionEngine trace: the set of audible
// points consumed by SampleInjector, plus the finished path records kept
// for visualization (spec.md §3, TraceResult).
type Result struct {
	TraceID             uuid.UUID
	AudiblePoints       []AudiblePoint
	Paths               []PathState
	RunawayTerminations int
}

// NewResult creates an empty Result with a fresh trace ID for log/metric
// correlation (SPEC_FULL.md §3 "TraceResult identity").
func NewResult() *Result {
	return &Result{TraceID: uuid.New()}
}
