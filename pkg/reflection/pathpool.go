package reflection

import "github.com/voxelworld/reverbtrace/pkg/trace"

// PathPool bounds the number of simultaneously in-flight diffusion paths a
// trace may hold (spec.md §5's 10,000 ceiling), modeled on the teacher's
// pkg/framework/voice.Allocator: a fixed-capacity active set with an
// oldest-first eviction policy when a spawn would exceed capacity, rather
// than rejecting the spawn outright or aborting the trace (spec.md §7:
// "terminate all remaining paths, surface a count-based warning ... never
// abort the program" is satisfied per evicted path, not all at once, since
// eviction only fires when the explosion is actually happening).
type PathPool struct {
	capacity            int
	active              []*trace.PathState
	finished            []trace.PathState
	spawnedTotal        int
	runawayTerminations int
}

// NewPathPool creates a pool with the given active-path ceiling.
func NewPathPool(capacity int) *PathPool {
	return &PathPool{capacity: capacity}
}

// Spawn adds ps to the active set, evicting the oldest active path first if
// the pool is already at capacity.
func (p *PathPool) Spawn(ps *trace.PathState) {
	if len(p.active) >= p.capacity && len(p.active) > 0 {
		oldest := p.active[0]
		oldest.Terminated = true
		p.finished = append(p.finished, *oldest)
		p.active = p.active[1:]
		p.runawayTerminations++
	}
	p.active = append(p.active, ps)
	p.spawnedTotal++
}

// Active returns the current active-path slice. Callers iterate a fixed
// prefix of this slice per tick so paths spawned mid-tick are not stepped
// until the next tick (spec.md §4.3.2: "Each tick advances every
// non-terminated path by one step").
func (p *PathPool) Active() []*trace.PathState {
	return p.active
}

// HasActive reports whether any path remains in flight.
func (p *PathPool) HasActive() bool {
	return len(p.active) > 0
}

// Sweep removes terminated paths from the active set, moving them to the
// finished set, and returns the number still active afterward.
func (p *PathPool) Sweep() int {
	kept := p.active[:0]
	for _, ps := range p.active {
		if ps.Terminated {
			p.finished = append(p.finished, *ps)
			continue
		}
		kept = append(kept, ps)
	}
	p.active = kept
	return len(p.active)
}

// Finished returns every path that has terminated so far, including those
// evicted by the ceiling.
func (p *PathPool) Finished() []trace.PathState {
	return p.finished
}

// RunawayTerminations returns the number of paths evicted because the
// active-path ceiling was exceeded.
func (p *PathPool) RunawayTerminations() int {
	return p.runawayTerminations
}

// SpawnedTotal returns the total number of paths ever spawned in this pool,
// including primaries, diffusion children, and evicted paths.
func (p *PathPool) SpawnedTotal() int {
	return p.spawnedTotal
}
