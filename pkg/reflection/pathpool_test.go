package reflection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voxelworld/reverbtrace/pkg/trace"
)

func TestPathPoolSpawnWithinCapacity(t *testing.T) {
	pool := NewPathPool(3)
	pool.Spawn(&trace.PathState{})
	pool.Spawn(&trace.PathState{})

	assert.Equal(t, 2, len(pool.Active()))
	assert.Equal(t, 0, pool.RunawayTerminations())
}

func TestPathPoolEvictsOldestOnOverflow(t *testing.T) {
	pool := NewPathPool(2)
	first := &trace.PathState{Distance: 1}
	second := &trace.PathState{Distance: 2}
	third := &trace.PathState{Distance: 3}

	pool.Spawn(first)
	pool.Spawn(second)
	pool.Spawn(third)

	assert.Equal(t, 2, len(pool.Active()))
	assert.Equal(t, 1, pool.RunawayTerminations())
	assert.True(t, first.Terminated)
	assert.Equal(t, second, pool.Active()[0])
	assert.Equal(t, third, pool.Active()[1])
}

func TestPathPoolSweepMovesTerminatedToFinished(t *testing.T) {
	pool := NewPathPool(5)
	alive := &trace.PathState{}
	dead := &trace.PathState{Terminated: true}

	pool.Spawn(alive)
	pool.Spawn(dead)

	remaining := pool.Sweep()
	assert.Equal(t, 1, remaining)
	assert.Len(t, pool.Finished(), 1)
	assert.True(t, pool.HasActive())
}

func TestPathPoolSpawnedTotalCountsEvictions(t *testing.T) {
	pool := NewPathPool(1)
	pool.Spawn(&trace.PathState{})
	pool.Spawn(&trace.PathState{})
	pool.Spawn(&trace.PathState{})

	assert.Equal(t, 3, pool.SpawnedTotal())
}
