package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/num/quat"
)

func TestSeedDirectionsCountAndUnitLength(t *testing.T) {
	dirs := SeedDirections(quat.Number{Real: 1})
	assert.Len(t, dirs, 14)
	for i, d := range dirs {
		assert.InDelta(t, 1.0, Norm(d), 1e-9, "direction %d not unit length", i)
	}
}

func TestSeedDirectionsRotateWithOrientation(t *testing.T) {
	identity := SeedDirections(quat.Number{Real: 1})

	// 90 degree rotation about Y.
	half := 0.7071067811865476
	yaw90 := quat.Number{Real: half, Jmag: half}
	rotated := SeedDirections(yaw90)

	assert.NotEqual(t, identity, rotated)
	for i := range identity {
		assert.InDelta(t, 1.0, Norm(rotated[i]), 1e-9)
	}
}

func TestDistanceAndUnit(t *testing.T) {
	a := Vec3{X: 0, Y: 0, Z: 0}
	b := Vec3{X: 3, Y: 4, Z: 0}
	assert.InDelta(t, 5.0, Distance(a, b), 1e-9)

	u := Unit(b)
	assert.InDelta(t, 1.0, Norm(u), 1e-9)
}

func TestUnitOfZeroVectorIsUnchanged(t *testing.T) {
	z := Vec3{}
	assert.Equal(t, z, Unit(z))
}

func TestQuatDotIdentity(t *testing.T) {
	q := quat.Number{Real: 1}
	assert.InDelta(t, 1.0, QuatDot(q, q), 1e-9)
}
