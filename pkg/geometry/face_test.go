package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalMatchesFace(t *testing.T) {
	assert.Equal(t, Vec3{X: -1}, Normal(FaceMinX))
	assert.Equal(t, Vec3{X: 1}, Normal(FaceMaxX))
	assert.Equal(t, Vec3{Y: 1}, Normal(FaceMaxY))
}

func TestReflectOffFlatNormal(t *testing.T) {
	incoming := Vec3{X: 1, Y: -1}
	n := Vec3{Y: 1}
	out := Reflect(incoming, n)
	assert.InDelta(t, 1.0, out.X, 1e-9)
	assert.InDelta(t, 1.0, out.Y, 1e-9)
}

func TestBoxFaceString(t *testing.T) {
	assert.Equal(t, "MIN_X", FaceMinX.String())
	assert.Equal(t, "MAX_Z", FaceMaxZ.String())
}
