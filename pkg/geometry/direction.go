// Package geometry provides the vector and orientation math the reflection
// engine needs: seed-direction generation, face normals, and jittered
// normals for imperfect surfaces.
package geometry

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is an alias for gonum's R3 vector type, kept as a named type in this
// package so callers don't need to import gonum directly for the common case.
type Vec3 = r3.Vec

// Quat is an alias for gonum's quaternion type, used for listener and head
// orientation.
type Quat = quat.Number

// Add returns a+b.
func Add(a, b Vec3) Vec3 { return r3.Add(a, b) }

// Sub returns a-b.
func Sub(a, b Vec3) Vec3 { return r3.Sub(a, b) }

// Scale returns v scaled by s.
func Scale(s float64, v Vec3) Vec3 { return r3.Scale(s, v) }

// Dot returns the dot product of a and b.
func Dot(a, b Vec3) float64 { return r3.Dot(a, b) }

// Norm returns the Euclidean length of v.
func Norm(v Vec3) float64 { return r3.Norm(v) }

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec3) float64 { return r3.Norm(r3.Sub(a, b)) }

// Unit returns v normalized to unit length. The zero vector is returned
// unchanged rather than producing NaNs.
func Unit(v Vec3) Vec3 {
	n := r3.Norm(v)
	if n == 0 {
		return v
	}
	return r3.Scale(1/n, v)
}

// Rotate applies orientation q to v, e.g. turning a body-relative seed
// direction into a world-space direction.
func Rotate(q Quat, v Vec3) Vec3 {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return Vec3{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// QuatDot returns the dot product of two orientations' components, used by
// ReverbController to decide whether the listener has rotated meaningfully
// (spec.md §9's suggested epsilon_q is a threshold on this value).
func QuatDot(a, b Quat) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}

// body-relative axial directions, before any orientation is applied.
var (
	axisRight = Vec3{X: 1, Y: 0, Z: 0}
	axisLeft  = Vec3{X: -1, Y: 0, Z: 0}
	axisUp    = Vec3{X: 0, Y: 1, Z: 0}
	axisDown  = Vec3{X: 0, Y: -1, Z: 0}
	axisFront = Vec3{X: 0, Y: 0, Z: -1}
	axisBack  = Vec3{X: 0, Y: 0, Z: 1}
)

// SeedDirections returns the 14 unit seed directions (spec.md §4.1) fired
// from the listener: the 6 axial directions and the 8 diagonals formed by
// the normalized sum of one front/back, one left/right, and one up/down
// axial direction, all rotated into world space by orientation q.
func SeedDirections(q Quat) [14]Vec3 {
	axial := [6]Vec3{axisRight, axisLeft, axisUp, axisDown, axisFront, axisBack}

	var dirs [14]Vec3
	for i, a := range axial {
		dirs[i] = Rotate(q, a)
	}

	depths := [2]Vec3{axisFront, axisBack}
	sides := [2]Vec3{axisLeft, axisRight}
	verticals := [2]Vec3{axisUp, axisDown}

	idx := 6
	for _, d := range depths {
		for _, s := range sides {
			for _, v := range verticals {
				sum := Add(Add(d, s), v)
				dirs[idx] = Rotate(q, Unit(sum))
				idx++
			}
		}
	}

	return dirs
}
