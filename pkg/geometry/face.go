package geometry

import "fmt"

// BoxFace tags which axis-aligned voxel face a ray hit, as returned by
// worldapi.RayHitOracle (spec.md §6).
type BoxFace int

const (
	// FaceMinX is the voxel face with outward normal -X.
	FaceMinX BoxFace = iota
	// FaceMaxX is the voxel face with outward normal +X.
	FaceMaxX
	// FaceMinY is the voxel face with outward normal -Y.
	FaceMinY
	// FaceMaxY is the voxel face with outward normal +Y.
	FaceMaxY
	// FaceMinZ is the voxel face with outward normal -Z.
	FaceMinZ
	// FaceMaxZ is the voxel face with outward normal +Z.
	FaceMaxZ
)

// String implements fmt.Stringer for log output.
func (f BoxFace) String() string {
	switch f {
	case FaceMinX:
		return "MIN_X"
	case FaceMaxX:
		return "MAX_X"
	case FaceMinY:
		return "MIN_Y"
	case FaceMaxY:
		return "MAX_Y"
	case FaceMinZ:
		return "MIN_Z"
	case FaceMaxZ:
		return "MAX_Z"
	default:
		return fmt.Sprintf("BoxFace(%d)", int(f))
	}
}

// Normal returns the unit outward normal for a voxel face.
func Normal(f BoxFace) Vec3 {
	switch f {
	case FaceMinX:
		return Vec3{X: -1}
	case FaceMaxX:
		return Vec3{X: 1}
	case FaceMinY:
		return Vec3{Y: -1}
	case FaceMaxY:
		return Vec3{Y: 1}
	case FaceMinZ:
		return Vec3{Z: -1}
	case FaceMaxZ:
		return Vec3{Z: 1}
	default:
		return Vec3{}
	}
}

// tangents returns two unit vectors orthogonal to each other and to the
// face normal, used to build jittered normals and diffusion hemisphere
// directions without picking a degenerate basis.
func tangents(f BoxFace) (Vec3, Vec3) {
	switch f {
	case FaceMinX, FaceMaxX:
		return Vec3{Y: 1}, Vec3{Z: 1}
	case FaceMinY, FaceMaxY:
		return Vec3{X: 1}, Vec3{Z: 1}
	default:
		return Vec3{X: 1}, Vec3{Y: 1}
	}
}

// Reflect reflects direction d about unit normal n.
func Reflect(d, n Vec3) Vec3 {
	return Sub(d, Scale(2*Dot(d, n), n))
}
