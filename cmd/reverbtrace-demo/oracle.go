package main

import (
	"math"

	"github.com/voxelworld/reverbtrace/pkg/geometry"
	"github.com/voxelworld/reverbtrace/pkg/worldapi"
)

// boxRoomOracle is a synthetic worldapi.RayHitOracle: a single axis-aligned
// rectangular room centered on the origin, standing in for a real voxel
// grid so the demo has something to bounce rays off of.
type boxRoomOracle struct {
	halfExtent geometry.Vec3
}

func newBoxRoomOracle(width, height, depth float64) *boxRoomOracle {
	return &boxRoomOracle{halfExtent: geometry.Vec3{X: width / 2, Y: height / 2, Z: depth / 2}}
}

// Intersect implements worldapi.RayHitOracle by slab-testing the ray
// against the room's six interior walls and returning the nearest forward
// hit.
func (o *boxRoomOracle) Intersect(start, dir geometry.Vec3) (worldapi.Hit, bool) {
	dir = geometry.Unit(dir)
	if dir == (geometry.Vec3{}) {
		return worldapi.Hit{}, false
	}

	bestT := math.Inf(1)
	bestFace := geometry.FaceMinX
	found := false

	tryAxis := func(originAxis, dirAxis, halfExtentAxis float64, minFace, maxFace geometry.BoxFace) {
		if dirAxis == 0 {
			return
		}
		for _, plane := range [2]struct {
			coord float64
			face  geometry.BoxFace
		}{
			{halfExtentAxis, maxFace},
			{-halfExtentAxis, minFace},
		} {
			t := (plane.coord - originAxis) / dirAxis
			if t <= 1e-9 {
				continue
			}
			if t < bestT {
				bestT = t
				bestFace = plane.face
				found = true
			}
		}
	}

	tryAxis(start.X, dir.X, o.halfExtent.X, geometry.FaceMinX, geometry.FaceMaxX)
	tryAxis(start.Y, dir.Y, o.halfExtent.Y, geometry.FaceMinY, geometry.FaceMaxY)
	tryAxis(start.Z, dir.Z, o.halfExtent.Z, geometry.FaceMinZ, geometry.FaceMaxZ)

	if !found {
		return worldapi.Hit{}, false
	}

	return worldapi.Hit{Distance: bestT, Face: bestFace, Element: "wall"}, true
}
