// Package worldapi defines the interfaces this module's core consumes but
// does not implement: voxel intersection, the downstream spatial mixer,
// and the listener pose source (spec.md §1, §6). The core never mutates
// anything reached through these interfaces.
package worldapi

import "github.com/voxelworld/reverbtrace/pkg/geometry"

// ElementHandle is an opaque identifier for whatever voxel or world element
// a ray hit, passed back into AcousticModel's surface lookup unexamined by
// default (spec.md §4.2).
type ElementHandle interface{}

// Hit is the result of a successful RayHitOracle.Intersect call.
type Hit struct {
	Distance float64
	Face     geometry.BoxFace
	Element  ElementHandle
}

// RayHitOracle is the voxel-vs-ray intersection primitive this module
// consumes. Implementations MUST be safe for concurrent read access; the
// core never writes through this interface (spec.md §6).
type RayHitOracle interface {
	// Intersect returns the first surface hit along the ray from start in
	// direction dir, or ok=false if nothing was hit.
	Intersect(start, dir geometry.Vec3) (hit Hit, ok bool)
}

// SpatialMixSink is the downstream mixer that accepts delayed per-ear PCM
// contributions (spec.md §6). sampleTimeAnchor is measured in the sink's
// own sample clock; pcm is raw little-endian 16-bit stereo-interleaved
// audio, sampleCount is the number of int16 values in pcm.
type SpatialMixSink interface {
	AddSpatialAudioToBuffer(sampleTimeAnchor int64, pcm []byte, sampleCount int)
}

// ListenerPose is a snapshot of the listener's position, orientation, and
// ear positions for one render tick (spec.md §6).
type ListenerPose struct {
	Position         geometry.Vec3
	Orientation      geometry.Quat
	HeadOrientation  geometry.Quat
	LeftEarPosition  geometry.Vec3
	RightEarPosition geometry.Vec3
}

// ListenerPoseSource yields the current listener pose, e.g. from a camera
// or avatar controller.
type ListenerPoseSource interface {
	Pose() ListenerPose
}

// PathVisualizer is the out-of-scope OpenGL-style path renderer; the core
// treats it as a pure consumer of the same reflection points and audible
// points a trace produces (spec.md §1).
type PathVisualizer interface {
	DrawReflectionPath(points []geometry.Vec3)
	DrawAudiblePoint(location geometry.Vec3, attenuation float64)
}
