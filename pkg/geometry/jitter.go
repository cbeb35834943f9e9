package geometry

import "math/rand"

// Jitter draws the small per-surface randomization the reflection engine
// applies to face normals (spec.md §4.1) and to diffusion hemisphere
// directions (spec.md §4.3.2 step 5). It wraps a seedable *rand.Rand the
// same way the teacher's dsp/utility.NoiseGenerator does, so a trace run
// with a fixed seed is fully reproducible (spec.md §4.3.2 Determinism).
type Jitter struct {
	rnd *rand.Rand
}

// NewJitter creates a Jitter seeded for reproducible traces. Pass a fixed
// seed in tests; production callers may seed from a time-derived source.
func NewJitter(seed int64) *Jitter {
	return &Jitter{rnd: rand.New(rand.NewSource(seed))}
}

// uniform returns a float64 uniformly drawn from [lo, hi).
func (j *Jitter) uniform(lo, hi float64) float64 {
	return lo + j.rnd.Float64()*(hi-lo)
}

// sign returns +1 or -1 with equal probability.
func (j *Jitter) sign() float64 {
	if j.rnd.Intn(2) == 0 {
		return -1
	}
	return 1
}

// JitteredNormal returns the unit normal for face f, optionally perturbed:
// the normal-component magnitude is drawn from [0.99, 1.0] and the two
// tangential components are each (1-magnitude)/2 times a random sign
// (spec.md §4.1). When enabled is false the exact face normal is returned.
func (j *Jitter) JitteredNormal(f BoxFace, enabled bool) Vec3 {
	n := Normal(f)
	if !enabled {
		return n
	}

	magnitude := j.uniform(0.99, 1.0)
	tangentMag := (1 - magnitude) / 2

	t1, t2 := tangents(f)
	perturbed := Add(
		Scale(magnitude, n),
		Add(Scale(tangentMag*j.sign(), t1), Scale(tangentMag*j.sign(), t2)),
	)
	return Unit(perturbed)
}

// DiffusionDirection draws one scattered child direction from the
// hemisphere around face f's normal (spec.md §4.3.2 step 5): the principal
// component r is drawn from [0.5, 1] along the normal axis, and the two
// tangential components are each (1-r)/2 with a random sign.
func (j *Jitter) DiffusionDirection(f BoxFace) Vec3 {
	n := Normal(f)
	r := j.uniform(0.5, 1.0)
	tangentMag := (1 - r) / 2

	t1, t2 := tangents(f)
	dir := Add(
		Scale(r, n),
		Add(Scale(tangentMag*j.sign(), t1), Scale(tangentMag*j.sign(), t2)),
	)
	return Unit(dir)
}
