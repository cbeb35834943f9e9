package acoustics

// Wire-visible constants from spec.md §6.
const (
	// MinAttenuation is the amplitude floor below which a path or audible
	// point is considered inaudible and dropped.
	MinAttenuation = 1.0 / 256.0

	// MaxDelayMs is the hard ceiling on accumulated delay for any path or
	// audible point.
	MaxDelayMs = 20000.0

	// MaxBounces is the maximum bounce depth a path may reach before it is
	// terminated regardless of remaining attenuation.
	MaxBounces = 10

	// SlightlyShort pulls a computed reflection point back toward the ray
	// origin so it lands just inside the hit surface, avoiding self-
	// intersection on the next bounce.
	SlightlyShort = 0.999

	// MaxActivePaths is the hard ceiling on simultaneously in-flight
	// diffusion paths in one trace (spec.md §5).
	MaxActivePaths = 10000
)

// Default parameter values from spec.md §6.
const (
	DefaultMsPerMeter      = 3.0
	DefaultPreDelayMs      = 20.0
	DefaultDistanceScale   = 2.0
	DefaultDiffusionFanout = 5
	DefaultAbsorptionRatio = 0.125
	DefaultDiffusionRatio  = 0.125
)

// geometric spreading curve constants for distanceAttenuation (spec.md §4.2).
const (
	gaBase  = 0.3
	logBase = 2.5
)
