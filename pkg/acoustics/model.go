package acoustics

import "math"

// Surface describes the three-way energy split a reflection point's
// material applies (spec.md §3, §4.2): reflective + absorption + diffusion
// sum to 1.
type Surface struct {
	Reflective float64
	Absorption float64
	Diffusion  float64
}

// MaterialLookup resolves a per-voxel material given the oracle's opaque
// element handle. A Model built without one returns the global ratios from
// Parameters; a host MAY supply one to look up per-voxel material
// (spec.md §4.2).
type MaterialLookup func(element interface{}) (absorption, diffusion float64, ok bool)

// Model implements the pure AcousticModel formulas of spec.md §4.2,
// closed over a validated set of Parameters.
type Model struct {
	params   *Parameters
	material MaterialLookup
	lnBase   float64 // ln(b), b = 2.5, used to compute log_b(x) = ln(x)/ln(b)
}

// kTerm is k = log_b(2.5) with b = 2.5, which is always 1.
const kTerm = 1.0

// NewModel creates a Model for the given validated parameters. material may
// be nil, in which case surface() always returns the global ratios.
func NewModel(params *Parameters, material MaterialLookup) *Model {
	return &Model{
		params:   params,
		material: material,
		lnBase:   math.Log(logBase),
	}
}

// DelayFromDistance returns msPerMeter*d, plus preDelayMs only when
// addPreDelay is true (spec.md §4.2: the chain engine adds pre-delay here
// when enabled; the diffusion engine applies pre-delay once at seed time
// and must pass addPreDelay=false).
func (m *Model) DelayFromDistance(d float64, addPreDelay bool) float64 {
	delay := m.params.MsPerMeter * d
	if addPreDelay {
		delay += m.params.PreDelayMs
	}
	return delay
}

// DistanceAttenuation implements the geometric-spreading curve of spec.md
// §4.2: min(1, distanceScale * GA^(k + 0.5*log_b(d^2) - 1)), clamped to 1
// at close range. d==0 is treated as the curve's limit (full attenuation
// of 1, scaled by distanceScale), avoiding log(0).
func (m *Model) DistanceAttenuation(d float64) float64 {
	if d <= 0 {
		return math.Min(1, m.params.DistanceScale)
	}
	logD2 := math.Log(d*d) / m.lnBase
	exponent := kTerm + 0.5*logD2 - 1
	value := m.params.DistanceScale * math.Pow(gaBase, exponent)
	return math.Min(1, value)
}

// BounceAttenuation implements reflectiveRatio^n for the chain engine
// (spec.md §4.2). Bounce index 1 (the first bounce) already carries one
// factor of reflectiveRatio, per spec.md §9's adopted resolution.
func (m *Model) BounceAttenuation(bounceCount int) float64 {
	return math.Pow(m.params.ReflectiveRatio(), float64(bounceCount))
}

// Surface returns the energy split for the given element hit (spec.md
// §4.2). When a MaterialLookup is configured and resolves the element, its
// absorption/diffusion values are used instead of the global parameters.
func (m *Model) Surface(element interface{}) Surface {
	absorption := m.params.AbsorptionRatio
	diffusion := m.params.DiffusionRatio

	if m.material != nil {
		if a, d, ok := m.material(element); ok {
			absorption, diffusion = a, d
		}
	}

	return Surface{
		Reflective: 1 - absorption - diffusion,
		Absorption: absorption,
		Diffusion:  diffusion,
	}
}
