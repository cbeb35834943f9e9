package acoustics

import "fmt"

// Strategy selects which ReflectionEngine strategy a trace uses (spec.md
// §9: "model as a tagged variant Strategy = Chain | Diffusion", decided
// once per trace rather than via polymorphic engine objects).
type Strategy int

const (
	// Chain selects the single-bounce-chain engine (spec.md §4.3.1).
	Chain Strategy = iota
	// Diffusion selects the diffusion-expansion engine (spec.md §4.3.2).
	Diffusion
)

// Parameters holds the immutable-during-one-trace acoustic configuration
// (spec.md §3, AcousticParameters). It is never constructed directly;
// use NewParameters or ParametersBuilder so invalid combinations are
// rejected rather than silently clamped (spec.md §7).
type Parameters struct {
	PreDelayMs      float64
	MsPerMeter      float64
	DistanceScale   float64
	DiffusionFanout int
	AbsorptionRatio float64
	DiffusionRatio  float64
	JitterNormals   bool
	HeadOriented    bool
	SeparateEars    bool
	StereoSource    bool
	Strategy        Strategy
}

// ReflectiveRatio returns 1 - absorption - diffusion, the surface's
// specular energy share (spec.md §3, §4.2).
func (p *Parameters) ReflectiveRatio() float64 {
	return 1 - p.AbsorptionRatio - p.DiffusionRatio
}

// Validate checks the invariants spec.md §3 and §7 require, returning the
// first violation found. NewParameters and the builder call this so a
// malformed configuration is rejected at construction time, never clamped.
func (p *Parameters) Validate() error {
	if p.PreDelayMs < 0 {
		return fmt.Errorf("acoustics: preDelayMs must be >= 0, got %g", p.PreDelayMs)
	}
	if p.MsPerMeter <= 0 {
		return fmt.Errorf("acoustics: msPerMeter must be > 0, got %g", p.MsPerMeter)
	}
	if p.DistanceScale < 0 {
		return fmt.Errorf("acoustics: distanceScale must be >= 0, got %g", p.DistanceScale)
	}
	if p.DiffusionFanout < 0 {
		return fmt.Errorf("acoustics: diffusionFanout must be >= 0, got %d", p.DiffusionFanout)
	}
	if p.AbsorptionRatio < 0 || p.AbsorptionRatio > 1 {
		return fmt.Errorf("acoustics: absorptionRatio must be in [0,1], got %g", p.AbsorptionRatio)
	}
	if p.DiffusionRatio < 0 || p.DiffusionRatio > 1 {
		return fmt.Errorf("acoustics: diffusionRatio must be in [0,1], got %g", p.DiffusionRatio)
	}
	if p.AbsorptionRatio+p.DiffusionRatio > 1 {
		return fmt.Errorf("acoustics: absorptionRatio+diffusionRatio must be <= 1, got %g",
			p.AbsorptionRatio+p.DiffusionRatio)
	}
	return nil
}

// NewParameters validates and returns p, or an error describing the first
// violated invariant. Callers that want default values should start from
// NewParametersBuilder instead of a bare struct literal.
func NewParameters(p Parameters) (*Parameters, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ParametersBuilder provides a fluent API for constructing Parameters,
// mirroring the teacher's pkg/framework/param.Builder shape but validating
// hard rather than clamping on build.
type ParametersBuilder struct {
	p Parameters
}

// NewParametersBuilder starts a builder pre-populated with the spec.md §6
// default values.
func NewParametersBuilder() *ParametersBuilder {
	return &ParametersBuilder{p: Parameters{
		PreDelayMs:      DefaultPreDelayMs,
		MsPerMeter:      DefaultMsPerMeter,
		DistanceScale:   DefaultDistanceScale,
		DiffusionFanout: DefaultDiffusionFanout,
		AbsorptionRatio: DefaultAbsorptionRatio,
		DiffusionRatio:  DefaultDiffusionRatio,
		Strategy:        Diffusion,
	}}
}

// WithPreDelayMs sets the fixed pre-reflection delay.
func (b *ParametersBuilder) WithPreDelayMs(v float64) *ParametersBuilder {
	b.p.PreDelayMs = v
	return b
}

// WithMsPerMeter sets propagation delay per meter.
func (b *ParametersBuilder) WithMsPerMeter(v float64) *ParametersBuilder {
	b.p.MsPerMeter = v
	return b
}

// WithDistanceScale sets the distance-attenuation multiplier.
func (b *ParametersBuilder) WithDistanceScale(v float64) *ParametersBuilder {
	b.p.DistanceScale = v
	return b
}

// WithDiffusionFanout sets the number of scattered children per bounce.
func (b *ParametersBuilder) WithDiffusionFanout(n int) *ParametersBuilder {
	b.p.DiffusionFanout = n
	return b
}

// WithAbsorption sets the absorption energy share.
func (b *ParametersBuilder) WithAbsorption(v float64) *ParametersBuilder {
	b.p.AbsorptionRatio = v
	return b
}

// WithDiffusionRatio sets the diffusion energy share.
func (b *ParametersBuilder) WithDiffusionRatio(v float64) *ParametersBuilder {
	b.p.DiffusionRatio = v
	return b
}

// WithJitterNormals toggles surface-normal jitter.
func (b *ParametersBuilder) WithJitterNormals(v bool) *ParametersBuilder {
	b.p.JitterNormals = v
	return b
}

// WithHeadOriented toggles head-orientation vs. avatar-orientation seed rays.
func (b *ParametersBuilder) WithHeadOriented(v bool) *ParametersBuilder {
	b.p.HeadOriented = v
	return b
}

// WithSeparateEars toggles true per-ear positions vs. head center.
func (b *ParametersBuilder) WithSeparateEars(v bool) *ParametersBuilder {
	b.p.SeparateEars = v
	return b
}

// WithStereoSource toggles stereo vs. mono-duplicated input interpretation.
func (b *ParametersBuilder) WithStereoSource(v bool) *ParametersBuilder {
	b.p.StereoSource = v
	return b
}

// WithStrategy selects the chain or diffusion engine.
func (b *ParametersBuilder) WithStrategy(s Strategy) *ParametersBuilder {
	b.p.Strategy = s
	return b
}

// Build validates and returns the constructed Parameters.
func (b *ParametersBuilder) Build() (*Parameters, error) {
	return NewParameters(b.p)
}
