// Package config loads host-facing configuration for reverbtrace from
// YAML. It lives outside pkg/ because spec.md §6 requires "no file
// format ... in the core" — only cmd/reverbtrace-demo imports this.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/voxelworld/reverbtrace/pkg/acoustics"
	"github.com/voxelworld/reverbtrace/pkg/reverb"
)

// Config is the on-disk shape of a host's reverbtrace configuration.
type Config struct {
	Acoustics  AcousticsConfig  `yaml:"acoustics"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	SampleRate float64          `yaml:"sampleRate"`
}

// AcousticsConfig mirrors acoustics.Parameters field-for-field in YAML
// form, with the string strategy name resolved by Parameters().
type AcousticsConfig struct {
	PreDelayMs      float64 `yaml:"preDelayMs"`
	MsPerMeter      float64 `yaml:"msPerMeter"`
	DistanceScale   float64 `yaml:"distanceScale"`
	DiffusionFanout int     `yaml:"diffusionFanout"`
	AbsorptionRatio float64 `yaml:"absorptionRatio"`
	DiffusionRatio  float64 `yaml:"diffusionRatio"`
	JitterNormals   bool    `yaml:"jitterNormals"`
	HeadOriented    bool    `yaml:"headOriented"`
	SeparateEars    bool    `yaml:"separateEars"`
	StereoSource    bool    `yaml:"stereoSource"`
	Strategy        string  `yaml:"strategy"` // "chain" or "diffusion"
}

// ThresholdsConfig mirrors reverb.Thresholds.
type ThresholdsConfig struct {
	PositionEpsilon    float64 `yaml:"positionEpsilon"`
	OrientationEpsilon float64 `yaml:"orientationEpsilon"`
}

// Load reads and parses a YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	// Pre-populate the acoustic defaults so fields the YAML omits keep them.
	cfg := Config{Acoustics: AcousticsConfig{
		PreDelayMs:      acoustics.DefaultPreDelayMs,
		MsPerMeter:      acoustics.DefaultMsPerMeter,
		DistanceScale:   acoustics.DefaultDistanceScale,
		DiffusionFanout: acoustics.DefaultDiffusionFanout,
		AbsorptionRatio: acoustics.DefaultAbsorptionRatio,
		DiffusionRatio:  acoustics.DefaultDiffusionRatio,
	}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Parameters builds a validated acoustics.Parameters from the loaded
// config, starting from the spec.md §6 defaults and overlaying whatever
// the YAML set, so a config that omits most fields still produces a
// usable reference configuration.
func (c *Config) Parameters() (*acoustics.Parameters, error) {
	b := acoustics.NewParametersBuilder().
		WithPreDelayMs(c.Acoustics.PreDelayMs).
		WithMsPerMeter(orDefault(c.Acoustics.MsPerMeter, acoustics.DefaultMsPerMeter)).
		WithDistanceScale(c.Acoustics.DistanceScale).
		WithDiffusionFanout(c.Acoustics.DiffusionFanout).
		WithAbsorption(c.Acoustics.AbsorptionRatio).
		WithDiffusionRatio(c.Acoustics.DiffusionRatio).
		WithJitterNormals(c.Acoustics.JitterNormals).
		WithHeadOriented(c.Acoustics.HeadOriented).
		WithSeparateEars(c.Acoustics.SeparateEars).
		WithStereoSource(c.Acoustics.StereoSource)

	switch c.Acoustics.Strategy {
	case "chain":
		b = b.WithStrategy(acoustics.Chain)
	case "diffusion", "":
		b = b.WithStrategy(acoustics.Diffusion)
	default:
		return nil, fmt.Errorf("config: unknown strategy %q, want \"chain\" or \"diffusion\"", c.Acoustics.Strategy)
	}

	return b.Build()
}

// Thresholds builds a reverb.Thresholds from the loaded config, falling
// back to spec.md §9's suggested defaults for zero-valued fields.
func (c *Config) Thresholds() reverb.Thresholds {
	d := reverb.DefaultThresholds()
	return reverb.Thresholds{
		PositionEpsilon:    orDefault(c.Thresholds.PositionEpsilon, d.PositionEpsilon),
		OrientationEpsilon: orDefault(c.Thresholds.OrientationEpsilon, d.OrientationEpsilon),
	}
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
