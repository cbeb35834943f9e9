package acoustics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParametersRejectsOverAllocatedRatios(t *testing.T) {
	_, err := NewParameters(Parameters{
		MsPerMeter:      DefaultMsPerMeter,
		AbsorptionRatio: 0.7,
		DiffusionRatio:  0.4,
	})
	require.Error(t, err)
}

func TestNewParametersRejectsNonPositiveMsPerMeter(t *testing.T) {
	_, err := NewParameters(Parameters{MsPerMeter: 0})
	require.Error(t, err)
}

func TestNewParametersRejectsNegativeFanout(t *testing.T) {
	_, err := NewParameters(Parameters{MsPerMeter: DefaultMsPerMeter, DiffusionFanout: -1})
	require.Error(t, err)
}

func TestNewParametersAcceptsDefaults(t *testing.T) {
	p, err := NewParametersBuilder().Build()
	require.NoError(t, err)
	assert.Equal(t, DefaultMsPerMeter, p.MsPerMeter)
	assert.Equal(t, Diffusion, p.Strategy)
}

func TestReflectiveRatio(t *testing.T) {
	p, err := NewParametersBuilder().WithAbsorption(0.2).WithDiffusionRatio(0.3).Build()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p.ReflectiveRatio(), 1e-9)
}

func TestBuilderRejectsInvalidCombination(t *testing.T) {
	_, err := NewParametersBuilder().WithAbsorption(0.9).WithDiffusionRatio(0.9).Build()
	require.Error(t, err)
}
