package nbglm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateDispersionBounds(t *testing.T) {
	counts := [][]float64{
		{50, 50, 50, 50, 50, 50, 50, 50},       // no excess variance
		{10, 90, 20, 80, 10, 95, 15, 85},       // strongly overdispersed
		{30, 32, 29, 31, 30, 28, 33, 30},       // mild noise
	}
	design := twoGroupDesign(8)
	dm, err := EstimateDispersion(counts, design, zeros(8))
	require.NoError(t, err)
	require.Len(t, dm.Gene, 3)
	for g, phi := range dm.Gene {
		assert.GreaterOrEqual(t, phi, dispMin, "gene %d", g)
		assert.LessOrEqual(t, phi, dispMax, "gene %d", g)
	}
	assert.GreaterOrEqual(t, dm.Common, dispMin)
	// The overdispersed gene sits above the constant one.
	assert.Greater(t, dm.Gene[1], dm.Gene[0])
}

func TestEstimateDispersionNoResidualDF(t *testing.T) {
	counts := [][]float64{{1, 2}}
	_, err := EstimateDispersion(counts, twoGroupDesign(2), zeros(2))
	require.Error(t, err)
}

func TestTrimmedMean(t *testing.T) {
	assert.InDelta(t, 3, trimmedMean([]float64{1, 2, 3, 4, 100}, 0.25), 1e-12)
	assert.InDelta(t, 5, trimmedMean([]float64{5}, 0.25), 1e-12)
	assert.EqualValues(t, 0, trimmedMean(nil, 0.25))
}

func TestFitGLMShapes(t *testing.T) {
	counts := [][]float64{
		{10, 12, 9, 11, 30, 28, 33, 29},
		{100, 90, 110, 95, 100, 105, 92, 108},
	}
	dm, err := EstimateDispersion(counts, twoGroupDesign(8), zeros(8))
	require.NoError(t, err)
	fit, err := FitGLM(dm)
	require.NoError(t, err)
	require.Len(t, fit.Beta, 2)
	require.Len(t, fit.Beta[0], 2)
	require.Len(t, fit.Deviance, 2)
	assert.EqualValues(t, 6, fit.ResidDF)
	// The first gene's group coefficient reflects the threefold change.
	assert.InDelta(t, 1.05, fit.Beta[0][1], 0.3) // ~log(3)
}
