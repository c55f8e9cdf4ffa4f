package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStressTest(t *testing.T) {
	table := twoAssetTable()
	weights := []float64{0.6, 0.4}

	result, err := StressTest(table, weights, 1.5, 0.8)
	require.NoError(t, err)

	normal, err := ComputeRisk(table, weights)
	require.NoError(t, err)

	assert.InDelta(t, normal.PortfolioVolatility, result.NormalPortfolioVol, 1e-12)
	assert.Equal(t, 1.5, result.StressFactor)
	assert.Equal(t, 0.8, result.CorrelationShock)
	assert.InDelta(t, result.StressedPortfolioVol/result.NormalPortfolioVol, result.StressMultiplier, 1e-12)
}

func TestStressTestMonotonicity(t *testing.T) {
	// For factor ≥ 1 and shock at least the baseline average
	// correlation, stressed volatility must not fall below normal.
	table := twoAssetTable()
	weights := []float64{0.5, 0.5}

	baseline, err := ComputeRisk(table, weights)
	require.NoError(t, err)

	for _, factor := range []float64{1.0, 1.25, 1.5, 2.0} {
		shock := math.Max(baseline.AverageCorrelation, 0.5)
		result, err := StressTest(table, weights, factor, shock)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.StressedPortfolioVol, result.NormalPortfolioVol,
			"factor %v shock %v", factor, shock)
		assert.GreaterOrEqual(t, result.StressMultiplier, 1.0)
	}
}

func TestStressTestIdentityScenario(t *testing.T) {
	// factor 1 with the baseline pairwise correlation reproduces the
	// normal volatility for two assets.
	table := twoAssetTable()
	weights := []float64{0.6, 0.4}

	baseline, err := ComputeRisk(table, weights)
	require.NoError(t, err)

	result, err := StressTest(table, weights, 1.0, baseline.AverageCorrelation)
	require.NoError(t, err)

	assert.InDelta(t, result.NormalPortfolioVol, result.StressedPortfolioVol, 1e-12)
	assert.InDelta(t, 1.0, result.StressMultiplier, 1e-9)
}

func TestStressTestRejectsInvalidScenario(t *testing.T) {
	table := twoAssetTable()
	weights := []float64{0.6, 0.4}

	_, err := StressTest(table, weights, 1.5, 1.5)
	assert.ErrorIs(t, err, ErrInvalidScenario)

	_, err = StressTest(table, weights, 1.5, -1.5)
	assert.ErrorIs(t, err, ErrInvalidScenario)

	_, err = StressTest(table, weights, -0.5, 0.8)
	assert.ErrorIs(t, err, ErrInvalidScenario)
}

func TestStressTestNegativeShockStaysDefined(t *testing.T) {
	// ρ = -1 on two assets is an admissible hedged regime; variance can
	// collapse toward zero but must never come back negative or NaN.
	table := twoAssetTable()
	weights := []float64{0.5, 0.5}

	result, err := StressTest(table, weights, 1.0, -1.0)
	require.NoError(t, err)

	assert.False(t, math.IsNaN(result.StressedPortfolioVol))
	assert.GreaterOrEqual(t, result.StressedPortfolioVol, 0.0)
}

func TestStressTestInsufficientData(t *testing.T) {
	single := ReturnTable{Tickers: []string{"A"}, Series: [][]float64{{0.01, 0.02}}}
	_, err := StressTest(single, []float64{1.0}, 1.5, 0.8)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestStressTestZeroNormalVolMultiplier(t *testing.T) {
	table := ReturnTable{
		Tickers: []string{"F1", "F2"},
		Series: [][]float64{
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		},
	}

	result, err := StressTest(table, []float64{0.5, 0.5}, 1.5, 0.8)
	require.NoError(t, err)

	// Divide-by-zero guard: multiplier reports as 1.0.
	assert.Equal(t, 1.0, result.StressMultiplier)
}
