package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/stat"
)

func twoAssetTable() ReturnTable {
	return ReturnTable{
		Tickers: []string{"AAPL", "7203.T"},
		Series: [][]float64{
			{0.01, -0.02, 0.015, 0.005, -0.01, 0.02},
			{-0.005, 0.01, -0.01, 0.02, 0.005, -0.015},
		},
	}
}

func TestComputeRisk(t *testing.T) {
	table := twoAssetTable()
	weights := []float64{0.6, 0.4}

	metrics, err := ComputeRisk(table, weights)
	require.NoError(t, err)

	// Individual volatilities match the sample standard deviation of
	// each series (Bessel-corrected, same convention as the matrix).
	assert.InDelta(t, stat.StdDev(table.Series[0], nil), metrics.IndividualVolatilities["AAPL"], 1e-12)
	assert.InDelta(t, stat.StdDev(table.Series[1], nil), metrics.IndividualVolatilities["7203.T"], 1e-12)

	// Portfolio volatility equals sqrt(wᵀΣw) expanded by hand for 2 assets.
	sigma1 := stat.StdDev(table.Series[0], nil)
	sigma2 := stat.StdDev(table.Series[1], nil)
	cov12 := stat.Covariance(table.Series[0], table.Series[1], nil)
	wantVar := 0.36*sigma1*sigma1 + 0.16*sigma2*sigma2 + 2*0.6*0.4*cov12
	assert.InDelta(t, math.Sqrt(wantVar), metrics.PortfolioVolatility, 1e-12)

	// Average correlation for 2 assets is the single pairwise entry.
	wantCorr := stat.Correlation(table.Series[0], table.Series[1], nil)
	assert.InDelta(t, wantCorr, metrics.AverageCorrelation, 1e-12)

	// Diversification ratio: weighted stand-alone vols over realized vol.
	wantDiv := (0.6*sigma1 + 0.4*sigma2) / metrics.PortfolioVolatility
	assert.InDelta(t, wantDiv, metrics.DiversificationRatio, 1e-12)
}

func TestComputeRiskCorrelationMatrixProperties(t *testing.T) {
	table := ReturnTable{
		Tickers: []string{"A", "B", "C"},
		Series: [][]float64{
			{0.01, -0.02, 0.015, 0.005, -0.01},
			{-0.005, 0.01, -0.01, 0.02, 0.005},
			{0.002, 0.003, -0.004, 0.001, 0.006},
		},
	}
	weights := []float64{0.5, 0.3, 0.2}

	metrics, err := ComputeRisk(table, weights)
	require.NoError(t, err)

	for _, i := range table.Tickers {
		assert.Equal(t, 1.0, metrics.CorrelationMatrix[i][i], "diagonal must be exactly 1")
		for _, j := range table.Tickers {
			assert.InDelta(t, metrics.CorrelationMatrix[j][i], metrics.CorrelationMatrix[i][j], 1e-15, "matrix must be symmetric")
			assert.LessOrEqual(t, math.Abs(metrics.CorrelationMatrix[i][j]), 1.0+1e-12)
		}
	}
}

func TestComputeRiskInsufficientData(t *testing.T) {
	single := ReturnTable{
		Tickers: []string{"AAPL"},
		Series:  [][]float64{{0.01, 0.02, 0.03}},
	}
	_, err := ComputeRisk(single, []float64{1.0})
	assert.ErrorIs(t, err, ErrInsufficientData)

	short := ReturnTable{
		Tickers: []string{"A", "B"},
		Series:  [][]float64{{0.01}, {0.02}},
	}
	_, err = ComputeRisk(short, []float64{0.5, 0.5})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestComputeRiskWeightMismatch(t *testing.T) {
	_, err := ComputeRisk(twoAssetTable(), []float64{1.0})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientData)
}

func TestComputeRiskZeroVarianceAsset(t *testing.T) {
	table := ReturnTable{
		Tickers: []string{"FLAT", "MOVER"},
		Series: [][]float64{
			{0, 0, 0, 0},
			{0.01, -0.01, 0.02, -0.02},
		},
	}

	metrics, err := ComputeRisk(table, []float64{0.5, 0.5})
	require.NoError(t, err)

	// Zero-variance asset must not poison the matrix with NaN.
	assert.Equal(t, 0.0, metrics.CorrelationMatrix["FLAT"]["MOVER"])
	assert.Equal(t, 1.0, metrics.CorrelationMatrix["FLAT"]["FLAT"])
	assert.False(t, math.IsNaN(metrics.PortfolioVolatility))
}

func TestPortfolioReturns(t *testing.T) {
	table := twoAssetTable()
	weights := []float64{0.6, 0.4}

	returns := PortfolioReturns(table, weights)

	require.Len(t, returns, 6)
	for t0 := range returns {
		want := 0.6*table.Series[0][t0] + 0.4*table.Series[1][t0]
		assert.InDelta(t, want, returns[t0], 1e-15)
	}
}
