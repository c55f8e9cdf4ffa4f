package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignReturns(t *testing.T) {
	series := map[string][]float64{
		"AAPL":   {0.01, 0.02, 0.03, 0.04, 0.05},
		"7203.T": {0.1, 0.2, 0.3},
		"THIN":   {0.9}, // below minimum, dropped
	}

	table := AlignReturns([]string{"AAPL", "7203.T", "THIN"}, series, 2)

	require.Equal(t, []string{"AAPL", "7203.T"}, table.Tickers)
	assert.Equal(t, 3, table.Periods())
	// The longer series keeps its most recent observations.
	assert.Equal(t, []float64{0.03, 0.04, 0.05}, table.Series[0])
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, table.Series[1])
}

func TestAlignReturnsMissingTicker(t *testing.T) {
	series := map[string][]float64{
		"AAPL": {0.01, 0.02},
	}

	table := AlignReturns([]string{"AAPL", "GONE"}, series, 2)

	assert.Equal(t, []string{"AAPL"}, table.Tickers)
}

func TestAlignReturnsEmpty(t *testing.T) {
	table := AlignReturns(nil, nil, 2)

	assert.Empty(t, table.Tickers)
	assert.Equal(t, 0, table.Periods())
}

func TestRenormalizeWeights(t *testing.T) {
	values := map[string]float64{
		"AAPL":   3000,
		"7203.T": 1000,
		"GONE":   500, // dropped by alignment, excluded from the total
	}

	weights := RenormalizeWeights([]string{"AAPL", "7203.T"}, values)

	require.Len(t, weights, 2)
	assert.Equal(t, 0.75, weights[0])
	assert.Equal(t, 0.25, weights[1])
	assert.InDelta(t, 1.0, weights[0]+weights[1], 1e-15)
}

func TestRenormalizeWeightsZeroTotal(t *testing.T) {
	weights := RenormalizeWeights([]string{"A", "B"}, map[string]float64{})

	assert.Equal(t, []float64{0.5, 0.5}, weights)
}

func TestRenormalizeWeightsEmpty(t *testing.T) {
	assert.Nil(t, RenormalizeWeights(nil, nil))
}
