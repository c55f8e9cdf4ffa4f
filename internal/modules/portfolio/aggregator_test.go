package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testResults() []PositionResult {
	return []PositionResult{
		{Ticker: "AAPL", CostBasisHome: 1500000, CurrentValueHome: 2850000, PnLAmount: 1350000, PnLPercentage: 90.0},
		{Ticker: "7203.T", CostBasisHome: 630000, CurrentValueHome: 735000, PnLAmount: 105000, PnLPercentage: 16.67},
		{Ticker: "BADCO", CostBasisHome: 200000, CurrentValueHome: 150000, PnLAmount: -50000, PnLPercentage: -25.0},
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(testResults())

	assert.Equal(t, 3, summary.TotalPositions)
	assert.Equal(t, 2330000.0, summary.TotalCostBasisHome)
	assert.Equal(t, 3735000.0, summary.TotalCurrentValue)
	assert.Equal(t, 1405000.0, summary.TotalPnLAmountHome)
	assert.Equal(t, 2, summary.ProfitablePositions)
	assert.Equal(t, 1, summary.LosingPositions)
	assert.InDelta(t, 66.6667, summary.WinRate, 1e-3)
	assert.Equal(t, "AAPL", summary.MaxGainTicker)
	assert.Equal(t, 1350000.0, summary.MaxGainAmount)
	assert.Equal(t, "BADCO", summary.MaxLossTicker)
	assert.Equal(t, -50000.0, summary.MaxLossAmount)
	assert.Equal(t, 90.0, summary.MaxGainPercentage)
	assert.Equal(t, -25.0, summary.MaxLossPercentage)
	assert.InDelta(t, 776666.667, summary.AveragePositionSize, 1e-3)
}

func TestSummarizePnLSumInvariant(t *testing.T) {
	results := testResults()
	summary := Summarize(results)

	sum := 0.0
	for _, r := range results {
		sum += r.PnLAmount
	}
	assert.Equal(t, sum, summary.TotalPnLAmountHome)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, PortfolioSummary{}, summary)
}

func TestSummarizeZeroPnLIsNotProfitable(t *testing.T) {
	results := []PositionResult{
		{Ticker: "FLAT", CostBasisHome: 1000, CurrentValueHome: 1000, PnLAmount: 0},
	}

	summary := Summarize(results)

	assert.Equal(t, 0, summary.ProfitablePositions)
	assert.Equal(t, 0.0, summary.WinRate)
}

func TestSummarizeTiesFirstOccurrenceWins(t *testing.T) {
	results := []PositionResult{
		{Ticker: "FIRST", PnLAmount: 500},
		{Ticker: "SECOND", PnLAmount: 500},
		{Ticker: "THIRD", PnLAmount: -500},
		{Ticker: "FOURTH", PnLAmount: -500},
	}

	summary := Summarize(results)

	assert.Equal(t, "FIRST", summary.MaxGainTicker)
	assert.Equal(t, "THIRD", summary.MaxLossTicker)
}

func TestSummarizeZeroCostBasis(t *testing.T) {
	results := []PositionResult{
		{Ticker: "FREE", CostBasisHome: 0, CurrentValueHome: 100, PnLAmount: 100},
	}

	summary := Summarize(results)

	assert.Equal(t, 0.0, summary.OverallPnLPercentage)
}
