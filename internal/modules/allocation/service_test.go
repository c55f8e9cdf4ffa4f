package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/portfolio-insight/internal/modules/portfolio"
)

func TestAggregate(t *testing.T) {
	results := []portfolio.PositionResult{
		{Ticker: "7203.T", CurrentValueHome: 1000000, CostBasisHome: 900000, PnLAmount: 100000},
		{Ticker: "9984.T", CurrentValueHome: 2000000, CostBasisHome: 2200000, PnLAmount: -200000},
		{Ticker: "AAPL", CurrentValueHome: 3000000, CostBasisHome: 1500000, PnLAmount: 1500000},
	}
	countries := map[string]string{
		"7203.T": "Japan",
		"9984.T": "Japan",
		"AAPL":   "United States",
	}

	allocations := Aggregate(results, countries)

	require.Len(t, allocations, 2)

	byRegion := make(map[string]RegionAllocation)
	for _, a := range allocations {
		byRegion[a.Region] = a
	}

	japan := byRegion[RegionJapan]
	assert.Equal(t, 3000000.0, japan.CurrentValueHome)
	assert.Equal(t, 2, japan.PositionCount)
	assert.Equal(t, 50.0, japan.AllocationPercentage)
	assert.InDelta(t, -100000.0/3100000.0*100, japan.PnLPercentage, 1e-9)

	us := byRegion[RegionUS]
	assert.Equal(t, 50.0, us.AllocationPercentage)
	assert.Equal(t, 100.0, us.PnLPercentage)
}

func TestAggregateAllocationSumsTo100(t *testing.T) {
	results := []portfolio.PositionResult{
		{Ticker: "AAPL", CurrentValueHome: 1234.56, CostBasisHome: 1000},
		{Ticker: "SAP.DE", CurrentValueHome: 789.12, CostBasisHome: 800},
		{Ticker: "0700.HK", CurrentValueHome: 456.78, CostBasisHome: 400},
		{Ticker: "SHOP.TO", CurrentValueHome: 321.09, CostBasisHome: 300},
	}

	allocations := Aggregate(results, nil)

	sum := 0.0
	for _, a := range allocations {
		sum += a.AllocationPercentage
	}
	assert.InDelta(t, 100.0, sum, 1e-6)
}

func TestAggregateZeroTotalValue(t *testing.T) {
	results := []portfolio.PositionResult{
		{Ticker: "AAPL", CurrentValueHome: 0, CostBasisHome: 1000, PnLAmount: -1000},
	}

	allocations := Aggregate(results, nil)

	require.Len(t, allocations, 1)
	assert.Equal(t, 0.0, allocations[0].AllocationPercentage)
	assert.Equal(t, -100.0, allocations[0].PnLPercentage)
}

func TestAggregateZeroCostBasisGuards(t *testing.T) {
	results := []portfolio.PositionResult{
		{Ticker: "FREE", CurrentValueHome: 100, CostBasisHome: 0, PnLAmount: 100},
	}

	allocations := Aggregate(results, nil)

	require.Len(t, allocations, 1)
	assert.Equal(t, 0.0, allocations[0].PnLPercentage)
}

func TestAggregateDeterministicOrder(t *testing.T) {
	results := []portfolio.PositionResult{
		{Ticker: "AAPL", CurrentValueHome: 100},
		{Ticker: "7203.T", CurrentValueHome: 300},
		{Ticker: "SAP.DE", CurrentValueHome: 200},
	}

	allocations := Aggregate(results, nil)

	require.Len(t, allocations, 3)
	assert.Equal(t, RegionJapan, allocations[0].Region)
	assert.Equal(t, RegionEurope, allocations[1].Region)
	assert.Equal(t, RegionUS, allocations[2].Region)
}
