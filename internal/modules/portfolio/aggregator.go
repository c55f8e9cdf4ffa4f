package portfolio

// Summarize rolls per-position results into portfolio totals.
//
// Profitable means pnl_amount strictly greater than zero; a position
// flat at exactly zero counts as non-profitable. Extremal tickers are
// resolved by first occurrence on ties. An empty input yields a zeroed
// summary rather than an error.
func Summarize(results []PositionResult) PortfolioSummary {
	if len(results) == 0 {
		return PortfolioSummary{}
	}

	var summary PortfolioSummary
	summary.TotalPositions = len(results)

	maxGainIdx, maxLossIdx := 0, 0
	for i, r := range results {
		summary.TotalCostBasisHome += r.CostBasisHome
		summary.TotalCurrentValue += r.CurrentValueHome
		summary.TotalPnLAmountHome += r.PnLAmount

		if r.PnLAmount > 0 {
			summary.ProfitablePositions++
		}
		if r.PnLAmount > results[maxGainIdx].PnLAmount {
			maxGainIdx = i
		}
		if r.PnLAmount < results[maxLossIdx].PnLAmount {
			maxLossIdx = i
		}
	}

	// Percentage extremes track the full range independently of the
	// amount extremes.
	summary.MaxGainPercentage = results[0].PnLPercentage
	summary.MaxLossPercentage = results[0].PnLPercentage
	for _, r := range results[1:] {
		if r.PnLPercentage > summary.MaxGainPercentage {
			summary.MaxGainPercentage = r.PnLPercentage
		}
		if r.PnLPercentage < summary.MaxLossPercentage {
			summary.MaxLossPercentage = r.PnLPercentage
		}
	}

	summary.LosingPositions = summary.TotalPositions - summary.ProfitablePositions
	summary.WinRate = float64(summary.ProfitablePositions) / float64(summary.TotalPositions) * 100

	if summary.TotalCostBasisHome > 0 {
		summary.OverallPnLPercentage = summary.TotalPnLAmountHome / summary.TotalCostBasisHome * 100
	}

	summary.MaxGainAmount = results[maxGainIdx].PnLAmount
	summary.MaxGainTicker = results[maxGainIdx].Ticker
	summary.MaxLossAmount = results[maxLossIdx].PnLAmount
	summary.MaxLossTicker = results[maxLossIdx].Ticker
	summary.AveragePositionSize = summary.TotalCostBasisHome / float64(summary.TotalPositions)

	return summary
}
