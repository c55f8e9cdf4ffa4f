package portfolio

import (
	"github.com/aristath/portfolio-insight/pkg/formulas"
)

// ComputePerformance derives simple cross-sectional performance figures
// from the current position results. riskFreeRate is the annual rate as
// a decimal fraction (see config.Config.RiskFreeRate).
//
// These are snapshot figures over position P&L percentages, not
// time-series statistics; the risk module owns the return-series math.
func ComputePerformance(results []PositionResult, riskFreeRate float64) PerformanceMetrics {
	if len(results) == 0 {
		return PerformanceMetrics{RiskFreeRate: riskFreeRate}
	}

	totalValue := 0.0
	for _, r := range results {
		totalValue += r.CurrentValueHome
	}

	pnlPcts := make([]float64, len(results))
	weightedReturn := 0.0
	for i, r := range results {
		pnlPcts[i] = r.PnLPercentage

		weight := 1.0 / float64(len(results))
		if totalValue > 0 {
			weight = r.CurrentValueHome / totalValue
		}
		weightedReturn += r.PnLPercentage * weight
	}

	returnsStd := formulas.StdDev(pnlPcts)

	// Snapshot Sharpe over position returns; the annual risk-free rate
	// is used as-is because the P&L percentages are holding-period
	// figures, not periodic returns.
	sharpe := 0.0
	if returnsStd > 0 {
		sharpe = (weightedReturn - riskFreeRate*100) / returnsStd
	}

	maxDrawdown := pnlPcts[0]
	for _, pct := range pnlPcts[1:] {
		if pct < maxDrawdown {
			maxDrawdown = pct
		}
	}

	return PerformanceMetrics{
		WeightedReturn: weightedReturn,
		ReturnsStdDev:  returnsStd,
		SharpeRatio:    sharpe,
		MaxDrawdown:    maxDrawdown,
		RiskFreeRate:   riskFreeRate,
	}
}
