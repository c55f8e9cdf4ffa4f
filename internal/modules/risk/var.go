package risk

import (
	"fmt"

	"github.com/aristath/portfolio-insight/pkg/formulas"
)

// ComputeVarCvar computes historical Value-at-Risk and Conditional VaR
// from a portfolio return series.
//
// VaR at confidence c is the (1-c) empirical quantile of the observed
// returns; CVaR at c is the mean of all observations at or below that
// threshold. Both are signed fractional returns at the periodicity of
// the input (a loss is negative). The empirical quantile is always an
// observed point, so the CVaR tail is never empty.
func ComputeVarCvar(portfolioReturns []float64) (VarMetrics, error) {
	if len(portfolioReturns) < 2 {
		return VarMetrics{}, fmt.Errorf("%w: need at least 2 return observations, got %d", ErrInsufficientData, len(portfolioReturns))
	}

	var95 := formulas.EmpiricalQuantile(0.05, portfolioReturns)
	var99 := formulas.EmpiricalQuantile(0.01, portfolioReturns)

	return VarMetrics{
		VaR95:  var95,
		VaR99:  var99,
		CVaR95: tailMean(portfolioReturns, var95),
		CVaR99: tailMean(portfolioReturns, var99),
	}, nil
}

// tailMean averages the observations at or below the threshold.
func tailMean(returns []float64, threshold float64) float64 {
	sum := 0.0
	count := 0
	for _, r := range returns {
		if r <= threshold {
			sum += r
			count++
		}
	}
	if count == 0 {
		return threshold
	}
	return sum / float64(count)
}
