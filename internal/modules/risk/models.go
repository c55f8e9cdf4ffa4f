package risk

// ReturnTable holds aligned per-period fractional return series, one
// per ticker. Series are index-aligned: Series[i][t] is ticker i's
// return in period t. Alignment is the caller's job; AlignReturns
// builds a table from ragged provider data.
type ReturnTable struct {
	Tickers []string
	Series  [][]float64
}

// Periods returns the common series length.
func (t ReturnTable) Periods() int {
	if len(t.Series) == 0 {
		return 0
	}
	return len(t.Series[0])
}

// RiskMetrics describes portfolio risk at the native periodicity of
// the input returns. No annualization happens here; horizon scaling is
// a presentation concern.
type RiskMetrics struct {
	PortfolioVolatility    float64                       `json:"portfolio_volatility"`
	AverageCorrelation     float64                       `json:"average_correlation"`
	DiversificationRatio   float64                       `json:"diversification_ratio"`
	IndividualVolatilities map[string]float64            `json:"individual_volatilities"`
	CorrelationMatrix      map[string]map[string]float64 `json:"correlation_matrix"`
}

// VarMetrics are historical tail-risk measures as signed fractional
// returns (negative = loss) at the input series' periodicity.
type VarMetrics struct {
	VaR95  float64 `json:"VaR_95"`
	VaR99  float64 `json:"VaR_99"`
	CVaR95 float64 `json:"CVaR_95"`
	CVaR99 float64 `json:"CVaR_99"`
}

// StressResult compares portfolio volatility against a shocked regime
// where assets are individually more volatile and uniformly more
// correlated at the same time.
type StressResult struct {
	NormalPortfolioVol   float64 `json:"normal_portfolio_vol"`
	StressedPortfolioVol float64 `json:"stressed_portfolio_vol"`
	StressMultiplier     float64 `json:"stress_multiplier"`
	StressFactor         float64 `json:"stress_factor"`
	CorrelationShock     float64 `json:"correlation_shock"`
}
