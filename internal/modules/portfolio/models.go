package portfolio

// Position is an uploaded holding: quantity and home-currency average
// cost per share. Immutable once loaded; one entry per distinct ticker.
type Position struct {
	Ticker      string  `json:"ticker"`
	Shares      float64 `json:"shares"`
	AvgCostHome float64 `json:"avg_cost_home"`
}

// PositionResult is the valuation of a single position in the home
// currency. It is a pure function of the position, the local price and
// the exchange rate; every analysis run rebuilds it from scratch.
type PositionResult struct {
	Ticker            string  `json:"ticker"`
	Shares            float64 `json:"shares"`
	AvgCostHome       float64 `json:"avg_cost_home"`
	CurrentPriceLocal float64 `json:"current_price_local"`
	ExchangeRate      float64 `json:"exchange_rate"`
	CurrentPriceHome  float64 `json:"current_price_home"`
	CurrentValueHome  float64 `json:"current_value_home"`
	CostBasisHome     float64 `json:"cost_basis_home"`
	PnLAmount         float64 `json:"pnl_amount"`
	PnLPercentage     float64 `json:"pnl_percentage"`
	Currency          string  `json:"currency"`
	// FxFallback marks results priced with an approximate exchange
	// rate because no live pair was available.
	FxFallback bool `json:"fx_fallback,omitempty"`
}

// PortfolioSummary aggregates PositionResults for one analysis run.
type PortfolioSummary struct {
	TotalPositions       int     `json:"total_positions"`
	TotalCostBasisHome   float64 `json:"total_cost_basis_home"`
	TotalCurrentValue    float64 `json:"total_current_value_home"`
	TotalPnLAmountHome   float64 `json:"total_pnl_amount_home"`
	OverallPnLPercentage float64 `json:"overall_pnl_percentage"`
	WinRate              float64 `json:"win_rate"`
	ProfitablePositions  int     `json:"profitable_positions"`
	LosingPositions      int     `json:"losing_positions"`
	MaxGainAmount        float64 `json:"max_gain_amount"`
	MaxLossAmount        float64 `json:"max_loss_amount"`
	MaxGainPercentage    float64 `json:"max_gain_percentage"`
	MaxLossPercentage    float64 `json:"max_loss_percentage"`
	MaxGainTicker        string  `json:"max_gain_ticker"`
	MaxLossTicker        string  `json:"max_loss_ticker"`
	AveragePositionSize  float64 `json:"average_position_size"`
}

// PerformanceMetrics are simple cross-sectional performance figures
// over the current position results.
type PerformanceMetrics struct {
	WeightedReturn float64 `json:"weighted_return"`
	ReturnsStdDev  float64 `json:"returns_std"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
	MaxDrawdown    float64 `json:"max_drawdown"`
	RiskFreeRate   float64 `json:"risk_free_rate"`
}

// SizingAnalysis describes how concentrated the portfolio is.
type SizingAnalysis struct {
	TotalPositions       int     `json:"total_positions"`
	Top5Concentration    float64 `json:"top_5_concentration"`
	Top10Concentration   float64 `json:"top_10_concentration"`
	HerfindahlIndex      float64 `json:"herfindahl_index"`
	EqualWeightBenchmark float64 `json:"equal_weight_benchmark"`
	WeightVariance       float64 `json:"weight_variance"`
	MaxPositionWeight    float64 `json:"max_position_weight"`
	MinPositionWeight    float64 `json:"min_position_weight"`
	LargestPosition      string  `json:"largest_position"`
	SmallestPosition     string  `json:"smallest_position"`
}
