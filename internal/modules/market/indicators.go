package market

import (
	"github.com/aristath/portfolio-insight/pkg/formulas"
)

const (
	rsiPeriod      = 14
	smaPeriod      = 50
	momentumPeriod = 20
	historyWindow  = 252
)

// TickerIndicators bundles the technical indicators for one ticker.
// Nil fields mean the stored history is too short for that indicator.
type TickerIndicators struct {
	Ticker      string   `json:"ticker"`
	RSI         *float64 `json:"rsi"`
	SMA50       *float64 `json:"sma_50"`
	Momentum20D *float64 `json:"momentum_20d"`
	MaxDrawdown *float64 `json:"max_drawdown"`
	SharpeRatio *float64 `json:"sharpe_ratio"`
	Periods     int      `json:"periods"`
}

// Indicators computes technical indicators for each ticker from its
// daily close history. Tickers whose history cannot be fetched are
// skipped rather than failing the whole batch.
func (s *Service) Indicators(tickers []string) []TickerIndicators {
	indicators := make([]TickerIndicators, 0, len(tickers))

	for _, ticker := range tickers {
		closes, err := s.DailyCloses(ticker, historyWindow)
		if err != nil {
			s.log.Warn().Str("ticker", ticker).Err(err).Msg("Skipping indicators, no history")
			continue
		}

		indicators = append(indicators, TickerIndicators{
			Ticker:      ticker,
			RSI:         formulas.CalculateRSI(closes, rsiPeriod),
			SMA50:       formulas.CalculateSMA(closes, smaPeriod),
			Momentum20D: formulas.CalculateMomentum(closes, momentumPeriod),
			MaxDrawdown: formulas.CalculateMaxDrawdown(closes),
			SharpeRatio: formulas.CalculateSharpeFromPrices(closes, s.cfg.RiskFreeRate),
			Periods:     len(closes),
		})
	}

	return indicators
}
