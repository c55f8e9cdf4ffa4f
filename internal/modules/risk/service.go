package risk

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-insight/internal/modules/portfolio"
	"github.com/aristath/portfolio-insight/pkg/formulas"
)

// HistoryProvider supplies daily closing prices, oldest first.
type HistoryProvider interface {
	DailyCloses(ticker string, days int) ([]float64, error)
}

// Service assembles aligned return series and weights from the current
// portfolio and runs the risk, VaR and stress computations on them.
type Service struct {
	portfolioSvc *portfolio.Service
	history      HistoryProvider
	log          zerolog.Logger
}

// NewService creates a new risk service
func NewService(portfolioSvc *portfolio.Service, history HistoryProvider, log zerolog.Logger) *Service {
	return &Service{
		portfolioSvc: portfolioSvc,
		history:      history,
		log:          log.With().Str("service", "risk").Logger(),
	}
}

// buildInputs values the portfolio, fetches histories, aligns the
// daily return series and renormalizes value weights over the tickers
// that survived alignment.
func (s *Service) buildInputs(days int) (ReturnTable, []float64, error) {
	results, err := s.portfolioSvc.BuildResults()
	if err != nil {
		return ReturnTable{}, nil, err
	}
	if len(results) < 2 {
		return ReturnTable{}, nil, fmt.Errorf("%w: need at least 2 positions, got %d", ErrInsufficientData, len(results))
	}

	tickers := make([]string, len(results))
	valueByTicker := make(map[string]float64, len(results))
	for i, r := range results {
		tickers[i] = r.Ticker
		valueByTicker[r.Ticker] = r.CurrentValueHome
	}

	series := make(map[string][]float64, len(tickers))
	for _, ticker := range tickers {
		closes, err := s.history.DailyCloses(ticker, days)
		if err != nil {
			// One missing history drops the ticker from the risk view,
			// it does not fail the analysis.
			s.log.Warn().Str("ticker", ticker).Err(err).Msg("History unavailable, excluding from risk analysis")
			continue
		}
		returns := formulas.CalculateReturns(closes)
		if len(returns) > 0 {
			series[ticker] = returns
		}
	}

	table := AlignReturns(tickers, series, 2)
	if len(table.Tickers) < 2 {
		return ReturnTable{}, nil, fmt.Errorf("%w: only %d tickers have usable return history", ErrInsufficientData, len(table.Tickers))
	}
	if dropped := len(tickers) - len(table.Tickers); dropped > 0 {
		s.log.Info().Int("dropped", dropped).Int("kept", len(table.Tickers)).Msg("Tickers excluded from risk analysis")
	}

	weights := RenormalizeWeights(table.Tickers, valueByTicker)

	return table, weights, nil
}

// Metrics computes portfolio risk metrics over the trailing window.
func (s *Service) Metrics(days int) (RiskMetrics, error) {
	table, weights, err := s.buildInputs(days)
	if err != nil {
		return RiskMetrics{}, err
	}
	return ComputeRisk(table, weights)
}

// VarCvar computes historical VaR/CVaR from the weighted portfolio
// return series over the trailing window.
func (s *Service) VarCvar(days int) (VarMetrics, error) {
	table, weights, err := s.buildInputs(days)
	if err != nil {
		return VarMetrics{}, err
	}
	return ComputeVarCvar(PortfolioReturns(table, weights))
}

// Stress runs the volatility/correlation shock scenario over the
// trailing window.
func (s *Service) Stress(days int, stressFactor, correlationShock float64) (StressResult, error) {
	table, weights, err := s.buildInputs(days)
	if err != nil {
		return StressResult{}, err
	}
	return StressTest(table, weights, stressFactor, correlationShock)
}

// PortfolioReturns collapses aligned per-asset returns into one
// weighted portfolio return per period.
func PortfolioReturns(table ReturnTable, weights []float64) []float64 {
	periods := table.Periods()
	returns := make([]float64, periods)
	for t := 0; t < periods; t++ {
		for i, series := range table.Series {
			returns[t] += weights[i] * series[t]
		}
	}
	return returns
}
