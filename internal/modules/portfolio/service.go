package portfolio

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-insight/internal/modules/fx"
)

// MarketData provides the live inputs a valuation run consumes. Zero or
// absent prices mean "unavailable" and degrade per the calculator;
// missing currencies default to USD; missing FX pairs fall back inside
// the fx package.
type MarketData interface {
	CurrentPrices(tickers []string) (map[string]float64, error)
	Currencies(tickers []string) (map[string]string, error)
	FxRates(currencies []string, homeCurrency string) (fx.RateTable, error)
}

// Service orchestrates portfolio valuation runs
type Service struct {
	repo         *Repository
	market       MarketData
	homeCurrency string
	riskFreeRate float64
	log          zerolog.Logger
}

// NewService creates a new portfolio service
func NewService(repo *Repository, market MarketData, homeCurrency string, riskFreeRate float64, log zerolog.Logger) *Service {
	return &Service{
		repo:         repo,
		market:       market,
		homeCurrency: homeCurrency,
		riskFreeRate: riskFreeRate,
		log:          log.With().Str("service", "portfolio").Logger(),
	}
}

// Positions returns the stored portfolio
func (s *Service) Positions() ([]Position, error) {
	return s.repo.GetAll()
}

// Tickers returns the stored tickers in upload order
func (s *Service) Tickers() ([]string, error) {
	positions, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	tickers := make([]string, len(positions))
	for i, pos := range positions {
		tickers[i] = pos.Ticker
	}
	return tickers, nil
}

// ReplacePositions stores a freshly uploaded portfolio
func (s *Service) ReplacePositions(positions []Position) error {
	if err := s.repo.ReplaceAll(positions); err != nil {
		return err
	}
	s.log.Info().Int("positions", len(positions)).Msg("Portfolio replaced")
	return nil
}

// BuildResults values every stored position in the home currency. The
// run is pure given the fetched inputs; fetch failures abort, data gaps
// degrade per position.
func (s *Service) BuildResults() ([]PositionResult, error) {
	positions, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}
	if len(positions) == 0 {
		return nil, nil
	}

	tickers := make([]string, len(positions))
	for i, pos := range positions {
		tickers[i] = pos.Ticker
	}

	prices, err := s.market.CurrentPrices(tickers)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}

	currencies, err := s.market.Currencies(tickers)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch currencies: %w", err)
	}

	currencySet := make(map[string]bool)
	for _, ticker := range tickers {
		currency := currencies[ticker]
		if currency == "" {
			currency = "USD"
		}
		currencySet[currency] = true
	}
	currencyList := make([]string, 0, len(currencySet))
	for currency := range currencySet {
		currencyList = append(currencyList, currency)
	}

	rates, err := s.market.FxRates(currencyList, s.homeCurrency)
	if err != nil {
		// FX failure is survivable: the fallback table covers the
		// enumerated currencies.
		s.log.Warn().Err(err).Msg("FX fetch failed, using fallback rates")
		rates = nil
	}

	results := make([]PositionResult, len(positions))
	fallbacks := 0
	for i, pos := range positions {
		currency := currencies[pos.Ticker]
		if currency == "" {
			currency = "USD"
		}

		rate, usedFallback := fx.RateFor(currency, s.homeCurrency, rates)
		if usedFallback {
			fallbacks++
		}

		result := ComputePositionResult(pos, prices[pos.Ticker], rate, currency)
		result.FxFallback = usedFallback
		results[i] = result
	}

	s.log.Debug().
		Int("positions", len(results)).
		Int("fx_fallbacks", fallbacks).
		Msg("Valuation run complete")

	return results, nil
}

// Summary values the portfolio and aggregates the results
func (s *Service) Summary() (PortfolioSummary, PerformanceMetrics, SizingAnalysis, error) {
	results, err := s.BuildResults()
	if err != nil {
		return PortfolioSummary{}, PerformanceMetrics{}, SizingAnalysis{}, err
	}

	return Summarize(results), ComputePerformance(results, s.riskFreeRate), AnalyzeSizing(results), nil
}
