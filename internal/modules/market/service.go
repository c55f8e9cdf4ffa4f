package market

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-insight/internal/clients/yahoo"
	"github.com/aristath/portfolio-insight/internal/database"
	"github.com/aristath/portfolio-insight/internal/modules/fx"
)

// Provider is the market-data backend (quotes, history, domicile).
type Provider interface {
	GetQuotes(symbols []string) (map[string]yahoo.Quote, error)
	GetDailyCloses(symbol string, days int) ([]float64, error)
	GetCountry(symbol string) (string, error)
}

// Config holds the cache TTLs for the service. Quotes and FX move
// fast, domicile country barely ever changes. RiskFreeRate is the
// annual decimal fraction used by the per-ticker Sharpe indicator.
type Config struct {
	QuoteTTL     time.Duration
	CountryTTL   time.Duration
	HistoryTTL   time.Duration
	RiskFreeRate float64
}

// Service fetches market data through an explicit TTL cache. It
// satisfies the data interfaces of the portfolio, allocation and risk
// modules; all degradation policy lives in those consumers.
type Service struct {
	provider Provider
	cache    *database.ReferenceCache
	history  *HistoryStore
	cfg      Config
	log      zerolog.Logger
}

// NewService creates a new market data service
func NewService(provider Provider, cache *database.ReferenceCache, history *HistoryStore, cfg Config, log zerolog.Logger) *Service {
	if cfg.HistoryTTL == 0 {
		cfg.HistoryTTL = time.Hour
	}
	return &Service{
		provider: provider,
		cache:    cache,
		history:  history,
		cfg:      cfg,
		log:      log.With().Str("service", "market").Logger(),
	}
}

// CurrentPrices returns the current local-currency price per ticker.
// Unknown tickers are absent from the map; the P&L calculator treats
// that as a missing quote.
func (s *Service) CurrentPrices(tickers []string) (map[string]float64, error) {
	quotes, err := s.quotes(tickers)
	if err != nil {
		return nil, err
	}

	prices := make(map[string]float64, len(quotes))
	for symbol, quote := range quotes {
		prices[symbol] = quote.Price
	}
	return prices, nil
}

// Currencies returns the trading currency per ticker.
func (s *Service) Currencies(tickers []string) (map[string]string, error) {
	quotes, err := s.quotes(tickers)
	if err != nil {
		return nil, err
	}

	currencies := make(map[string]string, len(quotes))
	for symbol, quote := range quotes {
		if quote.Currency != "" {
			currencies[symbol] = quote.Currency
		}
	}
	return currencies, nil
}

// FxRates fetches home-per-unit rates for the given currencies. Pairs
// the provider cannot quote are left out of the table; the fx package
// falls back per currency.
func (s *Service) FxRates(currencies []string, homeCurrency string) (fx.RateTable, error) {
	var pairs []string
	for _, currency := range currencies {
		if currency == homeCurrency {
			continue
		}
		pairs = append(pairs, fx.PairSymbol(currency, homeCurrency))
	}
	if len(pairs) == 0 {
		return fx.RateTable{}, nil
	}

	quotes, err := s.quotes(pairs)
	if err != nil {
		return nil, err
	}

	table := make(fx.RateTable, len(quotes))
	for symbol, quote := range quotes {
		if quote.Price > 0 {
			table[symbol] = quote.Price
		}
	}
	return table, nil
}

// Countries returns the domicile country per ticker. Lookups that
// fail or come back empty are omitted; callers fall back to ticker
// suffix classification.
func (s *Service) Countries(tickers []string) (map[string]string, error) {
	countries := make(map[string]string, len(tickers))

	for _, ticker := range tickers {
		key := "country:" + ticker

		var country string
		if err := s.cache.Get(key, &country); err == nil {
			if country != "" {
				countries[ticker] = country
			}
			continue
		}

		country, err := s.provider.GetCountry(ticker)
		if err != nil {
			s.log.Warn().Str("ticker", ticker).Err(err).Msg("Country lookup failed")
			continue
		}

		// Cache empty results too, so unknown tickers are not re-fetched
		// on every analysis run.
		if err := s.cache.Put(key, country, s.cfg.CountryTTL); err != nil {
			s.log.Warn().Err(err).Msg("Failed to cache country")
		}
		if country != "" {
			countries[ticker] = country
		}
	}

	return countries, nil
}

// DailyCloses returns up to days daily closes for a ticker, oldest
// first. Fresh data is fetched and persisted; within the TTL, or when
// the provider is down, the stored series serves the request.
func (s *Service) DailyCloses(ticker string, days int) ([]float64, error) {
	freshKey := fmt.Sprintf("history_fresh:%s:%d", ticker, days)

	var fresh bool
	if err := s.cache.Get(freshKey, &fresh); err == nil && fresh {
		closes, err := s.history.GetDailyCloses(ticker, days)
		if err == nil && len(closes) > 0 {
			return closes, nil
		}
	}

	closes, err := s.provider.GetDailyCloses(ticker, days)
	if err != nil {
		// Provider down: a stale stored series beats no series.
		stored, storeErr := s.history.GetDailyCloses(ticker, days)
		if storeErr == nil && len(stored) > 0 {
			s.log.Warn().Str("ticker", ticker).Err(err).Msg("History fetch failed, serving stored series")
			return stored, nil
		}
		return nil, fmt.Errorf("failed to fetch history for %s: %w", ticker, err)
	}

	if err := s.history.SaveDailyCloses(ticker, closes); err != nil {
		s.log.Warn().Str("ticker", ticker).Err(err).Msg("Failed to persist history")
	}
	if err := s.cache.Put(freshKey, true, s.cfg.HistoryTTL); err != nil {
		s.log.Warn().Err(err).Msg("Failed to mark history fresh")
	}

	return closes, nil
}

// RefreshQuotes re-fetches quotes for the tickers, bypassing the TTL.
// The scheduler uses it to keep the cache warm.
func (s *Service) RefreshQuotes(tickers []string) error {
	if len(tickers) == 0 {
		return nil
	}

	quotes, err := s.provider.GetQuotes(tickers)
	if err != nil {
		return fmt.Errorf("failed to refresh quotes: %w", err)
	}

	for symbol, quote := range quotes {
		if err := s.cache.Put("quote:"+symbol, quote, s.cfg.QuoteTTL); err != nil {
			return fmt.Errorf("failed to cache quote %s: %w", symbol, err)
		}
	}

	s.log.Debug().Int("quotes", len(quotes)).Msg("Quote cache refreshed")
	return nil
}

// quotes reads each symbol through the cache and batch-fetches the
// misses.
func (s *Service) quotes(symbols []string) (map[string]yahoo.Quote, error) {
	quotes := make(map[string]yahoo.Quote, len(symbols))

	var misses []string
	for _, symbol := range symbols {
		var quote yahoo.Quote
		err := s.cache.Get("quote:"+symbol, &quote)
		if err == nil {
			quotes[symbol] = quote
			continue
		}
		if !errors.Is(err, database.ErrCacheMiss) {
			s.log.Warn().Str("symbol", symbol).Err(err).Msg("Quote cache read failed")
		}
		misses = append(misses, symbol)
	}

	if len(misses) == 0 {
		return quotes, nil
	}

	fetched, err := s.provider.GetQuotes(misses)
	if err != nil {
		return nil, err
	}

	for symbol, quote := range fetched {
		quotes[symbol] = quote
		if err := s.cache.Put("quote:"+symbol, quote, s.cfg.QuoteTTL); err != nil {
			s.log.Warn().Str("symbol", symbol).Err(err).Msg("Failed to cache quote")
		}
	}

	return quotes, nil
}
