package market

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/portfolio-insight/internal/clients/yahoo"
	"github.com/aristath/portfolio-insight/internal/database"
)

type fakeProvider struct {
	quotes       map[string]yahoo.Quote
	quoteCalls   int
	lastSymbols  []string
	closes       map[string][]float64
	closesErr    error
	closesCalls  int
	countries    map[string]string
	countryCalls int
}

func (f *fakeProvider) GetQuotes(symbols []string) (map[string]yahoo.Quote, error) {
	f.quoteCalls++
	f.lastSymbols = symbols
	result := make(map[string]yahoo.Quote)
	for _, symbol := range symbols {
		if quote, ok := f.quotes[symbol]; ok {
			result[symbol] = quote
		}
	}
	return result, nil
}

func (f *fakeProvider) GetDailyCloses(symbol string, days int) ([]float64, error) {
	f.closesCalls++
	if f.closesErr != nil {
		return nil, f.closesErr
	}
	closes, ok := f.closes[symbol]
	if !ok {
		return nil, errors.New("no data")
	}
	return closes, nil
}

func (f *fakeProvider) GetCountry(symbol string) (string, error) {
	f.countryCalls++
	return f.countries[symbol], nil
}

func newTestService(t *testing.T, provider *fakeProvider, cfg Config) *Service {
	t.Helper()

	dir := t.TempDir()

	db, err := database.New(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	history, err := NewHistoryStore(filepath.Join(dir, "history"), zerolog.Nop())
	require.NoError(t, err)

	cache := database.NewReferenceCache(db.Conn())
	return NewService(provider, cache, history, cfg, zerolog.Nop())
}

func TestCurrentPricesCachesQuotes(t *testing.T) {
	provider := &fakeProvider{
		quotes: map[string]yahoo.Quote{
			"AAPL":   {Symbol: "AAPL", Price: 190.0, Currency: "USD"},
			"7203.T": {Symbol: "7203.T", Price: 2800.0, Currency: "JPY"},
		},
	}
	svc := newTestService(t, provider, Config{QuoteTTL: time.Minute, CountryTTL: time.Hour})

	prices, err := svc.CurrentPrices([]string{"AAPL", "7203.T"})
	require.NoError(t, err)
	assert.Equal(t, 190.0, prices["AAPL"])
	assert.Equal(t, 2800.0, prices["7203.T"])
	assert.Equal(t, 1, provider.quoteCalls)

	// Second read within the TTL must come from the cache
	prices, err = svc.CurrentPrices([]string{"AAPL", "7203.T"})
	require.NoError(t, err)
	assert.Equal(t, 190.0, prices["AAPL"])
	assert.Equal(t, 1, provider.quoteCalls)
}

func TestCurrentPricesOmitsUnknownTickers(t *testing.T) {
	provider := &fakeProvider{
		quotes: map[string]yahoo.Quote{
			"AAPL": {Symbol: "AAPL", Price: 190.0, Currency: "USD"},
		},
	}
	svc := newTestService(t, provider, Config{QuoteTTL: time.Minute})

	prices, err := svc.CurrentPrices([]string{"AAPL", "GHOST"})
	require.NoError(t, err)

	assert.Contains(t, prices, "AAPL")
	assert.NotContains(t, prices, "GHOST")
}

func TestFxRatesBuildsPairSymbols(t *testing.T) {
	provider := &fakeProvider{
		quotes: map[string]yahoo.Quote{
			"USDJPY=X": {Symbol: "USDJPY=X", Price: 148.5, Currency: "JPY"},
			"EURJPY=X": {Symbol: "EURJPY=X", Price: 161.2, Currency: "JPY"},
		},
	}
	svc := newTestService(t, provider, Config{QuoteTTL: time.Minute})

	table, err := svc.FxRates([]string{"USD", "EUR", "JPY"}, "JPY")
	require.NoError(t, err)

	// Home currency never becomes a pair
	assert.ElementsMatch(t, []string{"USDJPY=X", "EURJPY=X"}, provider.lastSymbols)
	assert.Equal(t, 148.5, table["USDJPY=X"])
	assert.Equal(t, 161.2, table["EURJPY=X"])
}

func TestFxRatesHomeOnly(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(t, provider, Config{QuoteTTL: time.Minute})

	table, err := svc.FxRates([]string{"JPY"}, "JPY")
	require.NoError(t, err)
	assert.Empty(t, table)
	assert.Equal(t, 0, provider.quoteCalls)
}

func TestCountriesCachesLookups(t *testing.T) {
	provider := &fakeProvider{
		countries: map[string]string{
			"AAPL":   "United States",
			"7203.T": "Japan",
		},
	}
	svc := newTestService(t, provider, Config{QuoteTTL: time.Minute, CountryTTL: time.Hour})

	countries, err := svc.Countries([]string{"AAPL", "7203.T", "GHOST"})
	require.NoError(t, err)
	assert.Equal(t, "United States", countries["AAPL"])
	assert.Equal(t, "Japan", countries["7203.T"])
	assert.NotContains(t, countries, "GHOST")
	assert.Equal(t, 3, provider.countryCalls)

	// Cached lookups, including the empty one, skip the provider
	_, err = svc.Countries([]string{"AAPL", "7203.T", "GHOST"})
	require.NoError(t, err)
	assert.Equal(t, 3, provider.countryCalls)
}

func TestDailyClosesPersistsAndServesStored(t *testing.T) {
	provider := &fakeProvider{
		closes: map[string][]float64{
			"AAPL": {100, 101, 102, 103},
		},
	}
	// Negative TTL keeps every fetch "stale" so the second call goes
	// back to the provider and exercises the stored-series fallback.
	svc := newTestService(t, provider, Config{QuoteTTL: time.Minute, HistoryTTL: -time.Second})

	closes, err := svc.DailyCloses("AAPL", 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 101, 102, 103}, closes)

	provider.closesErr = errors.New("provider down")
	closes, err = svc.DailyCloses("AAPL", 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 101, 102, 103}, closes)
}

func TestDailyClosesErrorsWithoutStoredSeries(t *testing.T) {
	provider := &fakeProvider{closesErr: errors.New("provider down")}
	svc := newTestService(t, provider, Config{QuoteTTL: time.Minute})

	_, err := svc.DailyCloses("GHOST", 10)
	assert.Error(t, err)
}

func TestIndicatorsSkipsFailedHistory(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	provider := &fakeProvider{
		closes: map[string][]float64{"AAPL": closes},
	}
	svc := newTestService(t, provider, Config{QuoteTTL: time.Minute, RiskFreeRate: 0.02})

	indicators := svc.Indicators([]string{"AAPL", "GHOST"})

	require.Len(t, indicators, 1)
	assert.Equal(t, "AAPL", indicators[0].Ticker)
	assert.Equal(t, 60, indicators[0].Periods)
	require.NotNil(t, indicators[0].RSI)
	require.NotNil(t, indicators[0].SMA50)
	require.NotNil(t, indicators[0].Momentum20D)
	require.NotNil(t, indicators[0].MaxDrawdown)
	// Monotonically rising series never draws down
	assert.Equal(t, 0.0, *indicators[0].MaxDrawdown)
	require.NotNil(t, indicators[0].SharpeRatio)
	assert.Positive(t, *indicators[0].SharpeRatio)
}
