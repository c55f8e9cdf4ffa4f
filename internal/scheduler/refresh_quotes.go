package scheduler

import (
	"github.com/rs/zerolog"
)

// TickerSource lists the tickers currently held in the portfolio.
type TickerSource interface {
	Tickers() ([]string, error)
}

// QuoteRefresher re-fetches quotes, bypassing the cache TTL.
type QuoteRefresher interface {
	RefreshQuotes(tickers []string) error
}

// RefreshQuotesJob keeps the quote cache warm for held tickers so
// dashboard requests rarely wait on the upstream provider.
type RefreshQuotesJob struct {
	positions TickerSource
	market    QuoteRefresher
	log       zerolog.Logger
}

// NewRefreshQuotesJob creates a new quote refresh job
func NewRefreshQuotesJob(positions TickerSource, market QuoteRefresher, log zerolog.Logger) *RefreshQuotesJob {
	return &RefreshQuotesJob{
		positions: positions,
		market:    market,
		log:       log.With().Str("job", "refresh_quotes").Logger(),
	}
}

// Name returns the job name
func (j *RefreshQuotesJob) Name() string {
	return "refresh_quotes"
}

// Run refreshes quotes for all held tickers
func (j *RefreshQuotesJob) Run() error {
	tickers, err := j.positions.Tickers()
	if err != nil {
		return err
	}
	if len(tickers) == 0 {
		j.log.Debug().Msg("No positions, nothing to refresh")
		return nil
	}

	return j.market.RefreshQuotes(tickers)
}
