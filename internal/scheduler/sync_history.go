package scheduler

import (
	"github.com/rs/zerolog"
)

// HistorySource fetches and persists daily close history.
type HistorySource interface {
	DailyCloses(ticker string, days int) ([]float64, error)
}

// SyncHistoryJob pulls daily close history for every held ticker so
// the risk endpoints can answer from local storage even when the
// provider is slow or down.
type SyncHistoryJob struct {
	positions TickerSource
	history   HistorySource
	days      int
	log       zerolog.Logger
}

// NewSyncHistoryJob creates a new history sync job. days is the window
// to keep per ticker; two years covers the longest risk period.
func NewSyncHistoryJob(positions TickerSource, history HistorySource, days int, log zerolog.Logger) *SyncHistoryJob {
	return &SyncHistoryJob{
		positions: positions,
		history:   history,
		days:      days,
		log:       log.With().Str("job", "sync_history").Logger(),
	}
}

// Name returns the job name
func (j *SyncHistoryJob) Name() string {
	return "sync_history"
}

// Run syncs history for all held tickers. Per-ticker failures are
// logged and skipped; the rest of the portfolio still syncs.
func (j *SyncHistoryJob) Run() error {
	tickers, err := j.positions.Tickers()
	if err != nil {
		return err
	}

	synced := 0
	for _, ticker := range tickers {
		if _, err := j.history.DailyCloses(ticker, j.days); err != nil {
			j.log.Warn().Str("ticker", ticker).Err(err).Msg("History sync failed")
			continue
		}
		synced++
	}

	j.log.Info().Int("synced", synced).Int("total", len(tickers)).Msg("History sync complete")
	return nil
}
