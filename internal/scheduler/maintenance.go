package scheduler

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-insight/internal/database"
)

// MaintenanceJob keeps the storage layer healthy: it purges expired
// cache entries, verifies the main database, and removes corrupted
// per-symbol history files so the next sync rebuilds them.
type MaintenanceJob struct {
	db         *database.DB
	cache      *database.ReferenceCache
	historyDir string
	log        zerolog.Logger
}

// NewMaintenanceJob creates a new maintenance job
func NewMaintenanceJob(db *database.DB, cache *database.ReferenceCache, historyDir string, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		db:         db,
		cache:      cache,
		historyDir: historyDir,
		log:        log.With().Str("job", "maintenance").Logger(),
	}
}

// Name returns the job name
func (j *MaintenanceJob) Name() string {
	return "maintenance"
}

// Run executes the maintenance pass
func (j *MaintenanceJob) Run() error {
	start := time.Now()

	purged, err := j.cache.Purge()
	if err != nil {
		j.log.Error().Err(err).Msg("Cache purge failed")
	} else if purged > 0 {
		j.log.Debug().Int64("purged", purged).Msg("Expired cache entries removed")
	}

	if err := checkIntegrity(j.db.Conn()); err != nil {
		// Main database corruption cannot be auto-recovered
		return fmt.Errorf("main database integrity check failed: %w", err)
	}

	j.checkHistoryDatabases()

	j.log.Info().Dur("duration", time.Since(start)).Msg("Maintenance pass complete")
	return nil
}

// checkHistoryDatabases verifies each per-symbol history file and
// deletes corrupted ones. They are rebuilt by the next history sync.
func (j *MaintenanceJob) checkHistoryDatabases() {
	entries, err := os.ReadDir(j.historyDir)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		j.log.Error().Err(err).Msg("Failed to read history directory")
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".db") {
			continue
		}

		path := filepath.Join(j.historyDir, entry.Name())
		symbol := strings.TrimSuffix(entry.Name(), ".db")

		db, err := sql.Open("sqlite", path)
		if err != nil {
			j.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to open history database")
			continue
		}

		err = checkIntegrity(db)
		db.Close()
		if err == nil {
			continue
		}

		j.log.Warn().Err(err).Str("symbol", symbol).Msg("History database corrupted, removing")
		if err := os.Remove(path); err != nil {
			j.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to remove corrupted history database")
			continue
		}
		removed++
	}

	if removed > 0 {
		j.log.Warn().Int("removed", removed).Msg("Corrupted history databases removed for rebuild")
	}
}

// checkIntegrity runs SQLite's PRAGMA integrity_check
func checkIntegrity(db *sql.DB) error {
	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check returned: %s", result)
	}
	return nil
}
