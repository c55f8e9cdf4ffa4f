package market

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
	"github.com/rs/zerolog"
)

// HistoryStore persists daily closing prices, one SQLite file per
// symbol under the history directory. Splitting per symbol keeps
// writes independent and files small.
type HistoryStore struct {
	historyDir string
	log        zerolog.Logger
}

// NewHistoryStore creates a new history store
func NewHistoryStore(historyDir string, log zerolog.Logger) (*HistoryStore, error) {
	if err := os.MkdirAll(historyDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return &HistoryStore{
		historyDir: historyDir,
		log:        log.With().Str("component", "history_store").Logger(),
	}, nil
}

// SaveDailyCloses replaces the stored series for a symbol. Closes are
// oldest first; the period index preserves their order.
func (h *HistoryStore) SaveDailyCloses(symbol string, closes []float64) error {
	db, err := h.openHistoryDB(symbol)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM daily_closes`); err != nil {
		return fmt.Errorf("failed to clear daily closes: %w", err)
	}

	for i, close := range closes {
		if _, err := tx.Exec(`INSERT INTO daily_closes (period, close_price) VALUES (?, ?)`, i, close); err != nil {
			return fmt.Errorf("failed to insert close for %s: %w", symbol, err)
		}
	}

	return tx.Commit()
}

// GetDailyCloses returns up to limit stored closes, oldest first.
func (h *HistoryStore) GetDailyCloses(symbol string, limit int) ([]float64, error) {
	db, err := h.openHistoryDB(symbol)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(
		`SELECT close_price FROM (
			SELECT period, close_price FROM daily_closes ORDER BY period DESC LIMIT ?
		) ORDER BY period ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily closes: %w", err)
	}
	defer rows.Close()

	var closes []float64
	for rows.Next() {
		var close float64
		if err := rows.Scan(&close); err != nil {
			return nil, fmt.Errorf("failed to scan daily close: %w", err)
		}
		closes = append(closes, close)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily closes: %w", err)
	}

	return closes, nil
}

func (h *HistoryStore) openHistoryDB(symbol string) (*sql.DB, error) {
	path := filepath.Join(h.historyDir, sanitizeSymbol(symbol)+".db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db for %s: %w", symbol, err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS daily_closes (
		period      INTEGER PRIMARY KEY,
		close_price REAL NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema for %s: %w", symbol, err)
	}

	return db, nil
}

// sanitizeSymbol keeps history filenames filesystem-safe
func sanitizeSymbol(symbol string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "=", "_", ":", "_")
	return replacer.Replace(symbol)
}
