package portfolio

import (
	"database/sql"
	"fmt"
	"time"
)

// Repository stores uploaded positions
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new position repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ReplaceAll replaces the stored portfolio with the given positions in
// one transaction. An upload is always a full snapshot.
func (r *Repository) ReplaceAll(positions []Position) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM positions`); err != nil {
		return fmt.Errorf("failed to clear positions: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, pos := range positions {
		_, err := tx.Exec(
			`INSERT INTO positions (ticker, shares, avg_cost_home, uploaded_at) VALUES (?, ?, ?, ?)`,
			pos.Ticker, pos.Shares, pos.AvgCostHome, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert position %s: %w", pos.Ticker, err)
		}
	}

	return tx.Commit()
}

// GetAll returns all stored positions in upload order
func (r *Repository) GetAll() ([]Position, error) {
	rows, err := r.db.Query(`SELECT ticker, shares, avg_cost_home FROM positions ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []Position
	for rows.Next() {
		var pos Position
		if err := rows.Scan(&pos.Ticker, &pos.Shares, &pos.AvgCostHome); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, pos)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}

	return positions, nil
}
