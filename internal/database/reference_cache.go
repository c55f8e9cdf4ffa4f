package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// ReferenceCache is a TTL cache for slow external lookups (quotes, FX,
// domicile country), backed by the main database. Keys are explicit
// (ticker or pair symbol plus a kind prefix) and every entry carries
// its own expiry, so the analytics core stays free of hidden state.
type ReferenceCache struct {
	db *sql.DB
}

// NewReferenceCache creates a cache over the given connection
func NewReferenceCache(db *sql.DB) *ReferenceCache {
	return &ReferenceCache{db: db}
}

// Get unmarshals the cached value for key into dest. Expired entries
// miss; they are removed lazily by Put and Purge.
func (c *ReferenceCache) Get(key string, dest interface{}) error {
	var (
		raw       string
		expiresAt int64
	)
	err := c.db.QueryRow(
		`SELECT value, expires_at FROM reference_cache WHERE cache_key = ?`, key,
	).Scan(&raw, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	if time.Now().Unix() >= expiresAt {
		return ErrCacheMiss
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}
	return nil
}

// Put stores value under key with the given TTL
func (c *ReferenceCache) Put(key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache key %s: %w", key, err)
	}

	_, err = c.db.Exec(
		`INSERT INTO reference_cache (cache_key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, string(raw), time.Now().Add(ttl).Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Purge removes expired entries
func (c *ReferenceCache) Purge() (int64, error) {
	res, err := c.db.Exec(`DELETE FROM reference_cache WHERE expires_at < ?`, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return res.RowsAffected()
}
