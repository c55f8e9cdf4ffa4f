package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-insight/internal/database"
	"github.com/aristath/portfolio-insight/internal/scheduler"
)

// SystemHandlers handles monitoring and operations endpoints
type SystemHandlers struct {
	log        zerolog.Logger
	db         *database.DB
	historyDir string
	scheduler  *scheduler.Scheduler
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(db *database.DB, historyDir string, sched *scheduler.Scheduler, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		log:        log.With().Str("component", "system_handlers").Logger(),
		db:         db,
		historyDir: historyDir,
		scheduler:  sched,
	}
}

// SystemStatusResponse represents the system status response
type SystemStatusResponse struct {
	PositionCount int      `json:"position_count"`
	LastUpload    string   `json:"last_upload,omitempty"`
	CacheEntries  int      `json:"cache_entries"`
	HistoryDBs    int      `json:"history_dbs"`
	HistorySizeMB float64  `json:"history_size_mb"`
	Jobs          []string `json:"jobs"`
	Goroutines    int      `json:"goroutines"`
	AllocMB       uint64   `json:"alloc_mb"`
}

// HandleSystemStatus returns storage and runtime status for the dashboard
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	var (
		positionCount int
		lastUpload    sql.NullString
	)
	err := h.db.QueryRow(`SELECT COUNT(*), MAX(uploaded_at) FROM positions`).Scan(&positionCount, &lastUpload)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		h.log.Error().Err(err).Msg("Failed to query positions")
	}

	formatted := ""
	if lastUpload.Valid {
		if t, err := time.Parse(time.RFC3339, lastUpload.String); err == nil {
			formatted = t.Format("2006-01-02 15:04")
		}
	}

	var cacheEntries int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM reference_cache`).Scan(&cacheEntries); err != nil {
		h.log.Error().Err(err).Msg("Failed to query cache entries")
	}

	historyCount, historySize := h.historyStats()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	h.writeJSON(w, http.StatusOK, SystemStatusResponse{
		PositionCount: positionCount,
		LastUpload:    formatted,
		CacheEntries:  cacheEntries,
		HistoryDBs:    historyCount,
		HistorySizeMB: historySize,
		Jobs:          h.scheduler.JobNames(),
		Goroutines:    runtime.NumGoroutine(),
		AllocMB:       m.Alloc / 1024 / 1024,
	})
}

// HandleTriggerJob runs a registered background job immediately.
// POST /api/system/jobs/{name}
func (h *SystemHandlers) HandleTriggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	h.log.Info().Str("job", name).Msg("Manual job trigger")

	if err := h.scheduler.Trigger(name); err != nil {
		if errors.Is(err, scheduler.ErrUnknownJob) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{
				"error": err.Error(),
			})
			return
		}
		h.log.Error().Err(err).Str("job", name).Msg("Job trigger failed")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"job":    name,
	})
}

// historyStats counts per-symbol history databases and their total size
func (h *SystemHandlers) historyStats() (int, float64) {
	entries, err := os.ReadDir(h.historyDir)
	if err != nil {
		return 0, 0
	}

	count := 0
	var bytes int64
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".db" {
			continue
		}
		count++
		if info, err := entry.Info(); err == nil {
			bytes += info.Size()
		}
	}

	return count, float64(bytes) / 1024 / 1024
}

// writeJSON writes a JSON response
func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
