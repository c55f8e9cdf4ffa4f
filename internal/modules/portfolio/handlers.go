package portfolio

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// Handler handles portfolio HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "portfolio").Logger(),
	}
}

// HandleUpload accepts a positions CSV (Ticker,Shares,AvgCostJPY with a
// header row) and replaces the stored portfolio. Rows the loader
// rejects are reported back; a file with no valid rows is a 400.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	positions, rowErrors, err := LoadCSV(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if len(positions) == 0 {
		h.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":      "no valid positions in upload",
			"row_errors": rowErrors,
		})
		return
	}

	if err := h.service.ReplacePositions(positions); err != nil {
		h.log.Error().Err(err).Msg("Failed to store positions")
		h.writeError(w, http.StatusInternalServerError, "failed to store positions")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"positions_loaded": len(positions),
		"row_errors":       rowErrors,
	})
}

// HandleGetPositions returns the valued position results
func (h *Handler) HandleGetPositions(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.BuildResults()
	if err != nil {
		h.log.Error().Err(err).Msg("Valuation failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"positions": results,
	})
}

// HandleGetSummary returns aggregate figures for the portfolio
func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	summary, performance, sizing, err := h.service.Summary()
	if err != nil {
		h.log.Error().Err(err).Msg("Summary failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary":     summary,
		"performance": performance,
		"sizing":      sizing,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
