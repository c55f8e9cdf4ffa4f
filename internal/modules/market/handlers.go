package market

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// TickerSource lists the tickers the dashboard currently holds.
type TickerSource interface {
	Tickers() ([]string, error)
}

// Handler handles market data HTTP requests
type Handler struct {
	service   *Service
	positions TickerSource
	log       zerolog.Logger
}

// NewHandler creates a new market handler
func NewHandler(service *Service, positions TickerSource, log zerolog.Logger) *Handler {
	return &Handler{
		service:   service,
		positions: positions,
		log:       log.With().Str("handler", "market").Logger(),
	}
}

// HandleGetIndicators returns technical indicators for every held ticker
func (h *Handler) HandleGetIndicators(w http.ResponseWriter, r *http.Request) {
	tickers, err := h.positions.Tickers()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load tickers")
		h.writeError(w, http.StatusInternalServerError, "failed to load tickers")
		return
	}

	indicators := h.service.Indicators(tickers)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"indicators": indicators,
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
