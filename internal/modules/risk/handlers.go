package risk

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
)

// Trailing-window sizes per analysis period, in trading days.
var periodDays = map[string]int{
	"1mo": 21,
	"3mo": 63,
	"6mo": 126,
	"1y":  252,
	"2y":  504,
}

// Horizon scaling factors applied to native daily figures under an
// independent-returns assumption. This is presentation-layer scaling;
// the engine itself never annualizes.
var scaleFactors = map[string]float64{
	"daily":   1,
	"monthly": math.Sqrt(20),  // 20 trading days
	"annual":  math.Sqrt(252), // 252 trading days
}

// Handler handles risk HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new risk handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "risk").Logger(),
	}
}

// HandleGetMetrics returns portfolio risk metrics.
// Query: period (1mo|3mo|6mo|1y|2y, default 1y), scale (daily|monthly|annual).
func (h *Handler) HandleGetMetrics(w http.ResponseWriter, r *http.Request) {
	days, scale, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	metrics, err := h.service.Metrics(days)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	metrics.PortfolioVolatility *= scale
	scaledVols := make(map[string]float64, len(metrics.IndividualVolatilities))
	for ticker, vol := range metrics.IndividualVolatilities {
		scaledVols[ticker] = vol * scale
	}
	metrics.IndividualVolatilities = scaledVols

	h.writeJSON(w, http.StatusOK, metrics)
}

// HandleGetVar returns historical VaR/CVaR figures.
func (h *Handler) HandleGetVar(w http.ResponseWriter, r *http.Request) {
	days, scale, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	metrics, err := h.service.VarCvar(days)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	metrics.VaR95 *= scale
	metrics.VaR99 *= scale
	metrics.CVaR95 *= scale
	metrics.CVaR99 *= scale

	h.writeJSON(w, http.StatusOK, metrics)
}

// HandleGetStress runs a stress scenario.
// Query: factor (default 1.5), shock (default 0.8), plus period/scale.
func (h *Handler) HandleGetStress(w http.ResponseWriter, r *http.Request) {
	days, scale, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	factor := 1.5
	if v := r.URL.Query().Get("factor"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid factor")
			return
		}
		factor = parsed
	}

	shock := 0.8
	if v := r.URL.Query().Get("shock"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid shock")
			return
		}
		shock = parsed
	}

	result, err := h.service.Stress(days, factor, shock)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	result.NormalPortfolioVol *= scale
	result.StressedPortfolioVol *= scale

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) parseWindow(w http.ResponseWriter, r *http.Request) (days int, scale float64, ok bool) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "1y"
	}
	days, found := periodDays[period]
	if !found {
		h.writeError(w, http.StatusBadRequest, "invalid period, want one of 1mo|3mo|6mo|1y|2y")
		return 0, 0, false
	}

	scaleName := r.URL.Query().Get("scale")
	if scaleName == "" {
		scaleName = "daily"
	}
	scale, found = scaleFactors[scaleName]
	if !found {
		h.writeError(w, http.StatusBadRequest, "invalid scale, want one of daily|monthly|annual")
		return 0, 0, false
	}

	return days, scale, true
}

// writeServiceError maps typed analysis failures onto HTTP statuses:
// bad scenario arguments are the client's fault, thin data is an
// unprocessable request, anything else is a server error.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidScenario):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInsufficientData):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.Error().Err(err).Msg("Risk analysis failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
	}
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
