package insights

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/de-tools/farm-insights/pkg/adapters"
	"github.com/de-tools/farm-insights/pkg/models/api"
	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/de-tools/farm-insights/pkg/services/insights"
	"github.com/de-tools/farm-insights/pkg/services/schema"
	"github.com/de-tools/farm-insights/pkg/services/sources"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 90 * time.Second
	maxBodyBytes   = 4 << 20
)

type Handler struct {
	insights insights.Service
	records  sources.Loader // nil when no warehouse source is configured
	timeout  time.Duration
}

func NewHandler(svc insights.Service, records sources.Loader, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Handler{
		insights: svc,
		records:  records,
		timeout:  timeout,
	}
}

func (h *Handler) AnalyzeRecords(w http.ResponseWriter, r *http.Request) {
	var req api.AnalysisRequest
	if !decode(w, r, &req) {
		return
	}

	records, err := adapters.MapFarmRecordsApiToDomain(req.Records)
	if err != nil {
		writeError(w, r, domain.NewError(domain.KindInput, "invalid farm records", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	analysis, err := h.insights.AnalyzeCosts(ctx, records)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapCostAnalysisDomainToApi(analysis))
}

func (h *Handler) PredictYield(w http.ResponseWriter, r *http.Request) {
	var req api.PredictionRequest
	if !decode(w, r, &req) {
		return
	}

	records, err := adapters.MapFarmRecordsApiToDomain(req.Records)
	if err != nil {
		writeError(w, r, domain.NewError(domain.KindInput, "invalid farm records", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	prediction, err := h.insights.PredictYield(ctx, adapters.MapPlantingContextApiToDomain(req.Planting), records)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapYieldPredictionDomainToApi(prediction))
}

func (h *Handler) AnalyzeCollection(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	if h.records == nil {
		writeError(w, r, domain.Errorf(domain.KindConfiguration, "no record source configured"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	records, err := h.records.LoadRecords(ctx, collection)
	if err != nil {
		writeError(w, r, err)
		return
	}

	analysis, err := h.insights.AnalyzeCosts(ctx, records)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapCostAnalysisDomainToApi(analysis))
}

func (h *Handler) ListSchemas(w http.ResponseWriter, r *http.Request) {
	all := schema.All()
	response := make([]api.Schema, 0, len(all))
	for _, s := range all {
		response = append(response, api.Schema{
			ID:      s.ID(),
			Shape:   s.Shape(),
			Example: s.Example(),
		})
	}
	writeJSON(w, r, http.StatusOK, response)
}

// StatusFor maps an error kind to the HTTP status returned to clients.
func StatusFor(kind domain.ErrorKind) int {
	switch {
	case kind == domain.KindInput:
		return http.StatusBadRequest
	case kind == domain.KindConfiguration:
		return http.StatusServiceUnavailable
	case kind == domain.KindRateLimited:
		return http.StatusTooManyRequests
	case kind.IsTransport(), kind.IsOutput():
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, domain.NewError(domain.KindInput, "malformed request body", err))
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	var derr *domain.Error
	if !errors.As(err, &derr) {
		logger.Error().Err(err).Msg("request failed")
		writeJSON(w, r, http.StatusInternalServerError, api.Error{
			Kind:    "internal",
			Message: "internal error",
		})
		return
	}

	status := StatusFor(derr.Kind)
	logger.Warn().
		Err(err).
		Str("kind", string(derr.Kind)).
		Int("status", status).
		Msg("request failed")

	if derr.Kind == domain.KindRateLimited && derr.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(derr.RetryAfter.Seconds())))
	}
	writeJSON(w, r, status, adapters.MapErrorDomainToApi(derr))
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
