package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"countrysearch/internal/countries/service"
	"countrysearch/pkg/platform/httputil"
	"countrysearch/pkg/requestcontext"
)

// Service defines the interface for country search operations.
type Service interface {
	Search(ctx context.Context, req service.Request) (*service.Result, error)
}

// Handler wires country search endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a country search handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts country endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/countries/search", h.HandleSearch)
}

// HandleSearch handles GET /countries/search requests.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := requestcontext.Now(ctx)

	req, err := ParseSearchRequest(r.URL.Query())
	if err != nil {
		h.logger.WarnContext(ctx, "invalid search request",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Search(ctx, req.ToServiceRequest())
	if err != nil {
		h.logger.ErrorContext(ctx, "country search failed",
			"request_id", requestID,
			"strategy", req.Strategy,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "country search served",
		"request_id", requestID,
		"strategy", req.Strategy,
		"fields", req.Fields,
		"shown", result.Shown,
		"total", result.Total,
		"partial", result.Measurement.Partial(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromResult(result, req.IncludeMetadata))
}
