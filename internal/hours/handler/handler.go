// Package handler exposes activity logging and quarter summaries over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lobbyreg/internal/hours"
	"lobbyreg/internal/transport/shared"
	"lobbyreg/pkg/domain"
	dErrors "lobbyreg/pkg/domain-errors"
	"lobbyreg/pkg/requestcontext"
)

// Service defines the interface for hour tracking operations.
type Service interface {
	Log(ctx context.Context, entityID domain.EntityID, date time.Time, hrs float64, now time.Time) (*hours.ActivityLog, error)
	Summarize(ctx context.Context, entityID domain.EntityID, registrationStatus string, now time.Time) (*hours.Summary, error)
}

// Handler handles hour-tracking endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a new hours Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the hour-tracking routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/hours", h.handleLog)
	r.Get("/hours/summary", h.handleSummary)
}

type logRequest struct {
	EntityID domain.EntityID `json:"entityId"`
	Date     string          `json:"date"`
	Hours    float64         `json:"hours"`
}

func (h *Handler) handleLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid log hours request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		shared.WriteError(w, dErrors.Newf(dErrors.CodeValidation, "invalid date %q: use YYYY-MM-DD", req.Date))
		return
	}

	entry, err := h.service.Log(ctx, req.EntityID, date, req.Hours, requestcontext.Now(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, entry)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entityID, err := domain.ParseEntityID(r.URL.Query().Get("entityId"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "entityId query parameter is required"))
		return
	}
	registrationStatus := r.URL.Query().Get("registrationStatus")

	summary, err := h.service.Summarize(ctx, entityID, registrationStatus, requestcontext.Now(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, summary)
}
