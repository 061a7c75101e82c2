// Package handler exposes the exemption evaluator over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lobbyreg/internal/exemption"
	"lobbyreg/internal/transport/shared"
	dErrors "lobbyreg/pkg/domain-errors"
	"lobbyreg/pkg/requestcontext"
)

// Service defines the interface for exemption evaluation.
type Service interface {
	Check(ctx context.Context, profile exemption.Profile, now time.Time) (exemption.Result, error)
}

// Handler handles exemption endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a new exemption Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the exemption routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/exemption/check", h.handleCheck)
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var profile exemption.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		h.logger.WarnContext(ctx, "invalid exemption check request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.service.Check(ctx, profile, requestcontext.Now(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, result)
}
