// Package handler exposes the violation and appeal lifecycles over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lobbyreg/internal/enforcement"
	"lobbyreg/internal/transport/shared"
	"lobbyreg/pkg/domain"
	dErrors "lobbyreg/pkg/domain-errors"
	"lobbyreg/pkg/requestcontext"
)

// Service defines the interface for enforcement operations.
type Service interface {
	Issue(ctx context.Context, params enforcement.IssueParams, now time.Time) (*enforcement.Violation, error)
	Release(ctx context.Context, id domain.ViolationID, now time.Time) (*enforcement.Violation, error)
	FileAppeal(ctx context.Context, violationID domain.ViolationID, reason string, now time.Time) (*enforcement.Appeal, error)
	ScheduleHearing(ctx context.Context, appealID domain.AppealID, hearingDate time.Time) (*enforcement.Appeal, error)
	DecideAppeal(ctx context.Context, appealID domain.AppealID, outcome enforcement.Outcome, notes string, now time.Time) (*enforcement.Appeal, *enforcement.Violation, error)
	MarkPaid(ctx context.Context, id domain.ViolationID, notes string, now time.Time) (*enforcement.Violation, error)
	MarkWaived(ctx context.Context, id domain.ViolationID, notes string, now time.Time) (*enforcement.Violation, error)
	GetViolation(ctx context.Context, id domain.ViolationID) (*enforcement.Violation, error)
	GetAppeal(ctx context.Context, id domain.AppealID) (*enforcement.Appeal, error)
}

// Handler handles enforcement endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a new enforcement Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the enforcement routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/violations", h.handleIssue)
	r.Get("/violations/{id}", h.handleGetViolation)
	r.Post("/violations/{id}/release", h.handleRelease)
	r.Post("/violations/{id}/appeal", h.handleFileAppeal)
	r.Post("/violations/{id}/pay", h.handleMarkPaid)
	r.Post("/violations/{id}/waive", h.handleMarkWaived)

	r.Get("/appeals/{id}", h.handleGetAppeal)
	r.Post("/appeals/{id}/hearing", h.handleScheduleHearing)
	r.Post("/appeals/{id}/decision", h.handleDecideAppeal)
}

type issueRequest struct {
	EntityType    string          `json:"entityType"`
	EntityID      domain.EntityID `json:"entityId"`
	ViolationType string          `json:"violationType"`
	Description   string          `json:"description"`
	FineAmount    int             `json:"fineAmount"`
	Queued        bool            `json:"queued"`
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badBody(ctx, w, "issue violation", err)
		return
	}

	entityType, err := domain.ParseEntityType(req.EntityType)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	v, err := h.service.Issue(ctx, enforcement.IssueParams{
		EntityType:    entityType,
		EntityID:      req.EntityID,
		ViolationType: enforcement.ViolationType(req.ViolationType),
		Description:   req.Description,
		FineAmount:    req.FineAmount,
		Queued:        req.Queued,
	}, requestcontext.Now(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, v)
}

func (h *Handler) handleGetViolation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.violationID(w, r)
	if !ok {
		return
	}
	v, err := h.service.GetViolation(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleRelease(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.violationID(w, r)
	if !ok {
		return
	}
	v, err := h.service.Release(ctx, id, requestcontext.Now(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, v)
}

type appealRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) handleFileAppeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.violationID(w, r)
	if !ok {
		return
	}

	var req appealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badBody(ctx, w, "file appeal", err)
		return
	}

	appeal, err := h.service.FileAppeal(ctx, id, req.Reason, requestcontext.Now(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, appeal)
}

type resolutionRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.service.MarkPaid)
}

func (h *Handler) handleMarkWaived(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.service.MarkWaived)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, id domain.ViolationID, notes string, now time.Time) (*enforcement.Violation, error)) {
	ctx := r.Context()
	id, ok := h.violationID(w, r)
	if !ok {
		return
	}

	// Notes are optional; an empty body is fine.
	var req resolutionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	v, err := op(ctx, id, req.Notes, requestcontext.Now(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleGetAppeal(w http.ResponseWriter, r *http.Request) {
	id, ok := h.appealID(w, r)
	if !ok {
		return
	}
	appeal, err := h.service.GetAppeal(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, appeal)
}

type hearingRequest struct {
	HearingDate string `json:"hearingDate"`
}

func (h *Handler) handleScheduleHearing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.appealID(w, r)
	if !ok {
		return
	}

	var req hearingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badBody(ctx, w, "schedule hearing", err)
		return
	}
	hearingDate, err := time.Parse(time.DateOnly, req.HearingDate)
	if err != nil {
		shared.WriteError(w, dErrors.Newf(dErrors.CodeValidation, "invalid hearing date %q: use YYYY-MM-DD", req.HearingDate))
		return
	}

	appeal, err := h.service.ScheduleHearing(ctx, id, hearingDate)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, appeal)
}

type decisionRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes"`
}

type decisionResponse struct {
	Appeal    *enforcement.Appeal    `json:"appeal"`
	Violation *enforcement.Violation `json:"violation"`
}

func (h *Handler) handleDecideAppeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.appealID(w, r)
	if !ok {
		return
	}

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badBody(ctx, w, "decide appeal", err)
		return
	}
	outcome, err := enforcement.ParseOutcome(req.Decision)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	appeal, violation, err := h.service.DecideAppeal(ctx, id, outcome, req.Notes, requestcontext.Now(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, decisionResponse{Appeal: appeal, Violation: violation})
}

func (h *Handler) violationID(w http.ResponseWriter, r *http.Request) (domain.ViolationID, bool) {
	id, err := domain.ParseViolationID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid violation id"))
		return domain.ViolationID{}, false
	}
	return id, true
}

func (h *Handler) appealID(w http.ResponseWriter, r *http.Request) (domain.AppealID, bool) {
	id, err := domain.ParseAppealID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid appeal id"))
		return domain.AppealID{}, false
	}
	return id, true
}

func (h *Handler) badBody(ctx context.Context, w http.ResponseWriter, op string, err error) {
	h.logger.WarnContext(ctx, "invalid request body",
		"request_id", requestcontext.RequestID(ctx),
		"operation", op,
		"error", err.Error(),
	)
	shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
}
