// Package enforcement drives the violation and appeal lifecycles: issuing
// violations, filing appeals, scheduling hearings, and cascading appeal
// decisions back onto the parent violation.
package enforcement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"lobbyreg/internal/platform/metrics"
	"lobbyreg/pkg/domain"
	dErrors "lobbyreg/pkg/domain-errors"
	"lobbyreg/pkg/platform/sentinel"
	"lobbyreg/pkg/requestcontext"
)

type Service struct {
	violations ViolationStore
	appeals    AppealStore
	tx         TxRunner
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(violations ViolationStore, appeals AppealStore, tx TxRunner, opts ...Option) (*Service, error) {
	if violations == nil {
		return nil, fmt.Errorf("violation store is required")
	}
	if appeals == nil {
		return nil, fmt.Errorf("appeal store is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}

	svc := &Service{
		violations: violations,
		appeals:    appeals,
		tx:         tx,
		logger:     slog.Default(),
		tracer:     otel.Tracer("lobbyreg/enforcement"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// IssueParams carries the enforcement action's inputs.
type IssueParams struct {
	EntityType    domain.EntityType
	EntityID      domain.EntityID
	ViolationType ViolationType
	Description   string
	FineAmount    int
	Queued        bool
}

// Issue records a new violation. Queued violations start PENDING for review;
// otherwise the violation is ISSUED and its appeal window opens at now.
func (s *Service) Issue(ctx context.Context, params IssueParams, now time.Time) (*Violation, error) {
	ctx, span := s.tracer.Start(ctx, "enforcement.Issue")
	defer span.End()

	v, err := NewViolation(params.EntityType, params.EntityID, params.ViolationType,
		params.Description, params.FineAmount, params.Queued, now)
	if err != nil {
		return nil, err
	}
	if err := s.violations.Create(ctx, v); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create violation")
	}

	if s.metrics != nil {
		s.metrics.ViolationsIssued.Inc()
	}
	span.SetAttributes(attribute.String("violation.id", v.ID.String()))
	s.logger.InfoContext(ctx, "violation issued",
		"violation_id", v.ID,
		"actor", requestcontext.ActorID(ctx),
		"entity_id", v.EntityID,
		"violation_type", string(v.ViolationType),
		"fine_amount", v.FineAmount,
		"status", v.Status.String(),
	)
	return v, nil
}

// Release issues a queued violation; the appeal window starts at now.
func (s *Service) Release(ctx context.Context, id domain.ViolationID, now time.Time) (*Violation, error) {
	ctx, span := s.tracer.Start(ctx, "enforcement.Release")
	defer span.End()

	v, err := s.getViolation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := v.CanRelease(); err != nil {
		return nil, s.rejected(ctx, err)
	}
	v.ApplyRelease(now)
	if err := s.violations.Update(ctx, v, StatusPending); err != nil {
		return nil, s.storeErr(err, "failed to release violation")
	}
	return v, nil
}

// FileAppeal files an appeal against an issued violation. The violation moves
// to APPEALED and the appeal is created in the same transaction; both land or
// neither does.
func (s *Service) FileAppeal(ctx context.Context, violationID domain.ViolationID, reason string, now time.Time) (*Appeal, error) {
	ctx, span := s.tracer.Start(ctx, "enforcement.FileAppeal")
	defer span.End()

	v, err := s.getViolation(ctx, violationID)
	if err != nil {
		return nil, err
	}

	appeal, err := NewAppeal(v, reason, now)
	if err != nil {
		return nil, s.rejected(ctx, err)
	}
	v.ApplyAppeal(now)

	err = s.tx.RunInTx(ctx, func(st Stores) error {
		if err := st.Violations.Update(ctx, v, StatusIssued); err != nil {
			return err
		}
		return st.Appeals.Create(ctx, appeal)
	})
	if err != nil {
		return nil, s.storeErr(err, "failed to file appeal")
	}

	if s.metrics != nil {
		s.metrics.AppealsFiled.Inc()
	}
	span.SetAttributes(attribute.String("appeal.id", appeal.ID.String()))
	s.logger.InfoContext(ctx, "appeal filed",
		"appeal_id", appeal.ID,
		"violation_id", violationID,
		"appeal_deadline", appeal.AppealDeadline.Format(time.DateOnly),
	)
	return appeal, nil
}

// ScheduleHearing puts a hearing on the calendar for a pending appeal.
func (s *Service) ScheduleHearing(ctx context.Context, appealID domain.AppealID, hearingDate time.Time) (*Appeal, error) {
	ctx, span := s.tracer.Start(ctx, "enforcement.ScheduleHearing")
	defer span.End()

	a, err := s.getAppeal(ctx, appealID)
	if err != nil {
		return nil, err
	}
	if err := a.CanScheduleHearing(hearingDate); err != nil {
		return nil, s.rejected(ctx, err)
	}
	a.ApplyHearing(hearingDate)
	if err := s.appeals.Update(ctx, a, AppealPending); err != nil {
		return nil, s.storeErr(err, "failed to schedule hearing")
	}

	s.logger.InfoContext(ctx, "hearing scheduled",
		"appeal_id", a.ID,
		"hearing_date", hearingDate.Format(time.DateOnly),
	)
	return a, nil
}

// DecideAppeal terminates the appeal and cascades the outcome onto the parent
// violation in one transaction: UPHELD keeps the fine in force, OVERTURNED
// nullifies it. This is the only path out of a violation's APPEALED sub-state.
func (s *Service) DecideAppeal(ctx context.Context, appealID domain.AppealID, outcome Outcome, notes string, now time.Time) (*Appeal, *Violation, error) {
	ctx, span := s.tracer.Start(ctx, "enforcement.DecideAppeal",
		trace.WithAttributes(attribute.String("appeal.outcome", string(outcome))))
	defer span.End()

	a, err := s.getAppeal(ctx, appealID)
	if err != nil {
		return nil, nil, err
	}
	v, err := s.getViolation(ctx, a.ViolationID)
	if err != nil {
		return nil, nil, err
	}

	if err := a.CanDecide(); err != nil {
		return nil, nil, s.rejected(ctx, err)
	}
	if err := v.CanDecide(outcome); err != nil {
		return nil, nil, s.rejected(ctx, err)
	}

	priorAppealStatus := a.Status
	a.ApplyDecision(outcome, notes, now)
	v.ApplyDecision(outcome, now)

	err = s.tx.RunInTx(ctx, func(st Stores) error {
		if err := st.Appeals.Update(ctx, a, priorAppealStatus); err != nil {
			return err
		}
		return st.Violations.Update(ctx, v, StatusAppealed)
	})
	if err != nil {
		return nil, nil, s.storeErr(err, "failed to decide appeal")
	}

	if s.metrics != nil {
		s.metrics.AppealsDecided.WithLabelValues(string(outcome)).Inc()
	}
	s.logger.InfoContext(ctx, "appeal decided",
		"appeal_id", a.ID,
		"actor", requestcontext.ActorID(ctx),
		"violation_id", v.ID,
		"outcome", string(outcome),
	)
	return a, v, nil
}

// MarkPaid records payment of an issued fine. Illegal while an appeal is
// active or after any terminal state.
func (s *Service) MarkPaid(ctx context.Context, id domain.ViolationID, notes string, now time.Time) (*Violation, error) {
	ctx, span := s.tracer.Start(ctx, "enforcement.MarkPaid")
	defer span.End()

	v, err := s.getViolation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := v.CanMarkPaid(); err != nil {
		return nil, s.rejected(ctx, err)
	}
	v.ApplyPaid(notes, now)
	if err := s.violations.Update(ctx, v, StatusIssued); err != nil {
		return nil, s.storeErr(err, "failed to mark violation paid")
	}

	s.logger.InfoContext(ctx, "violation paid", "violation_id", v.ID, "amount", v.FineAmount)
	return v, nil
}

// MarkWaived waives an issued fine with optional resolution notes.
func (s *Service) MarkWaived(ctx context.Context, id domain.ViolationID, notes string, now time.Time) (*Violation, error) {
	ctx, span := s.tracer.Start(ctx, "enforcement.MarkWaived")
	defer span.End()

	v, err := s.getViolation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := v.CanMarkWaived(); err != nil {
		return nil, s.rejected(ctx, err)
	}
	v.ApplyWaived(notes, now)
	if err := s.violations.Update(ctx, v, StatusIssued); err != nil {
		return nil, s.storeErr(err, "failed to waive violation")
	}

	s.logger.InfoContext(ctx, "violation waived", "violation_id", v.ID)
	return v, nil
}

// GetViolation loads a violation for display.
func (s *Service) GetViolation(ctx context.Context, id domain.ViolationID) (*Violation, error) {
	return s.getViolation(ctx, id)
}

// GetAppeal loads an appeal for display.
func (s *Service) GetAppeal(ctx context.Context, id domain.AppealID) (*Appeal, error) {
	return s.getAppeal(ctx, id)
}

// GetAppealByViolation returns the violation's appeal, nil when none exists.
// A decided appeal remains viewable.
func (s *Service) GetAppealByViolation(ctx context.Context, violationID domain.ViolationID) (*Appeal, error) {
	a, err := s.appeals.GetByViolation(ctx, violationID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get appeal")
	}
	return a, nil
}

// OpenAppealDeadlines returns the appeal deadline for every violation still
// inside its appeal window. The reminder scheduler consumes these.
func (s *Service) OpenAppealDeadlines(ctx context.Context) (map[domain.ViolationID]time.Time, error) {
	issued, err := s.violations.ListByStatus(ctx, StatusIssued)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list violations")
	}
	out := make(map[domain.ViolationID]time.Time, len(issued))
	for _, v := range issued {
		if v.FineAmount > 0 {
			out[v.ID] = v.AppealDeadline()
		}
	}
	return out, nil
}

func (s *Service) getViolation(ctx context.Context, id domain.ViolationID) (*Violation, error) {
	v, err := s.violations.Get(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "violation %s not found", id)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get violation")
	}
	return v, nil
}

func (s *Service) getAppeal(ctx context.Context, id domain.AppealID) (*Appeal, error) {
	a, err := s.appeals.Get(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "appeal %s not found", id)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get appeal")
	}
	return a, nil
}

// rejected counts guard rejections before handing the error back unchanged.
func (s *Service) rejected(ctx context.Context, err error) error {
	if guard := dErrors.ReasonOf(err); guard != "" && s.metrics != nil {
		s.metrics.RejectedTransitions.WithLabelValues(guard).Inc()
	}
	s.logger.WarnContext(ctx, "transition rejected", "error", err.Error())
	return err
}

// storeErr translates store failures: a lost conditional update surfaces as a
// conflict the caller can retry after re-reading state.
func (s *Service) storeErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrStaleStatus) {
		return dErrors.Wrap(err, dErrors.CodeConflict, "a concurrent transition changed the record first")
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
