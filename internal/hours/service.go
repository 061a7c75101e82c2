// Package hours aggregates logged lobbying time per quarter and derives the
// registration obligation when the running total crosses the statutory
// threshold.
package hours

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lobbyreg/internal/calendar"
	"lobbyreg/internal/platform/metrics"
	"lobbyreg/pkg/domain"
	dErrors "lobbyreg/pkg/domain-errors"
)

type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
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

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("hours store is required")
	}

	svc := &Service{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Log appends an activity entry and, when the entry pushes the running
// quarterly total past the threshold for the first time, captures the crossing
// at write time. The registration deadline is computed from the triggering
// entry's date, never from "now", so re-evaluation after further logging
// cannot move it.
func (s *Service) Log(ctx context.Context, entityID domain.EntityID, date time.Time, hrs float64, now time.Time) (*ActivityLog, error) {
	entry, err := NewActivityLog(entityID, date, hrs, now)
	if err != nil {
		return nil, err
	}

	period := calendar.PeriodOf(date)
	existing, err := s.store.ListByPeriod(ctx, entityID, period)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list activities")
	}
	var prior float64
	for _, a := range existing {
		prior += a.Hours
	}

	if err := s.store.SaveActivity(ctx, entry); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save activity")
	}

	if prior <= domain.RegistrationThresholdHours && prior+entry.Hours > domain.RegistrationThresholdHours {
		crossing := &Crossing{
			EntityID:             entityID,
			Period:               period,
			CrossedOn:            entry.Date,
			RegistrationDeadline: calendar.RegistrationDeadline(entry.Date),
		}
		if err := s.store.SaveCrossing(ctx, crossing); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record threshold crossing")
		}
		if s.metrics != nil {
			s.metrics.RegistrationsTriggered.Inc()
		}
		s.logger.InfoContext(ctx, "registration threshold crossed",
			"entity_id", entityID,
			"period", period.String(),
			"crossed_on", crossing.CrossedOn.Format(time.DateOnly),
			"registration_deadline", crossing.RegistrationDeadline.Format(time.DateOnly),
		)
	}

	return entry, nil
}

// CurrentQuarterHours sums the entity's activities inside the quarter
// containing now, boundaries inclusive. Entries in prior or future quarters
// are excluded even one day past the edge.
func (s *Service) CurrentQuarterHours(ctx context.Context, entityID domain.EntityID, now time.Time) (float64, error) {
	entries, err := s.store.ListByPeriod(ctx, entityID, calendar.PeriodOf(now))
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list activities")
	}
	var total float64
	for _, a := range entries {
		total += a.Hours
	}
	return total, nil
}

// Summarize builds the current-quarter aggregate. registrationStatus belongs
// to the registration entity elsewhere and passes through untouched.
func (s *Service) Summarize(ctx context.Context, entityID domain.EntityID, registrationStatus string, now time.Time) (*Summary, error) {
	if entityID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "entity id is required")
	}

	period := calendar.PeriodOf(now)
	entries, err := s.store.ListByPeriod(ctx, entityID, period)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list activities")
	}
	var total float64
	for _, a := range entries {
		total += a.Hours
	}

	summary := &Summary{
		Period:             period,
		TotalHours:         total,
		ThresholdExceeded:  total > domain.RegistrationThresholdHours,
		RegistrationStatus: registrationStatus,
	}
	if remaining := domain.RegistrationThresholdHours - total; remaining > 0 {
		summary.HoursUntilThreshold = remaining
	}

	crossing, err := s.store.GetCrossing(ctx, entityID, period)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get threshold crossing")
	}
	if crossing == nil && summary.ThresholdExceeded {
		// Legacy rows logged before crossings were captured at write time:
		// recover the crossing with a running-sum walk and persist it.
		crossing = recoverCrossing(entityID, period, entries)
		if crossing != nil {
			if err := s.store.SaveCrossing(ctx, crossing); err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to backfill threshold crossing")
			}
		}
	}
	if crossing != nil {
		crossedOn := crossing.CrossedOn
		deadline := crossing.RegistrationDeadline
		summary.ThresholdExceededDate = &crossedOn
		summary.RegistrationDeadline = &deadline
	}

	return summary, nil
}

// CurrentQuarterCrossings returns every threshold crossing recorded in the
// quarter containing now. The reminder scheduler reads these to source
// registration deadlines.
func (s *Service) CurrentQuarterCrossings(ctx context.Context, now time.Time) ([]*Crossing, error) {
	crossings, err := s.store.ListCrossings(ctx, calendar.PeriodOf(now))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list threshold crossings")
	}
	return crossings, nil
}

// recoverCrossing walks entries ordered by date and finds the one that first
// pushed the running total past the threshold.
func recoverCrossing(entityID domain.EntityID, period calendar.Period, entries []*ActivityLog) *Crossing {
	var running float64
	for _, a := range entries {
		running += a.Hours
		if running > domain.RegistrationThresholdHours {
			return &Crossing{
				EntityID:             entityID,
				Period:               period,
				CrossedOn:            a.Date,
				RegistrationDeadline: calendar.RegistrationDeadline(a.Date),
			}
		}
	}
	return nil
}
