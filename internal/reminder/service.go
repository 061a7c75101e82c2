package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lobbyreg/internal/platform/metrics"
)

// Notifier delivers a decided notification. Delivery mechanics (email,
// webhook) live behind this interface.
type Notifier interface {
	Notify(ctx context.Context, decision Decision) error
}

// SlogNotifier writes decisions to the log. The default until a real
// delivery channel is configured.
type SlogNotifier struct {
	Logger *slog.Logger
}

func (n SlogNotifier) Notify(ctx context.Context, d Decision) error {
	n.Logger.InfoContext(ctx, "deadline notification",
		"kind", string(d.Kind),
		"source", string(d.Deadline.Source),
		"ref", d.Deadline.Ref,
		"label", d.Deadline.Label,
		"due", d.Deadline.Due.Format(time.DateOnly),
		"days_until", d.DaysUntil,
	)
	return nil
}

// Service gathers deadlines from every source, classifies them, and hands
// first-time decisions to the notifier. The notification log keeps repeated
// daily runs from refiring the same send.
type Service struct {
	sources  []DeadlineSource
	log      NotificationLog
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
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

func New(log NotificationLog, notifier Notifier, sources []DeadlineSource, opts ...Option) (*Service, error) {
	if log == nil {
		return nil, fmt.Errorf("notification log is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}

	svc := &Service{
		sources:  sources,
		log:      log,
		notifier: notifier,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// RunOnce executes one scheduler pass at now and returns how many
// notifications were delivered. A failing source or delivery does not abort
// the pass; the first error is reported after every deadline has been tried.
func (s *Service) RunOnce(ctx context.Context, now time.Time) (int, error) {
	var deadlines []Deadline
	var firstErr error
	for _, src := range s.sources {
		found, err := src.Deadlines(ctx, now)
		if err != nil {
			s.logger.ErrorContext(ctx, "deadline source failed", "error", err.Error())
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		deadlines = append(deadlines, found...)
	}

	sent := 0
	for _, decision := range DueNotifications(now, deadlines) {
		if s.metrics != nil {
			s.metrics.RemindersDecided.WithLabelValues(string(decision.Kind)).Inc()
		}

		first, err := s.log.MarkSent(ctx, decision.Key())
		if err != nil {
			s.logger.ErrorContext(ctx, "notification log failed", "key", decision.Key(), "error", err.Error())
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if !first {
			continue
		}
		if err := s.notifier.Notify(ctx, decision); err != nil {
			s.logger.ErrorContext(ctx, "notification delivery failed", "key", decision.Key(), "error", err.Error())
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		sent++
	}

	s.logger.InfoContext(ctx, "reminder pass complete",
		"deadlines", len(deadlines),
		"sent", sent,
	)
	return sent, firstErr
}

// Run ticks the scheduler at the configured interval until the context is
// canceled. The wall clock is read here, once per tick; everything below
// receives an explicit now.
func (s *Service) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.RunOnce(ctx, time.Now()); err != nil {
				s.logger.ErrorContext(ctx, "reminder pass had failures", "error", err.Error())
			}
		}
	}
}
