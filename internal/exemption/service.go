// Package exemption decides whether a lobbying-activity profile is relieved
// from registration and, when it is not, when registration falls due.
package exemption

import (
	"context"
	"log/slog"
	"time"

	"lobbyreg/internal/calendar"
	"lobbyreg/pkg/domain"
	dErrors "lobbyreg/pkg/domain-errors"
)

type Service struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// rule is one ordered ordinance check. Order is load-bearing: checks run
// top to bottom and the first match wins, independent of other true flags.
// The hours threshold is the primary statutory gate and must dominate even
// when every other answer is also true.
type rule struct {
	matches func(Profile) bool
	typ     Type
	reason  string
}

var rules = []rule{
	{
		matches: func(p Profile) bool { return p.HoursPerQuarter <= domain.RegistrationThresholdHours },
		typ:     TypeHoursThreshold,
		reason:  "10 hours or fewer of lobbying activity per quarter",
	},
	{
		matches: func(p Profile) bool { return p.IsNewsMedia },
		typ:     TypeNewsMedia,
		reason:  "news media gathering or reporting on county business",
	},
	{
		matches: func(p Profile) bool { return p.IsGovernmentOfficial },
		typ:     TypeGovernmentOfficial,
		reason:  "government official acting in an official capacity",
	},
	{
		matches: func(p Profile) bool { return p.IsPublicTestimonyOnly },
		typ:     TypePublicTestimonyOnly,
		reason:  "activity limited to public testimony at noticed meetings",
	},
	{
		matches: func(p Profile) bool { return p.IsRespondingToCountyRequest },
		typ:     TypeCountyRequest,
		reason:  "responding to a direct request from the county",
	},
	{
		matches: func(p Profile) bool { return p.IsAdvisoryCommitteeMember },
		typ:     TypeAdvisoryCommittee,
		reason:  "serving on a county advisory committee",
	},
}

// Check evaluates the profile against the ordered exemption rules at the given
// time. A non-exempt result carries the registration deadline, three working
// days from now, formatted the way notices spell dates out.
func (s *Service) Check(ctx context.Context, profile Profile, now time.Time) (Result, error) {
	if profile.HoursPerQuarter < 0 {
		return Result{}, dErrors.New(dErrors.CodeValidation, "hoursPerQuarter cannot be negative")
	}

	for _, r := range rules {
		if r.matches(profile) {
			return Result{
				IsExempt:      true,
				ExemptionType: r.typ,
				Reason:        r.reason,
			}, nil
		}
	}

	deadline := calendar.RegistrationDeadline(now)
	s.logger.InfoContext(ctx, "registration required",
		"hours_per_quarter", profile.HoursPerQuarter,
		"registration_deadline", deadline.Format(time.DateOnly),
	)
	return Result{
		IsExempt:             false,
		ExemptionType:        TypeNone,
		Reason:               "no exemption category applies",
		MustRegister:         true,
		RegistrationDeadline: calendar.LongDate(deadline),
	}, nil
}
