package reminder

import (
	"context"
	"time"

	"lobbyreg/internal/calendar"
	"lobbyreg/internal/enforcement"
	"lobbyreg/internal/hours"
)

// DeadlineSource supplies known deadlines for one compliance concern.
type DeadlineSource interface {
	Deadlines(ctx context.Context, now time.Time) ([]Deadline, error)
}

// FilingSource produces the quarterly expense-report deadlines around now:
// every quarter of the current year plus the prior year's Q4, whose report is
// due January 15 of the current year.
type FilingSource struct{}

func (FilingSource) Deadlines(_ context.Context, now time.Time) ([]Deadline, error) {
	type slot struct {
		q    calendar.Quarter
		year int
	}
	slots := []slot{
		{calendar.Q4, now.Year() - 1},
		{calendar.Q1, now.Year()},
		{calendar.Q2, now.Year()},
		{calendar.Q3, now.Year()},
		{calendar.Q4, now.Year()},
	}

	out := make([]Deadline, 0, len(slots))
	for _, s := range slots {
		fd := calendar.QuarterFilingDeadline(s.q, s.year)
		out = append(out, Deadline{
			Source: SourceFiling,
			Ref:    calendar.Period{Quarter: s.q, Year: s.year}.String(),
			Label:  fd.Label,
			Due:    fd.Date(),
		})
	}
	return out, nil
}

// RegistrationSource surfaces registration deadlines from this quarter's
// threshold crossings.
type RegistrationSource struct {
	Hours *hours.Service
}

func (s RegistrationSource) Deadlines(ctx context.Context, now time.Time) ([]Deadline, error) {
	crossings, err := s.Hours.CurrentQuarterCrossings(ctx, now)
	if err != nil {
		return nil, err
	}
	out := make([]Deadline, 0, len(crossings))
	for _, c := range crossings {
		out = append(out, Deadline{
			Source: SourceRegistration,
			Ref:    c.EntityID.String(),
			Label:  "lobbyist registration due",
			Due:    c.RegistrationDeadline,
		})
	}
	return out, nil
}

// AppealSource surfaces the appeal-window close date for every violation
// still open to appeal.
type AppealSource struct {
	Enforcement *enforcement.Service
}

func (s AppealSource) Deadlines(ctx context.Context, _ time.Time) ([]Deadline, error) {
	open, err := s.Enforcement.OpenAppealDeadlines(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Deadline, 0, len(open))
	for id, due := range open {
		out = append(out, Deadline{
			Source: SourceAppeal,
			Ref:    id.String(),
			Label:  "appeal window closes",
			Due:    due,
		})
	}
	return out, nil
}
