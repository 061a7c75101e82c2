// Package reminder decides which deadline notifications are due on a given
// day. The decision layer is pure; delivery and dedup live in the
// surrounding service.
package reminder

import (
	"fmt"
	"time"

	"lobbyreg/internal/calendar"
)

// Kind classifies a notification decision.
type Kind string

const (
	KindReminder Kind = "reminder"
	KindOverdue  Kind = "overdue"
)

// Source names where a deadline came from.
type Source string

const (
	SourceFiling       Source = "filing"
	SourceRegistration Source = "registration"
	SourceAppeal       Source = "appeal"
)

// reminderOffsets are the days-before marks at which a reminder fires.
// 0 is "due today".
var reminderOffsets = map[int]bool{14: true, 7: true, 1: true, 0: true}

// Deadline is one known obligation with a due date. Ref identifies the
// subject (entity id, violation id, or quarter label) for dedup and display.
type Deadline struct {
	Source Source    `json:"source"`
	Ref    string    `json:"ref"`
	Label  string    `json:"label"`
	Due    time.Time `json:"due"`
}

// Decision is one notification the scheduler has decided is due. The same
// deadline yields a fresh decision on every run; callers dedup via the
// notification log.
type Decision struct {
	Deadline  Deadline `json:"deadline"`
	Kind      Kind     `json:"kind"`
	DaysUntil int      `json:"daysUntil"`
}

// Key is a stable dedup identity for the decision: one send per deadline per
// offset mark, and one per overdue day.
func (d Decision) Key() string {
	return fmt.Sprintf("%s:%s:%s:%d", d.Deadline.Source, d.Deadline.Ref, d.Kind, d.DaysUntil)
}

// DueNotifications classifies every known deadline against today: a reminder
// at 14, 7, 1, and 0 days before, and an overdue notice each day after. Pure;
// performs no I/O and no dedup.
func DueNotifications(today time.Time, deadlines []Deadline) []Decision {
	var out []Decision
	for _, d := range deadlines {
		days := calendar.DaysUntil(d.Due, today)
		switch {
		case reminderOffsets[days]:
			out = append(out, Decision{Deadline: d, Kind: KindReminder, DaysUntil: days})
		case days < 0:
			out = append(out, Decision{Deadline: d, Kind: KindOverdue, DaysUntil: days})
		}
	}
	return out
}
