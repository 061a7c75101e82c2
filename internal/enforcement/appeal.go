package enforcement

import (
	"strings"
	"time"

	"lobbyreg/pkg/domain"
	dErrors "lobbyreg/pkg/domain-errors"
)

// AppealStatus is an appeal's position in its lifecycle. A hearing is
// optional: PENDING may go straight to DECIDED.
type AppealStatus string

const (
	AppealPending   AppealStatus = "PENDING"
	AppealScheduled AppealStatus = "SCHEDULED"
	AppealDecided   AppealStatus = "DECIDED"
)

var appealTransitions = map[AppealStatus][]AppealStatus{
	AppealPending:   {AppealScheduled, AppealDecided},
	AppealScheduled: {AppealDecided},
}

// IsValid checks if the status is one of the supported enum values.
func (s AppealStatus) IsValid() bool {
	switch s {
	case AppealPending, AppealScheduled, AppealDecided:
		return true
	}
	return false
}

// CanTransitionTo reports whether the transition table permits moving to
// target from the current status.
func (s AppealStatus) CanTransitionTo(target AppealStatus) bool {
	for _, allowed := range appealTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s AppealStatus) String() string {
	return string(s)
}

// Appeal is a challenge to an issued violation. At most one active appeal
// exists per violation; a decided appeal stays on record.
//
// Invariants:
//   - AppealDeadline = parent violation's IssuedDate + 30 calendar days,
//     never recomputed from submission time
//   - Status follows appealTransitions only
//   - Outcome and DecidedAt are set exactly once, on decision
type Appeal struct {
	ID             domain.AppealID    `json:"id"`
	ViolationID    domain.ViolationID `json:"violationId"`
	Reason         string             `json:"reason"`
	SubmittedDate  time.Time          `json:"submittedDate"`
	AppealDeadline time.Time          `json:"appealDeadline"`
	Status         AppealStatus       `json:"status"`
	HearingDate    *time.Time         `json:"hearingDate,omitempty"`
	Outcome        *Outcome           `json:"decision,omitempty"`
	DecisionNotes  string             `json:"decisionNotes,omitempty"`
	DecidedAt      *time.Time         `json:"decidedAt,omitempty"`
}

// NewAppeal creates an Appeal against the violation, running every filing
// guard. The deadline is derived from the violation's issue date, not from
// submission time.
func NewAppeal(v *Violation, reason string, now time.Time) (*Appeal, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, dErrors.Guard(dErrors.CodeValidation, "reason_required",
			"appeal reason cannot be empty")
	}
	if err := v.CanFileAppeal(now); err != nil {
		return nil, err
	}
	return &Appeal{
		ID:             domain.NewAppealID(),
		ViolationID:    v.ID,
		Reason:         reason,
		SubmittedDate:  now,
		AppealDeadline: v.AppealDeadline(),
		Status:         AppealPending,
	}, nil
}

// CanScheduleHearing checks a hearing can still be put on the calendar.
func (a *Appeal) CanScheduleHearing(hearingDate time.Time) error {
	if hearingDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "hearing date is required")
	}
	if !a.Status.CanTransitionTo(AppealScheduled) {
		return dErrors.Guard(dErrors.CodePrecondition, "hearing_requires_pending",
			"a hearing can only be scheduled while the appeal is pending")
	}
	return nil
}

// ApplyHearing records the hearing date.
func (a *Appeal) ApplyHearing(hearingDate time.Time) {
	a.Status = AppealScheduled
	a.HearingDate = &hearingDate
}

// CanDecide checks the appeal is still open. Legal from PENDING or SCHEDULED;
// a hearing is not required before deciding.
func (a *Appeal) CanDecide() error {
	if !a.Status.CanTransitionTo(AppealDecided) {
		return dErrors.Guard(dErrors.CodePrecondition, "appeal_already_decided",
			"the appeal has already been decided")
	}
	return nil
}

// ApplyDecision terminates the appeal with the outcome.
func (a *Appeal) ApplyDecision(outcome Outcome, notes string, now time.Time) {
	a.Status = AppealDecided
	a.Outcome = &outcome
	a.DecisionNotes = notes
	a.DecidedAt = &now
}
