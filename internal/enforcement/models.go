package enforcement

import (
	"strings"
	"time"

	"lobbyreg/pkg/domain"
	dErrors "lobbyreg/pkg/domain-errors"
)

// Ordinance limits for enforcement actions.
const (
	// MaxFineAmount is the ordinance cap on fines, in dollars. A $0 fine is
	// an educational letter and carries no appeal right.
	MaxFineAmount = 500

	// AppealWindowDays is the calendar-day window for filing an appeal,
	// counted from the violation's issue date, boundary inclusive.
	AppealWindowDays = 30

	// MinReasonLength is the appeal-reason quality gate the intake form
	// enforces. The engine itself only requires a non-empty reason; the
	// constant lives here so the rule is defined in one place.
	MinReasonLength = 50
)

// ViolationStatus is a violation's position in its lifecycle.
type ViolationStatus string

const (
	StatusPending    ViolationStatus = "PENDING"
	StatusIssued     ViolationStatus = "ISSUED"
	StatusAppealed   ViolationStatus = "APPEALED"
	StatusUpheld     ViolationStatus = "UPHELD"
	StatusOverturned ViolationStatus = "OVERTURNED"
	StatusPaid       ViolationStatus = "PAID"
	StatusWaived     ViolationStatus = "WAIVED"
)

// violationTransitions is the complete transition table. UPHELD and
// OVERTURNED have no outgoing edges back to ISSUED, which is what makes
// re-appeal after a decision structurally impossible.
var violationTransitions = map[ViolationStatus][]ViolationStatus{
	StatusPending:  {StatusIssued},
	StatusIssued:   {StatusAppealed, StatusPaid, StatusWaived},
	StatusAppealed: {StatusUpheld, StatusOverturned},
}

// IsValid checks if the status is one of the supported enum values.
func (s ViolationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusIssued, StatusAppealed, StatusUpheld,
		StatusOverturned, StatusPaid, StatusWaived:
		return true
	}
	return false
}

// CanTransitionTo reports whether the transition table permits moving to
// target from the current status.
func (s ViolationStatus) CanTransitionTo(target ViolationStatus) bool {
	for _, allowed := range violationTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s ViolationStatus) String() string {
	return string(s)
}

// ViolationType categorizes the infraction per the ordinance.
type ViolationType string

const (
	ViolationFailureToRegister    ViolationType = "FAILURE_TO_REGISTER"
	ViolationLateExpenseReport    ViolationType = "LATE_EXPENSE_REPORT"
	ViolationIncompleteDisclosure ViolationType = "INCOMPLETE_DISCLOSURE"
	ViolationGiftLimitExceeded    ViolationType = "GIFT_LIMIT_EXCEEDED"
	ViolationOther                ViolationType = "OTHER"
)

// IsValid checks if the violation type is one of the supported enum values.
func (t ViolationType) IsValid() bool {
	switch t {
	case ViolationFailureToRegister, ViolationLateExpenseReport,
		ViolationIncompleteDisclosure, ViolationGiftLimitExceeded, ViolationOther:
		return true
	}
	return false
}

// Outcome is the terminal decision of an appeal, and doubles as the violation
// status it cascades into.
type Outcome string

const (
	OutcomeUpheld     Outcome = "UPHELD"
	OutcomeOverturned Outcome = "OVERTURNED"
)

// ParseOutcome creates an Outcome from a string, validating it.
func ParseOutcome(s string) (Outcome, error) {
	o := Outcome(s)
	if o != OutcomeUpheld && o != OutcomeOverturned {
		return "", dErrors.Newf(dErrors.CodeValidation, "invalid outcome %q: must be UPHELD or OVERTURNED", s)
	}
	return o, nil
}

// ViolationStatus returns the violation status this outcome cascades into.
func (o Outcome) ViolationStatus() ViolationStatus {
	if o == OutcomeOverturned {
		return StatusOverturned
	}
	return StatusUpheld
}

// Violation is a recorded compliance infraction. Never deleted: it is the
// audit record of the enforcement action.
//
// Invariants:
//   - FineAmount in [0, MaxFineAmount]
//   - Status follows violationTransitions only
//   - IssuedDate is set when the violation enters ISSUED and is immutable after
//   - A $0 violation (educational letter) can never be appealed
type Violation struct {
	ID              domain.ViolationID `json:"id"`
	EntityType      domain.EntityType  `json:"entityType"`
	EntityID        domain.EntityID    `json:"entityId"`
	ViolationType   ViolationType      `json:"violationType"`
	Description     string             `json:"description"`
	FineAmount      int                `json:"fineAmount"`
	Status          ViolationStatus    `json:"status"`
	IssuedDate      time.Time          `json:"issuedDate"`
	ResolutionNotes string             `json:"resolutionNotes,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// NewViolation creates a Violation with domain invariant validation. A queued
// violation starts PENDING for review; otherwise it is ISSUED immediately and
// the appeal window starts at now.
func NewViolation(entityType domain.EntityType, entityID domain.EntityID, vType ViolationType, description string, fineAmount int, queued bool, now time.Time) (*Violation, error) {
	if !entityType.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid entity type")
	}
	if entityID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "entity id is required")
	}
	if !vType.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid violation type")
	}
	if strings.TrimSpace(description) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "description cannot be empty")
	}
	if fineAmount < 0 || fineAmount > MaxFineAmount {
		return nil, dErrors.Guard(dErrors.CodeValidation, "fine_out_of_range",
			"fine amount must be between $0 and $500")
	}

	v := &Violation{
		ID:            domain.NewViolationID(),
		EntityType:    entityType,
		EntityID:      entityID,
		ViolationType: vType,
		Description:   description,
		FineAmount:    fineAmount,
		Status:        StatusIssued,
		IssuedDate:    now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if queued {
		v.Status = StatusPending
		v.IssuedDate = time.Time{}
	}
	return v, nil
}

// AppealDeadline is the last calendar day an appeal may be filed.
func (v *Violation) AppealDeadline() time.Time {
	return v.IssuedDate.AddDate(0, 0, AppealWindowDays)
}

// CanRelease checks whether a queued violation can be issued.
func (v *Violation) CanRelease() error {
	if !v.Status.CanTransitionTo(StatusIssued) {
		return dErrors.Guard(dErrors.CodePrecondition, "release_requires_pending",
			"only a pending violation can be released for issuance")
	}
	return nil
}

// ApplyRelease issues a queued violation; the appeal window starts now.
func (v *Violation) ApplyRelease(now time.Time) {
	v.Status = StatusIssued
	v.IssuedDate = now
	v.UpdatedAt = now
}

// CanFileAppeal checks every guard on appeal eligibility: the violation must
// be ISSUED, must carry a fine, and now must be inside the 30-day window
// (inclusive at day 30). Window arithmetic uses calendar days.
func (v *Violation) CanFileAppeal(now time.Time) error {
	if !v.Status.CanTransitionTo(StatusAppealed) {
		return dErrors.Guard(dErrors.CodePrecondition, "violation_not_appealable",
			"only an issued violation can be appealed")
	}
	if v.FineAmount == 0 {
		return dErrors.Guard(dErrors.CodeValidation, "zero_fine_not_appealable",
			"an educational letter carries no fine and cannot be appealed")
	}
	if dayOf(now).After(dayOf(v.AppealDeadline())) {
		return dErrors.Guard(dErrors.CodeValidation, "appeal_window_closed",
			"the 30-day appeal window has closed")
	}
	return nil
}

// ApplyAppeal moves the violation into its APPEALED sub-state.
func (v *Violation) ApplyAppeal(now time.Time) {
	v.Status = StatusAppealed
	v.UpdatedAt = now
}

// CanDecide checks that an appeal decision may land on this violation.
func (v *Violation) CanDecide(outcome Outcome) error {
	if !v.Status.CanTransitionTo(outcome.ViolationStatus()) {
		return dErrors.Guard(dErrors.CodePrecondition, "decide_requires_appealed",
			"only an appealed violation can receive a decision")
	}
	return nil
}

// ApplyDecision writes the appeal outcome directly onto the violation.
// UPHELD keeps the fine in force; OVERTURNED nullifies it. There is no
// separate close step.
func (v *Violation) ApplyDecision(outcome Outcome, now time.Time) {
	v.Status = outcome.ViolationStatus()
	v.UpdatedAt = now
}

// CanMarkPaid checks the fine can be paid. A fine under active appeal cannot
// be paid until resolved.
func (v *Violation) CanMarkPaid() error {
	if !v.Status.CanTransitionTo(StatusPaid) {
		return dErrors.Guard(dErrors.CodePrecondition, "pay_requires_issued",
			"only an issued violation can be marked paid")
	}
	return nil
}

// ApplyPaid records payment with optional resolution notes.
func (v *Violation) ApplyPaid(notes string, now time.Time) {
	v.Status = StatusPaid
	v.ResolutionNotes = notes
	v.UpdatedAt = now
}

// CanMarkWaived checks the fine can be waived.
func (v *Violation) CanMarkWaived() error {
	if !v.Status.CanTransitionTo(StatusWaived) {
		return dErrors.Guard(dErrors.CodePrecondition, "waive_requires_issued",
			"only an issued violation can be waived")
	}
	return nil
}

// ApplyWaived records the waiver with optional resolution notes.
func (v *Violation) ApplyWaived(notes string, now time.Time) {
	v.Status = StatusWaived
	v.ResolutionNotes = notes
	v.UpdatedAt = now
}

// PayableAmount is what the entity currently owes: nothing once the violation
// is overturned, waived, or already paid.
func (v *Violation) PayableAmount() int {
	switch v.Status {
	case StatusOverturned, StatusWaived, StatusPaid:
		return 0
	}
	return v.FineAmount
}

// dayOf truncates to the calendar day so window comparisons ignore time of day.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
