package hours

import (
	"time"

	"lobbyreg/internal/calendar"
	"lobbyreg/pkg/domain"
	dErrors "lobbyreg/pkg/domain-errors"
)

// ActivityLog is one logged block of lobbying time. Immutable once created;
// consumed only by summation.
type ActivityLog struct {
	ID        domain.ActivityID `json:"id"`
	EntityID  domain.EntityID   `json:"entityId"`
	Date      time.Time         `json:"date"`
	Hours     float64           `json:"hours"`
	CreatedAt time.Time         `json:"createdAt"`
}

// NewActivityLog creates an ActivityLog with domain invariant validation.
func NewActivityLog(entityID domain.EntityID, date time.Time, hours float64, now time.Time) (*ActivityLog, error) {
	if entityID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "entity id is required")
	}
	if date.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "activity date is required")
	}
	if hours <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "hours must be greater than zero")
	}
	if hours > 24 {
		return nil, dErrors.New(dErrors.CodeValidation, "hours cannot exceed 24 for a single day")
	}
	return &ActivityLog{
		ID:        domain.NewActivityID(),
		EntityID:  entityID,
		Date:      date,
		Hours:     hours,
		CreatedAt: now,
	}, nil
}

// Crossing records the moment an entity's running quarterly total first pushed
// past the registration threshold. Persisted at write time so the registration
// deadline never moves when further hours are logged.
type Crossing struct {
	EntityID             domain.EntityID `json:"entityId"`
	Period               calendar.Period `json:"period"`
	CrossedOn            time.Time       `json:"crossedOn"`
	RegistrationDeadline time.Time       `json:"registrationDeadline"`
}

// Summary is the derived per-quarter aggregate the dashboard renders.
// RegistrationStatus is owned by the registration entity elsewhere; it is
// passed through untouched.
type Summary struct {
	Period                calendar.Period `json:"period"`
	TotalHours            float64         `json:"totalHours"`
	ThresholdExceeded     bool            `json:"thresholdExceeded"`
	HoursUntilThreshold   float64         `json:"hoursUntilThreshold"`
	ThresholdExceededDate *time.Time      `json:"thresholdExceededDate,omitempty"`
	RegistrationDeadline  *time.Time      `json:"registrationDeadline,omitempty"`
	RegistrationStatus    string          `json:"registrationStatus"`
}
