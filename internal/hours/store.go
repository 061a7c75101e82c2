package hours

import (
	"context"

	"lobbyreg/internal/calendar"
	"lobbyreg/pkg/domain"
)

// Store persists activity logs and threshold crossings. CRUD only; all
// business logic stays in the service.
type Store interface {
	// SaveActivity appends an immutable activity entry.
	SaveActivity(ctx context.Context, entry *ActivityLog) error

	// ListByPeriod returns an entity's activities inside the period,
	// ordered by activity date then creation time.
	ListByPeriod(ctx context.Context, entityID domain.EntityID, period calendar.Period) ([]*ActivityLog, error)

	// SaveCrossing records a threshold crossing. The first write for an
	// (entity, period) pair wins; later writes are silently dropped so the
	// captured date can never move.
	SaveCrossing(ctx context.Context, crossing *Crossing) error

	// GetCrossing returns the crossing for the period, or nil when the
	// threshold has not been crossed.
	GetCrossing(ctx context.Context, entityID domain.EntityID, period calendar.Period) (*Crossing, error)

	// ListCrossings returns every recorded crossing for the period. The
	// reminder scheduler reads these to source registration deadlines.
	ListCrossings(ctx context.Context, period calendar.Period) ([]*Crossing, error)
}
