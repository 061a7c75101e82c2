package enforcement

import (
	"context"

	"lobbyreg/pkg/domain"
)

// ViolationStore persists violations. CRUD only; guards live on the models
// and in the service.
//
// Update is conditional on the expected prior status: implementations must
// reject with sentinel.ErrStaleStatus when the stored status differs, so a
// racing transition (admin deciding an appeal vs. entity paying the fine)
// loses cleanly instead of overwriting.
type ViolationStore interface {
	Create(ctx context.Context, v *Violation) error
	Get(ctx context.Context, id domain.ViolationID) (*Violation, error)
	Update(ctx context.Context, v *Violation, expected ViolationStatus) error
	ListByStatus(ctx context.Context, statuses ...ViolationStatus) ([]*Violation, error)
}

// AppealStore persists appeals with the same conditional-update contract.
type AppealStore interface {
	Create(ctx context.Context, a *Appeal) error
	Get(ctx context.Context, id domain.AppealID) (*Appeal, error)
	GetByViolation(ctx context.Context, violationID domain.ViolationID) (*Appeal, error)
	Update(ctx context.Context, a *Appeal, expected AppealStatus) error
}

// Stores bundles both stores for transactional callbacks.
type Stores struct {
	Violations ViolationStore
	Appeals    AppealStore
}

// TxRunner provides the transactional boundary for mutations that must land
// on a violation and its appeal together, or not at all. Implementations wrap
// a database transaction or, in-memory, a coarse lock.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(s Stores) error) error
}
