package enforcement

import (
	"context"
	"sync"

	"lobbyreg/pkg/domain"
	"lobbyreg/pkg/platform/sentinel"
)

// InMemoryViolationStore backs enforcement in tests and development.
type InMemoryViolationStore struct {
	mu         sync.RWMutex
	violations map[domain.ViolationID]*Violation
}

func NewInMemoryViolationStore() *InMemoryViolationStore {
	return &InMemoryViolationStore{violations: make(map[domain.ViolationID]*Violation)}
}

func (s *InMemoryViolationStore) Create(_ context.Context, v *Violation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.violations[v.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *v
	s.violations[v.ID] = &clone
	return nil
}

func (s *InMemoryViolationStore) Get(_ context.Context, id domain.ViolationID) (*Violation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, exists := s.violations[id]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	clone := *v
	return &clone, nil
}

func (s *InMemoryViolationStore) Update(_ context.Context, v *Violation, expected ViolationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, exists := s.violations[v.ID]
	if !exists {
		return sentinel.ErrNotFound
	}
	if stored.Status != expected {
		return sentinel.ErrStaleStatus
	}
	clone := *v
	s.violations[v.ID] = &clone
	return nil
}

func (s *InMemoryViolationStore) ListByStatus(_ context.Context, statuses ...ViolationStatus) ([]*Violation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Violation
	for _, v := range s.violations {
		for _, status := range statuses {
			if v.Status == status {
				clone := *v
				out = append(out, &clone)
				break
			}
		}
	}
	return out, nil
}

// InMemoryAppealStore backs appeals in tests and development.
type InMemoryAppealStore struct {
	mu      sync.RWMutex
	appeals map[domain.AppealID]*Appeal
}

func NewInMemoryAppealStore() *InMemoryAppealStore {
	return &InMemoryAppealStore{appeals: make(map[domain.AppealID]*Appeal)}
}

func (s *InMemoryAppealStore) Create(_ context.Context, a *Appeal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.appeals[a.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *a
	s.appeals[a.ID] = &clone
	return nil
}

func (s *InMemoryAppealStore) Get(_ context.Context, id domain.AppealID) (*Appeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, exists := s.appeals[id]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (s *InMemoryAppealStore) GetByViolation(_ context.Context, violationID domain.ViolationID) (*Appeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.appeals {
		if a.ViolationID == violationID {
			clone := *a
			return &clone, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryAppealStore) Update(_ context.Context, a *Appeal, expected AppealStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, exists := s.appeals[a.ID]
	if !exists {
		return sentinel.ErrNotFound
	}
	if stored.Status != expected {
		return sentinel.ErrStaleStatus
	}
	clone := *a
	s.appeals[a.ID] = &clone
	return nil
}

// InMemoryTx serializes cross-store mutations behind a single lock. Coarse,
// but the memory stores only back tests and development.
type InMemoryTx struct {
	mu     sync.Mutex
	stores Stores
}

func NewInMemoryTx(violations *InMemoryViolationStore, appeals *InMemoryAppealStore) *InMemoryTx {
	return &InMemoryTx{stores: Stores{Violations: violations, Appeals: appeals}}
}

func (t *InMemoryTx) RunInTx(ctx context.Context, fn func(s Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.stores)
}
