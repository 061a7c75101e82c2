package hours

import (
	"context"
	"sort"
	"sync"

	"lobbyreg/internal/calendar"
	"lobbyreg/pkg/domain"
)

type crossingKey struct {
	entityID domain.EntityID
	period   calendar.Period
}

// InMemoryStore backs the hour tracker in tests and development.
type InMemoryStore struct {
	mu         sync.RWMutex
	activities map[domain.EntityID][]*ActivityLog
	crossings  map[crossingKey]*Crossing
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		activities: make(map[domain.EntityID][]*ActivityLog),
		crossings:  make(map[crossingKey]*Crossing),
	}
}

func (s *InMemoryStore) SaveActivity(_ context.Context, entry *ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *entry
	s.activities[entry.EntityID] = append(s.activities[entry.EntityID], &clone)
	return nil
}

func (s *InMemoryStore) ListByPeriod(_ context.Context, entityID domain.EntityID, period calendar.Period) ([]*ActivityLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*ActivityLog
	for _, entry := range s.activities[entityID] {
		if period.Contains(entry.Date) {
			clone := *entry
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) SaveCrossing(_ context.Context, crossing *Crossing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := crossingKey{entityID: crossing.EntityID, period: crossing.Period}
	if _, exists := s.crossings[key]; exists {
		return nil
	}
	clone := *crossing
	s.crossings[key] = &clone
	return nil
}

func (s *InMemoryStore) GetCrossing(_ context.Context, entityID domain.EntityID, period calendar.Period) (*Crossing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if crossing, exists := s.crossings[crossingKey{entityID: entityID, period: period}]; exists {
		clone := *crossing
		return &clone, nil
	}
	return nil, nil
}

func (s *InMemoryStore) ListCrossings(_ context.Context, period calendar.Period) ([]*Crossing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Crossing
	for key, crossing := range s.crossings {
		if key.period == period {
			clone := *crossing
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CrossedOn.Before(out[j].CrossedOn)
	})
	return out, nil
}
