package position

import (
	"context"
	"sync"

	"pledge/core"
)

type memoryStore struct {
	mu        sync.RWMutex
	positions map[string]*core.Position
}

// NewMemory in-memory position store for tests and single-process runs;
// the db store is the durable drop-in.
func NewMemory() core.PositionStore {
	return &memoryStore{
		positions: make(map[string]*core.Position),
	}
}

func (s *memoryStore) Find(ctx context.Context, userID string) (*core.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.positions[userID]; ok {
		dup := *p
		return &dup, nil
	}

	return &core.Position{UserID: userID}, nil
}

func (s *memoryStore) Save(ctx context.Context, position *core.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dup := *position
	dup.Version++
	s.positions[position.UserID] = &dup

	return nil
}

func (s *memoryStore) All(ctx context.Context) ([]*core.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	positions := make([]*core.Position, 0, len(s.positions))
	for _, p := range s.positions {
		dup := *p
		positions = append(positions, &dup)
	}

	return positions, nil
}
