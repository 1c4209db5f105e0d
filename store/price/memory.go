package price

import (
	"context"
	"sync"

	"pledge/core"
)

type memoryStore struct {
	mu     sync.RWMutex
	prices map[string]*core.Price
}

// NewMemory in-memory price store for tests.
func NewMemory() core.PriceStore {
	return &memoryStore{prices: make(map[string]*core.Price)}
}

func (s *memoryStore) Save(ctx context.Context, price *core.Price) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dup := *price
	s.prices[price.Symbol] = &dup

	return nil
}

func (s *memoryStore) Latest(ctx context.Context, symbol string) (*core.Price, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.prices[symbol]; ok {
		dup := *p
		return &dup, nil
	}

	return nil, nil
}
