package state

import (
	"context"
	"sync"

	"pledge/core"

	"github.com/shopspring/decimal"
)

// Memory in-memory state store for tests and single-process runs.
type Memory struct {
	mu      sync.RWMutex
	accrual core.AccrualState
	params  core.Params
	paused  bool
}

// NewMemory memory state store seeded with defaults.
func NewMemory() *Memory {
	return &Memory{
		accrual: core.AccrualState{Index: decimal.New(1, 0)},
		params: core.Params{
			CollateralizationRatioBps: DefaultRatioBps,
			LiquidationBonusBps:       DefaultBonusBps,
			RatePerSecond:             decimal.Zero,
		},
	}
}

func (s *Memory) Load(ctx context.Context) (*core.AccrualState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dup := s.accrual
	return &dup, nil
}

func (s *Memory) Save(ctx context.Context, state *core.AccrualState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accrual = *state
	return nil
}

func (s *Memory) Read(ctx context.Context) (*core.Params, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dup := s.params
	return &dup, nil
}

func (s *Memory) Paused(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.paused, nil
}

func (s *Memory) SetParams(params core.Params) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params = params
}

func (s *Memory) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paused = paused
}
