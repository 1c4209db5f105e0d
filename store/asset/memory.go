package asset

import (
	"context"
	"sync"

	"pledge/core"

	"github.com/shopspring/decimal"
)

// MemoryLedger in-memory asset ledger for tests.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
}

// NewMemory empty in-memory ledger.
func NewMemory() *MemoryLedger {
	return &MemoryLedger{balances: make(map[string]decimal.Decimal)}
}

// Mint credits a user out of thin air. Test setup only.
func (l *MemoryLedger) Mint(userID string, amount decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances[userID] = l.balance(userID).Add(amount)
}

// Balance current balance of a user.
func (l *MemoryLedger) Balance(userID string) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.balance(userID)
}

func (l *MemoryLedger) TransferIn(ctx context.Context, from string, amount decimal.Decimal) error {
	return l.move(from, core.PoolUserID, amount)
}

func (l *MemoryLedger) TransferOut(ctx context.Context, to string, amount decimal.Decimal) error {
	return l.move(core.PoolUserID, to, amount)
}

func (l *MemoryLedger) move(from, to string, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	src := l.balance(from)
	if src.LessThan(amount) {
		return core.ErrInsufficientBalance
	}

	l.balances[from] = src.Sub(amount)
	l.balances[to] = l.balance(to).Add(amount)

	return nil
}

func (l *MemoryLedger) balance(userID string) decimal.Decimal {
	if b, ok := l.balances[userID]; ok {
		return b
	}

	return decimal.Zero
}
