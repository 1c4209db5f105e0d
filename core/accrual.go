package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AccrualState the global interest accrual singleton. Index starts at 1
// and only grows; it is advanced before any time-dependent read or
// mutation of the ledger.
type AccrualState struct {
	Index          decimal.Decimal `json:"index"`
	LastUpdateTime time.Time       `json:"last_update_time"`
}

// AccrualStore persistence for the accrual singleton.
type AccrualStore interface {
	Load(ctx context.Context) (*AccrualState, error)
	Save(ctx context.Context, state *AccrualState) error
}
