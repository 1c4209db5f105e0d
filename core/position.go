package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Position per-user lending position. Created implicitly on first touch,
// never destroyed; it decays back to the all-zero state.
type Position struct {
	ID     uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID string `sql:"size:36;unique_index:position_user_idx" json:"user_id"`
	// loan asset supplied to the shared pool
	LoanBalance decimal.Decimal `sql:"type:decimal(32,16)" json:"loan_balance"`
	// collateral asset posted against borrows
	CollateralBalance decimal.Decimal `sql:"type:decimal(32,16)" json:"collateral_balance"`
	// borrowed amount, interest capitalized at every touch
	Principal decimal.Decimal `sql:"type:decimal(32,16)" json:"principal"`
	// global accrual index recorded at the last principal mutation
	AccrualCheckpoint decimal.Decimal `sql:"type:decimal(32,16);default:1" json:"accrual_checkpoint"`
	Version           int64           `sql:"default:0" json:"version"`
	CreatedAt         time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IsEmpty reports whether the position decayed to the all-zero state.
func (p *Position) IsEmpty() bool {
	return !p.LoanBalance.IsPositive() &&
		!p.CollateralBalance.IsPositive() &&
		!p.Principal.IsPositive()
}

// PositionStore position store interface. Pure state holder: Find returns
// the zero-value position when absent, Save upserts. All invariants are
// enforced by the lending engine before a Save.
type PositionStore interface {
	Find(ctx context.Context, userID string) (*Position, error)
	Save(ctx context.Context, position *Position) error
	All(ctx context.Context) ([]*Position, error)
}
