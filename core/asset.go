package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PoolUserID identity of the protocol custody account on the asset ledgers.
const PoolUserID = "pool"

// AssetAccount balance of one user on one external asset ledger.
type AssetAccount struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Symbol    string          `sql:"size:20;unique_index:asset_account_idx" json:"symbol"`
	UserID    string          `sql:"size:36;unique_index:asset_account_idx" json:"user_id"`
	Balance   decimal.Decimal `sql:"type:decimal(32,16)" json:"balance"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Transfer journal row for every asset movement through the pool.
type Transfer struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID   string          `sql:"size:36;unique_index:transfer_trace_idx" json:"trace_id"`
	Symbol    string          `sql:"size:20" json:"symbol"`
	UserID    string          `sql:"size:36" json:"user_id"`
	Direction string          `sql:"size:4" json:"direction"`
	Amount    decimal.Decimal `sql:"type:decimal(32,16)" json:"amount"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

const (
	TransferDirectionIn  = "in"
	TransferDirectionOut = "out"
)

// AssetLedger the external fungible-asset collaborator. TransferIn pulls
// amount from the user into protocol custody, TransferOut pushes it back.
// Any failure aborts the calling operation before state is committed.
type AssetLedger interface {
	TransferIn(ctx context.Context, from string, amount decimal.Decimal) error
	TransferOut(ctx context.Context, to string, amount decimal.Decimal) error
}
