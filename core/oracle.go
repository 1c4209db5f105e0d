package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Price latest oracle tick for one symbol, loan-asset units per whole
// collateral unit.
type Price struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Symbol    string          `sql:"size:20;unique_index:price_symbol_idx" json:"symbol"`
	Price     decimal.Decimal `sql:"type:decimal(32,16)" json:"price"`
	Time      time.Time       `json:"time"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// PriceStore latest-tick store, one row per symbol.
type PriceStore interface {
	Save(ctx context.Context, price *Price) error
	Latest(ctx context.Context, symbol string) (*Price, error)
}

// PriceOracle supplies the current collateral price on demand. A missing,
// stale or non-positive price fails with ErrOracleUnavailable; the engine
// never substitutes a default.
type PriceOracle interface {
	GetPrice(ctx context.Context) (*Price, error)
}

// OracleService oracle adapter plus the upstream pull used by the price
// worker.
type OracleService interface {
	PriceOracle
	PullPrice(ctx context.Context, at time.Time) (*Price, error)
}
