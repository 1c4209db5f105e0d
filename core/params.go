package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Params protocol risk parameters, admin-set, read-only to the engine.
type Params struct {
	// max loan-to-value in basis points, <= 10000
	CollateralizationRatioBps int64 `json:"collateralization_ratio_bps"`
	// linear interest rate per second
	RatePerSecond decimal.Decimal `json:"rate_per_second"`
	// liquidator incentive in basis points
	LiquidationBonusBps int64 `json:"liquidation_bonus_bps"`
}

// ParameterStore read-only parameter access for the engine.
type ParameterStore interface {
	Read(ctx context.Context) (*Params, error)
}

// PauseSwitch gate checked at entry of every mutating operation.
type PauseSwitch interface {
	Paused(ctx context.Context) (bool, error)
}
