package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Engine the lending orchestrator. Every mutating operation runs under a
// single engine-wide writer lock: accrue global -> load position(s) ->
// validate -> transfer -> mutate -> health check -> store, all-or-nothing.
type Engine interface {
	// Deposit supplies amount of loan asset into the shared pool.
	Deposit(ctx context.Context, userID string, amount decimal.Decimal) error
	// Withdraw returns amount of supplied loan asset to the user.
	Withdraw(ctx context.Context, userID string, amount decimal.Decimal) error
	// Borrow draws amount of loan asset against posted collateral.
	Borrow(ctx context.Context, userID string, amount decimal.Decimal) error
	// Repay pays debt down. amount is a ceiling: at most the current debt
	// is pulled. Returns the amount actually transferred.
	Repay(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error)
	// DepositCollateral posts amount of collateral asset.
	DepositCollateral(ctx context.Context, userID string, amount decimal.Decimal) error
	// WithdrawCollateral releases amount of collateral if the remainder
	// still covers the debt.
	WithdrawCollateral(ctx context.Context, userID string, amount decimal.Decimal) error
	// Liquidate clears an unsafe borrower: the liquidator repays the whole
	// debt and seizes collateral plus bonus, capped at what is posted.
	// Returns the seized collateral amount.
	Liquidate(ctx context.Context, liquidatorID, borrowerID string) (decimal.Decimal, error)
	// Accrue advances the global accrual index without touching positions.
	Accrue(ctx context.Context) error

	// Position returns the stored position, zero-value if absent.
	Position(ctx context.Context, userID string) (*Position, error)
	// CurrentDebt returns principal plus interest accrued up to now.
	CurrentDebt(ctx context.Context, userID string) (decimal.Decimal, error)
	// HealthScore recomputes the health score from the freshest price and
	// freshest accrued debt. Never cached.
	HealthScore(ctx context.Context, userID string) (decimal.Decimal, error)
}
