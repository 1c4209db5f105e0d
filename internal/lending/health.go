package lending

import (
	"pledge/pkg/number"

	"github.com/shopspring/decimal"
)

var (
	// HealthMax stands in for the unbounded score of a debt-free position.
	// Comparisons only ever test score < LiquidationThreshold, so the
	// sentinel never enters arithmetic.
	HealthMax = decimal.New(1, 15)

	// LiquidationThreshold a score below 100 enables liquidation.
	LiquidationThreshold = decimal.NewFromInt(100)

	hundred    = decimal.NewFromInt(100)
	bpsDivisor = decimal.NewFromInt(10000)
)

// CollateralValue value of posted collateral in loan-asset units.
func CollateralValue(collateral, price decimal.Decimal) decimal.Decimal {
	return collateral.Mul(price).Truncate(number.MaxPrecision)
}

// MaxBorrowable max loan-to-value allowed against the collateral:
// collateral * price * ratioBps / 10000.
func MaxBorrowable(collateral, price decimal.Decimal, ratioBps int64) decimal.Decimal {
	return collateral.Mul(price).
		Mul(decimal.NewFromInt(ratioBps)).Div(bpsDivisor).
		Truncate(number.MaxPrecision)
}

// HealthScore normalized margin: maxBorrowable * 100 / debt. Recomputed
// from scratch on every call, never cached.
func HealthScore(collateral, price decimal.Decimal, ratioBps int64, debt decimal.Decimal) decimal.Decimal {
	if !debt.IsPositive() {
		return HealthMax
	}

	return MaxBorrowable(collateral, price, ratioBps).
		Mul(hundred).Div(debt).
		Truncate(number.MaxPrecision)
}

// Liquidatable a position is seizable iff its score is strictly below the
// threshold.
func Liquidatable(score decimal.Decimal) bool {
	return score.LessThan(LiquidationThreshold)
}

// SeizeAmount collateral owed to the liquidator for clearing debt at the
// given price: debt / price scaled by the bonus, capped at what is posted.
// The capped case leaves the pool short; callers log it as bad debt.
func SeizeAmount(debt, price, collateral decimal.Decimal, bonusBps int64) decimal.Decimal {
	bonus := one.Add(decimal.NewFromInt(bonusBps).Div(bpsDivisor))
	seize := debt.Div(price).Mul(bonus).Truncate(number.MaxPrecision)
	if seize.GreaterThan(collateral) {
		return collateral
	}

	return seize
}
