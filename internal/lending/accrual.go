package lending

import (
	"pledge/core"
	"pledge/pkg/number"
	"time"

	"github.com/shopspring/decimal"
)

var one = decimal.New(1, 0)

// Accrue advances the global index by the simple linear factor
// (1 + ratePerSecond * elapsedSeconds) and moves LastUpdateTime to now.
// Zero elapsed time is a no-op. Compounding happens per call, so call
// frequency controls how closely the curve tracks continuous compounding.
func Accrue(state *core.AccrualState, ratePerSecond decimal.Decimal, now time.Time) error {
	if !state.Index.IsPositive() {
		state.Index = one
	}

	if state.LastUpdateTime.IsZero() {
		state.LastUpdateTime = now
		return nil
	}

	elapsed := now.Unix() - state.LastUpdateTime.Unix()
	if elapsed <= 0 {
		return nil
	}

	growth := ratePerSecond.Mul(decimal.NewFromInt(elapsed))
	index := number.Ceil(state.Index.Mul(one.Add(growth)), number.MaxPrecision)
	if !number.InRange(index) {
		return core.ErrArithmeticOverflow
	}

	state.Index = index
	state.LastUpdateTime = now

	return nil
}

// CurrentDebt current debt owed by the position:
// debt = principal * index / checkpoint, rounded up at 16 digits.
// A position with zero principal owes nothing regardless of checkpoint.
func CurrentDebt(position *core.Position, index decimal.Decimal) decimal.Decimal {
	if !position.Principal.IsPositive() {
		return decimal.Zero
	}

	checkpoint := position.AccrualCheckpoint
	if !checkpoint.IsPositive() {
		checkpoint = index
	}

	// divide above storage precision so the ceiling sees the remainder
	return number.Ceil(position.Principal.Mul(index).DivRound(checkpoint, number.MaxPrecision+2), number.MaxPrecision)
}
