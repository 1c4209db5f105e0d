package lending

import (
	"context"
	"sync"
	"time"

	"pledge/core"
	"pledge/internal/lending"
	"pledge/pkg/metrics"
	"pledge/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type engine struct {
	// engine-wide writer lock: every mutating operation holds it for its
	// whole read-modify-write sequence. TryLock turns an overlapping
	// mutation into ErrReentrantCall instead of interleaving.
	mu sync.RWMutex

	positions        core.PositionStore
	accruals         core.AccrualStore
	params           core.ParameterStore
	pause            core.PauseSwitch
	oracle           core.PriceOracle
	loanLedger       core.AssetLedger
	collateralLedger core.AssetLedger

	metrics *metrics.Metrics
	now     func() time.Time
}

// Option engine option
type Option func(*engine)

// WithClock overrides the engine clock. Tests drive accrual through this.
func WithClock(now func() time.Time) Option {
	return func(e *engine) { e.now = now }
}

// WithMetrics attaches prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *engine) { e.metrics = m }
}

// New new lending engine
func New(
	positions core.PositionStore,
	accruals core.AccrualStore,
	params core.ParameterStore,
	pause core.PauseSwitch,
	oracle core.PriceOracle,
	loanLedger core.AssetLedger,
	collateralLedger core.AssetLedger,
	opts ...Option,
) core.Engine {
	e := &engine{
		positions:        positions,
		accruals:         accruals,
		params:           params,
		pause:            pause,
		oracle:           oracle,
		loanLedger:       loanLedger,
		collateralLedger: collateralLedger,
		now:              time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// mutate wraps a mutating operation with the reentrancy guard and the
// pause gate. fn runs with the writer lock held.
func (e *engine) mutate(ctx context.Context, op string, fn func(ctx context.Context, now time.Time) error) error {
	if !e.mu.TryLock() {
		e.count(op, core.ErrReentrantCall)
		return core.ErrReentrantCall
	}
	defer e.mu.Unlock()

	paused, err := e.pause.Paused(ctx)
	if err != nil {
		e.count(op, err)
		return err
	}

	if paused {
		e.count(op, core.ErrProtocolPaused)
		return core.ErrProtocolPaused
	}

	err = fn(ctx, e.now())
	e.count(op, err)

	return err
}

func (e *engine) count(op string, err error) {
	if e.metrics == nil {
		return
	}

	status := "ok"
	if err != nil {
		// keep the label set bounded: domain codes verbatim, everything
		// else collapses to "error"
		if code, ok := err.(core.ErrorCode); ok {
			status = code.Error()
		} else {
			status = "error"
		}
	}

	e.metrics.Operations.WithLabelValues(op, status).Inc()
}

// accrue advances the global index up to now and returns it with the
// current parameters. The state is persisted together with the position
// on the success path.
func (e *engine) accrue(ctx context.Context, now time.Time) (*core.AccrualState, *core.Params, error) {
	params, err := e.params.Read(ctx)
	if err != nil {
		return nil, nil, err
	}

	state, err := e.accruals.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	if err := lending.Accrue(state, params.RatePerSecond, now); err != nil {
		return nil, nil, err
	}

	return state, params, nil
}

// commit persists the accrued global state and the mutated position.
func (e *engine) commit(ctx context.Context, state *core.AccrualState, positions ...*core.Position) error {
	if err := e.accruals.Save(ctx, state); err != nil {
		return err
	}

	for _, position := range positions {
		if err := e.positions.Save(ctx, position); err != nil {
			return err
		}
	}

	if e.metrics != nil {
		index, _ := state.Index.Float64()
		e.metrics.AccrualIndex.Set(index)
	}

	return nil
}

func (e *engine) Deposit(ctx context.Context, userID string, amount decimal.Decimal) error {
	return e.mutate(ctx, "deposit", func(ctx context.Context, now time.Time) error {
		if !amount.IsPositive() {
			return core.ErrInvalidAmount
		}

		state, _, err := e.accrue(ctx, now)
		if err != nil {
			return err
		}

		position, err := e.positions.Find(ctx, userID)
		if err != nil {
			return err
		}

		balance := position.LoanBalance.Add(amount)
		if !number.InRange(balance) {
			return core.ErrArithmeticOverflow
		}

		if err := e.loanLedger.TransferIn(ctx, userID, amount); err != nil {
			return err
		}

		position.LoanBalance = balance
		return e.commit(ctx, state, position)
	})
}

func (e *engine) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) error {
	return e.mutate(ctx, "withdraw", func(ctx context.Context, now time.Time) error {
		if !amount.IsPositive() {
			return core.ErrInvalidAmount
		}

		state, _, err := e.accrue(ctx, now)
		if err != nil {
			return err
		}

		position, err := e.positions.Find(ctx, userID)
		if err != nil {
			return err
		}

		if amount.GreaterThan(position.LoanBalance) {
			return core.ErrInsufficientBalance
		}

		if err := e.loanLedger.TransferOut(ctx, userID, amount); err != nil {
			return err
		}

		// supply and borrow use different assets, so withdrawing supplied
		// loan asset cannot move this user's own health.
		position.LoanBalance = position.LoanBalance.Sub(amount)
		return e.commit(ctx, state, position)
	})
}

func (e *engine) Borrow(ctx context.Context, userID string, amount decimal.Decimal) error {
	return e.mutate(ctx, "borrow", func(ctx context.Context, now time.Time) error {
		if !amount.IsPositive() {
			return core.ErrInvalidAmount
		}

		state, params, err := e.accrue(ctx, now)
		if err != nil {
			return err
		}

		position, err := e.positions.Find(ctx, userID)
		if err != nil {
			return err
		}

		price, err := e.oracle.GetPrice(ctx)
		if err != nil {
			return err
		}

		debt := lending.CurrentDebt(position, state.Index)
		newDebt := debt.Add(amount)
		if !number.InRange(newDebt) {
			return core.ErrArithmeticOverflow
		}

		max := lending.MaxBorrowable(position.CollateralBalance, price.Price, params.CollateralizationRatioBps)
		if newDebt.GreaterThan(max) {
			return core.ErrUndercollateralizedBorrow
		}

		if err := e.loanLedger.TransferOut(ctx, userID, amount); err != nil {
			return err
		}

		// interest capitalized: accrued debt becomes the new principal
		position.Principal = newDebt
		position.AccrualCheckpoint = state.Index
		return e.commit(ctx, state, position)
	})
}

func (e *engine) Repay(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	effective := decimal.Zero

	err := e.mutate(ctx, "repay", func(ctx context.Context, now time.Time) error {
		if !amount.IsPositive() {
			return core.ErrInvalidAmount
		}

		state, _, err := e.accrue(ctx, now)
		if err != nil {
			return err
		}

		position, err := e.positions.Find(ctx, userID)
		if err != nil {
			return err
		}

		debt := lending.CurrentDebt(position, state.Index)
		if !debt.IsPositive() {
			return e.commit(ctx, state, position)
		}

		// amount is a ceiling: never pull more than owed
		effective = decimal.Min(amount, debt)

		if err := e.loanLedger.TransferIn(ctx, userID, effective); err != nil {
			return err
		}

		position.Principal = debt.Sub(effective)
		position.AccrualCheckpoint = state.Index
		return e.commit(ctx, state, position)
	})
	if err != nil {
		return decimal.Zero, err
	}

	return effective, nil
}

func (e *engine) DepositCollateral(ctx context.Context, userID string, amount decimal.Decimal) error {
	return e.mutate(ctx, "deposit_collateral", func(ctx context.Context, now time.Time) error {
		if !amount.IsPositive() {
			return core.ErrInvalidAmount
		}

		state, _, err := e.accrue(ctx, now)
		if err != nil {
			return err
		}

		position, err := e.positions.Find(ctx, userID)
		if err != nil {
			return err
		}

		balance := position.CollateralBalance.Add(amount)
		if !number.InRange(balance) {
			return core.ErrArithmeticOverflow
		}

		if err := e.collateralLedger.TransferIn(ctx, userID, amount); err != nil {
			return err
		}

		// adding collateral only improves health, no check needed
		position.CollateralBalance = balance
		return e.commit(ctx, state, position)
	})
}

func (e *engine) WithdrawCollateral(ctx context.Context, userID string, amount decimal.Decimal) error {
	return e.mutate(ctx, "withdraw_collateral", func(ctx context.Context, now time.Time) error {
		if !amount.IsPositive() {
			return core.ErrInvalidAmount
		}

		state, params, err := e.accrue(ctx, now)
		if err != nil {
			return err
		}

		position, err := e.positions.Find(ctx, userID)
		if err != nil {
			return err
		}

		if amount.GreaterThan(position.CollateralBalance) {
			return core.ErrInsufficientBalance
		}

		remaining := position.CollateralBalance.Sub(amount)
		debt := lending.CurrentDebt(position, state.Index)

		if debt.IsPositive() {
			price, err := e.oracle.GetPrice(ctx)
			if err != nil {
				return err
			}

			// the borrow-side solvency gate, re-derived from the
			// collateral-reduction direction
			max := lending.MaxBorrowable(remaining, price.Price, params.CollateralizationRatioBps)
			if debt.GreaterThan(max) {
				return core.ErrWithdrawalWouldUnderwater
			}
		}

		if err := e.collateralLedger.TransferOut(ctx, userID, amount); err != nil {
			return err
		}

		position.CollateralBalance = remaining
		return e.commit(ctx, state, position)
	})
}

func (e *engine) Liquidate(ctx context.Context, liquidatorID, borrowerID string) (decimal.Decimal, error) {
	seized := decimal.Zero

	err := e.mutate(ctx, "liquidate", func(ctx context.Context, now time.Time) error {
		log := logger.FromContext(ctx).WithField("borrower", borrowerID)

		state, params, err := e.accrue(ctx, now)
		if err != nil {
			return err
		}

		borrower, err := e.positions.Find(ctx, borrowerID)
		if err != nil {
			return err
		}

		price, err := e.oracle.GetPrice(ctx)
		if err != nil {
			return err
		}

		debt := lending.CurrentDebt(borrower, state.Index)
		score := lending.HealthScore(borrower.CollateralBalance, price.Price, params.CollateralizationRatioBps, debt)
		if !lending.Liquidatable(score) {
			return core.ErrPositionHealthy
		}

		seize := lending.SeizeAmount(debt, price.Price, borrower.CollateralBalance, params.LiquidationBonusBps)

		// repayment leg first: the pool may end up holding funds from a
		// liquidator whose seize leg failed, never the reverse. Nothing
		// commits until both legs clear, so the debt stays booked and the
		// liquidation stays retriable.
		if err := e.loanLedger.TransferIn(ctx, liquidatorID, debt); err != nil {
			return err
		}

		if err := e.collateralLedger.TransferOut(ctx, liquidatorID, seize); err != nil {
			log.WithError(err).Errorln("seize leg failed after repayment, liquidation must be retried")
			return err
		}

		if seize.Equal(borrower.CollateralBalance) {
			log.WithField("debt", debt).Warningln("liquidation seized all posted collateral, bonus shortfall absorbed by the pool")
		}

		borrower.Principal = decimal.Zero
		borrower.AccrualCheckpoint = state.Index
		borrower.CollateralBalance = borrower.CollateralBalance.Sub(seize)

		if err := e.commit(ctx, state, borrower); err != nil {
			return err
		}

		if e.metrics != nil {
			e.metrics.Liquidations.Inc()
		}

		seized = seize
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	return seized, nil
}

func (e *engine) Accrue(ctx context.Context) error {
	return e.mutate(ctx, "accrue", func(ctx context.Context, now time.Time) error {
		state, _, err := e.accrue(ctx, now)
		if err != nil {
			return err
		}

		return e.commit(ctx, state)
	})
}

func (e *engine) Position(ctx context.Context, userID string) (*core.Position, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.positions.Find(ctx, userID)
}

func (e *engine) CurrentDebt(ctx context.Context, userID string) (decimal.Decimal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	state, _, err := e.accrue(ctx, e.now())
	if err != nil {
		return decimal.Zero, err
	}

	position, err := e.positions.Find(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	return lending.CurrentDebt(position, state.Index), nil
}

func (e *engine) HealthScore(ctx context.Context, userID string) (decimal.Decimal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	state, params, err := e.accrue(ctx, e.now())
	if err != nil {
		return decimal.Zero, err
	}

	position, err := e.positions.Find(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	debt := lending.CurrentDebt(position, state.Index)
	if !debt.IsPositive() {
		return lending.HealthMax, nil
	}

	price, err := e.oracle.GetPrice(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return lending.HealthScore(position.CollateralBalance, price.Price, params.CollateralizationRatioBps, debt), nil
}
