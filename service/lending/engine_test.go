package lending

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"pledge/core"
	"pledge/internal/lending"
	"pledge/store/asset"
	"pledge/store/position"
	"pledge/store/state"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type oracleStub struct {
	price decimal.Decimal
	err   error
}

func (o *oracleStub) GetPrice(ctx context.Context) (*core.Price, error) {
	if o.err != nil {
		return nil, o.err
	}

	return &core.Price{Symbol: "BTC", Price: o.price}, nil
}

type fixture struct {
	engine core.Engine
	state  *state.Memory
	oracle *oracleStub
	loan   *asset.MemoryLedger
	coll   *asset.MemoryLedger

	current time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		state:   state.NewMemory(),
		oracle:  &oracleStub{price: decimal.NewFromInt(2)},
		loan:    asset.NewMemory(),
		coll:    asset.NewMemory(),
		current: time.Unix(1700000000, 0),
	}

	f.engine = New(
		position.NewMemory(),
		f.state,
		f.state,
		f.state,
		f.oracle,
		f.loan,
		f.coll,
		WithClock(func() time.Time { return f.current }),
	)

	return f
}

func (f *fixture) elapse(seconds int64) {
	f.current = f.current.Add(time.Duration(seconds) * time.Second)
}

func (f *fixture) setRate(rate string) {
	f.state.SetParams(core.Params{
		CollateralizationRatioBps: state.DefaultRatioBps,
		LiquidationBonusBps:       state.DefaultBonusBps,
		RatePerSecond:             decimal.RequireFromString(rate),
	})
}

// fundPool seeds pool liquidity through a dedicated supplier.
func (f *fixture) fundPool(t *testing.T, amount int64) {
	t.Helper()

	f.loan.Mint("lp", decimal.NewFromInt(amount))
	require.NoError(t, f.engine.Deposit(context.Background(), "lp", decimal.NewFromInt(amount)))
}

// postCollateral mints and posts collateral for a user.
func (f *fixture) postCollateral(t *testing.T, userID string, amount int64) {
	t.Helper()

	f.coll.Mint(userID, decimal.NewFromInt(amount))
	require.NoError(t, f.engine.DepositCollateral(context.Background(), userID, decimal.NewFromInt(amount)))
}

func TestDepositWithdrawRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.loan.Mint("alice", decimal.NewFromInt(100))

	require.NoError(t, f.engine.Deposit(ctx, "alice", decimal.NewFromInt(100)))
	assert.True(t, f.loan.Balance("alice").IsZero())
	assert.True(t, f.loan.Balance(core.PoolUserID).Equal(decimal.NewFromInt(100)))

	p, err := f.engine.Position(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, p.LoanBalance.Equal(decimal.NewFromInt(100)))

	require.NoError(t, f.engine.Withdraw(ctx, "alice", decimal.NewFromInt(100)))
	assert.True(t, f.loan.Balance("alice").Equal(decimal.NewFromInt(100)))

	p, err = f.engine.Position(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())
}

func TestInvalidAmounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-1)} {
		assert.Equal(t, core.ErrInvalidAmount, f.engine.Deposit(ctx, "alice", amount))
		assert.Equal(t, core.ErrInvalidAmount, f.engine.Withdraw(ctx, "alice", amount))
		assert.Equal(t, core.ErrInvalidAmount, f.engine.Borrow(ctx, "alice", amount))
		assert.Equal(t, core.ErrInvalidAmount, f.engine.DepositCollateral(ctx, "alice", amount))
		assert.Equal(t, core.ErrInvalidAmount, f.engine.WithdrawCollateral(ctx, "alice", amount))

		_, err := f.engine.Repay(ctx, "alice", amount)
		assert.Equal(t, core.ErrInvalidAmount, err)
	}
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.loan.Mint("alice", decimal.NewFromInt(10))
	require.NoError(t, f.engine.Deposit(ctx, "alice", decimal.NewFromInt(10)))

	assert.Equal(t, core.ErrInsufficientBalance, f.engine.Withdraw(ctx, "alice", decimal.NewFromInt(11)))
	assert.Equal(t, core.ErrInsufficientBalance, f.engine.WithdrawCollateral(ctx, "alice", decimal.NewFromInt(1)))
}

// collateral 100 at price 2 with ratio 7500 caps borrowing at 150
func TestBorrowSolvencyGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fundPool(t, 1000)
	f.postCollateral(t, "bob", 100)

	assert.Equal(t, core.ErrUndercollateralizedBorrow, f.engine.Borrow(ctx, "bob", decimal.NewFromInt(151)))

	require.NoError(t, f.engine.Borrow(ctx, "bob", decimal.NewFromInt(150)))
	assert.True(t, f.loan.Balance("bob").Equal(decimal.NewFromInt(150)))

	// at the cap, one more unit is over it
	assert.Equal(t, core.ErrUndercollateralizedBorrow, f.engine.Borrow(ctx, "bob", decimal.NewFromInt(1)))

	debt, err := f.engine.CurrentDebt(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, debt.Equal(decimal.NewFromInt(150)))

	score, err := f.engine.HealthScore(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, score.Equal(decimal.NewFromInt(100)))
}

func TestBorrowWithoutOracleAborts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fundPool(t, 1000)
	f.postCollateral(t, "bob", 100)

	f.oracle.err = core.ErrOracleUnavailable
	assert.Equal(t, core.ErrOracleUnavailable, f.engine.Borrow(ctx, "bob", decimal.NewFromInt(10)))

	f.oracle.err = nil
	debt, err := f.engine.CurrentDebt(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, debt.IsZero())
	assert.True(t, f.loan.Balance("bob").IsZero())
}

// rate 0.1/s on principal 100: one second of interest makes the debt 110
func TestInterestAccrualAndRepay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.setRate("0.1")
	f.fundPool(t, 1000)
	f.postCollateral(t, "bob", 100)

	require.NoError(t, f.engine.Borrow(ctx, "bob", decimal.NewFromInt(100)))

	f.elapse(1)

	debt, err := f.engine.CurrentDebt(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, debt.Equal(decimal.NewFromInt(110)), "debt = %s", debt)

	// repay capitalizes the accrued interest before paying it down
	effective, err := f.engine.Repay(ctx, "bob", decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.True(t, effective.Equal(decimal.NewFromInt(50)))

	p, err := f.engine.Position(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, p.Principal.Equal(decimal.NewFromInt(60)), "principal = %s", p.Principal)

	f.elapse(1)

	debt, err = f.engine.CurrentDebt(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, debt.Equal(decimal.NewFromInt(66)), "debt = %s", debt)
}

func TestDebtMonotonicity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.setRate("0.01")
	f.fundPool(t, 1000)
	f.postCollateral(t, "bob", 100)

	require.NoError(t, f.engine.Borrow(ctx, "bob", decimal.NewFromInt(100)))

	last := decimal.NewFromInt(100)
	for i := 0; i < 10; i++ {
		f.elapse(int64(rand.Intn(30)))

		debt, err := f.engine.CurrentDebt(ctx, "bob")
		require.NoError(t, err)
		assert.True(t, debt.GreaterThanOrEqual(last), "debt %s < %s", debt, last)
		last = debt
	}
}

func TestRepayCeiling(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fundPool(t, 1000)
	f.postCollateral(t, "bob", 100)

	require.NoError(t, f.engine.Borrow(ctx, "bob", decimal.NewFromInt(100)))
	f.loan.Mint("bob", decimal.NewFromInt(900))

	// overpay: only the outstanding debt is pulled
	effective, err := f.engine.Repay(ctx, "bob", decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.True(t, effective.Equal(decimal.NewFromInt(100)))
	assert.True(t, f.loan.Balance("bob").Equal(decimal.NewFromInt(900)))

	// nothing owed: no transfer at all
	effective, err = f.engine.Repay(ctx, "bob", decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.True(t, effective.IsZero())
	assert.True(t, f.loan.Balance("bob").Equal(decimal.NewFromInt(900)))
}

func TestWithdrawCollateralSolvencyGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fundPool(t, 1000)
	f.postCollateral(t, "bob", 100)

	require.NoError(t, f.engine.Borrow(ctx, "bob", decimal.NewFromInt(75)))

	// debt 75 at price 2 needs 50 collateral; 50 may leave, not 51
	assert.Equal(t, core.ErrWithdrawalWouldUnderwater, f.engine.WithdrawCollateral(ctx, "bob", decimal.NewFromInt(51)))

	require.NoError(t, f.engine.WithdrawCollateral(ctx, "bob", decimal.NewFromInt(50)))
	assert.True(t, f.coll.Balance("bob").Equal(decimal.NewFromInt(50)))
}

// a score of exactly 100 is still healthy; strictly below enables seizure
func TestLiquidationThreshold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fundPool(t, 1000)
	f.postCollateral(t, "bob", 100)
	require.NoError(t, f.engine.Borrow(ctx, "bob", decimal.NewFromInt(75)))

	f.loan.Mint("keeper", decimal.NewFromInt(100))

	// price 1: max borrowable 75 against debt 75, score exactly 100
	f.oracle.price = decimal.NewFromInt(1)
	_, err := f.engine.Liquidate(ctx, "keeper", "bob")
	assert.Equal(t, core.ErrPositionHealthy, err)

	score, err := f.engine.HealthScore(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, score.Equal(decimal.NewFromInt(100)))
}

func TestLiquidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fundPool(t, 1000)
	f.postCollateral(t, "bob", 100)
	require.NoError(t, f.engine.Borrow(ctx, "bob", decimal.NewFromInt(80)))

	// price 1: max borrowable 75 against debt 80, score 93.75
	f.oracle.price = decimal.NewFromInt(1)

	score, err := f.engine.HealthScore(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, score.Equal(decimal.RequireFromString("93.75")))

	f.loan.Mint("keeper", decimal.NewFromInt(80))

	seized, err := f.engine.Liquidate(ctx, "keeper", "bob")
	require.NoError(t, err)

	// 80 debt at price 1 with a 5% bonus seizes 84 collateral
	assert.True(t, seized.Equal(decimal.NewFromInt(84)), "seized = %s", seized)
	assert.True(t, f.loan.Balance("keeper").IsZero())
	assert.True(t, f.coll.Balance("keeper").Equal(decimal.NewFromInt(84)))

	p, err := f.engine.Position(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, p.Principal.IsZero())
	assert.True(t, p.CollateralBalance.Equal(decimal.NewFromInt(16)))

	score, err = f.engine.HealthScore(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, score.Equal(lending.HealthMax))
}

// deep underwater: the bonus payout is capped at the posted collateral
func TestLiquidationSeizureCap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fundPool(t, 1000)
	f.postCollateral(t, "bob", 100)
	require.NoError(t, f.engine.Borrow(ctx, "bob", decimal.NewFromInt(150)))

	f.oracle.price = decimal.NewFromInt(1)
	f.loan.Mint("keeper", decimal.NewFromInt(150))

	seized, err := f.engine.Liquidate(ctx, "keeper", "bob")
	require.NoError(t, err)
	assert.True(t, seized.Equal(decimal.NewFromInt(100)), "seized = %s", seized)

	p, err := f.engine.Position(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())
}

func TestPauseGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.loan.Mint("alice", decimal.NewFromInt(10))
	require.NoError(t, f.engine.Deposit(ctx, "alice", decimal.NewFromInt(10)))

	f.state.SetPaused(true)

	assert.Equal(t, core.ErrProtocolPaused, f.engine.Deposit(ctx, "alice", decimal.NewFromInt(1)))
	assert.Equal(t, core.ErrProtocolPaused, f.engine.Withdraw(ctx, "alice", decimal.NewFromInt(1)))
	assert.Equal(t, core.ErrProtocolPaused, f.engine.Accrue(ctx))

	// queries stay open while mutations are gated
	p, err := f.engine.Position(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, p.LoanBalance.Equal(decimal.NewFromInt(10)))

	f.state.SetPaused(false)
	require.NoError(t, f.engine.Withdraw(ctx, "alice", decimal.NewFromInt(10)))
}

// a ledger whose outbound leg can be switched off
type brokenLedger struct {
	core.AssetLedger
	fail bool
}

func (l *brokenLedger) TransferOut(ctx context.Context, to string, amount decimal.Decimal) error {
	if l.fail {
		return errors.New("ledger offline")
	}

	return l.AssetLedger.TransferOut(ctx, to, amount)
}

// when the seize leg fails after the repayment leg cleared, the pool
// holds the repayment, the debt stays booked and a retry finishes the job
func TestLiquidationSeizeLegFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	coll := &brokenLedger{AssetLedger: f.coll}

	engine := New(
		position.NewMemory(),
		f.state,
		f.state,
		f.state,
		f.oracle,
		f.loan,
		coll,
		WithClock(func() time.Time { return f.current }),
	)

	f.loan.Mint("lp", decimal.NewFromInt(1000))
	require.NoError(t, engine.Deposit(ctx, "lp", decimal.NewFromInt(1000)))
	f.coll.Mint("bob", decimal.NewFromInt(100))
	require.NoError(t, engine.DepositCollateral(ctx, "bob", decimal.NewFromInt(100)))
	require.NoError(t, engine.Borrow(ctx, "bob", decimal.NewFromInt(80)))

	f.oracle.price = decimal.NewFromInt(1)
	f.loan.Mint("keeper", decimal.NewFromInt(80))

	coll.fail = true
	_, err := engine.Liquidate(ctx, "keeper", "bob")
	require.Error(t, err)

	// repayment sits in the pool, nothing was committed
	assert.True(t, f.loan.Balance("keeper").IsZero())

	debt, err := engine.CurrentDebt(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, debt.Equal(decimal.NewFromInt(80)))

	p, err := engine.Position(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, p.CollateralBalance.Equal(decimal.NewFromInt(100)))

	coll.fail = false
	f.loan.Mint("keeper", decimal.NewFromInt(80))

	seized, err := engine.Liquidate(ctx, "keeper", "bob")
	require.NoError(t, err)
	assert.True(t, seized.Equal(decimal.NewFromInt(84)))
}

// a ledger that calls back into the engine mid-transfer
type reentrantLedger struct {
	core.AssetLedger
	engine core.Engine
}

func (l *reentrantLedger) TransferIn(ctx context.Context, from string, amount decimal.Decimal) error {
	if err := l.engine.Accrue(ctx); err != nil {
		return err
	}

	return l.AssetLedger.TransferIn(ctx, from, amount)
}

func TestReentrancyGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	loan := asset.NewMemory()
	hostile := &reentrantLedger{AssetLedger: loan}

	engine := New(
		position.NewMemory(),
		f.state,
		f.state,
		f.state,
		f.oracle,
		hostile,
		f.coll,
	)
	hostile.engine = engine

	loan.Mint("alice", decimal.NewFromInt(10))
	assert.Equal(t, core.ErrReentrantCall, engine.Deposit(ctx, "alice", decimal.NewFromInt(10)))

	// the aborted deposit left nothing behind
	p, err := engine.Position(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())
}

func TestDepositOverflowGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	huge := decimal.New(9, 15)
	f.loan.Mint("whale", huge.Mul(decimal.NewFromInt(2)))

	require.NoError(t, f.engine.Deposit(ctx, "whale", huge))
	assert.Equal(t, core.ErrArithmeticOverflow, f.engine.Deposit(ctx, "whale", huge))

	// the failed deposit moved nothing
	assert.True(t, f.loan.Balance("whale").Equal(huge))
}

func TestBorrowGateProperty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fundPool(t, 10000000)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		user := string(rune('a'+i%26)) + "-prop"
		collateral := int64(rng.Intn(1000) + 1)
		amount := int64(rng.Intn(3000) + 1)

		f.coll.Mint(user, decimal.NewFromInt(collateral))
		require.NoError(t, f.engine.DepositCollateral(ctx, user, decimal.NewFromInt(collateral)))

		p, err := f.engine.Position(ctx, user)
		require.NoError(t, err)

		max := lending.MaxBorrowable(p.CollateralBalance, f.oracle.price, state.DefaultRatioBps)
		debt, err := f.engine.CurrentDebt(ctx, user)
		require.NoError(t, err)

		err = f.engine.Borrow(ctx, user, decimal.NewFromInt(amount))
		if debt.Add(decimal.NewFromInt(amount)).LessThanOrEqual(max) {
			assert.NoError(t, err, "collateral %d amount %d", collateral, amount)
		} else {
			assert.Equal(t, core.ErrUndercollateralizedBorrow, err, "collateral %d amount %d", collateral, amount)
		}
	}
}
