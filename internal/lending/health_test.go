package lending

import (
	"testing"

	"pledge/pkg/number"
)

func TestMaxBorrowable(t *testing.T) {
	// collateral 100 at price 2 with 75% ratio -> 150
	got := MaxBorrowable(number.Decimal("100"), number.Decimal("2"), 7500)
	if want := number.Decimal("150"); !got.Equal(want) {
		t.Errorf("maxBorrowable = %s, want %s", got, want)
	}
}

func TestHealthScore(t *testing.T) {
	collateral := number.Decimal("100")

	// debt equal to max borrowable sits exactly on the threshold
	score := HealthScore(collateral, number.Decimal("2"), 7500, number.Decimal("150"))
	if want := number.Decimal("100"); !score.Equal(want) {
		t.Errorf("score = %s, want %s", score, want)
	}
	if Liquidatable(score) {
		t.Error("score of exactly 100 is not liquidatable, boundary is exclusive")
	}

	// price halves: maxBorrowable 75 against debt 150 -> score 50
	score = HealthScore(collateral, number.Decimal("1"), 7500, number.Decimal("150"))
	if want := number.Decimal("50"); !score.Equal(want) {
		t.Errorf("score = %s, want %s", score, want)
	}
	if !Liquidatable(score) {
		t.Error("score 50 must be liquidatable")
	}
}

func TestHealthScoreNoDebt(t *testing.T) {
	score := HealthScore(number.Decimal("100"), number.Decimal("2"), 7500, number.Decimal("0"))
	if !score.Equal(HealthMax) {
		t.Errorf("debt-free position score = %s, want HealthMax", score)
	}
	if Liquidatable(score) {
		t.Error("debt-free position is never liquidatable")
	}
}

func TestSeizeAmount(t *testing.T) {
	// debt 150 at price 1 with 10% bonus wants 165 collateral
	seize := SeizeAmount(number.Decimal("150"), number.Decimal("1"), number.Decimal("200"), 1000)
	if want := number.Decimal("165"); !seize.Equal(want) {
		t.Errorf("seize = %s, want %s", seize, want)
	}

	// posted collateral caps the bonus
	seize = SeizeAmount(number.Decimal("150"), number.Decimal("1"), number.Decimal("160"), 1000)
	if want := number.Decimal("160"); !seize.Equal(want) {
		t.Errorf("capped seize = %s, want %s", seize, want)
	}

	// no bonus seizes exactly the debt value
	seize = SeizeAmount(number.Decimal("150"), number.Decimal("1"), number.Decimal("200"), 0)
	if want := number.Decimal("150"); !seize.Equal(want) {
		t.Errorf("no-bonus seize = %s, want %s", seize, want)
	}
}
