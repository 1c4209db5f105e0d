package number

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCeil(t *testing.T) {
	d := Decimal("1.00000000000000001")
	got := Ceil(d, MaxPrecision)
	want := Decimal("1.0000000000000001")
	if !got.Equal(want) {
		t.Errorf("Ceil(%s) = %s, want %s", d, got, want)
	}

	exact := Decimal("2.5")
	if !Ceil(exact, MaxPrecision).Equal(exact) {
		t.Errorf("Ceil should not change exact values")
	}
}

func TestInRange(t *testing.T) {
	if !InRange(Decimal("9999999999999999.9999")) {
		t.Error("value inside decimal(32,16) should be in range")
	}

	if InRange(decimal.New(1, 16)) {
		t.Error("1e16 should be out of range")
	}

	if InRange(decimal.New(-1, 17)) {
		t.Error("negative out-of-range value should be rejected")
	}

	if !InRange(decimal.Zero, Decimal("1"), Decimal("-1")) {
		t.Error("small values should be in range")
	}
}
