package number

import (
	"github.com/shopspring/decimal"
)

// MaxPrecision fractional digits carried by every ratio and balance,
// matching the decimal(32,16) storage columns.
const MaxPrecision int32 = 16

// integral digits allowed by decimal(32,16)
var maxRepresentable = decimal.New(1, 16)

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// Ceil rounds up at the given precision.
func Ceil(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Ceil().Shift(-precision)
}

// InRange reports whether d fits the fixed-point representation.
func InRange(values ...decimal.Decimal) bool {
	for _, v := range values {
		if v.Abs().GreaterThanOrEqual(maxRepresentable) {
			return false
		}
	}

	return true
}
