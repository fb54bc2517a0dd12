package number

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// FromDecimal scale d by 10^exp and truncate into a uint256, ok false when negative or overflowing
func FromDecimal(d decimal.Decimal, exp int32) (*uint256.Int, bool) {
	if d.IsNegative() {
		return nil, false
	}

	x, overflow := uint256.FromBig(d.Shift(exp).BigInt())
	return x, !overflow
}

// ToDecimal interpret x as a fixed point number with exp decimals
func ToDecimal(x *uint256.Int, exp int32) decimal.Decimal {
	if x == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(x.ToBig(), -exp)
}

// Fraction convert a fraction like 0.75 into config scale (1e4), ok false above 1
func Fraction(d decimal.Decimal) (uint16, bool) {
	if d.IsNegative() {
		return 0, false
	}

	v := d.Shift(4).Truncate(0)
	if v.GreaterThan(decimal.NewFromInt(ConfigScale)) {
		return 0, false
	}

	return uint16(v.IntPart()), true
}
