package number

import (
	"testing"

	"github.com/bmizerany/assert"
	"github.com/shopspring/decimal"
)

func TestFromDecimal(t *testing.T) {
	x, ok := FromDecimal(decimal.RequireFromString("2.5"), 18)
	assert.Equal(t, true, ok)
	assert.Equal(t, "2500000000000000000", x.Dec())

	_, ok = FromDecimal(decimal.RequireFromString("-1"), 0)
	assert.Equal(t, false, ok)

	assert.Equal(t, "2.5", ToDecimal(x, 18).String())
}

func TestFraction(t *testing.T) {
	v, ok := Fraction(decimal.RequireFromString("0.75"))
	assert.Equal(t, true, ok)
	assert.Equal(t, uint16(7500), v)

	v, ok = Fraction(decimal.NewFromInt(1))
	assert.Equal(t, true, ok)
	assert.Equal(t, uint16(ConfigScale), v)

	_, ok = Fraction(decimal.RequireFromString("1.0001"))
	assert.Equal(t, false, ok)
}
