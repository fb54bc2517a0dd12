package compound

import (
	"context"
	"testing"

	"evault/core"
	"evault/pkg/number"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyTotals() *Totals {
	return &Totals{
		Cash:                number.Zero(),
		TotalShares:         number.Zero(),
		TotalBorrows:        number.Zero(),
		AccumulatedFees:     number.Zero(),
		InterestAccumulator: InitialInterestAccumulator.Clone(),
	}
}

func TestAccrueInterestRoundsDebtUp(t *testing.T) {
	rate := number.MustParse("3170979198376458650")
	borrowed := number.MustParse("500000000000000000")

	totals := emptyTotals()
	totals.Cash = number.MustParse("500000000000000000")
	totals.TotalShares = number.MustParse("1000000000000000000")
	totals.TotalBorrows = OwedFromAssets(borrowed)

	require.True(t, AccrueInterest(totals, rate, 0, 1))
	assert.Equal(t, int64(1), totals.LastInterestUpdate)
	assert.Equal(t, "1000000003170979198376458650", totals.InterestAccumulator.Dec())

	owed := CurrentOwed(OwedFromAssets(borrowed), totals.InterestAccumulator, InitialInterestAccumulator)
	// exact value is 500000001585489599.188...
	assert.Equal(t, "500000001585489600", OwedToAssetsUp(owed).Dec())
	assert.Equal(t, "500000001585489600", totals.BorrowsAssets().Dec())

	assert.False(t, AccrueInterest(totals, rate, 0, 1), "same second is a no-op")
}

func TestAccrueInterestFee(t *testing.T) {
	totals := emptyTotals()
	totals.Cash = number.MustParse("1000000000000000000000")
	totals.TotalShares = number.MustParse("2000000000000000000000")
	totals.TotalBorrows = OwedFromAssets(number.MustParse("1000000000000000000000"))

	rate := PerSecondRate(decimal.NewFromFloat(0.1))
	before := ToAssetsDown(totals.TotalShares, totals)
	require.True(t, AccrueInterest(totals, rate, 2_000, SecondsPerYear))

	assert.False(t, totals.AccumulatedFees.IsZero())
	after := ToAssetsDown(totals.TotalShares, totals)
	fees := ToAssetsDown(totals.AccumulatedFees, totals)
	interest := new(uint256.Int).Sub(after, before)
	interest.Add(interest, fees)

	// fee shares are worth ~20% of the new interest
	ratio := number.ToDecimal(fees, 0).Div(number.ToDecimal(interest, 0))
	assert.True(t, ratio.Sub(decimal.NewFromFloat(0.2)).Abs().LessThan(decimal.NewFromFloat(0.0001)), ratio.String())
}

func TestAccrueInterestOverflowStillAdvances(t *testing.T) {
	totals := emptyTotals()
	totals.TotalBorrows = OwedFromAssets(number.Int(1))
	before := totals.InterestAccumulator.Clone()

	require.True(t, AccrueInterest(totals, MaxAllowedInterestRate, 0, 1<<40))
	assert.Equal(t, int64(1<<40), totals.LastInterestUpdate)
	assert.Equal(t, before.Dec(), totals.InterestAccumulator.Dec())
}

func TestShareConversionRounding(t *testing.T) {
	totals := emptyTotals()
	totals.Cash = number.Int(1_000)
	totals.TotalShares = number.Int(999)

	assets := number.Int(10)
	down := ToSharesDown(assets, totals)
	up := ToSharesUp(assets, totals)
	assert.True(t, up.Cmp(down) >= 0)

	// round trip never pays out more
	assert.True(t, ToAssetsDown(down, totals).Cmp(assets) <= 0)
	assert.True(t, ToAssetsUp(up, totals).Cmp(assets) >= 0)

	assert.Equal(t, "1", GetExchangeRate(emptyTotals()).String())
}

func TestOwedToAssetsUp(t *testing.T) {
	assert.Equal(t, "0", OwedToAssetsUp(number.Zero()).Dec())
	assert.Equal(t, "1", OwedToAssetsUp(number.Int(1)).Dec())
	assert.Equal(t, "1", OwedToAssetsUp(OwedFromAssets(number.Int(1))).Dec())
	assert.Equal(t, "2", OwedToAssetsUp(new(uint256.Int).AddUint64(OwedFromAssets(number.Int(1)), 1)).Dec())
}

func TestJumpRateModel(t *testing.T) {
	ctx := context.Background()
	m := NewJumpRateModel(decimal.Zero, decimal.NewFromFloat(0.1), decimal.NewFromInt(2), decimal.NewFromFloat(0.8))

	r, err := m.InterestRate(ctx, number.Zero())
	require.NoError(t, err)
	assert.True(t, r.IsZero())

	half := new(uint256.Int).Div(number.Ray, number.Int(2))
	r, err = m.InterestRate(ctx, half)
	require.NoError(t, err)
	assert.Equal(t, "0.05", AnnualRate(r).Round(4).String())

	r, err = m.InterestRate(ctx, number.Ray)
	require.NoError(t, err)
	// 0.8 * 0.1 + 0.2 * 2
	assert.Equal(t, "0.48", AnnualRate(r).Round(4).String())

	assert.Equal(t, "500000000000000000000000000", UtilizationRate(number.Int(5), number.Int(5)).Dec())
	assert.True(t, UtilizationRate(number.Zero(), number.Zero()).IsZero())
}

func TestLTVRamp(t *testing.T) {
	e := &core.LTVEntry{Target: 3_000, Initial: 9_000, RampStart: 100, RampDuration: 100}

	assert.Equal(t, uint16(9_000), LiquidationLTV(e, 100))
	assert.Equal(t, uint16(6_000), LiquidationLTV(e, 150))
	assert.Equal(t, uint16(3_000), LiquidationLTV(e, 200))
	assert.Equal(t, uint16(3_000), BorrowLTV(e, 150), "ramp down binds borrowing at once")

	up := &core.LTVEntry{Target: 8_000, Initial: 4_000, RampStart: 0, RampDuration: 10}
	assert.Equal(t, uint16(6_000), LiquidationLTV(up, 5))
	assert.Equal(t, uint16(6_000), BorrowLTV(up, 5))

	assert.Zero(t, BorrowLTV(nil, 0))
}

func TestLiquidationLimits(t *testing.T) {
	wad := func(s string) *uint256.Int {
		x, ok := number.FromDecimal(decimal.RequireFromString(s), 18)
		require.True(t, ok)
		return x
	}

	// health score 0.96
	df := DiscountFactor(wad("12"), wad("12.5"), DefaultMaxLiquidationDiscount)
	assert.Equal(t, wad("0.96").Dec(), df.Dec())

	repay, yield := LiquidationLimits(wad("12.5"), wad("5"), wad("40"), wad("100"), df)
	assert.Equal(t, wad("5").Dec(), repay.Dec())
	assert.Equal(t, "32552083333333333332", yield.Dec())

	// deep underwater, discount saturates and collateral is the binding limit
	df = DiscountFactor(wad("3"), wad("11"), DefaultMaxLiquidationDiscount)
	assert.Equal(t, wad("0.8").Dec(), df.Dec())
	repay, yield = LiquidationLimits(wad("11"), wad("5"), wad("10"), wad("100"), df)
	assert.Equal(t, "3636363636363636363", repay.Dec())
	assert.Equal(t, wad("100").Dec(), yield.Dec())

	// worthless collateral can still be swept
	repay, yield = LiquidationLimits(wad("11"), wad("5"), number.Zero(), wad("7"), df)
	assert.True(t, repay.IsZero())
	assert.Equal(t, wad("7").Dec(), yield.Dec())

	assert.Equal(t, "50", LiquidationYield(number.Int(1), number.Int(2), number.Int(100)).Dec())
	assert.Equal(t, "7", LiquidationYield(number.Zero(), number.Zero(), number.Int(7)).Dec())
}
