package compound

import (
	"evault/pkg/number"

	"github.com/holiman/uint256"
)

// DiscountFactor collateralValue / liabilityValue in wad, floored at 1 - maxDiscount
func DiscountFactor(collateralValue, liabilityValue *uint256.Int, maxDiscount uint16) *uint256.Int {
	floor, _ := number.MulDiv(number.Wad, uint256.NewInt(number.ConfigScale-uint64(maxDiscount)), configScale)
	df, ok := number.MulDiv(collateralValue, number.Wad, liabilityValue)
	if !ok || df.Lt(floor) {
		return floor
	}

	if df.Gt(number.Wad) {
		return number.Wad.Clone()
	}

	return df
}

// LiquidationLimits the most debt a liquidator may take over and the collateral shares it earns for it.
// liabilityValue and debt describe the violator's liability, collateralValue and
// collateralBalance the single collateral being seized.
func LiquidationLimits(liabilityValue, debt, collateralValue, collateralBalance, discountFactor *uint256.Int) (maxRepay, maxYield *uint256.Int) {
	if collateralValue.IsZero() {
		return new(uint256.Int), collateralBalance.Clone()
	}

	maxRepayValue := liabilityValue.Clone()
	maxYieldValue, _ := number.MulDiv(maxRepayValue, number.Wad, discountFactor)

	if collateralValue.Lt(maxYieldValue) {
		maxRepayValue, _ = number.MulDiv(collateralValue, discountFactor, number.Wad)
		maxYieldValue = collateralValue.Clone()
	}

	maxRepay, _ = number.MulDiv(maxRepayValue, debt, liabilityValue)
	maxYield, _ = number.MulDiv(maxYieldValue, collateralBalance, collateralValue)
	return maxRepay, maxYield
}

// LiquidationYield collateral earned for repaying part of maxRepay, pro rata and rounded down
func LiquidationYield(repay, maxRepay, maxYield *uint256.Int) *uint256.Int {
	if repay.Eq(maxRepay) {
		return maxYield.Clone()
	}

	if maxRepay.IsZero() {
		return new(uint256.Int)
	}

	y, _ := number.MulDiv(repay, maxYield, maxRepay)
	return y
}
