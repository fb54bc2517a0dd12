package compound

import (
	"evault/pkg/number"

	"github.com/holiman/uint256"
)

var owedRoundingMask = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), InternalDebtPrecisionShift), uint256.NewInt(1))

// OwedFromAssets assets in owed units
func OwedFromAssets(assets *uint256.Int) *uint256.Int {
	return new(uint256.Int).Lsh(assets, InternalDebtPrecisionShift)
}

// OwedToAssetsUp owed units in assets, rounded up
func OwedToAssetsUp(owed *uint256.Int) *uint256.Int {
	assets := new(uint256.Int).Rsh(owed, InternalDebtPrecisionShift)
	if !new(uint256.Int).And(owed, owedRoundingMask).IsZero() {
		assets.AddUint64(assets, 1)
	}

	return assets
}

// CurrentOwed rebase owed recorded at userAccumulator to accumulator, rounded up
func CurrentOwed(owed, accumulator, userAccumulator *uint256.Int) *uint256.Int {
	if owed.IsZero() || userAccumulator.IsZero() || accumulator.Eq(userAccumulator) {
		return owed.Clone()
	}

	current, ok := number.MulDivUp(owed, accumulator, userAccumulator)
	if !ok {
		return number.MaxUint.Clone()
	}

	return current
}
