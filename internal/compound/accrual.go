package compound

import (
	"evault/pkg/number"

	"github.com/holiman/uint256"
)

// AccrueInterest compound the accumulator from LastInterestUpdate up to now at the per second rate.
// interestFee (1e4 scale) of the new interest is minted as fee shares.
// If compounding overflows the timestamp still advances and no interest is charged.
func AccrueInterest(t *Totals, rate *uint256.Int, interestFee uint16, now int64) bool {
	if now <= t.LastInterestUpdate {
		return false
	}

	delta := uint64(now - t.LastInterestUpdate)
	t.LastInterestUpdate = now

	if rate.IsZero() {
		return true
	}

	acc, ok := compound(t.InterestAccumulator, rate, delta)
	if !ok {
		return true
	}

	if t.TotalBorrows.IsZero() {
		t.InterestAccumulator = acc
		return true
	}

	borrows, ok := number.MulDivUp(t.TotalBorrows, acc, t.InterestAccumulator)
	if !ok || borrows.Gt(number.MaxSaneDebtAmount) {
		return true
	}

	interest := new(uint256.Int).Sub(borrows, t.TotalBorrows)
	t.TotalBorrows = borrows
	t.InterestAccumulator = acc

	supply := t.Supply()
	if interestFee == 0 || interest.IsZero() || supply.IsZero() {
		return true
	}

	feeDenominator := new(uint256.Int).Lsh(configScale, InternalDebtPrecisionShift)
	feeAssets, _ := number.MulDiv(interest, uint256.NewInt(uint64(interestFee)), feeDenominator)
	if feeAssets.IsZero() {
		return true
	}

	totalAssets := t.TotalAssets()
	if !totalAssets.Gt(feeAssets) {
		return true
	}

	newSupply, ok := number.MulDiv(totalAssets, supply, new(uint256.Int).Sub(totalAssets, feeAssets))
	if !ok || newSupply.Gt(number.MaxSaneAmount) {
		return true
	}

	t.AccumulatedFees = new(uint256.Int).Add(t.AccumulatedFees, new(uint256.Int).Sub(newSupply, supply))
	return true
}

func compound(acc, rate *uint256.Int, delta uint64) (*uint256.Int, bool) {
	factor, ok := number.RPow(new(uint256.Int).Add(number.Ray, rate), delta, number.Ray)
	if !ok {
		return nil, false
	}

	return number.MulDiv(acc, factor, number.Ray)
}
