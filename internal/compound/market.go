package compound

import (
	"evault/pkg/number"

	"github.com/holiman/uint256"
)

const (
	// SecondsPerYear 365.2425 days
	SecondsPerYear = 31_556_952
	// InternalDebtPrecisionShift owed units carry 31 extra bits over assets
	InternalDebtPrecisionShift = 31
	// DefaultMaxLiquidationDiscount 20%
	DefaultMaxLiquidationDiscount uint16 = 2_000
	// DefaultBorrowFactor 1.0
	DefaultBorrowFactor uint16 = number.ConfigScale
)

var (
	// InitialInterestAccumulator 1.0 in ray
	InitialInterestAccumulator = number.Ray
	// VirtualDeposit virtual assets and shares added on both sides of every conversion
	VirtualDeposit = uint256.NewInt(1_000_000)
	// MaxAllowedInterestRate 1,000,000% APR per second in ray
	MaxAllowedInterestRate = new(uint256.Int).Div(
		new(uint256.Int).Mul(number.Ray, uint256.NewInt(10_000)),
		uint256.NewInt(SecondsPerYear),
	)

	configScale = uint256.NewInt(number.ConfigScale)
)

// Totals the aggregate ledger of a vault that interest accrual and conversions work on
type Totals struct {
	Cash                *uint256.Int
	TotalShares         *uint256.Int
	TotalBorrows        *uint256.Int
	AccumulatedFees     *uint256.Int
	InterestAccumulator *uint256.Int
	LastInterestUpdate  int64
}

// Clone deep copy
func (t *Totals) Clone() *Totals {
	return &Totals{
		Cash:                t.Cash.Clone(),
		TotalShares:         t.TotalShares.Clone(),
		TotalBorrows:        t.TotalBorrows.Clone(),
		AccumulatedFees:     t.AccumulatedFees.Clone(),
		InterestAccumulator: t.InterestAccumulator.Clone(),
		LastInterestUpdate:  t.LastInterestUpdate,
	}
}

// BorrowsAssets total borrows in assets, rounded up
func (t *Totals) BorrowsAssets() *uint256.Int {
	return OwedToAssetsUp(t.TotalBorrows)
}

// TotalAssets cash + borrows
func (t *Totals) TotalAssets() *uint256.Int {
	return new(uint256.Int).Add(t.Cash, t.BorrowsAssets())
}

// Supply shares held by accounts plus fee shares not yet converted
func (t *Totals) Supply() *uint256.Int {
	return new(uint256.Int).Add(t.TotalShares, t.AccumulatedFees)
}
