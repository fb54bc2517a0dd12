package compound

import (
	"context"

	"evault/pkg/number"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// UtilizationRate borrows / (cash + borrows) in ray
func UtilizationRate(cash, borrows *uint256.Int) *uint256.Int {
	total := new(uint256.Int).Add(cash, borrows)
	if total.IsZero() {
		return new(uint256.Int)
	}

	u, _ := number.MulDiv(borrows, number.Ray, total)
	return u
}

// PerSecondRate annual rate like 0.05 as per second ray
func PerSecondRate(annual decimal.Decimal) *uint256.Int {
	r, ok := number.FromDecimal(annual.Shift(27).Div(decimal.NewFromInt(SecondsPerYear)).Truncate(0), 0)
	if !ok {
		return new(uint256.Int)
	}

	return r
}

// AnnualRate per second ray rate as a simple annual rate
func AnnualRate(rate *uint256.Int) decimal.Decimal {
	return number.ToDecimal(rate, 27).Mul(decimal.NewFromInt(SecondsPerYear)).Truncate(18)
}

// JumpRateModel kinked linear model, rate = base + u * multiplier below the kink,
// and grows by jumpMultiplier per unit of utilization above it
type JumpRateModel struct {
	baseRate       *uint256.Int
	multiplier     *uint256.Int
	jumpMultiplier *uint256.Int
	kink           *uint256.Int
}

// NewJumpRateModel build the model from annual rates and a kink utilization like 0.8
func NewJumpRateModel(baseRate, multiplier, jumpMultiplier, kink decimal.Decimal) *JumpRateModel {
	k, ok := number.FromDecimal(kink, 27)
	if !ok {
		k = new(uint256.Int)
	}

	return &JumpRateModel{
		baseRate:       PerSecondRate(baseRate),
		multiplier:     PerSecondRate(multiplier),
		jumpMultiplier: PerSecondRate(jumpMultiplier),
		kink:           k,
	}
}

// InterestRate implements core.IInterestRateModel
func (m *JumpRateModel) InterestRate(_ context.Context, utilization *uint256.Int) (*uint256.Int, error) {
	if m.kink.IsZero() || !utilization.Gt(m.kink) {
		return m.clamp(m.linear(utilization)), nil
	}

	normal := m.linear(m.kink)
	excess, _ := number.MulDiv(new(uint256.Int).Sub(utilization, m.kink), m.jumpMultiplier, number.Ray)
	return m.clamp(normal.Add(normal, excess)), nil
}

func (m *JumpRateModel) linear(u *uint256.Int) *uint256.Int {
	r, _ := number.MulDiv(u, m.multiplier, number.Ray)
	return r.Add(r, m.baseRate)
}

func (m *JumpRateModel) clamp(r *uint256.Int) *uint256.Int {
	if r.Gt(MaxAllowedInterestRate) {
		return MaxAllowedInterestRate.Clone()
	}

	return r
}

// FixedRateModel constant per second rate
type FixedRateModel struct {
	rate *uint256.Int
}

// NewFixedRateModel fixed per second ray rate
func NewFixedRateModel(rate *uint256.Int) *FixedRateModel {
	return &FixedRateModel{rate: rate.Clone()}
}

// InterestRate implements core.IInterestRateModel
func (m *FixedRateModel) InterestRate(context.Context, *uint256.Int) (*uint256.Int, error) {
	return m.rate.Clone(), nil
}
