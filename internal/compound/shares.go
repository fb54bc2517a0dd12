package compound

import (
	"evault/pkg/number"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

func virtualAssets(t *Totals) *uint256.Int {
	return new(uint256.Int).Add(t.TotalAssets(), VirtualDeposit)
}

func virtualSupply(t *Totals) *uint256.Int {
	return new(uint256.Int).Add(t.Supply(), VirtualDeposit)
}

// ToSharesDown shares minted for assets, rounded down
func ToSharesDown(assets *uint256.Int, t *Totals) *uint256.Int {
	shares, _ := number.MulDiv(assets, virtualSupply(t), virtualAssets(t))
	return shares
}

// ToSharesUp shares burned for assets, rounded up
func ToSharesUp(assets *uint256.Int, t *Totals) *uint256.Int {
	shares, _ := number.MulDivUp(assets, virtualSupply(t), virtualAssets(t))
	return shares
}

// ToAssetsDown assets paid for shares, rounded down
func ToAssetsDown(shares *uint256.Int, t *Totals) *uint256.Int {
	assets, _ := number.MulDiv(shares, virtualAssets(t), virtualSupply(t))
	return assets
}

// ToAssetsUp assets charged for shares, rounded up
func ToAssetsUp(shares *uint256.Int, t *Totals) *uint256.Int {
	assets, _ := number.MulDivUp(shares, virtualAssets(t), virtualSupply(t))
	return assets
}

// GetExchangeRate assets per share
func GetExchangeRate(t *Totals) decimal.Decimal {
	assets := decimal.NewFromBigInt(virtualAssets(t).ToBig(), 0)
	supply := decimal.NewFromBigInt(virtualSupply(t).ToBig(), 0)
	return assets.DivRound(supply, 18)
}
