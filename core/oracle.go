package core

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// IPriceOracle price oracle interface
type IPriceOracle interface {
	// Quote value of amount units of base expressed in units of quote
	Quote(ctx context.Context, amount *uint256.Int, base, quote common.Address) (*uint256.Int, error)
}

// IInterestRateModel interest rate model interface
type IInterestRateModel interface {
	// InterestRate per second rate in 1e27 for the utilization in 1e27
	InterestRate(ctx context.Context, utilization *uint256.Int) (*uint256.Int, error)
}

// IToken underlying asset interface
type IToken interface {
	Address() common.Address
	BalanceOf(ctx context.Context, account common.Address) (*uint256.Int, error)
	Transfer(ctx context.Context, from, to common.Address, amount *uint256.Int) error
	TransferFrom(ctx context.Context, spender, from, to common.Address, amount *uint256.Int) error
}

// IClock time source in unix seconds
type IClock interface {
	Now() int64
}

// PriceTicker price api response
type PriceTicker struct {
	Asset     string          `json:"asset"`
	Price     decimal.Decimal `json:"price"`
	Timestamp int64           `json:"timestamp"`
}
