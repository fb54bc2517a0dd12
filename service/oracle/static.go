package oracle

import (
	"context"
	"sync"

	"evault/core"
	"evault/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Static in memory oracle, prices are wad scaled units of account per raw asset unit
type Static struct {
	mu     sync.RWMutex
	prices map[common.Address]*uint256.Int
}

// NewStatic new static oracle
func NewStatic() *Static {
	return &Static{prices: map[common.Address]*uint256.Int{}}
}

// SetPrice set the price of asset, zero marks it worthless
func (o *Static) SetPrice(asset common.Address, price decimal.Decimal) {
	p, ok := number.FromDecimal(price, 18)
	if !ok {
		p = number.Zero()
	}

	o.mu.Lock()
	o.prices[asset] = p
	o.mu.Unlock()
}

// RemovePrice forget the price of asset
func (o *Static) RemovePrice(asset common.Address) {
	o.mu.Lock()
	delete(o.prices, asset)
	o.mu.Unlock()
}

func (o *Static) price(asset common.Address) (*uint256.Int, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	p, ok := o.prices[asset]
	return p, ok
}

// Quote implements core.IPriceOracle
func (o *Static) Quote(_ context.Context, amount *uint256.Int, base, quote common.Address) (*uint256.Int, error) {
	return convert(amount, base, quote, o.price)
}

func convert(amount *uint256.Int, base, quote common.Address, price func(common.Address) (*uint256.Int, bool)) (*uint256.Int, error) {
	if base == quote {
		return amount.Clone(), nil
	}

	basePrice, ok := price(base)
	if !ok {
		return nil, core.ErrNoPrice
	}

	// quote is the unit of account unless it carries its own price
	quotePrice := number.Wad
	if p, ok := price(quote); ok {
		if p.IsZero() {
			return nil, core.ErrNoPrice
		}

		quotePrice = p
	}

	value, ok := number.MulDiv(amount, basePrice, quotePrice)
	if !ok {
		return nil, core.ErrAmountTooLargeToEncode
	}

	return value, nil
}
