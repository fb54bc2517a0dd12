package oracle

import (
	"context"
	"fmt"
	"time"

	"evault/core"
	"evault/pkg/number"
	"evault/pkg/resthttp"

	"github.com/bluele/gcache"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// PriceService oracle backed by a remote price api, prices are cached for ttl
type PriceService struct {
	endpoint  string
	unit      common.Address
	overrides *Static
	cache     gcache.Cache
}

// New new remote oracle quoting in unit
func New(endpoint string, unit common.Address, ttl time.Duration) *PriceService {
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &PriceService{
		endpoint:  endpoint,
		unit:      unit,
		overrides: NewStatic(),
		cache:     gcache.New(1024).LRU().Expiration(ttl).Build(),
	}
}

// Override pin the price of asset locally, zero marks it worthless
func (s *PriceService) Override(asset common.Address, price decimal.Decimal) {
	s.overrides.SetPrice(asset, price)
}

// Quote implements core.IPriceOracle
func (s *PriceService) Quote(ctx context.Context, amount *uint256.Int, base, quote common.Address) (*uint256.Int, error) {
	var failed error
	v, err := convert(amount, base, quote, func(asset common.Address) (*uint256.Int, bool) {
		if p, ok := s.overrides.price(asset); ok {
			return p, true
		}

		if asset == s.unit {
			return nil, false
		}

		p, err := s.getPrice(ctx, asset)
		if err != nil {
			if asset == base {
				failed = err
			}

			return nil, false
		}

		return p, true
	})

	if failed != nil {
		return nil, core.WrapExternal(core.ErrNoPrice, failed)
	}

	return v, err
}

func (s *PriceService) getPrice(ctx context.Context, asset common.Address) (*uint256.Int, error) {
	if v, err := s.cache.Get(asset); err == nil {
		return v.(*uint256.Int), nil
	}

	ticker, err := s.PullPriceTicker(ctx, asset)
	if err != nil {
		return nil, err
	}

	price, ok := number.FromDecimal(ticker.Price, 18)
	if !ok {
		return nil, fmt.Errorf("invalid price %s for %s", ticker.Price, asset.Hex())
	}

	_ = s.cache.Set(asset, price)
	return price, nil
}

// PullPriceTicker pull the current price ticker of asset
func (s *PriceService) PullPriceTicker(ctx context.Context, asset common.Address) (*core.PriceTicker, error) {
	url := fmt.Sprintf("%s/api/tickers/%s", s.endpoint, asset.Hex())
	logger.FromContext(ctx).Debugln("pull price:", url)
	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	var ticker core.PriceTicker
	if err := resthttp.ParseResponse(resp, &ticker); err != nil {
		return nil, err
	}

	return &ticker, nil
}
