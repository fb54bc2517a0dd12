package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"evault/core"
	"evault/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	unit  = common.HexToAddress("0x00000000000000000000000000000000000003e8")
	tst   = common.HexToAddress("0x0000000000000000000000000000000000000001")
	tst2  = common.HexToAddress("0x0000000000000000000000000000000000000002")
	ether = number.MustParse("1000000000000000000")
)

func TestStaticQuote(t *testing.T) {
	ctx := context.Background()
	o := NewStatic()
	o.SetPrice(tst, decimal.NewFromFloat(2.5))
	o.SetPrice(tst2, decimal.NewFromFloat(0.5))

	v, err := o.Quote(ctx, ether, tst, unit)
	require.NoError(t, err)
	assert.Equal(t, "2500000000000000000", v.Dec())

	v, err = o.Quote(ctx, ether, tst, tst2)
	require.NoError(t, err)
	assert.Equal(t, "5000000000000000000", v.Dec())

	v, err = o.Quote(ctx, ether, unit, unit)
	require.NoError(t, err)
	assert.Equal(t, ether.Dec(), v.Dec())

	o.SetPrice(tst, decimal.Zero)
	v, err = o.Quote(ctx, ether, tst, unit)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	o.RemovePrice(tst)
	_, err = o.Quote(ctx, ether, tst, unit)
	assert.True(t, errors.Is(err, core.ErrNoPrice))
}

func TestPriceServiceCachesTickers(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if !strings.HasSuffix(r.URL.Path, tst.Hex()) {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		_ = json.NewEncoder(w).Encode(core.PriceTicker{
			Asset: tst.Hex(),
			Price: decimal.NewFromFloat(2.2),
		})
	}))
	defer srv.Close()

	ctx := context.Background()
	s := New(srv.URL, unit, time.Minute)

	for i := 0; i < 3; i++ {
		v, err := s.Quote(ctx, ether, tst, unit)
		require.NoError(t, err)
		assert.Equal(t, "2200000000000000000", v.Dec())
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	_, err := s.Quote(ctx, ether, tst2, unit)
	assert.True(t, errors.Is(err, core.ErrNoPrice))

	s.Override(tst2, decimal.Zero)
	v, err := s.Quote(ctx, ether, tst2, unit)
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}
