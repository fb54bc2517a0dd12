package operation

import (
	"testing"

	"evault/core"
	"evault/pkg/clock"
	"evault/pkg/number"
	"evault/service/connector"
	"evault/service/oracle"
	"evault/service/token"
	"evault/service/vault"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	caller    = "0x0000000000000000000000000000000000001001"
	vaultAddr = "0x00000000000000000000000000000000000000e1"
)

func newService() *Service {
	clk := clock.NewMock(1_700_000_000)
	conn := connector.New(clk, nil)
	tk := token.New(common.HexToAddress("0x00000000000000000000000000000000000000c1"), "TST")
	v := vault.New(vault.Config{Address: common.HexToAddress(vaultAddr)}, tk, conn, oracle.NewStatic(), nil, clk)
	conn.RegisterVault(v)
	return New(conn, v)
}

func TestItems(t *testing.T) {
	s := newService()

	sub := core.SubAccount(common.HexToAddress(caller), 3)
	addr, items, err := s.Items(&core.Batch{
		Caller: caller,
		Calls: []*core.CallRequest{
			{Action: core.ActionDeposit, Vault: vaultAddr, Amount: "max"},
			{Action: core.ActionWithdraw, Vault: vaultAddr, OnBehalfOf: sub.Hex(), Amount: "10"},
			{Action: core.ActionTouch, Vault: vaultAddr},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(caller), addr)
	require.Len(t, items, 3)
	assert.Equal(t, common.HexToAddress(caller), items[0].OnBehalfOf)
	assert.Equal(t, sub, items[1].OnBehalfOf)
	assert.Equal(t, core.ActionTouch, items[2].Name)
}

func TestItemsErrors(t *testing.T) {
	s := newService()

	for _, c := range []struct {
		name  string
		batch *core.Batch
		code  core.ErrorCode
	}{
		{"bad caller", &core.Batch{Caller: "alice"}, core.ErrBadAddress},
		{"unknown vault", &core.Batch{Caller: caller, Calls: []*core.CallRequest{{Action: core.ActionTouch, Vault: caller}}}, core.ErrBadAddress},
		{"bad receiver", &core.Batch{Caller: caller, Calls: []*core.CallRequest{{Action: core.ActionDeposit, Vault: vaultAddr, Receiver: "0x12"}}}, core.ErrBadAddress},
		{"bad amount", &core.Batch{Caller: caller, Calls: []*core.CallRequest{{Action: core.ActionDeposit, Vault: vaultAddr, Amount: "1.5"}}}, core.ErrUnknown},
		{"unknown action", &core.Batch{Caller: caller, Calls: []*core.CallRequest{{Action: "teleport", Vault: vaultAddr}}}, core.ErrUnknown},
	} {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := s.Items(c.batch)
			require.Error(t, err)
			assert.Equal(t, c.code, core.CodeOf(err))
		})
	}
}

func TestAmounts(t *testing.T) {
	x, err := parseAmount("")
	require.NoError(t, err)
	assert.True(t, x.IsZero())

	x, err = parseAmount("max")
	require.NoError(t, err)
	assert.True(t, number.IsMax(x))

	x, err = parseAmount("123")
	require.NoError(t, err)
	assert.Equal(t, uint64(123), x.Uint64())
}
