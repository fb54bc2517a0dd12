package token

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenTransferAndRollback(t *testing.T) {
	ctx := context.Background()
	alice := common.HexToAddress("0xa1")
	bob := common.HexToAddress("0xb0")

	tk := New(common.HexToAddress("0x01"), "TST")
	tk.Mint(alice, uint256.NewInt(100))
	cp := tk.Checkpoint()

	require.NoError(t, tk.Transfer(ctx, alice, bob, uint256.NewInt(40)))
	assert.ErrorIs(t, tk.Transfer(ctx, alice, bob, uint256.NewInt(61)), ErrInsufficientBalance)

	assert.ErrorIs(t, tk.TransferFrom(ctx, bob, alice, bob, uint256.NewInt(1)), ErrInsufficientAllowance)
	tk.Approve(alice, bob, uint256.NewInt(10))
	require.NoError(t, tk.TransferFrom(ctx, bob, alice, bob, uint256.NewInt(10)))
	assert.True(t, tk.Allowance(alice, bob).IsZero())

	b, _ := tk.BalanceOf(ctx, bob)
	assert.Equal(t, uint64(50), b.Uint64())

	tk.Rollback(cp)
	b, _ = tk.BalanceOf(ctx, bob)
	assert.True(t, b.IsZero())
	b, _ = tk.BalanceOf(ctx, alice)
	assert.Equal(t, uint64(100), b.Uint64())
	assert.Equal(t, uint64(100), tk.TotalSupply().Uint64())
}
