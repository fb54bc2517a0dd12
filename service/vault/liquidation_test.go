package vault

import (
	"context"
	"testing"

	"evault/core"
	"evault/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLiquidation(t *testing.T) {
	e := newEnv(t)
	e.borrowSetup()
	e.liquidatorSetup()

	t.Run("healthy violator", func(t *testing.T) {
		repay, yield, err := e.eTST.CheckLiquidation(e.ctx, carol, bob, e.eTST2.Address())
		require.NoError(t, err)
		assert.True(t, repay.IsZero())
		assert.True(t, yield.IsZero())
	})

	t.Run("errors", func(t *testing.T) {
		_, _, err := e.eTST.CheckLiquidation(e.ctx, bob, bob, e.eTST2.Address())
		assert.ErrorIs(t, err, core.ErrSelfLiquidation)

		_, _, err = e.eTST.CheckLiquidation(e.ctx, alice, bob, e.eTST2.Address())
		assert.ErrorIs(t, err, core.ErrControllerDisabled)

		_, _, err = e.eTST.CheckLiquidation(e.ctx, carol, bob, e.eTST.Address())
		assert.ErrorIs(t, err, core.ErrBadCollateral)

		_, _, err = e.eTST.CheckLiquidation(e.ctx, carol, bob, e.eTST3.Address())
		assert.ErrorIs(t, err, core.ErrCollateralDisabled)
	})

	t.Run("violation", func(t *testing.T) {
		e.setPrice(e.tst, "2.5")

		collateral, liability, err := e.eTST.AccountLiquidity(e.ctx, bob, true)
		require.NoError(t, err)
		assert.Equal(t, ether("12").Dec(), collateral.Dec())
		assert.Equal(t, ether("12.5").Dec(), liability.Dec())

		repay, yield, err := e.eTST.CheckLiquidation(e.ctx, carol, bob, e.eTST2.Address())
		require.NoError(t, err)
		assert.Equal(t, ether("5").Dec(), repay.Dec())
		assert.Equal(t, "32552083333333333332", yield.Dec())
	})
}

func TestLiquidate(t *testing.T) {
	e := newEnv(t)
	e.borrowSetup()
	e.liquidatorSetup()
	e.setPrice(e.tst, "2.5")

	_, _, err := e.eTST.Liquidate(e.ctx, carol, bob, e.eTST2.Address(), ether("6"), number.Zero())
	assert.ErrorIs(t, err, core.ErrExcessiveRepayAmount)

	_, _, err = e.eTST.Liquidate(e.ctx, carol, bob, e.eTST2.Address(), number.MaxUint, ether("40"))
	assert.ErrorIs(t, err, core.ErrMinYield)

	repay, yield, err := e.eTST.Liquidate(e.ctx, carol, bob, e.eTST2.Address(), ether("1"), number.Zero())
	require.NoError(t, err)
	assert.Equal(t, ether("1").Dec(), repay.Dec())
	assert.Equal(t, "6510416666666666666", yield.Dec())

	assert.Equal(t, ether("4").Dec(), e.eTST.DebtOf(e.ctx, bob).Dec())
	assert.Equal(t, ether("1").Dec(), e.eTST.DebtOf(e.ctx, carol).Dec())
	assert.Equal(t, yield.Dec(), e.eTST2.BalanceOf(carol).Dec())
	assert.Equal(t, "93489583333333333334", e.eTST2.BalanceOf(bob).Dec())

	assert.Len(t, e.events.named(core.EventLiquidate), 1)
	assert.Empty(t, e.events.named(core.EventDebtSocialized))
	e.assertShareInvariant(e.eTST2)
}

func TestLiquidateMax(t *testing.T) {
	e := newEnv(t)
	e.borrowSetup()
	e.liquidatorSetup()
	e.setPrice(e.tst, "2.5")

	repay, yield, err := e.eTST.Liquidate(e.ctx, carol, bob, e.eTST2.Address(), number.MaxUint, number.Zero())
	require.NoError(t, err)
	assert.Equal(t, ether("5").Dec(), repay.Dec())
	assert.Equal(t, "32552083333333333332", yield.Dec())

	assert.True(t, e.eTST.DebtOf(e.ctx, bob).IsZero())
	assert.Equal(t, ether("5").Dec(), e.eTST.DebtOf(e.ctx, carol).Dec())
	assert.Equal(t, e.eTST.TotalBorrowsExact(e.ctx).Dec(), e.eTST.DebtOfExact(e.ctx, carol).Dec())
}

func TestLiquidateSocializesDebt(t *testing.T) {
	e := newEnv(t)
	e.borrowSetup()
	e.liquidatorSetup()
	e.setPrice(e.tst2, "0.1")

	repay, yield, err := e.eTST.Liquidate(e.ctx, carol, bob, e.eTST2.Address(), number.MaxUint, number.Zero())
	require.NoError(t, err)
	assert.Equal(t, "3636363636363636363", repay.Dec())
	assert.Equal(t, ether("100").Dec(), yield.Dec())

	assert.True(t, e.eTST2.BalanceOf(bob).IsZero())
	assert.True(t, e.eTST.DebtOf(e.ctx, bob).IsZero())
	assert.Equal(t, e.eTST.TotalBorrowsExact(e.ctx).Dec(), e.eTST.DebtOfExact(e.ctx, carol).Dec())
	assert.Len(t, e.events.named(core.EventDebtSocialized), 1)

	// the loss lands on the depositors
	assert.True(t, e.eTST.TotalAssets(e.ctx).Lt(ether("10")))
}

func TestLiquidateKeepsDebtWhenSocializationDisabled(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.eTST.SetConfigFlags(e.ctx, governor, core.CfgDontSocializeDebt))
	e.borrowSetup()
	e.liquidatorSetup()
	e.setPrice(e.tst2, "0.1")

	_, _, err := e.eTST.Liquidate(e.ctx, carol, bob, e.eTST2.Address(), number.MaxUint, number.Zero())
	require.NoError(t, err)

	assert.Equal(t, "1363636363636363637", e.eTST.DebtOf(e.ctx, bob).Dec())
	assert.Empty(t, e.events.named(core.EventDebtSocialized))
	assert.Equal(t, ether("10").Dec(), e.eTST.TotalAssets(e.ctx).Dec())
}

func TestLiquidationWithRampedLTV(t *testing.T) {
	e := newEnv(t)
	e.borrowSetup()
	e.liquidatorSetup()

	require.NoError(t, e.eTST.SetLTV(e.ctx, governor, e.eTST2.Address(), 1_000, 100))
	assert.Equal(t, uint16(1_000), e.eTST.LTVBorrow(e.eTST2.Address()))
	assert.Equal(t, uint16(3_000), e.eTST.LTVLiquidation(e.eTST2.Address()))

	// no new borrowing against the lowered ltv, but no liquidation yet either
	_, err := e.eTST.Borrow(e.ctx, bob, uint256.NewInt(1), bob)
	assert.ErrorIs(t, err, core.ErrAccountLiquidity)
	repay, _, err := e.eTST.CheckLiquidation(e.ctx, carol, bob, e.eTST2.Address())
	require.NoError(t, err)
	assert.True(t, repay.IsZero())

	e.clock.Advance(50)
	assert.Equal(t, uint16(2_000), e.eTST.LTVLiquidation(e.eTST2.Address()))
	repay, _, err = e.eTST.CheckLiquidation(e.ctx, carol, bob, e.eTST2.Address())
	require.NoError(t, err)
	assert.Equal(t, ether("5").Dec(), repay.Dec())

	e.clock.Advance(50)
	assert.Equal(t, uint16(1_000), e.eTST.LTVLiquidation(e.eTST2.Address()))
}

func TestLiquidateDeferredViolator(t *testing.T) {
	e := newEnv(t)
	e.borrowSetup()
	e.liquidatorSetup()
	e.setPrice(e.tst, "2.5")

	liquidator := core.SubAccount(bob, 1)
	require.NoError(t, e.conn.EnableController(e.ctx, bob, liquidator, e.eTST.Address()))

	err := e.conn.Batch(e.ctx, bob, []*core.BatchItem{
		{
			Name:       "transfer",
			OnBehalfOf: bob,
			Call: func(ctx context.Context, onBehalfOf common.Address) (*uint256.Int, error) {
				return nil, e.eTST2.Transfer(ctx, onBehalfOf, alice, uint256.NewInt(1))
			},
		},
		{
			Name:       "liquidate",
			OnBehalfOf: liquidator,
			Call: func(ctx context.Context, onBehalfOf common.Address) (*uint256.Int, error) {
				_, _, err := e.eTST.Liquidate(ctx, onBehalfOf, bob, e.eTST2.Address(), number.MaxUint, number.Zero())
				return nil, err
			},
		},
	})
	assert.ErrorIs(t, err, core.ErrViolatorLiquidityDeferred)
}
