package vault

import (
	"testing"

	"evault/core"
	"evault/internal/compound"
	"evault/pkg/number"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepositRedeem(t *testing.T) {
	e := newEnv(t)
	e.fund(e.tst, alice, ether("10"))

	shares, err := e.eTST.Deposit(e.ctx, alice, ether("4"), alice)
	require.NoError(t, err)
	assert.Equal(t, ether("4").Dec(), shares.Dec())
	assert.Equal(t, ether("6").Dec(), e.tokenBalance(e.tst, alice).Dec())
	assert.Equal(t, ether("4").Dec(), e.eTST.Cash().Dec())

	assets, err := e.eTST.Mint(e.ctx, alice, ether("1"), bob)
	require.NoError(t, err)
	assert.Equal(t, ether("1").Dec(), assets.Dec())
	assert.Equal(t, ether("1").Dec(), e.eTST.BalanceOf(bob).Dec())

	burned, err := e.eTST.Withdraw(e.ctx, alice, ether("1"), alice, alice)
	require.NoError(t, err)
	assert.Equal(t, ether("1").Dec(), burned.Dec())

	assets, err = e.eTST.Redeem(e.ctx, alice, number.MaxUint, alice, alice)
	require.NoError(t, err)
	assert.Equal(t, ether("3").Dec(), assets.Dec())
	assert.True(t, e.eTST.BalanceOf(alice).IsZero())
	assert.Equal(t, ether("9").Dec(), e.tokenBalance(e.tst, alice).Dec())

	e.assertShareInvariant(e.eTST)
	assert.Len(t, e.events.named(core.EventDeposit), 2)
	assert.Len(t, e.events.named(core.EventWithdraw), 2)
}

func TestZeroAmountsAreNoops(t *testing.T) {
	e := newEnv(t)
	zero := number.Zero()

	shares, err := e.eTST.Deposit(e.ctx, alice, zero, alice)
	require.NoError(t, err)
	assert.True(t, shares.IsZero())

	_, err = e.eTST.Mint(e.ctx, alice, zero, alice)
	require.NoError(t, err)
	_, err = e.eTST.Withdraw(e.ctx, alice, zero, alice, alice)
	require.NoError(t, err)
	_, err = e.eTST.Redeem(e.ctx, alice, zero, alice, alice)
	require.NoError(t, err)

	assert.True(t, e.eTST.TotalSupply().IsZero())
	assert.Empty(t, e.events.named(core.EventDeposit))
}

func TestDepositMaxUsesWholeBalance(t *testing.T) {
	e := newEnv(t)
	e.fund(e.tst, alice, ether("7"))

	shares, err := e.eTST.Deposit(e.ctx, alice, number.MaxUint, alice)
	require.NoError(t, err)
	assert.Equal(t, ether("7").Dec(), shares.Dec())
	assert.True(t, e.tokenBalance(e.tst, alice).IsZero())
}

func TestAmountLimits(t *testing.T) {
	t.Run("above max sane", func(t *testing.T) {
		e := newEnv(t)
		tooLarge := new(uint256.Int).AddUint64(number.MaxSaneAmount, 1)
		e.fund(e.tst, alice, tooLarge)

		_, err := e.eTST.Deposit(e.ctx, alice, tooLarge, alice)
		assert.ErrorIs(t, err, core.ErrAmountTooLarge)
		_, err = e.eTST.Mint(e.ctx, alice, tooLarge, alice)
		assert.ErrorIs(t, err, core.ErrAmountTooLarge)
		_, err = e.eTST.Withdraw(e.ctx, alice, tooLarge, alice, alice)
		assert.ErrorIs(t, err, core.ErrAmountTooLarge)
		_, err = e.eTST.Redeem(e.ctx, alice, tooLarge, alice, alice)
		assert.ErrorIs(t, err, core.ErrAmountTooLarge)
		assert.ErrorIs(t, e.eTST.Transfer(e.ctx, alice, bob, tooLarge), core.ErrAmountTooLarge)
	})

	t.Run("max sane then one more", func(t *testing.T) {
		e := newEnv(t)
		e.fund(e.tst, alice, new(uint256.Int).AddUint64(number.MaxSaneAmount, 1))

		_, err := e.eTST.Deposit(e.ctx, alice, number.MaxSaneAmount, alice)
		require.NoError(t, err)

		_, err = e.eTST.Deposit(e.ctx, alice, uint256.NewInt(1), alice)
		assert.ErrorIs(t, err, core.ErrAmountTooLargeToEncode)
		assert.Equal(t, number.MaxSaneAmount.Dec(), e.eTST.Cash().Dec())
	})

	t.Run("max uint with a huge balance", func(t *testing.T) {
		e := newEnv(t)
		e.fund(e.tst, alice, new(uint256.Int).Div(number.MaxUint, uint256.NewInt(3)))

		_, err := e.eTST.Deposit(e.ctx, alice, number.MaxUint, alice)
		assert.ErrorIs(t, err, core.ErrAmountTooLarge)
	})
}

func TestZeroShares(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.eTST.SetInterestRateModel(e.ctx, governor, compound.NewFixedRateModel(compound.PerSecondRate(decimal.NewFromInt(1)))))
	e.borrowSetup()

	e.clock.Advance(compound.SecondsPerYear)
	e.fund(e.tst, alice, uint256.NewInt(1))

	_, err := e.eTST.Deposit(e.ctx, alice, uint256.NewInt(1), alice)
	assert.ErrorIs(t, err, core.ErrZeroShares)

	_, err = e.eTST.Redeem(e.ctx, alice, uint256.NewInt(1), alice, alice)
	require.NoError(t, err)
}

func TestWithdrawRoundsSharesUp(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.eTST.SetInterestRateModel(e.ctx, governor, compound.NewFixedRateModel(compound.PerSecondRate(decimal.NewFromFloat(0.1)))))
	e.borrowSetup()
	e.clock.Advance(compound.SecondsPerYear / 12)

	preview := e.eTST.PreviewWithdraw(e.ctx, ether("1"))
	shares, err := e.eTST.Withdraw(e.ctx, alice, ether("1"), alice, alice)
	require.NoError(t, err)
	assert.Equal(t, preview.Dec(), shares.Dec())
	assert.True(t, shares.Lt(ether("1")))

	// the burned shares are worth at least what left the vault
	assert.False(t, e.eTST.ConvertToAssets(e.ctx, shares).Lt(ether("1")))
	e.assertShareInvariant(e.eTST)
}

func TestTransfers(t *testing.T) {
	e := newEnv(t)
	e.deposit(e.eTST, e.tst, alice, ether("10"))

	assert.ErrorIs(t, e.eTST.Transfer(e.ctx, alice, alice, number.Zero()), core.ErrSelfTransfer)
	assert.ErrorIs(t, e.eTST.Transfer(e.ctx, alice, alice, number.MaxUint), core.ErrSelfTransfer)
	assert.ErrorIs(t, e.eTST.Approve(e.ctx, alice, alice, ether("1")), core.ErrSelfApproval)

	require.NoError(t, e.eTST.Transfer(e.ctx, alice, bob, number.Zero()))
	assert.Len(t, e.events.named(core.EventTransfer), 2)

	assert.ErrorIs(t, e.eTST.TransferFrom(e.ctx, bob, alice, carol, ether("1")), core.ErrInsufficientAllowance)

	require.NoError(t, e.eTST.Approve(e.ctx, alice, bob, ether("3")))
	require.NoError(t, e.eTST.TransferFrom(e.ctx, bob, alice, carol, ether("2")))
	assert.Equal(t, ether("1").Dec(), e.eTST.Allowance(alice, bob).Dec())
	assert.Equal(t, ether("2").Dec(), e.eTST.BalanceOf(carol).Dec())

	require.NoError(t, e.eTST.Approve(e.ctx, alice, bob, number.MaxUint))
	require.NoError(t, e.eTST.TransferFrom(e.ctx, bob, alice, carol, ether("2")))
	assert.True(t, number.IsMax(e.eTST.Allowance(alice, bob)))

	assert.ErrorIs(t, e.eTST.Transfer(e.ctx, carol, bob, ether("5")), core.ErrInsufficientBalance)
	require.NoError(t, e.eTST.Transfer(e.ctx, carol, bob, number.MaxUint))
	assert.Equal(t, ether("4").Dec(), e.eTST.BalanceOf(bob).Dec())

	e.assertShareInvariant(e.eTST)
}

func TestRedeemWithAllowance(t *testing.T) {
	e := newEnv(t)
	e.deposit(e.eTST, e.tst, alice, ether("10"))

	_, err := e.eTST.Redeem(e.ctx, bob, ether("1"), bob, alice)
	assert.ErrorIs(t, err, core.ErrInsufficientAllowance)

	require.NoError(t, e.eTST.Approve(e.ctx, alice, bob, ether("1")))
	assets, err := e.eTST.Redeem(e.ctx, bob, ether("1"), bob, alice)
	require.NoError(t, err)
	assert.Equal(t, ether("1").Dec(), assets.Dec())
	assert.Equal(t, ether("1").Dec(), e.tokenBalance(e.tst, bob).Dec())
	assert.True(t, e.eTST.Allowance(alice, bob).IsZero())
}

func TestInsufficientCash(t *testing.T) {
	e := newEnv(t)
	e.borrowSetup()

	_, err := e.eTST.Withdraw(e.ctx, alice, ether("6"), alice, alice)
	assert.ErrorIs(t, err, core.ErrInsufficientCash)

	assert.Equal(t, ether("5").Dec(), e.eTST.MaxWithdraw(e.ctx, alice).Dec())
	withdrawn, err := e.eTST.Withdraw(e.ctx, alice, number.MaxUint, alice, alice)
	require.NoError(t, err)
	assert.Equal(t, ether("5").Dec(), withdrawn.Dec())
	assert.True(t, e.eTST.Cash().IsZero())
}

func TestConvertFees(t *testing.T) {
	e := newEnv(t)
	protocol := bob
	require.NoError(t, e.eTST.SetInterestRateModel(e.ctx, governor, compound.NewFixedRateModel(compound.PerSecondRate(decimal.NewFromFloat(0.1)))))
	require.NoError(t, e.eTST.SetInterestFee(e.ctx, governor, 1_000))
	require.NoError(t, e.eTST.SetFeeReceiver(e.ctx, governor, feeReceiver))
	require.NoError(t, e.eTST.SetProtocolFeeReceiver(e.ctx, governor, protocol))
	require.NoError(t, e.eTST.SetProtocolFeeShare(e.ctx, governor, 5_000))
	e.borrowSetup()

	e.clock.Advance(compound.SecondsPerYear)
	fees := e.eTST.AccumulatedFees(e.ctx)
	require.False(t, fees.IsZero())

	require.NoError(t, e.eTST.ConvertFees(e.ctx, carol))
	assert.True(t, e.eTST.AccumulatedFees(e.ctx).IsZero())

	received := new(uint256.Int).Add(e.eTST.BalanceOf(feeReceiver), e.eTST.BalanceOf(protocol))
	assert.Equal(t, fees.Dec(), received.Dec())
	assert.Equal(t, new(uint256.Int).Div(fees, uint256.NewInt(2)).Dec(), e.eTST.BalanceOf(protocol).Dec())
	e.assertShareInvariant(e.eTST)

	assert.ErrorIs(t, e.eTST.SetInterestFee(e.ctx, governor, 10_001), core.ErrBadFee)
}

func TestRedeemAfterInterestNeverReturnsMore(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.eTST.SetInterestRateModel(e.ctx, governor, compound.NewFixedRateModel(compound.PerSecondRate(decimal.NewFromFloat(0.1)))))
	require.NoError(t, e.eTST.SetInterestFee(e.ctx, governor, 1_000))
	e.borrowSetup()

	e.clock.Advance(30 * 24 * 3600)
	require.True(t, e.eTST.ConvertToAssets(e.ctx, ether("1")).Gt(ether("1")))

	for _, x := range []string{"0.000000000000001", "0.3", "1", "7.5", "123.456789012345678"} {
		e.clock.Advance(3600)
		amount := ether(x)
		e.fund(e.tst, carol, amount)

		_, err := e.eTST.Deposit(e.ctx, carol, amount, carol)
		require.NoError(t, err, x)

		assets, err := e.eTST.Redeem(e.ctx, carol, number.MaxUint, carol, carol)
		require.NoError(t, err, x)
		assert.False(t, assets.Gt(amount), "%s redeemed %s", x, assets.Dec())
		assert.True(t, e.eTST.BalanceOf(carol).IsZero())
	}

	e.assertShareInvariant(e.eTST)
}
