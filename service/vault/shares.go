package vault

import (
	"context"

	"evault/core"
	"evault/internal/compound"
	"evault/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func (v *Vault) mintShares(ctx context.Context, to common.Address, shares *uint256.Int) error {
	total, ok := number.Add(v.state.TotalShares, shares)
	if !ok || total.Gt(number.MaxSaneAmount) {
		return core.ErrAmountTooLargeToEncode
	}

	p := v.position(to)
	p.Shares = new(uint256.Int).Add(p.Shares, shares)
	v.state.TotalShares = total

	v.emit(ctx, &core.Event{Name: core.EventTransfer, Account: to.Hex(), Counterparty: common.Address{}.Hex(), Shares: dec(shares)})
	return nil
}

func (v *Vault) burnShares(ctx context.Context, from common.Address, shares *uint256.Int) error {
	p := v.position(from)
	if p.Shares.Lt(shares) {
		return core.ErrInsufficientBalance
	}

	p.Shares = new(uint256.Int).Sub(p.Shares, shares)
	v.state.TotalShares = new(uint256.Int).Sub(v.state.TotalShares, shares)

	v.emit(ctx, &core.Event{Name: core.EventTransfer, Account: common.Address{}.Hex(), Counterparty: from.Hex(), Shares: dec(shares)})
	return nil
}

// spendAllowance charge shares against the allowance owner gave spender
func (v *Vault) spendAllowance(ctx context.Context, owner, spender common.Address, shares *uint256.Int) error {
	if owner == spender {
		return nil
	}

	p := v.position(owner)
	allowance, ok := p.Allowances[spender]
	if !ok || allowance.Lt(shares) {
		return core.ErrInsufficientAllowance
	}

	if number.IsMax(allowance) {
		return nil
	}

	p.Allowances[spender] = new(uint256.Int).Sub(allowance, shares)
	v.emit(ctx, &core.Event{Name: core.EventApproval, Account: owner.Hex(), Counterparty: spender.Hex(), Shares: dec(p.Allowances[spender])})
	return nil
}

// Deposit pull assets from caller and mint shares to receiver, rounded down.
// MaxUint deposits the caller's whole token balance.
func (v *Vault) Deposit(ctx context.Context, caller common.Address, amount *uint256.Int, receiver common.Address) (*uint256.Int, error) {
	shares := number.Zero()
	err := v.run(ctx, core.OpDeposit, caller, func(ctx context.Context) error {
		assets := amount
		if number.IsMax(amount) {
			balance, err := v.tokenBalanceOf(ctx, caller)
			if err != nil {
				return err
			}

			assets = balance
		}

		if assets.Gt(number.MaxSaneAmount) {
			return core.ErrAmountTooLarge
		}

		if assets.IsZero() {
			return nil
		}

		shares = compound.ToSharesDown(assets, v.totals())
		if shares.IsZero() {
			return core.ErrZeroShares
		}

		if err := v.pullAssets(ctx, caller, assets); err != nil {
			return err
		}

		if err := v.mintShares(ctx, receiver, shares); err != nil {
			return err
		}

		v.emit(ctx, &core.Event{Name: core.EventDeposit, Account: receiver.Hex(), Counterparty: caller.Hex(), Assets: dec(assets), Shares: dec(shares)})
		return nil
	})

	if err != nil {
		return nil, err
	}

	return shares, nil
}

// Mint mint exactly shares to receiver, pulling assets rounded up from caller
func (v *Vault) Mint(ctx context.Context, caller common.Address, amount *uint256.Int, receiver common.Address) (*uint256.Int, error) {
	assets := number.Zero()
	err := v.run(ctx, core.OpMint, caller, func(ctx context.Context) error {
		if amount.Gt(number.MaxSaneAmount) {
			return core.ErrAmountTooLarge
		}

		if amount.IsZero() {
			return nil
		}

		assets = compound.ToAssetsUp(amount, v.totals())
		if assets.Gt(number.MaxSaneAmount) {
			return core.ErrAmountTooLarge
		}

		if err := v.pullAssets(ctx, caller, assets); err != nil {
			return err
		}

		if err := v.mintShares(ctx, receiver, amount); err != nil {
			return err
		}

		v.emit(ctx, &core.Event{Name: core.EventDeposit, Account: receiver.Hex(), Counterparty: caller.Hex(), Assets: dec(assets), Shares: dec(amount)})
		return nil
	})

	if err != nil {
		return nil, err
	}

	return assets, nil
}

// Withdraw send assets to receiver, burning owner's shares rounded up.
// MaxUint withdraws everything owner can, bounded by cash.
func (v *Vault) Withdraw(ctx context.Context, caller common.Address, amount *uint256.Int, receiver, owner common.Address) (*uint256.Int, error) {
	shares := number.Zero()
	err := v.run(ctx, core.OpWithdraw, caller, func(ctx context.Context) error {
		t := v.totals()
		assets := amount
		if number.IsMax(amount) {
			assets = number.Min(compound.ToAssetsDown(v.position(owner).Shares, t), v.state.Cash)
		}

		if assets.Gt(number.MaxSaneAmount) {
			return core.ErrAmountTooLarge
		}

		if assets.IsZero() {
			return nil
		}

		shares = compound.ToSharesUp(assets, t)
		return v.withdraw(ctx, caller, assets, shares, receiver, owner)
	})

	if err != nil {
		return nil, err
	}

	return shares, nil
}

// Redeem burn owner's shares and send the assets, rounded down, to receiver
func (v *Vault) Redeem(ctx context.Context, caller common.Address, amount *uint256.Int, receiver, owner common.Address) (*uint256.Int, error) {
	assets := number.Zero()
	err := v.run(ctx, core.OpRedeem, caller, func(ctx context.Context) error {
		shares := amount
		if number.IsMax(amount) {
			shares = v.position(owner).Shares.Clone()
		}

		if shares.Gt(number.MaxSaneAmount) {
			return core.ErrAmountTooLarge
		}

		if shares.IsZero() {
			return nil
		}

		assets = compound.ToAssetsDown(shares, v.totals())
		if assets.IsZero() {
			return core.ErrZeroAssets
		}

		return v.withdraw(ctx, caller, assets, shares, receiver, owner)
	})

	if err != nil {
		return nil, err
	}

	return assets, nil
}

func (v *Vault) withdraw(ctx context.Context, caller common.Address, assets, shares *uint256.Int, receiver, owner common.Address) error {
	if err := v.spendAllowance(ctx, owner, caller, shares); err != nil {
		return err
	}

	if err := v.burnShares(ctx, owner, shares); err != nil {
		return err
	}

	if err := v.pushAssets(ctx, receiver, assets); err != nil {
		return err
	}

	v.emit(ctx, &core.Event{Name: core.EventWithdraw, Account: owner.Hex(), Counterparty: receiver.Hex(), Assets: dec(assets), Shares: dec(shares)})
	v.connector.RequireAccountStatusCheck(ctx, owner)
	return nil
}

// Transfer move caller's shares to to
func (v *Vault) Transfer(ctx context.Context, caller, to common.Address, amount *uint256.Int) error {
	return v.TransferFrom(ctx, caller, caller, to, amount)
}

// TransferFrom move from's shares to to, spending caller's allowance when caller is not from.
// MaxUint moves the whole balance.
func (v *Vault) TransferFrom(ctx context.Context, caller, from, to common.Address, amount *uint256.Int) error {
	return v.run(ctx, core.OpTransfer, caller, func(ctx context.Context) error {
		if from == to {
			return core.ErrSelfTransfer
		}

		shares := amount
		if number.IsMax(amount) {
			shares = v.position(from).Shares.Clone()
		}

		if shares.Gt(number.MaxSaneAmount) {
			return core.ErrAmountTooLarge
		}

		if err := v.spendAllowance(ctx, from, caller, shares); err != nil {
			return err
		}

		return v.transfer(ctx, from, to, shares)
	})
}

func (v *Vault) transfer(ctx context.Context, from, to common.Address, shares *uint256.Int) error {
	if from == to {
		return core.ErrSelfTransfer
	}

	src := v.position(from)
	if src.Shares.Lt(shares) {
		return core.ErrInsufficientBalance
	}

	dst := v.position(to)
	src.Shares = new(uint256.Int).Sub(src.Shares, shares)
	dst.Shares = new(uint256.Int).Add(dst.Shares, shares)

	v.emit(ctx, &core.Event{Name: core.EventTransfer, Account: to.Hex(), Counterparty: from.Hex(), Shares: dec(shares)})
	v.connector.RequireAccountStatusCheck(ctx, from)
	return nil
}

// Approve let spender move up to amount of caller's shares, MaxUint never decreases
func (v *Vault) Approve(ctx context.Context, caller, spender common.Address, amount *uint256.Int) error {
	return v.connector.Run(ctx, func(ctx context.Context) error {
		if v.locked {
			return core.ErrReentrancy
		}

		if caller == spender {
			return core.ErrSelfApproval
		}

		v.position(caller).Allowances[spender] = amount.Clone()
		v.emit(ctx, &core.Event{Name: core.EventApproval, Account: caller.Hex(), Counterparty: spender.Hex(), Shares: dec(amount)})
		return nil
	})
}

// ControlledTransfer move shares of from, used by from's controller to seize collateral
func (v *Vault) ControlledTransfer(ctx context.Context, controller, from, to common.Address, shares *uint256.Int) error {
	if !v.connector.IsControllerEnabled(from, controller) {
		return core.ErrControllerDisabled
	}

	if !v.connector.IsCollateralEnabled(from, v.address) {
		return core.ErrCollateralDisabled
	}

	return v.run(ctx, core.OpTransfer, from, func(ctx context.Context) error {
		return v.transfer(ctx, from, to, shares)
	})
}

// ConvertFees turn accumulated fees into shares of the fee receivers
func (v *Vault) ConvertFees(ctx context.Context, caller common.Address) error {
	return v.run(ctx, core.OpConvertFees, caller, func(ctx context.Context) error {
		fees := v.state.AccumulatedFees
		if fees.IsZero() {
			return nil
		}

		governorReceiver, protocolReceiver := v.config.FeeReceiver, v.config.ProtocolFeeReceiver
		if governorReceiver == (common.Address{}) && protocolReceiver == (common.Address{}) {
			return nil
		}

		protocolShares, _ := number.MulDiv(fees, uint256.NewInt(uint64(v.config.ProtocolFeeShare)), uint256.NewInt(number.ConfigScale))
		switch {
		case governorReceiver == (common.Address{}):
			protocolShares = fees.Clone()
		case protocolReceiver == (common.Address{}):
			protocolShares = number.Zero()
		}

		governorShares := new(uint256.Int).Sub(fees, protocolShares)
		v.state.AccumulatedFees = number.Zero()

		for _, r := range []struct {
			to     common.Address
			shares *uint256.Int
		}{{protocolReceiver, protocolShares}, {governorReceiver, governorShares}} {
			if r.shares.IsZero() {
				continue
			}

			if err := v.mintShares(ctx, r.to, r.shares); err != nil {
				return err
			}
		}

		v.emit(ctx, &core.Event{Name: core.EventConvertFees, Account: governorReceiver.Hex(), Counterparty: protocolReceiver.Hex(), Shares: dec(fees)})
		return nil
	})
}
