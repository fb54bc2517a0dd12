package vault

import (
	"context"

	"evault/core"
	"evault/internal/compound"
	"evault/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// currentOwed account debt in owed units rebased to the stored accumulator
func (v *Vault) currentOwed(account common.Address, accumulator *uint256.Int) *uint256.Int {
	p, ok := v.state.Positions[account]
	if !ok || p.Owed.IsZero() {
		return number.Zero()
	}

	return compound.CurrentOwed(p.Owed, accumulator, p.InterestAccumulator)
}

func (v *Vault) setOwed(account common.Address, owed *uint256.Int) {
	p := v.position(account)
	p.Owed = owed
	p.InterestAccumulator = v.state.InterestAccumulator.Clone()
}

func (v *Vault) increaseBorrow(account common.Address, assets *uint256.Int) error {
	amount := compound.OwedFromAssets(assets)
	owed, ok := number.Add(v.currentOwed(account, v.state.InterestAccumulator), amount)
	if !ok || owed.Gt(number.MaxSaneDebtAmount) {
		return core.ErrDebtAmountTooLargeToEncode
	}

	total, ok := number.Add(v.state.TotalBorrows, amount)
	if !ok || total.Gt(number.MaxSaneDebtAmount) {
		return core.ErrDebtAmountTooLargeToEncode
	}

	v.setOwed(account, owed)
	v.state.TotalBorrows = total
	return nil
}

// decreaseBorrow remove assets of account debt, totals absorb the rounding of the account rebase
func (v *Vault) decreaseBorrow(account common.Address, assets *uint256.Int) {
	owed := v.currentOwed(account, v.state.InterestAccumulator)
	remaining := number.Sub(owed, compound.OwedFromAssets(assets))

	if v.state.TotalBorrows.Gt(owed) {
		v.state.TotalBorrows = new(uint256.Int).Add(new(uint256.Int).Sub(v.state.TotalBorrows, owed), remaining)
	} else {
		v.state.TotalBorrows = remaining.Clone()
	}

	v.setOwed(account, remaining)
}

func (v *Vault) transferBorrow(from, to common.Address, assets *uint256.Int) error {
	amount := compound.OwedFromAssets(assets)
	fromOwed := v.currentOwed(from, v.state.InterestAccumulator)
	toOwed := v.currentOwed(to, v.state.InterestAccumulator)

	if amount.Gt(fromOwed) {
		v.state.TotalBorrows = new(uint256.Int).Add(v.state.TotalBorrows, new(uint256.Int).Sub(amount, fromOwed))
		fromOwed = number.Zero()
	} else {
		fromOwed = new(uint256.Int).Sub(fromOwed, amount)
	}

	toOwed, ok := number.Add(toOwed, amount)
	if !ok || toOwed.Gt(number.MaxSaneDebtAmount) {
		return core.ErrDebtAmountTooLargeToEncode
	}

	v.setOwed(from, fromOwed)
	v.setOwed(to, toOwed)
	return nil
}

func (v *Vault) requireController(account common.Address) error {
	if !v.connector.IsControllerEnabled(account, v.address) {
		return core.ErrControllerDisabled
	}

	return nil
}

// Borrow send assets to receiver as new debt of caller, MaxUint borrows all cash
func (v *Vault) Borrow(ctx context.Context, caller common.Address, amount *uint256.Int, receiver common.Address) (*uint256.Int, error) {
	assets := number.Zero()
	err := v.run(ctx, core.OpBorrow, caller, func(ctx context.Context) error {
		if err := v.requireController(caller); err != nil {
			return err
		}

		assets = amount
		if number.IsMax(amount) {
			assets = v.state.Cash.Clone()
		}

		if assets.Gt(number.MaxSaneAmount) {
			return core.ErrAmountTooLarge
		}

		if assets.IsZero() {
			return nil
		}

		if assets.Gt(v.state.Cash) {
			return core.ErrInsufficientCash
		}

		if err := v.increaseBorrow(caller, assets); err != nil {
			return err
		}

		if err := v.pushAssets(ctx, receiver, assets); err != nil {
			return err
		}

		v.emit(ctx, &core.Event{Name: core.EventBorrow, Account: caller.Hex(), Counterparty: receiver.Hex(), Assets: dec(assets)})
		v.connector.RequireAccountStatusCheck(ctx, caller)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return assets, nil
}

// Repay pull assets from caller to pay down receiver's debt, MaxUint repays it all
func (v *Vault) Repay(ctx context.Context, caller common.Address, amount *uint256.Int, receiver common.Address) (*uint256.Int, error) {
	assets := number.Zero()
	err := v.run(ctx, core.OpRepay, caller, func(ctx context.Context) error {
		debt := compound.OwedToAssetsUp(v.currentOwed(receiver, v.state.InterestAccumulator))

		assets = amount
		if number.IsMax(amount) {
			assets = debt
		}

		if assets.Gt(number.MaxSaneAmount) {
			return core.ErrAmountTooLarge
		}

		if assets.IsZero() {
			return nil
		}

		if assets.Gt(debt) {
			return core.ErrRepayTooMuch
		}

		if err := v.pullAssets(ctx, caller, assets); err != nil {
			return err
		}

		v.decreaseBorrow(receiver, assets)
		v.emit(ctx, &core.Event{Name: core.EventRepay, Account: receiver.Hex(), Counterparty: caller.Hex(), Assets: dec(assets)})
		return nil
	})

	if err != nil {
		return nil, err
	}

	return assets, nil
}

// Loop borrow assets as caller's debt and mint the matching shares, rounded down, to receiver
func (v *Vault) Loop(ctx context.Context, caller common.Address, amount *uint256.Int, receiver common.Address) (*uint256.Int, error) {
	shares := number.Zero()
	err := v.run(ctx, core.OpLoop, caller, func(ctx context.Context) error {
		if err := v.requireController(caller); err != nil {
			return err
		}

		if amount.Gt(number.MaxSaneAmount) {
			return core.ErrAmountTooLarge
		}

		if amount.IsZero() {
			return nil
		}

		shares = compound.ToSharesDown(amount, v.totals())
		if shares.IsZero() {
			return core.ErrZeroShares
		}

		if err := v.increaseBorrow(caller, amount); err != nil {
			return err
		}

		if err := v.mintShares(ctx, receiver, shares); err != nil {
			return err
		}

		v.emit(ctx, &core.Event{Name: core.EventLoop, Account: caller.Hex(), Counterparty: receiver.Hex(), Assets: dec(amount), Shares: dec(shares)})
		v.connector.RequireAccountStatusCheck(ctx, caller)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return shares, nil
}

// Deloop burn caller's shares to pay down debtFrom's debt. The amount is capped by the
// debt and by what the shares are worth, and nothing to repay is a no-op.
func (v *Vault) Deloop(ctx context.Context, caller common.Address, amount *uint256.Int, debtFrom common.Address) (*uint256.Int, error) {
	shares := number.Zero()
	err := v.run(ctx, core.OpDeloop, caller, func(ctx context.Context) error {
		t := v.totals()
		debt := compound.OwedToAssetsUp(v.currentOwed(debtFrom, v.state.InterestAccumulator))
		balance := v.position(caller).Shares.Clone()

		assets := number.Min(amount, debt)
		assets = number.Min(assets, compound.ToAssetsDown(balance, t))
		if assets.IsZero() {
			return nil
		}

		shares = compound.ToSharesUp(assets, t)
		if shares.Gt(balance) {
			shares = balance
		}

		if err := v.burnShares(ctx, caller, shares); err != nil {
			return err
		}

		v.decreaseBorrow(debtFrom, assets)
		v.emit(ctx, &core.Event{Name: core.EventDeloop, Account: debtFrom.Hex(), Counterparty: caller.Hex(), Assets: dec(assets), Shares: dec(shares)})
		v.connector.RequireAccountStatusCheck(ctx, caller)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return shares, nil
}

// PullDebt take over amount of from's debt as caller's own, MaxUint takes all
func (v *Vault) PullDebt(ctx context.Context, caller common.Address, amount *uint256.Int, from common.Address) (*uint256.Int, error) {
	assets := number.Zero()
	err := v.run(ctx, core.OpPullDebt, caller, func(ctx context.Context) error {
		if from == caller {
			return core.ErrSelfTransfer
		}

		if err := v.requireController(caller); err != nil {
			return err
		}

		debt := compound.OwedToAssetsUp(v.currentOwed(from, v.state.InterestAccumulator))
		assets = amount
		if number.IsMax(amount) {
			assets = debt
		}

		if assets.Gt(number.MaxSaneAmount) {
			return core.ErrAmountTooLarge
		}

		if assets.IsZero() {
			return nil
		}

		if assets.Gt(debt) {
			return core.ErrInsufficientDebt
		}

		if err := v.transferBorrow(from, caller, assets); err != nil {
			return err
		}

		v.emit(ctx, &core.Event{Name: core.EventPullDebt, Account: caller.Hex(), Counterparty: from.Hex(), Assets: dec(assets)})
		v.connector.RequireAccountStatusCheck(ctx, caller)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return assets, nil
}

// FlashLoan lend amount to caller for the duration of fn, the vault's token balance
// must be fully restored when fn returns
func (v *Vault) FlashLoan(ctx context.Context, caller common.Address, amount *uint256.Int, fn func(ctx context.Context) error) error {
	return v.run(ctx, core.OpFlashLoan, caller, func(ctx context.Context) error {
		before, err := v.tokenBalanceOf(ctx, v.address)
		if err != nil {
			return err
		}

		err = guard(func() error { return v.asset.Transfer(ctx, v.address, caller, amount) })
		if err != nil {
			return core.WrapExternal(core.ErrTransferFromFailed, err)
		}

		if err := fn(ctx); err != nil {
			return err
		}

		after, err := v.tokenBalanceOf(ctx, v.address)
		if err != nil {
			return err
		}

		if after.Lt(before) {
			return core.ErrFlashLoanNotRepaid
		}

		v.emit(ctx, &core.Event{Name: core.EventFlashLoan, Account: caller.Hex(), Assets: dec(amount)})
		return nil
	})
}

// Touch accrue interest and run the vault status check
func (v *Vault) Touch(ctx context.Context, caller common.Address) error {
	return v.run(ctx, core.OpTouch, caller, func(ctx context.Context) error {
		return nil
	})
}

// DisableController release caller from this vault, only possible without debt
func (v *Vault) DisableController(ctx context.Context, caller common.Address) error {
	return v.run(ctx, 0, caller, func(ctx context.Context) error {
		if !v.currentOwed(caller, v.state.InterestAccumulator).IsZero() {
			return core.ErrOutstandingDebt
		}

		return v.connector.ReleaseController(ctx, v.address, caller)
	})
}
