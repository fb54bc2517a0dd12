package vault

import (
	"context"

	"evault/core"
	"evault/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// guard turn a panicking collaborator into an error
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()

	return fn()
}

// pullAssets move assets from account into the vault and credit cash
func (v *Vault) pullAssets(ctx context.Context, from common.Address, assets *uint256.Int) error {
	cash, ok := number.Add(v.state.Cash, assets)
	if !ok || cash.Gt(number.MaxSaneAmount) {
		return core.ErrAmountTooLargeToEncode
	}

	err := guard(func() error {
		return v.asset.TransferFrom(ctx, v.address, from, v.address, assets)
	})
	if err != nil {
		return core.WrapExternal(core.ErrTransferFromFailed, err)
	}

	v.state.Cash = cash
	return nil
}

// pushAssets debit cash and move assets out of the vault to account
func (v *Vault) pushAssets(ctx context.Context, to common.Address, assets *uint256.Int) error {
	if v.state.Cash.Lt(assets) {
		return core.ErrInsufficientCash
	}

	v.state.Cash = new(uint256.Int).Sub(v.state.Cash, assets)
	err := guard(func() error {
		return v.asset.Transfer(ctx, v.address, to, assets)
	})
	if err != nil {
		return core.WrapExternal(core.ErrTransferFromFailed, err)
	}

	return nil
}

func (v *Vault) tokenBalanceOf(ctx context.Context, account common.Address) (*uint256.Int, error) {
	var balance *uint256.Int
	err := guard(func() (err error) {
		balance, err = v.asset.BalanceOf(ctx, account)
		return err
	})
	if err != nil {
		return nil, core.WrapExternal(core.ErrTransferFromFailed, err)
	}

	if balance == nil {
		return number.Zero(), nil
	}

	return balance, nil
}

// quote value of amount of asset in the unit of account
func (v *Vault) quote(ctx context.Context, amount *uint256.Int, asset common.Address) (*uint256.Int, error) {
	if amount.IsZero() {
		return number.Zero(), nil
	}

	var value *uint256.Int
	err := guard(func() (err error) {
		value, err = v.oracle.Quote(ctx, amount, asset, v.unitOfAccount)
		return err
	})
	if err != nil {
		if core.CodeOf(err) == core.ErrUnknown {
			return nil, core.WrapExternal(core.ErrNoPrice, err)
		}

		return nil, err
	}

	return value, nil
}
