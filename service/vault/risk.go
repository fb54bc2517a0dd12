package vault

import (
	"context"

	"evault/core"
	"evault/internal/compound"
	"evault/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var configScale = uint256.NewInt(number.ConfigScale)

// LTVBorrow ltv of collateral applied to new borrowing, 1e4 scale
func (v *Vault) LTVBorrow(collateral common.Address) uint16 {
	return compound.BorrowLTV(v.config.LTVs[collateral], v.clock.Now())
}

// LTVLiquidation ltv of collateral applied when judging liquidation, 1e4 scale
func (v *Vault) LTVLiquidation(collateral common.Address) uint16 {
	return compound.LiquidationLTV(v.config.LTVs[collateral], v.clock.Now())
}

// LTVList collaterals with an ltv entry, in the order they were added
func (v *Vault) LTVList() []common.Address {
	return append([]common.Address(nil), v.config.Collaterals...)
}

func (v *Vault) liabilityValue(ctx context.Context, t *compound.Totals, account common.Address) (*uint256.Int, error) {
	owed := v.currentOwed(account, t.InterestAccumulator)
	if owed.IsZero() {
		return number.Zero(), nil
	}

	value, err := v.quote(ctx, compound.OwedToAssetsUp(owed), v.Asset())
	if err != nil {
		return nil, err
	}

	adjusted, ok := number.MulDivUp(value, uint256.NewInt(uint64(v.config.BorrowFactor)), configScale)
	if !ok {
		return number.MaxUint.Clone(), nil
	}

	return adjusted, nil
}

// collateralValue unadjusted value of account's shares in collateral
func (v *Vault) collateralValue(ctx context.Context, account, collateral common.Address) (*uint256.Int, *uint256.Int, error) {
	cv, ok := v.connector.Vault(collateral)
	if !ok {
		return number.Zero(), number.Zero(), nil
	}

	balance := cv.BalanceOf(account)
	if balance.IsZero() {
		return number.Zero(), balance, nil
	}

	value, err := v.quote(ctx, cv.ConvertToAssets(ctx, balance), cv.Asset())
	if err != nil {
		return nil, nil, err
	}

	return value, balance, nil
}

// liquidity risk adjusted collateral value and liability value of account
func (v *Vault) liquidity(ctx context.Context, t *compound.Totals, account common.Address, collaterals []common.Address, liquidation bool) (*uint256.Int, *uint256.Int, error) {
	liability, err := v.liabilityValue(ctx, t, account)
	if err != nil {
		return nil, nil, err
	}

	now := v.clock.Now()
	total := number.Zero()
	for _, collateral := range collaterals {
		entry, ok := v.config.LTVs[collateral]
		if !ok {
			continue
		}

		ltv := compound.BorrowLTV(entry, now)
		if liquidation {
			ltv = compound.LiquidationLTV(entry, now)
		}

		if ltv == 0 {
			continue
		}

		value, _, err := v.collateralValue(ctx, account, collateral)
		if err != nil {
			return nil, nil, err
		}

		adjusted, _ := number.MulDiv(value, uint256.NewInt(uint64(ltv)), configScale)
		if total, ok = number.Add(total, adjusted); !ok {
			total = number.MaxUint.Clone()
		}
	}

	return total, liability, nil
}

// CheckAccountStatus implements core.IVault, fails when the liability exceeds
// the borrow-time value of collaterals
func (v *Vault) CheckAccountStatus(ctx context.Context, account common.Address, collaterals []common.Address) error {
	if !v.connector.IsControllerEnabled(account, v.address) {
		return core.ErrNoLiability
	}

	t := v.loadTotals(ctx)
	if v.currentOwed(account, t.InterestAccumulator).IsZero() {
		return nil
	}

	collateral, liability, err := v.liquidity(ctx, t, account, collaterals, false)
	if err != nil {
		return err
	}

	if liability.Gt(collateral) {
		return core.ErrAccountLiquidity
	}

	return nil
}

// AccountLiquidity collateral and liability value of account in the unit of account.
// Accounts without a controller have neither.
func (v *Vault) AccountLiquidity(ctx context.Context, account common.Address, liquidation bool) (collateral, liability *uint256.Int, err error) {
	controller, ok := v.connector.Controller(account)
	if !ok {
		return number.Zero(), number.Zero(), nil
	}

	if controller != v.address {
		return nil, nil, core.ErrNoLiability
	}

	return v.liquidity(ctx, v.loadTotals(ctx), account, v.connector.Collaterals(account), liquidation)
}
