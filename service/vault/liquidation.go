package vault

import (
	"context"

	"evault/core"
	"evault/internal/compound"
	"evault/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type liquidation struct {
	collateral core.IVault
	violation  bool
	maxRepay   *uint256.Int
	maxYield   *uint256.Int
}

func (v *Vault) calculateLiquidation(ctx context.Context, t *compound.Totals, liquidator, violator, collateral common.Address) (*liquidation, error) {
	if liquidator == violator {
		return nil, core.ErrSelfLiquidation
	}

	if err := v.requireController(liquidator); err != nil {
		return nil, err
	}

	if _, ok := v.config.LTVs[collateral]; !ok {
		return nil, core.ErrBadCollateral
	}

	cv, ok := v.connector.Vault(collateral)
	if !ok {
		return nil, core.ErrBadCollateral
	}

	if !v.connector.IsCollateralEnabled(violator, collateral) {
		return nil, core.ErrCollateralDisabled
	}

	if v.connector.IsAccountStatusCheckDeferred(ctx, violator) {
		return nil, core.ErrViolatorLiquidityDeferred
	}

	liq := &liquidation{collateral: cv, maxRepay: number.Zero(), maxYield: number.Zero()}
	if !v.connector.IsControllerEnabled(violator, v.address) {
		return liq, nil
	}

	owed := v.currentOwed(violator, t.InterestAccumulator)
	if owed.IsZero() {
		return liq, nil
	}

	collateralAdjusted, liability, err := v.liquidity(ctx, t, violator, v.connector.Collaterals(violator), true)
	if err != nil {
		return nil, err
	}

	if !collateralAdjusted.Lt(liability) {
		return liq, nil
	}

	value, balance, err := v.collateralValue(ctx, violator, collateral)
	if err != nil {
		return nil, err
	}

	df := compound.DiscountFactor(collateralAdjusted, liability, v.config.MaxLiquidationDiscount)
	liq.violation = true
	liq.maxRepay, liq.maxYield = compound.LiquidationLimits(liability, compound.OwedToAssetsUp(owed), value, balance, df)
	return liq, nil
}

// CheckLiquidation the most debt liquidator may take over from violator and the
// collateral shares it would receive, zero when violator is healthy
func (v *Vault) CheckLiquidation(ctx context.Context, liquidator, violator, collateral common.Address) (maxRepay, maxYield *uint256.Int, err error) {
	liq, err := v.calculateLiquidation(ctx, v.loadTotals(ctx), liquidator, violator, collateral)
	if err != nil {
		return nil, nil, err
	}

	return liq.maxRepay, liq.maxYield, nil
}

// Liquidate take over repayAssets of violator's debt in exchange for collateral shares.
// MaxUint repays the maximum, and the call fails if the yield is below minYield.
func (v *Vault) Liquidate(ctx context.Context, caller, violator, collateral common.Address, repayAssets, minYield *uint256.Int) (repay, yield *uint256.Int, err error) {
	err = v.run(ctx, core.OpLiquidate, caller, func(ctx context.Context) error {
		liq, err := v.calculateLiquidation(ctx, v.totals(), caller, violator, collateral)
		if err != nil {
			return err
		}

		repay, yield = liq.maxRepay, liq.maxYield
		if !number.IsMax(repayAssets) {
			if repayAssets.Gt(liq.maxRepay) {
				return core.ErrExcessiveRepayAmount
			}

			repay = repayAssets.Clone()
			yield = compound.LiquidationYield(repay, liq.maxRepay, liq.maxYield)
		}

		if yield.Lt(minYield) {
			return core.ErrMinYield
		}

		if !repay.IsZero() {
			if err := v.transferBorrow(violator, caller, repay); err != nil {
				return err
			}
		}

		if !yield.IsZero() {
			if err := liq.collateral.ControlledTransfer(ctx, v.address, violator, caller, yield); err != nil {
				return err
			}
		}

		if liq.violation && v.config.Flags&core.CfgDontSocializeDebt == 0 {
			v.socializeDebt(ctx, violator)
		}

		v.connector.ForgiveAccountStatusCheck(ctx, violator)
		v.connector.RequireAccountStatusCheck(ctx, caller)
		v.emit(ctx, &core.Event{
			Name:         core.EventLiquidate,
			Account:      caller.Hex(),
			Counterparty: violator.Hex(),
			Collateral:   collateral.Hex(),
			Assets:       dec(repay),
			Shares:       dec(yield),
		})
		return nil
	})

	if err != nil {
		return nil, nil, err
	}

	return repay, yield, nil
}

// socializeDebt write off violator's remaining debt once no enabled collateral holds any balance
func (v *Vault) socializeDebt(ctx context.Context, violator common.Address) {
	owed := v.currentOwed(violator, v.state.InterestAccumulator)
	if owed.IsZero() {
		return
	}

	for _, c := range v.connector.Collaterals(violator) {
		cv, ok := v.connector.Vault(c)
		if ok && !cv.BalanceOf(violator).IsZero() {
			return
		}
	}

	v.state.TotalBorrows = number.Sub(v.state.TotalBorrows, owed)
	v.setOwed(violator, number.Zero())
	v.emit(ctx, &core.Event{Name: core.EventDebtSocialized, Account: violator.Hex(), Assets: dec(compound.OwedToAssetsUp(owed))})
}
