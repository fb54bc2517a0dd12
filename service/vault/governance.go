package vault

import (
	"context"
	"fmt"

	"evault/core"
	"evault/internal/compound"
	"evault/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// govern run fn as a governor only call
func (v *Vault) govern(ctx context.Context, caller common.Address, memo string, fn func() error) error {
	return v.run(ctx, 0, caller, func(ctx context.Context) error {
		if caller != v.config.Governor {
			return core.ErrUnauthorized
		}

		if err := fn(); err != nil {
			return err
		}

		v.emit(ctx, &core.Event{Name: core.EventGovernance, Account: caller.Hex(), Memo: memo})
		return nil
	})
}

// SetLTV ramp the ltv of collateral to ltv (1e4 scale) over rampDuration seconds,
// starting from the liquidation ltv in force now
func (v *Vault) SetLTV(ctx context.Context, caller, collateral common.Address, ltv uint16, rampDuration int64) error {
	return v.govern(ctx, caller, fmt.Sprintf("ltv %s %d %d", collateral.Hex(), ltv, rampDuration), func() error {
		if collateral == v.address {
			return core.ErrInvalidLTVAsset
		}

		if collateral == (common.Address{}) {
			return core.ErrBadAddress
		}

		if ltv >= number.ConfigScale || rampDuration < 0 {
			return core.ErrConfigAmountTooLargeToEncode
		}

		now := v.clock.Now()
		entry, ok := v.config.LTVs[collateral]
		if !ok {
			entry = &core.LTVEntry{}
			v.config.LTVs[collateral] = entry
			v.config.Collaterals = append(v.config.Collaterals, collateral)
		}

		entry.Initial = compound.LiquidationLTV(entry, now)
		entry.Target = ltv
		entry.RampStart = now
		entry.RampDuration = rampDuration
		return nil
	})
}

// SetInterestFee share of interest (1e4 scale) minted as fees
func (v *Vault) SetInterestFee(ctx context.Context, caller common.Address, fee uint16) error {
	return v.govern(ctx, caller, fmt.Sprintf("interest_fee %d", fee), func() error {
		if fee > number.ConfigScale {
			return core.ErrBadFee
		}

		v.config.InterestFee = fee
		return nil
	})
}

// SetProtocolFeeShare share of converted fees (1e4 scale) sent to the protocol receiver
func (v *Vault) SetProtocolFeeShare(ctx context.Context, caller common.Address, share uint16) error {
	return v.govern(ctx, caller, fmt.Sprintf("protocol_fee_share %d", share), func() error {
		if share > number.ConfigScale {
			return core.ErrBadFee
		}

		v.config.ProtocolFeeShare = share
		return nil
	})
}

// SetCaps set supply and borrow caps in assets, nil or MaxUint removes a cap
func (v *Vault) SetCaps(ctx context.Context, caller common.Address, supplyCap, borrowCap *uint256.Int) error {
	return v.govern(ctx, caller, fmt.Sprintf("caps %s %s", capString(supplyCap), capString(borrowCap)), func() error {
		supply, err := normalizeCap(supplyCap)
		if err != nil {
			return err
		}

		borrow, err := normalizeCap(borrowCap)
		if err != nil {
			return err
		}

		v.config.SupplyCap, v.config.BorrowCap = supply, borrow
		return nil
	})
}

func normalizeCap(c *uint256.Int) (*uint256.Int, error) {
	if c == nil || number.IsMax(c) {
		return nil, nil
	}

	if c.Gt(number.MaxSaneAmount) {
		return nil, core.ErrConfigAmountTooLargeToEncode
	}

	return c.Clone(), nil
}

func capString(c *uint256.Int) string {
	if c == nil || number.IsMax(c) {
		return "none"
	}

	return c.Dec()
}

// SetHookConfig route ops through hook, ops hooked with a nil hook are disabled
func (v *Vault) SetHookConfig(ctx context.Context, caller common.Address, hook core.IHook, ops core.Operation) error {
	return v.govern(ctx, caller, fmt.Sprintf("hook %s", ops), func() error {
		v.config.Hook, v.config.HookedOps = hook, ops
		return nil
	})
}

// SetFeeReceiver governor side fee receiver
func (v *Vault) SetFeeReceiver(ctx context.Context, caller, receiver common.Address) error {
	return v.govern(ctx, caller, "fee_receiver "+receiver.Hex(), func() error {
		v.config.FeeReceiver = receiver
		return nil
	})
}

// SetProtocolFeeReceiver protocol side fee receiver
func (v *Vault) SetProtocolFeeReceiver(ctx context.Context, caller, receiver common.Address) error {
	return v.govern(ctx, caller, "protocol_fee_receiver "+receiver.Hex(), func() error {
		v.config.ProtocolFeeReceiver = receiver
		return nil
	})
}

// SetConfigFlags set behaviour flags like core.CfgDontSocializeDebt
func (v *Vault) SetConfigFlags(ctx context.Context, caller common.Address, flags uint32) error {
	return v.govern(ctx, caller, fmt.Sprintf("flags %d", flags), func() error {
		v.config.Flags = flags
		return nil
	})
}

// SetMaxLiquidationDiscount cap of the liquidation discount, 1e4 scale
func (v *Vault) SetMaxLiquidationDiscount(ctx context.Context, caller common.Address, discount uint16) error {
	return v.govern(ctx, caller, fmt.Sprintf("max_liquidation_discount %d", discount), func() error {
		if discount >= number.ConfigScale {
			return core.ErrConfigAmountTooLargeToEncode
		}

		v.config.MaxLiquidationDiscount = discount
		return nil
	})
}

// SetBorrowFactor multiplier (1e4 scale, at least 1.0) applied to liability values
func (v *Vault) SetBorrowFactor(ctx context.Context, caller common.Address, factor uint16) error {
	return v.govern(ctx, caller, fmt.Sprintf("borrow_factor %d", factor), func() error {
		if factor < number.ConfigScale {
			return core.ErrConfigAmountTooLargeToEncode
		}

		v.config.BorrowFactor = factor
		return nil
	})
}

// SetInterestRateModel replace the interest rate model, interest so far is accrued first
func (v *Vault) SetInterestRateModel(ctx context.Context, caller common.Address, irm core.IInterestRateModel) error {
	return v.govern(ctx, caller, "interest_rate_model", func() error {
		v.config.InterestRateModel = irm
		return nil
	})
}

// SetGovernor hand governance over, the zero address renounces it
func (v *Vault) SetGovernor(ctx context.Context, caller, governor common.Address) error {
	return v.govern(ctx, caller, "governor "+governor.Hex(), func() error {
		v.config.Governor = governor
		return nil
	})
}
