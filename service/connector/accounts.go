package connector

import (
	"context"

	"evault/core"

	"github.com/ethereum/go-ethereum/common"
)

func (c *Connector) account(addr common.Address) *account {
	a, ok := c.accounts[addr]
	if !ok {
		a = &account{}
		c.accounts[addr] = a
	}

	return a
}

// Controller implements core.IConnector
func (c *Connector) Controller(addr common.Address) (common.Address, bool) {
	a, ok := c.accounts[addr]
	if !ok || !a.hasController {
		return common.Address{}, false
	}

	return a.controller, true
}

// IsControllerEnabled implements core.IConnector
func (c *Connector) IsControllerEnabled(addr, vault common.Address) bool {
	controller, ok := c.Controller(addr)
	return ok && controller == vault
}

// Collaterals implements core.IConnector
func (c *Connector) Collaterals(addr common.Address) []common.Address {
	a, ok := c.accounts[addr]
	if !ok {
		return nil
	}

	return append([]common.Address(nil), a.collaterals...)
}

// IsCollateralEnabled implements core.IConnector
func (c *Connector) IsCollateralEnabled(addr, collateral common.Address) bool {
	a, ok := c.accounts[addr]
	if !ok {
		return false
	}

	for _, v := range a.collaterals {
		if v == collateral {
			return true
		}
	}

	return false
}

func authorize(caller, addr common.Address) error {
	if !core.HaveCommonOwner(caller, addr) {
		return core.ErrUnauthorized
	}

	return nil
}

// EnableCollateral let vault shares of account back its liability
func (c *Connector) EnableCollateral(ctx context.Context, caller, addr, vault common.Address) error {
	return c.Run(ctx, func(ctx context.Context) error {
		if err := authorize(caller, addr); err != nil {
			return err
		}

		if _, ok := c.vaults[vault]; !ok {
			return core.ErrBadAddress
		}

		a := c.account(addr)
		if !c.IsCollateralEnabled(addr, vault) {
			a.collaterals = append(a.collaterals, vault)
			c.emitStatus(ctx, core.EventCollateralChange, addr, vault, "enabled")
		}

		return nil
	})
}

// DisableCollateral stop counting vault as collateral of account, the account must stay healthy
func (c *Connector) DisableCollateral(ctx context.Context, caller, addr, vault common.Address) error {
	return c.Run(ctx, func(ctx context.Context) error {
		if err := authorize(caller, addr); err != nil {
			return err
		}

		a := c.account(addr)
		for i, v := range a.collaterals {
			if v == vault {
				a.collaterals = append(a.collaterals[:i:i], a.collaterals[i+1:]...)
				c.emitStatus(ctx, core.EventCollateralChange, addr, vault, "disabled")
				break
			}
		}

		c.RequireAccountStatusCheck(ctx, addr)
		return nil
	})
}

// EnableController make vault the only vault account may borrow from
func (c *Connector) EnableController(ctx context.Context, caller, addr, vault common.Address) error {
	return c.Run(ctx, func(ctx context.Context) error {
		if err := authorize(caller, addr); err != nil {
			return err
		}

		if _, ok := c.vaults[vault]; !ok {
			return core.ErrBadAddress
		}

		a := c.account(addr)
		if a.hasController {
			if a.controller != vault {
				return core.ErrControllerViolation
			}

			return nil
		}

		a.controller, a.hasController = vault, true
		c.emitStatus(ctx, core.EventControllerChange, addr, vault, "enabled")
		c.RequireAccountStatusCheck(ctx, addr)
		return nil
	})
}

// ReleaseController implements core.IConnector, only the controller itself may release
func (c *Connector) ReleaseController(ctx context.Context, vault, addr common.Address) error {
	return c.Run(ctx, func(ctx context.Context) error {
		if !c.IsControllerEnabled(addr, vault) {
			return core.ErrControllerDisabled
		}

		a := c.account(addr)
		a.controller, a.hasController = common.Address{}, false
		c.emitStatus(ctx, core.EventControllerChange, addr, vault, "disabled")
		return nil
	})
}

func (c *Connector) emitStatus(ctx context.Context, name string, addr, vault common.Address, memo string) {
	c.Emit(ctx, &core.Event{
		Name:    name,
		Vault:   vault.Hex(),
		Account: addr.Hex(),
		Memo:    memo,
	})
}
