package vault

import (
	"context"

	"evault/core"
	"evault/internal/compound"
	"evault/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func (v *Vault) invokeHook(ctx context.Context, op core.Operation, caller common.Address) error {
	if !v.config.HookedOps.Has(op) {
		return nil
	}

	hook := v.config.Hook
	if hook == nil {
		return core.ErrOperationDisabled
	}

	return guard(func() error { return hook.OnOperation(ctx, op, caller) })
}

// snapshotCaps remember supply and borrows when the vault is first touched in a top level call
func (v *Vault) snapshotCaps() {
	if v.caps != nil {
		return
	}

	t := v.totals()
	v.caps = &capSnapshot{supply: t.TotalAssets(), borrows: t.BorrowsAssets()}
}

func (c *capSnapshot) clone() *capSnapshot {
	if c == nil {
		return nil
	}

	return &capSnapshot{supply: c.supply.Clone(), borrows: c.borrows.Clone()}
}

// CheckVaultStatus implements core.IVault. A cap only fails the call when it is
// exceeded and the call increased the capped amount.
func (v *Vault) CheckVaultStatus(ctx context.Context) error {
	snapshot := v.caps
	v.caps = nil

	t := v.totals()
	supply, borrows := t.TotalAssets(), t.BorrowsAssets()
	if snapshot == nil {
		snapshot = &capSnapshot{supply: supply, borrows: borrows}
	}

	if limit := v.config.SupplyCap; limit != nil && supply.Gt(limit) && supply.Gt(snapshot.supply) {
		return core.ErrSupplyCapExceeded
	}

	if limit := v.config.BorrowCap; limit != nil && borrows.Gt(limit) && borrows.Gt(snapshot.borrows) {
		return core.ErrBorrowCapExceeded
	}

	return nil
}

func (v *Vault) isDisabled(op core.Operation) bool {
	return v.config.HookedOps.Has(op) && v.config.Hook == nil
}

// MaxDeposit assets that can still be deposited, zero at or above the supply cap
func (v *Vault) MaxDeposit(ctx context.Context, _ common.Address) *uint256.Int {
	if v.isDisabled(core.OpDeposit) {
		return number.Zero()
	}

	t := v.loadTotals(ctx)
	room := number.Sub(number.MaxSaneAmount, t.Cash)
	if limit := v.config.SupplyCap; limit != nil {
		room = number.Min(room, number.Sub(limit, t.TotalAssets()))
	}

	return room
}

// MaxMint shares that can still be minted
func (v *Vault) MaxMint(ctx context.Context, account common.Address) *uint256.Int {
	return compound.ToSharesDown(v.MaxDeposit(ctx, account), v.loadTotals(ctx))
}

// MaxWithdraw assets owner can withdraw right now, ignoring its account health
func (v *Vault) MaxWithdraw(ctx context.Context, owner common.Address) *uint256.Int {
	if v.isDisabled(core.OpWithdraw) {
		return number.Zero()
	}

	t := v.loadTotals(ctx)
	return number.Min(compound.ToAssetsDown(v.BalanceOf(owner), t), t.Cash)
}

// MaxRedeem shares owner can redeem right now, ignoring its account health
func (v *Vault) MaxRedeem(ctx context.Context, owner common.Address) *uint256.Int {
	if v.isDisabled(core.OpRedeem) {
		return number.Zero()
	}

	t := v.loadTotals(ctx)
	return number.Min(v.BalanceOf(owner), compound.ToSharesDown(t.Cash, t))
}
