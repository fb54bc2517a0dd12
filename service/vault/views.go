package vault

import (
	"context"

	"evault/core"
	"evault/internal/compound"
	"evault/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// BalanceOf share balance of account
func (v *Vault) BalanceOf(account common.Address) *uint256.Int {
	if p, ok := v.state.Positions[account]; ok {
		return p.Shares.Clone()
	}

	return number.Zero()
}

// Allowance shares spender may move for owner
func (v *Vault) Allowance(owner, spender common.Address) *uint256.Int {
	if p, ok := v.state.Positions[owner]; ok {
		if a, ok := p.Allowances[spender]; ok {
			return a.Clone()
		}
	}

	return number.Zero()
}

// DebtOf debt of account in assets, rounded up
func (v *Vault) DebtOf(ctx context.Context, account common.Address) *uint256.Int {
	return compound.OwedToAssetsUp(v.DebtOfExact(ctx, account))
}

// DebtOfExact debt of account in owed units (assets << 31)
func (v *Vault) DebtOfExact(ctx context.Context, account common.Address) *uint256.Int {
	return v.currentOwed(account, v.loadTotals(ctx).InterestAccumulator)
}

// TotalSupply shares held by accounts
func (v *Vault) TotalSupply() *uint256.Int {
	return v.state.TotalShares.Clone()
}

// TotalAssets cash plus borrows, accrued to now
func (v *Vault) TotalAssets(ctx context.Context) *uint256.Int {
	return v.loadTotals(ctx).TotalAssets()
}

// TotalBorrows borrows in assets, accrued to now and rounded up
func (v *Vault) TotalBorrows(ctx context.Context) *uint256.Int {
	return v.loadTotals(ctx).BorrowsAssets()
}

// TotalBorrowsExact borrows in owed units
func (v *Vault) TotalBorrowsExact(ctx context.Context) *uint256.Int {
	return v.loadTotals(ctx).TotalBorrows.Clone()
}

// Cash assets held by the vault
func (v *Vault) Cash() *uint256.Int {
	return v.state.Cash.Clone()
}

// AccumulatedFees fee shares not yet converted, accrued to now
func (v *Vault) AccumulatedFees(ctx context.Context) *uint256.Int {
	return v.loadTotals(ctx).AccumulatedFees.Clone()
}

// AccumulatedFeesAssets fee shares valued in assets, rounded down
func (v *Vault) AccumulatedFeesAssets(ctx context.Context) *uint256.Int {
	t := v.loadTotals(ctx)
	return compound.ToAssetsDown(t.AccumulatedFees, t)
}

// InterestAccumulator accumulator accrued to now
func (v *Vault) InterestAccumulator(ctx context.Context) *uint256.Int {
	return v.loadTotals(ctx).InterestAccumulator.Clone()
}

// InterestRate per second ray rate in force
func (v *Vault) InterestRate(ctx context.Context) *uint256.Int {
	return v.interestRate(ctx, v.loadTotals(ctx))
}

// ConvertToAssets implements core.IVault, rounded down
func (v *Vault) ConvertToAssets(ctx context.Context, shares *uint256.Int) *uint256.Int {
	return compound.ToAssetsDown(shares, v.loadTotals(ctx))
}

// ConvertToShares shares for assets, rounded down
func (v *Vault) ConvertToShares(ctx context.Context, assets *uint256.Int) *uint256.Int {
	return compound.ToSharesDown(assets, v.loadTotals(ctx))
}

// PreviewDeposit shares a deposit of assets would mint
func (v *Vault) PreviewDeposit(ctx context.Context, assets *uint256.Int) *uint256.Int {
	return compound.ToSharesDown(assets, v.loadTotals(ctx))
}

// PreviewMint assets a mint of shares would pull
func (v *Vault) PreviewMint(ctx context.Context, shares *uint256.Int) *uint256.Int {
	return compound.ToAssetsUp(shares, v.loadTotals(ctx))
}

// PreviewWithdraw shares a withdrawal of assets would burn
func (v *Vault) PreviewWithdraw(ctx context.Context, assets *uint256.Int) *uint256.Int {
	return compound.ToSharesUp(assets, v.loadTotals(ctx))
}

// PreviewRedeem assets a redemption of shares would pay
func (v *Vault) PreviewRedeem(ctx context.Context, shares *uint256.Int) *uint256.Int {
	return compound.ToAssetsDown(shares, v.loadTotals(ctx))
}

// Caps supply and borrow caps, nil when absent
func (v *Vault) Caps() (supplyCap, borrowCap *uint256.Int) {
	if v.config.SupplyCap != nil {
		supplyCap = v.config.SupplyCap.Clone()
	}

	if v.config.BorrowCap != nil {
		borrowCap = v.config.BorrowCap.Clone()
	}

	return supplyCap, borrowCap
}

// Governor current governor
func (v *Vault) Governor() common.Address {
	return v.config.Governor
}

// Config copy of the governed parameters
func (v *Vault) Config() *core.VaultConfig {
	return v.config.Clone()
}

// Record point in time snapshot of the vault totals
func (v *Vault) Record(ctx context.Context) *core.VaultSnapshot {
	t := v.loadTotals(ctx)
	rate := v.interestRate(ctx, t)
	borrows := t.BorrowsAssets()

	return &core.VaultSnapshot{
		Vault:               v.address.Hex(),
		Cash:                t.Cash.Dec(),
		TotalShares:         t.TotalShares.Dec(),
		TotalBorrows:        borrows.Dec(),
		TotalAssets:         t.TotalAssets().Dec(),
		AccumulatedFees:     t.AccumulatedFees.Dec(),
		InterestAccumulator: t.InterestAccumulator.Dec(),
		ExchangeRate:        compound.GetExchangeRate(t),
		UtilizationRate:     number.ToDecimal(compound.UtilizationRate(t.Cash, borrows), 27).Truncate(18),
		BorrowAPR:           compound.AnnualRate(rate),
		LastInterestUpdate:  t.LastInterestUpdate,
	}
}
