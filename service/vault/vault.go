package vault

import (
	"context"

	"evault/core"
	"evault/internal/compound"
	"evault/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
)

// Config identity of a vault
type Config struct {
	Address       common.Address
	UnitOfAccount common.Address
	Governor      common.Address
}

type (
	// Vault collateralized lending vault over one underlying asset
	Vault struct {
		address       common.Address
		unitOfAccount common.Address
		asset         core.IToken
		connector     core.IConnector
		oracle        core.IPriceOracle
		clock         core.IClock

		state  *core.VaultState
		config *core.VaultConfig

		locked bool
		caps   *capSnapshot
	}

	checkpoint struct {
		state  *core.VaultState
		config *core.VaultConfig
		caps   *capSnapshot
	}

	capSnapshot struct {
		supply  *uint256.Int
		borrows *uint256.Int
	}
)

// New new vault, irm may be nil for a zero rate
func New(
	cfg Config,
	asset core.IToken,
	connector core.IConnector,
	oracle core.IPriceOracle,
	irm core.IInterestRateModel,
	clock core.IClock,
) *Vault {
	return &Vault{
		address:       cfg.Address,
		unitOfAccount: cfg.UnitOfAccount,
		asset:         asset,
		connector:     connector,
		oracle:        oracle,
		clock:         clock,
		state: &core.VaultState{
			Cash:                number.Zero(),
			TotalShares:         number.Zero(),
			TotalBorrows:        number.Zero(),
			AccumulatedFees:     number.Zero(),
			InterestAccumulator: compound.InitialInterestAccumulator.Clone(),
			InterestRate:        number.Zero(),
			LastInterestUpdate:  clock.Now(),
			Positions:           map[common.Address]*core.Position{},
		},
		config: &core.VaultConfig{
			Governor:               cfg.Governor,
			MaxLiquidationDiscount: compound.DefaultMaxLiquidationDiscount,
			BorrowFactor:           compound.DefaultBorrowFactor,
			InterestRateModel:      irm,
			LTVs:                   map[common.Address]*core.LTVEntry{},
		},
	}
}

// Address vault address
func (v *Vault) Address() common.Address {
	return v.address
}

// Asset underlying asset address
func (v *Vault) Asset() common.Address {
	return v.asset.Address()
}

// UnitOfAccount the unit liabilities and collaterals are valued in
func (v *Vault) UnitOfAccount() common.Address {
	return v.unitOfAccount
}

// Checkpoint implements core.ISnapshotter
func (v *Vault) Checkpoint() interface{} {
	return &checkpoint{state: v.state.Clone(), config: v.config.Clone(), caps: v.caps.clone()}
}

// Rollback implements core.ISnapshotter
func (v *Vault) Rollback(cp interface{}) {
	c, ok := cp.(*checkpoint)
	if !ok {
		return
	}

	v.state = c.state.Clone()
	v.config = c.config.Clone()
	v.caps = c.caps.clone()
}

// run execute fn as operation op of caller: reentrancy lock, hook, interest accrual
// and a vault status check at the end of the top level call
func (v *Vault) run(ctx context.Context, op core.Operation, caller common.Address, fn func(ctx context.Context) error) error {
	return v.connector.Run(ctx, func(ctx context.Context) error {
		if v.locked {
			return core.ErrReentrancy
		}

		v.locked = true
		defer func() { v.locked = false }()

		if err := v.invokeHook(ctx, op, caller); err != nil {
			return err
		}

		v.accrue(ctx)
		v.snapshotCaps()
		v.connector.RequireVaultStatusCheck(ctx, v.address)
		return fn(ctx)
	})
}

func (v *Vault) totals() *compound.Totals {
	return &compound.Totals{
		Cash:                v.state.Cash,
		TotalShares:         v.state.TotalShares,
		TotalBorrows:        v.state.TotalBorrows,
		AccumulatedFees:     v.state.AccumulatedFees,
		InterestAccumulator: v.state.InterestAccumulator,
		LastInterestUpdate:  v.state.LastInterestUpdate,
	}
}

// loadTotals the totals as they would be after accruing up to now, without writing them
func (v *Vault) loadTotals(ctx context.Context) *compound.Totals {
	t := v.totals().Clone()
	compound.AccrueInterest(t, v.interestRate(ctx, t), v.config.InterestFee, v.clock.Now())
	return t
}

func (v *Vault) accrue(ctx context.Context) {
	t := v.totals().Clone()
	rate := v.interestRate(ctx, t)
	if !compound.AccrueInterest(t, rate, v.config.InterestFee, v.clock.Now()) {
		return
	}

	interest := number.Sub(t.BorrowsAssets(), compound.OwedToAssetsUp(v.state.TotalBorrows))
	fees := number.Sub(t.AccumulatedFees, v.state.AccumulatedFees)

	v.state.TotalBorrows = t.TotalBorrows
	v.state.AccumulatedFees = t.AccumulatedFees
	v.state.InterestAccumulator = t.InterestAccumulator
	v.state.LastInterestUpdate = t.LastInterestUpdate
	v.state.InterestRate = rate

	if !interest.IsZero() || !fees.IsZero() {
		v.emit(ctx, &core.Event{Name: core.EventInterestAccrued, Assets: dec(interest), Shares: dec(fees), Memo: rate.Dec()})
	}
}

// interestRate query the model at the utilization of t, a failing model keeps the last rate
func (v *Vault) interestRate(ctx context.Context, t *compound.Totals) *uint256.Int {
	irm := v.config.InterestRateModel
	if irm == nil {
		return number.Zero()
	}

	var rate *uint256.Int
	err := guard(func() (err error) {
		rate, err = irm.InterestRate(ctx, compound.UtilizationRate(t.Cash, t.BorrowsAssets()))
		return err
	})

	if err != nil || rate == nil {
		logger.FromContext(ctx).WithError(err).Warnln("vault: interest rate model failed, keep last rate")
		return v.state.InterestRate.Clone()
	}

	if rate.Gt(compound.MaxAllowedInterestRate) {
		return compound.MaxAllowedInterestRate.Clone()
	}

	return rate
}

func (v *Vault) position(account common.Address) *core.Position {
	p, ok := v.state.Positions[account]
	if !ok {
		p = &core.Position{
			Shares:              number.Zero(),
			Owed:                number.Zero(),
			InterestAccumulator: v.state.InterestAccumulator.Clone(),
			Allowances:          map[common.Address]*uint256.Int{},
		}
		v.state.Positions[account] = p
	}

	return p
}

func (v *Vault) emit(ctx context.Context, e *core.Event) {
	e.Vault = v.address.Hex()
	v.connector.Emit(ctx, e)
}

func dec(x *uint256.Int) string {
	if x == nil {
		return "0"
	}

	return x.Dec()
}
