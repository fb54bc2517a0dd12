package core

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const (
	// CfgDontSocializeDebt keep bad debt on the violator after liquidation
	CfgDontSocializeDebt uint32 = 1 << 0
)

type (
	// VaultState mutable ledger of a vault
	VaultState struct {
		Cash            *uint256.Int
		TotalShares     *uint256.Int
		TotalBorrows    *uint256.Int // owed units, assets << 31
		AccumulatedFees *uint256.Int // shares

		InterestAccumulator *uint256.Int
		InterestRate        *uint256.Int // per second, 1e27
		LastInterestUpdate  int64

		Positions map[common.Address]*Position
	}

	// Position account state inside one vault
	Position struct {
		Shares              *uint256.Int
		Owed                *uint256.Int
		InterestAccumulator *uint256.Int
		Allowances          map[common.Address]*uint256.Int
	}

	// LTVEntry collateral config with ramping liquidation ltv
	LTVEntry struct {
		Target       uint16 `json:"target"`
		Initial      uint16 `json:"initial"`
		RampStart    int64  `json:"ramp_start"`
		RampDuration int64  `json:"ramp_duration"`
	}

	// VaultConfig governed parameters of a vault, fractions scaled by 1e4
	VaultConfig struct {
		Governor            common.Address
		FeeReceiver         common.Address
		ProtocolFeeReceiver common.Address

		InterestFee            uint16
		ProtocolFeeShare       uint16
		MaxLiquidationDiscount uint16
		BorrowFactor           uint16

		SupplyCap *uint256.Int // nil means no cap
		BorrowCap *uint256.Int

		InterestRateModel IInterestRateModel
		Hook              IHook
		HookedOps         Operation
		Flags             uint32

		LTVs        map[common.Address]*LTVEntry
		Collaterals []common.Address
	}
)

// IHook policy callback consulted before hooked operations
type IHook interface {
	OnOperation(ctx context.Context, op Operation, caller common.Address) error
}

// ISnapshotter participant whose state is restored when a call reverts
type ISnapshotter interface {
	Checkpoint() interface{}
	Rollback(checkpoint interface{})
}

// IVault the vault surface used by the connector and other vaults
type IVault interface {
	ISnapshotter
	Address() common.Address
	Asset() common.Address
	BalanceOf(account common.Address) *uint256.Int
	ConvertToAssets(ctx context.Context, shares *uint256.Int) *uint256.Int
	CheckAccountStatus(ctx context.Context, account common.Address, collaterals []common.Address) error
	CheckVaultStatus(ctx context.Context) error
	ControlledTransfer(ctx context.Context, controller, from, to common.Address, shares *uint256.Int) error
}

// Clone deep copy of the position
func (p *Position) Clone() *Position {
	c := &Position{
		Shares:              p.Shares.Clone(),
		Owed:                p.Owed.Clone(),
		InterestAccumulator: p.InterestAccumulator.Clone(),
		Allowances:          make(map[common.Address]*uint256.Int, len(p.Allowances)),
	}

	for spender, amount := range p.Allowances {
		c.Allowances[spender] = amount.Clone()
	}

	return c
}

// Clone deep copy of the state
func (s *VaultState) Clone() *VaultState {
	c := *s
	c.Cash = s.Cash.Clone()
	c.TotalShares = s.TotalShares.Clone()
	c.TotalBorrows = s.TotalBorrows.Clone()
	c.AccumulatedFees = s.AccumulatedFees.Clone()
	c.InterestAccumulator = s.InterestAccumulator.Clone()
	c.InterestRate = s.InterestRate.Clone()
	c.Positions = make(map[common.Address]*Position, len(s.Positions))
	for account, p := range s.Positions {
		c.Positions[account] = p.Clone()
	}

	return &c
}

// Clone deep copy of the config
func (c *VaultConfig) Clone() *VaultConfig {
	n := *c
	if c.SupplyCap != nil {
		n.SupplyCap = c.SupplyCap.Clone()
	}

	if c.BorrowCap != nil {
		n.BorrowCap = c.BorrowCap.Clone()
	}

	n.LTVs = make(map[common.Address]*LTVEntry, len(c.LTVs))
	for collateral, entry := range c.LTVs {
		e := *entry
		n.LTVs[collateral] = &e
	}

	n.Collaterals = append([]common.Address(nil), c.Collaterals...)
	return &n
}
