package core

import (
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Config evault config
type Config struct {
	App    App       `json:"app"`
	DB     db.Config `json:"db"`
	Oracle Oracle    `json:"oracle"`
	Tokens []Token   `json:"tokens"`
	Vaults []Vault   `json:"vaults"`
	Worker Worker    `json:"worker"`
}

// App app config
type App struct {
	UnitOfAccount string `json:"unit_of_account"`
	Location      string `json:"location"`
}

// Oracle price oracle config, a remote oracle is used when EndPoint is set
type Oracle struct {
	EndPoint   string                     `json:"end_point"`
	TTLSeconds int64                      `json:"ttl_seconds"`
	Prices     map[string]decimal.Decimal `json:"prices"`
}

// Token underlying token config with genesis balances in raw units.
// With ApproveVaults every genesis holder grants the vaults of the token an unlimited allowance.
type Token struct {
	Address       string            `json:"address"`
	Symbol        string            `json:"symbol"`
	Balances      map[string]string `json:"balances"`
	ApproveVaults bool              `json:"approve_vaults"`
}

// Vault vault config, fractions are plain decimals like 0.75
type Vault struct {
	Address                string          `json:"address"`
	Asset                  string          `json:"asset"`
	Governor               string          `json:"governor"`
	FeeReceiver            string          `json:"fee_receiver"`
	ProtocolFeeReceiver    string          `json:"protocol_fee_receiver"`
	InterestFee            decimal.Decimal `json:"interest_fee"`
	ProtocolFeeShare       decimal.Decimal `json:"protocol_fee_share"`
	MaxLiquidationDiscount decimal.Decimal `json:"max_liquidation_discount"`
	BorrowFactor           decimal.Decimal `json:"borrow_factor"`
	SupplyCap              string          `json:"supply_cap"`
	BorrowCap              string          `json:"borrow_cap"`
	DisabledOps            []string        `json:"disabled_ops"`
	DontSocializeDebt      bool            `json:"dont_socialize_debt"`
	InterestRateModel      RateModel       `json:"interest_rate_model"`
	LTVs                   []LTV           `json:"ltvs"`
}

// RateModel interest rate model config, rates are annual
type RateModel struct {
	Kind           string          `json:"kind"`
	BaseRate       decimal.Decimal `json:"base_rate"`
	Multiplier     decimal.Decimal `json:"multiplier"`
	JumpMultiplier decimal.Decimal `json:"jump_multiplier"`
	Kink           decimal.Decimal `json:"kink"`
}

// LTV collateral config
type LTV struct {
	Collateral   string          `json:"collateral"`
	LTV          decimal.Decimal `json:"ltv"`
	RampDuration int64           `json:"ramp_duration"`
}

// Worker worker config
type Worker struct {
	AccrualSpec string `json:"accrual_spec"`
}
