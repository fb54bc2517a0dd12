package views

import "github.com/shopspring/decimal"

// Vault vault view, amounts are raw integer strings
type Vault struct {
	Address               string          `json:"address"`
	Asset                 string          `json:"asset"`
	Governor              string          `json:"governor"`
	Cash                  string          `json:"cash"`
	TotalShares           string          `json:"total_shares"`
	TotalAssets           string          `json:"total_assets"`
	TotalBorrows          string          `json:"total_borrows"`
	AccumulatedFees       string          `json:"accumulated_fees"`
	AccumulatedFeesAssets string          `json:"accumulated_fees_assets"`
	InterestAccumulator   string          `json:"interest_accumulator"`
	InterestRate          string          `json:"interest_rate"`
	BorrowAPR             decimal.Decimal `json:"borrow_apr"`
	UtilizationRate       decimal.Decimal `json:"utilization_rate"`
	ExchangeRate          decimal.Decimal `json:"exchange_rate"`
	SupplyCap             string          `json:"supply_cap,omitempty"`
	BorrowCap             string          `json:"borrow_cap,omitempty"`
	InterestFee           decimal.Decimal `json:"interest_fee"`
	ProtocolFeeShare      decimal.Decimal `json:"protocol_fee_share"`
	MaxDiscount           decimal.Decimal `json:"max_liquidation_discount"`
	BorrowFactor          decimal.Decimal `json:"borrow_factor"`
	LTVs                  []*LTV          `json:"ltvs"`
}

// LTV collateral limits of a vault
type LTV struct {
	Collateral  string          `json:"collateral"`
	Borrow      decimal.Decimal `json:"borrow"`
	Liquidation decimal.Decimal `json:"liquidation"`
}
