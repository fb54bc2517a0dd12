package core

// Action names accepted in a CallRequest
const (
	ActionDeposit           = "deposit"
	ActionMint              = "mint"
	ActionWithdraw          = "withdraw"
	ActionRedeem            = "redeem"
	ActionTransfer          = "transfer"
	ActionTransferFrom      = "transfer_from"
	ActionApprove           = "approve"
	ActionBorrow            = "borrow"
	ActionRepay             = "repay"
	ActionLoop              = "loop"
	ActionDeloop            = "deloop"
	ActionPullDebt          = "pull_debt"
	ActionLiquidate         = "liquidate"
	ActionConvertFees       = "convert_fees"
	ActionTouch             = "touch"
	ActionEnableCollateral  = "enable_collateral"
	ActionDisableCollateral = "disable_collateral"
	ActionEnableController  = "enable_controller"
	ActionDisableController = "disable_controller"
)

// CallRequest serialisable description of one vault call in a batch.
// Amounts are raw integers or "max"; From is the owner, debt source or
// violator depending on the action.
type CallRequest struct {
	Action     string `json:"action" yaml:"action"`
	Vault      string `json:"vault" yaml:"vault"`
	OnBehalfOf string `json:"on_behalf_of,omitempty" yaml:"on_behalf_of"`
	Amount     string `json:"amount,omitempty" yaml:"amount"`
	Receiver   string `json:"receiver,omitempty" yaml:"receiver"`
	From       string `json:"from,omitempty" yaml:"from"`
	Collateral string `json:"collateral,omitempty" yaml:"collateral"`
	MinYield   string `json:"min_yield,omitempty" yaml:"min_yield"`
}

// Batch a caller and the calls it makes as one top level call
type Batch struct {
	Caller string         `json:"caller" yaml:"caller"`
	Calls  []*CallRequest `json:"calls" yaml:"calls"`
}
