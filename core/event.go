package core

import (
	"context"
	"time"
)

// event names
const (
	EventDeposit          = "Deposit"
	EventWithdraw         = "Withdraw"
	EventTransfer         = "Transfer"
	EventApproval         = "Approval"
	EventBorrow           = "Borrow"
	EventRepay            = "Repay"
	EventLoop             = "Loop"
	EventDeloop           = "Deloop"
	EventPullDebt         = "PullDebt"
	EventLiquidate        = "Liquidate"
	EventDebtSocialized   = "DebtSocialized"
	EventConvertFees      = "ConvertFees"
	EventInterestAccrued  = "InterestAccrued"
	EventGovernance       = "GovSet"
	EventFlashLoan        = "FlashLoan"
	EventControllerChange = "ControllerStatus"
	EventCollateralChange = "CollateralStatus"
)

// Event ledger event, amounts are decimal strings of raw integer units
type Event struct {
	ID           int64     `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	BatchID      string    `sql:"size:36;index:idx_events_batch_id" json:"batch_id"`
	Name         string    `sql:"size:32" json:"name"`
	Vault        string    `sql:"size:42;index:idx_events_vault" json:"vault,omitempty"`
	Account      string    `sql:"size:42;index:idx_events_account" json:"account,omitempty"`
	Counterparty string    `sql:"size:42" json:"counterparty,omitempty"`
	Collateral   string    `sql:"size:42" json:"collateral,omitempty"`
	Assets       string    `sql:"size:80" json:"assets,omitempty"`
	Shares       string    `sql:"size:80" json:"shares,omitempty"`
	Memo         string    `sql:"size:255" json:"memo,omitempty"`
	Timestamp    int64     `json:"timestamp"`
	CreatedAt    time.Time `json:"created_at"`
}

// IEventStore event store interface
type IEventStore interface {
	Create(ctx context.Context, events []*Event) error
	ListByVault(ctx context.Context, vault string, fromID int64, limit int) ([]*Event, error)
	ListByAccount(ctx context.Context, account string, fromID int64, limit int) ([]*Event, error)
}
