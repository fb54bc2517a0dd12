package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// VaultSnapshot point in time record of a vault's totals
type VaultSnapshot struct {
	ID                  int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Vault               string          `sql:"size:42;index:idx_vault_snapshots_vault" json:"vault"`
	Cash                string          `sql:"size:80" json:"cash"`
	TotalShares         string          `sql:"size:80" json:"total_shares"`
	TotalBorrows        string          `sql:"size:80" json:"total_borrows"`
	TotalAssets         string          `sql:"size:80" json:"total_assets"`
	AccumulatedFees     string          `sql:"size:80" json:"accumulated_fees"`
	InterestAccumulator string          `sql:"size:80" json:"interest_accumulator"`
	ExchangeRate        decimal.Decimal `sql:"type:decimal(64,18)" json:"exchange_rate"`
	UtilizationRate     decimal.Decimal `sql:"type:decimal(32,18)" json:"utilization_rate"`
	BorrowAPR           decimal.Decimal `sql:"type:decimal(32,18)" json:"borrow_apr"`
	LastInterestUpdate  int64           `json:"last_interest_update"`
	CreatedAt           time.Time       `json:"created_at"`
}

// ISnapshotStore vault snapshot store interface
type ISnapshotStore interface {
	Save(ctx context.Context, snapshot *VaultSnapshot) error
	FindLatest(ctx context.Context, vault string) (*VaultSnapshot, error)
	List(ctx context.Context, vault string, limit int) ([]*VaultSnapshot, error)
}
