package core

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type (
	// BatchItem one call executed on behalf of an account inside a batch
	BatchItem struct {
		Name       string
		OnBehalfOf common.Address
		Call       func(ctx context.Context, onBehalfOf common.Address) (*uint256.Int, error)
	}

	// BatchItemResult outcome of a simulated item
	BatchItemResult struct {
		Name   string `json:"name"`
		Result string `json:"result,omitempty"`
		Err    error  `json:"-"`
	}

	// StatusCheckResult outcome of a deferred check in simulation
	StatusCheckResult struct {
		Target common.Address `json:"target"`
		Vault  bool           `json:"vault"`
		Err    error          `json:"-"`
	}

	// SimulationResult outcome of a simulated batch, never committed
	SimulationResult struct {
		Items  []*BatchItemResult   `json:"items"`
		Checks []*StatusCheckResult `json:"checks"`
		Events []*Event             `json:"events"`
	}
)

// IConnector account registry and deferred check coordinator shared by vaults
type IConnector interface {
	// Run execute fn as a top level call or, when already inside one, as a nested step
	Run(ctx context.Context, fn func(ctx context.Context) error) error

	RequireAccountStatusCheck(ctx context.Context, account common.Address)
	RequireVaultStatusCheck(ctx context.Context, vault common.Address)
	ForgiveAccountStatusCheck(ctx context.Context, account common.Address)
	IsAccountStatusCheckDeferred(ctx context.Context, account common.Address) bool

	Controller(account common.Address) (common.Address, bool)
	IsControllerEnabled(account, vault common.Address) bool
	Collaterals(account common.Address) []common.Address
	IsCollateralEnabled(account, collateral common.Address) bool
	ReleaseController(ctx context.Context, vault, account common.Address) error

	Vault(addr common.Address) (IVault, bool)
	Emit(ctx context.Context, event *Event)
}
