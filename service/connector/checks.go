package connector

import (
	"context"

	"evault/core"

	"github.com/ethereum/go-ethereum/common"
)

func appendUnique(list []common.Address, addr common.Address) []common.Address {
	for _, a := range list {
		if a == addr {
			return list
		}
	}

	return append(list, addr)
}

// RequireAccountStatusCheck implements core.IConnector
func (c *Connector) RequireAccountStatusCheck(ctx context.Context, account common.Address) {
	if f := c.frameOf(ctx); f != nil {
		f.accountChecks = appendUnique(f.accountChecks, account)
	}
}

// RequireVaultStatusCheck implements core.IConnector
func (c *Connector) RequireVaultStatusCheck(ctx context.Context, vault common.Address) {
	if f := c.frameOf(ctx); f != nil {
		f.vaultChecks = appendUnique(f.vaultChecks, vault)
	}
}

// ForgiveAccountStatusCheck implements core.IConnector
func (c *Connector) ForgiveAccountStatusCheck(ctx context.Context, account common.Address) {
	f := c.frameOf(ctx)
	if f == nil {
		return
	}

	for i, a := range f.accountChecks {
		if a == account {
			f.accountChecks = append(f.accountChecks[:i:i], f.accountChecks[i+1:]...)
			return
		}
	}
}

// IsAccountStatusCheckDeferred implements core.IConnector
func (c *Connector) IsAccountStatusCheckDeferred(ctx context.Context, account common.Address) bool {
	if f := c.frameOf(ctx); f != nil {
		for _, a := range f.accountChecks {
			if a == account {
				return true
			}
		}
	}

	return false
}

// Emit implements core.IConnector
func (c *Connector) Emit(ctx context.Context, event *core.Event) {
	f := c.frameOf(ctx)
	if f == nil {
		return
	}

	if event.Timestamp == 0 {
		event.Timestamp = c.clock.Now()
	}

	f.events = append(f.events, event)
}
