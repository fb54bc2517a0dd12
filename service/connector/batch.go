package connector

import (
	"context"

	"evault/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

func callItem(ctx context.Context, caller common.Address, item *core.BatchItem) (result *uint256.Int, err error) {
	if err := authorize(caller, item.OnBehalfOf); err != nil {
		return nil, err
	}

	err = guard(func() error {
		out, err := item.Call(ctx, item.OnBehalfOf)
		result = out
		return err
	})

	return result, err
}

// Batch execute items in order as one top level call, status checks run once at the end
func (c *Connector) Batch(ctx context.Context, caller common.Address, items []*core.BatchItem) error {
	return c.Run(ctx, func(ctx context.Context) error {
		for idx, item := range items {
			if _, err := callItem(ctx, caller, item); err != nil {
				return errors.WithMessagef(err, "batch item %d (%s)", idx, item.Name)
			}
		}

		return nil
	})
}

// Simulate execute items like Batch but report every item and status check outcome
// instead of failing, then discard all effects
func (c *Connector) Simulate(ctx context.Context, caller common.Address, items []*core.BatchItem) *core.SimulationResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := &frame{conn: c}
	ctx = context.WithValue(ctx, frameKey{}, f)
	start := c.checkpoint()
	defer func() {
		f.done = true
		c.rollback(start)
	}()

	result := &core.SimulationResult{}
	for _, item := range items {
		cp := c.checkpoint()
		saved := *f
		saved.accountChecks = append([]common.Address(nil), f.accountChecks...)
		saved.vaultChecks = append([]common.Address(nil), f.vaultChecks...)

		out, err := callItem(ctx, caller, item)
		r := &core.BatchItemResult{Name: item.Name, Err: err}
		if err != nil {
			c.rollback(cp)
			f.accountChecks = saved.accountChecks
			f.vaultChecks = saved.vaultChecks
			f.events = saved.events[:len(saved.events):len(saved.events)]
		} else if out != nil {
			r.Result = out.Dec()
		}

		result.Items = append(result.Items, r)
	}

	for _, addr := range f.accountChecks {
		result.Checks = append(result.Checks, &core.StatusCheckResult{
			Target: addr,
			Err:    guard(func() error { return c.checkAccountStatus(ctx, addr) }),
		})
	}

	for _, addr := range f.vaultChecks {
		r := &core.StatusCheckResult{Target: addr, Vault: true}
		if v, ok := c.vaults[addr]; ok {
			r.Err = guard(func() error { return v.CheckVaultStatus(ctx) })
		}

		result.Checks = append(result.Checks, r)
	}

	result.Events = f.events
	return result
}
