package connector

import (
	"context"
	"sync"

	"evault/core"
	"evault/pkg/id"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/yiplee/structs"
)

type (
	account struct {
		collaterals   []common.Address
		controller    common.Address
		hasController bool
	}

	// frame state of one top level call
	frame struct {
		conn          *Connector
		done          bool
		depth         int
		accountChecks []common.Address
		vaultChecks   []common.Address
		events        []*core.Event
	}

	checkpoint struct {
		accounts     map[common.Address]*account
		participants []interface{}
	}

	frameKey struct{}
)

// Connector account registry shared by vaults. It owns the collateral and controller
// sets of every account, defers account and vault status checks to the end of the
// top level call and makes each top level call all-or-nothing.
type Connector struct {
	mu           sync.Mutex
	clock        core.IClock
	events       core.IEventStore
	vaults       map[common.Address]core.IVault
	participants []core.ISnapshotter
	accounts     map[common.Address]*account
}

// New new connector, events may be nil
func New(clock core.IClock, events core.IEventStore) *Connector {
	return &Connector{
		clock:    clock,
		events:   events,
		vaults:   map[common.Address]core.IVault{},
		accounts: map[common.Address]*account{},
	}
}

// RegisterVault make vault known to the connector and part of every checkpoint
func (c *Connector) RegisterVault(v core.IVault) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vaults[v.Address()] = v
	c.participants = append(c.participants, v)
}

// Register make p part of every checkpoint, used for underlying tokens
func (c *Connector) Register(p core.ISnapshotter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.participants = append(c.participants, p)
}

// Vault implements core.IConnector
func (c *Connector) Vault(addr common.Address) (core.IVault, bool) {
	v, ok := c.vaults[addr]
	return v, ok
}

// Vaults all registered vault addresses
func (c *Connector) Vaults() []common.Address {
	addrs := make([]common.Address, 0, len(c.vaults))
	for addr := range c.vaults {
		addrs = append(addrs, addr)
	}

	return addrs
}

func (c *Connector) frameOf(ctx context.Context) *frame {
	f, ok := ctx.Value(frameKey{}).(*frame)
	if !ok || f.conn != c || f.done {
		return nil
	}

	return f
}

// Run implements core.IConnector
func (c *Connector) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if f := c.frameOf(ctx); f != nil {
		f.depth++
		defer func() { f.depth-- }()
		return fn(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	f := &frame{conn: c}
	ctx = context.WithValue(ctx, frameKey{}, f)
	cp := c.checkpoint()

	err := guard(func() error {
		if err := fn(ctx); err != nil {
			return err
		}

		return c.checkStatus(ctx, f)
	})
	f.done = true

	if err != nil {
		c.rollback(cp)
		callsTotal.WithLabelValues("revert", core.CodeOf(err).Name()).Inc()
		logger.FromContext(ctx).WithError(err).Debugln("call reverted")
		return err
	}

	callsTotal.WithLabelValues("commit", "").Inc()
	c.commit(ctx, f)
	return nil
}

// View run fn under the connector lock so that it sees no partial call
func (c *Connector) View(ctx context.Context, fn func(ctx context.Context) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return guard(func() error { return fn(ctx) })
}

func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()

	return fn()
}

func (c *Connector) commit(ctx context.Context, f *frame) {
	if len(f.events) == 0 || c.events == nil {
		return
	}

	log := logger.FromContext(ctx)
	batchID := id.NewBatchID()
	for _, e := range f.events {
		e.BatchID = batchID
		log.WithFields(logrus.Fields(structs.Map(e))).Debugln("event")
	}

	if err := c.events.Create(ctx, f.events); err != nil {
		log.WithError(err).Errorln("events.Create")
	}
}

func (c *Connector) checkStatus(ctx context.Context, f *frame) error {
	for _, addr := range f.accountChecks {
		if err := c.checkAccountStatus(ctx, addr); err != nil {
			return errors.WithMessagef(err, "account %s", addr.Hex())
		}
	}

	for _, addr := range f.vaultChecks {
		v, ok := c.vaults[addr]
		if !ok {
			continue
		}

		if err := v.CheckVaultStatus(ctx); err != nil {
			return errors.WithMessagef(err, "vault %s", addr.Hex())
		}
	}

	return nil
}

func (c *Connector) checkAccountStatus(ctx context.Context, addr common.Address) error {
	a, ok := c.accounts[addr]
	if !ok || !a.hasController {
		return nil
	}

	v, ok := c.vaults[a.controller]
	if !ok {
		return core.ErrNoLiability
	}

	return v.CheckAccountStatus(ctx, addr, append([]common.Address(nil), a.collaterals...))
}

func (c *Connector) checkpoint() *checkpoint {
	cp := &checkpoint{
		accounts:     make(map[common.Address]*account, len(c.accounts)),
		participants: make([]interface{}, len(c.participants)),
	}

	for addr, a := range c.accounts {
		cp.accounts[addr] = a.clone()
	}

	for i, p := range c.participants {
		cp.participants[i] = p.Checkpoint()
	}

	return cp
}

func (c *Connector) rollback(cp *checkpoint) {
	c.accounts = make(map[common.Address]*account, len(cp.accounts))
	for addr, a := range cp.accounts {
		c.accounts[addr] = a.clone()
	}

	for i, p := range c.participants {
		if i < len(cp.participants) {
			p.Rollback(cp.participants[i])
		}
	}
}

func (a *account) clone() *account {
	n := *a
	n.collaterals = append([]common.Address(nil), a.collaterals...)
	return &n
}
