package vault

import (
	"context"
	"sync"
	"testing"

	"evault/core"
	"evault/pkg/clock"
	"evault/pkg/number"
	"evault/service/connector"
	"evault/service/oracle"
	"evault/service/token"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	unitOfAccount = common.HexToAddress("0x00000000000000000000000000000000000003e8")
	governor      = common.HexToAddress("0x0000000000000000000000000000000000000a01")
	feeReceiver   = common.HexToAddress("0x0000000000000000000000000000000000000a02")
	alice         = common.HexToAddress("0x000000000000000000000000000000000000a11c")
	bob           = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	carol         = common.HexToAddress("0x00000000000000000000000000000000000ca201")
)

type memoryEvents struct {
	mu     sync.Mutex
	events []*core.Event
}

func (m *memoryEvents) Create(_ context.Context, events []*core.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *memoryEvents) ListByVault(context.Context, string, int64, int) ([]*core.Event, error) {
	return nil, nil
}

func (m *memoryEvents) ListByAccount(context.Context, string, int64, int) ([]*core.Event, error) {
	return nil, nil
}

func (m *memoryEvents) named(name string) []*core.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*core.Event
	for _, e := range m.events {
		if e.Name == name {
			out = append(out, e)
		}
	}

	return out
}

type env struct {
	t      *testing.T
	ctx    context.Context
	clock  *clock.Mock
	oracle *oracle.Static
	conn   *connector.Connector
	events *memoryEvents

	tst, tst2, tst3    *token.Token
	eTST, eTST2, eTST3 *Vault
}

// newEnv three vaults, eTST accepts eTST2 (ltv 0.3) and eTST3 (ltv 0.95) as collateral.
// TST 2.2, TST2 0.4, TST3 2.2
func newEnv(t *testing.T) *env {
	e := &env{
		t:      t,
		ctx:    context.Background(),
		clock:  clock.NewMock(1_700_000_000),
		oracle: oracle.NewStatic(),
		events: &memoryEvents{},
	}
	e.conn = connector.New(e.clock, e.events)

	e.tst, e.eTST = e.newVault("0x0000000000000000000000000000000000000001", "0x00000000000000000000000000000000000000e1", "TST")
	e.tst2, e.eTST2 = e.newVault("0x0000000000000000000000000000000000000002", "0x00000000000000000000000000000000000000e2", "TST2")
	e.tst3, e.eTST3 = e.newVault("0x0000000000000000000000000000000000000003", "0x00000000000000000000000000000000000000e3", "TST3")

	e.setPrice(e.tst, "2.2")
	e.setPrice(e.tst2, "0.4")
	e.setPrice(e.tst3, "2.2")

	require.NoError(t, e.eTST.SetLTV(e.ctx, governor, e.eTST2.Address(), 3_000, 0))
	require.NoError(t, e.eTST.SetLTV(e.ctx, governor, e.eTST3.Address(), 9_500, 0))
	return e
}

func (e *env) newVault(tokenAddr, vaultAddr, symbol string) (*token.Token, *Vault) {
	tk := token.New(common.HexToAddress(tokenAddr), symbol)
	v := New(Config{
		Address:       common.HexToAddress(vaultAddr),
		UnitOfAccount: unitOfAccount,
		Governor:      governor,
	}, tk, e.conn, e.oracle, nil, e.clock)

	e.conn.Register(tk)
	e.conn.RegisterVault(v)
	return tk, v
}

func (e *env) setPrice(tk *token.Token, price string) {
	e.oracle.SetPrice(tk.Address(), decimal.RequireFromString(price))
}

// fund mint amount of tk to account and approve every vault
func (e *env) fund(tk *token.Token, account common.Address, amount *uint256.Int) {
	tk.Mint(account, amount)
	for _, v := range []*Vault{e.eTST, e.eTST2, e.eTST3} {
		tk.Approve(account, v.Address(), number.MaxUint)
	}
}

func (e *env) deposit(v *Vault, tk *token.Token, account common.Address, amount *uint256.Int) {
	e.fund(tk, account, amount)
	_, err := v.Deposit(e.ctx, account, amount, account)
	require.NoError(e.t, err)
}

// borrowSetup alice supplies 10 TST, bob backs a 5 TST borrow with 100 TST2
func (e *env) borrowSetup() {
	e.borrowerSetup()
	_, err := e.eTST.Borrow(e.ctx, bob, ether("5"), bob)
	require.NoError(e.t, err)
}

func (e *env) borrowerSetup() {
	e.deposit(e.eTST, e.tst, alice, ether("10"))
	e.deposit(e.eTST2, e.tst2, bob, ether("100"))
	e.tst.Approve(bob, e.eTST.Address(), number.MaxUint)

	require.NoError(e.t, e.conn.EnableCollateral(e.ctx, bob, bob, e.eTST2.Address()))
	require.NoError(e.t, e.conn.EnableController(e.ctx, bob, bob, e.eTST.Address()))
}

// liquidatorSetup carol backs liquidations with 100 TST3
func (e *env) liquidatorSetup() {
	e.deposit(e.eTST3, e.tst3, carol, ether("100"))
	require.NoError(e.t, e.conn.EnableCollateral(e.ctx, carol, carol, e.eTST3.Address()))
	require.NoError(e.t, e.conn.EnableCollateral(e.ctx, carol, carol, e.eTST2.Address()))
	require.NoError(e.t, e.conn.EnableController(e.ctx, carol, carol, e.eTST.Address()))
}

func (e *env) tokenBalance(tk *token.Token, account common.Address) *uint256.Int {
	b, err := tk.BalanceOf(e.ctx, account)
	require.NoError(e.t, err)
	return b
}

// assertShareInvariant Σ balances == total shares
func (e *env) assertShareInvariant(v *Vault) {
	sum := number.Zero()
	for _, p := range v.state.Positions {
		sum.Add(sum, p.Shares)
	}

	require.Equal(e.t, v.state.TotalShares.Dec(), sum.Dec())
}

type hookFunc func(ctx context.Context, op core.Operation, caller common.Address) error

func (f hookFunc) OnOperation(ctx context.Context, op core.Operation, caller common.Address) error {
	return f(ctx, op, caller)
}

func ether(s string) *uint256.Int {
	x, ok := number.FromDecimal(decimal.RequireFromString(s), 18)
	if !ok {
		panic(s)
	}

	return x
}
