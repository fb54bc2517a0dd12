package token

import (
	"context"
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var (
	// ErrInsufficientBalance transfer amount exceeds balance
	ErrInsufficientBalance = errors.New("token: transfer amount exceeds balance")
	// ErrInsufficientAllowance transfer amount exceeds allowance
	ErrInsufficientAllowance = errors.New("token: insufficient allowance")
)

// Token in memory fungible token ledger
type Token struct {
	mu         sync.Mutex
	address    common.Address
	symbol     string
	supply     *uint256.Int
	balances   map[common.Address]*uint256.Int
	allowances map[common.Address]map[common.Address]*uint256.Int

	// BeforeTransfer runs before every transfer, a returned error aborts it
	BeforeTransfer func(ctx context.Context, from, to common.Address, amount *uint256.Int) error
}

type checkpoint struct {
	supply     *uint256.Int
	balances   map[common.Address]*uint256.Int
	allowances map[common.Address]map[common.Address]*uint256.Int
}

// New new token
func New(address common.Address, symbol string) *Token {
	return &Token{
		address:    address,
		symbol:     symbol,
		supply:     new(uint256.Int),
		balances:   map[common.Address]*uint256.Int{},
		allowances: map[common.Address]map[common.Address]*uint256.Int{},
	}
}

// Address token address
func (t *Token) Address() common.Address {
	return t.address
}

// Symbol token symbol
func (t *Token) Symbol() string {
	return t.symbol
}

// TotalSupply total minted
func (t *Token) TotalSupply() *uint256.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.supply.Clone()
}

// Mint credit amount to account
func (t *Token) Mint(to common.Address, amount *uint256.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.supply = new(uint256.Int).Add(t.supply, amount)
	t.balances[to] = new(uint256.Int).Add(t.balanceOf(to), amount)
}

// Approve set the allowance of spender over owner's tokens
func (t *Token) Approve(owner, spender common.Address, amount *uint256.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.allowances[owner] == nil {
		t.allowances[owner] = map[common.Address]*uint256.Int{}
	}

	t.allowances[owner][spender] = amount.Clone()
}

// Allowance remaining allowance
func (t *Token) Allowance(owner, spender common.Address) *uint256.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if a, ok := t.allowances[owner][spender]; ok {
		return a.Clone()
	}

	return new(uint256.Int)
}

// BalanceOf implements core.IToken
func (t *Token) BalanceOf(_ context.Context, account common.Address) (*uint256.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balanceOf(account).Clone(), nil
}

func (t *Token) balanceOf(account common.Address) *uint256.Int {
	if b, ok := t.balances[account]; ok {
		return b
	}

	return new(uint256.Int)
}

// Transfer implements core.IToken
func (t *Token) Transfer(ctx context.Context, from, to common.Address, amount *uint256.Int) error {
	if hook := t.BeforeTransfer; hook != nil {
		if err := hook(ctx, from, to, amount); err != nil {
			return err
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.move(from, to, amount)
}

// TransferFrom implements core.IToken
func (t *Token) TransferFrom(ctx context.Context, spender, from, to common.Address, amount *uint256.Int) error {
	if hook := t.BeforeTransfer; hook != nil {
		if err := hook(ctx, from, to, amount); err != nil {
			return err
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if spender != from {
		allowance, ok := t.allowances[from][spender]
		if !ok || allowance.Lt(amount) {
			return ErrInsufficientAllowance
		}

		if !allowance.Eq(new(uint256.Int).SetAllOne()) {
			t.allowances[from][spender] = new(uint256.Int).Sub(allowance, amount)
		}
	}

	return t.move(from, to, amount)
}

func (t *Token) move(from, to common.Address, amount *uint256.Int) error {
	balance := t.balanceOf(from)
	if balance.Lt(amount) {
		return ErrInsufficientBalance
	}

	t.balances[from] = new(uint256.Int).Sub(balance, amount)
	t.balances[to] = new(uint256.Int).Add(t.balanceOf(to), amount)
	return nil
}

// Checkpoint implements core.ISnapshotter
func (t *Token) Checkpoint() interface{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := &checkpoint{supply: t.supply, balances: t.balances, allowances: t.allowances}
	return c.clone()
}

// Rollback implements core.ISnapshotter
func (t *Token) Rollback(v interface{}) {
	c, ok := v.(*checkpoint)
	if !ok {
		return
	}

	c = c.clone()
	t.mu.Lock()
	t.supply = c.supply
	t.balances = c.balances
	t.allowances = c.allowances
	t.mu.Unlock()
}

func (c *checkpoint) clone() *checkpoint {
	n := &checkpoint{
		supply:     c.supply.Clone(),
		balances:   make(map[common.Address]*uint256.Int, len(c.balances)),
		allowances: make(map[common.Address]map[common.Address]*uint256.Int, len(c.allowances)),
	}

	for account, b := range c.balances {
		n.balances[account] = b.Clone()
	}

	for owner, m := range c.allowances {
		n.allowances[owner] = make(map[common.Address]*uint256.Int, len(m))
		for spender, a := range m {
			n.allowances[owner][spender] = a.Clone()
		}
	}

	return n
}
