package operation

import (
	"context"

	"evault/core"
	"evault/pkg/number"
	"evault/service/vault"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Connector the connector calls the dispatcher drives
type Connector interface {
	Batch(ctx context.Context, caller common.Address, items []*core.BatchItem) error
	Simulate(ctx context.Context, caller common.Address, items []*core.BatchItem) *core.SimulationResult
	EnableCollateral(ctx context.Context, caller, account, vault common.Address) error
	DisableCollateral(ctx context.Context, caller, account, vault common.Address) error
	EnableController(ctx context.Context, caller, account, vault common.Address) error
}

// Service turn call requests into connector batch items
type Service struct {
	connector Connector
	vaults    map[common.Address]*vault.Vault
}

// New new operation service over vaults
func New(connector Connector, vaults ...*vault.Vault) *Service {
	s := &Service{
		connector: connector,
		vaults:    make(map[common.Address]*vault.Vault, len(vaults)),
	}

	for _, v := range vaults {
		s.vaults[v.Address()] = v
	}

	return s
}

// Batch execute b as one top level call
func (s *Service) Batch(ctx context.Context, b *core.Batch) error {
	caller, items, err := s.Items(b)
	if err != nil {
		return err
	}

	log := logger.FromContext(ctx).WithField("caller", caller.Hex())
	if err := s.connector.Batch(ctx, caller, items); err != nil {
		log.WithError(err).Infoln("batch reverted")
		return err
	}

	log.Debugf("batch of %d calls committed", len(items))
	return nil
}

// Simulate execute b and report the outcome of every call and status check, nothing is committed
func (s *Service) Simulate(ctx context.Context, b *core.Batch) (*core.SimulationResult, error) {
	caller, items, err := s.Items(b)
	if err != nil {
		return nil, err
	}

	return s.connector.Simulate(ctx, caller, items), nil
}

// Items parse the calls of b into batch items
func (s *Service) Items(b *core.Batch) (common.Address, []*core.BatchItem, error) {
	caller, err := core.ParseAddress(b.Caller)
	if err != nil {
		return common.Address{}, nil, errors.WithMessage(err, "caller")
	}

	items := make([]*core.BatchItem, 0, len(b.Calls))
	for idx, req := range b.Calls {
		item, err := s.item(caller, req)
		if err != nil {
			return common.Address{}, nil, errors.WithMessagef(err, "call %d (%s)", idx, req.Action)
		}

		items = append(items, item)
	}

	return caller, items, nil
}

type params struct {
	vault      *vault.Vault
	vaultAddr  common.Address
	onBehalfOf common.Address
	receiver   common.Address
	from       common.Address
	collateral common.Address
	amount     *uint256.Int
	minYield   *uint256.Int
}

func parseAddress(s string, fallback common.Address) (common.Address, error) {
	if s == "" {
		return fallback, nil
	}

	return core.ParseAddress(s)
}

func parseAmount(s string) (*uint256.Int, error) {
	if s == "" {
		return number.Zero(), nil
	}

	x, err := number.Parse(s)
	if err != nil {
		return nil, errors.Wrapf(err, "amount %q", s)
	}

	return x, nil
}

func (s *Service) parse(caller common.Address, req *core.CallRequest) (*params, error) {
	p := &params{}

	var err error
	if p.vaultAddr, err = core.ParseAddress(req.Vault); err != nil {
		return nil, errors.WithMessage(err, "vault")
	}

	v, ok := s.vaults[p.vaultAddr]
	if !ok {
		return nil, errors.WithMessagef(core.ErrBadAddress, "vault %s not found", p.vaultAddr.Hex())
	}
	p.vault = v

	if p.onBehalfOf, err = parseAddress(req.OnBehalfOf, caller); err != nil {
		return nil, errors.WithMessage(err, "on_behalf_of")
	}

	if p.receiver, err = parseAddress(req.Receiver, p.onBehalfOf); err != nil {
		return nil, errors.WithMessage(err, "receiver")
	}

	if p.from, err = parseAddress(req.From, p.onBehalfOf); err != nil {
		return nil, errors.WithMessage(err, "from")
	}

	if p.collateral, err = parseAddress(req.Collateral, common.Address{}); err != nil {
		return nil, errors.WithMessage(err, "collateral")
	}

	if p.amount, err = parseAmount(req.Amount); err != nil {
		return nil, err
	}

	if p.minYield, err = parseAmount(req.MinYield); err != nil {
		return nil, err
	}

	return p, nil
}

type call func(ctx context.Context, account common.Address) (*uint256.Int, error)

func noResult(fn func(ctx context.Context, account common.Address) error) call {
	return func(ctx context.Context, account common.Address) (*uint256.Int, error) {
		return nil, fn(ctx, account)
	}
}

func (s *Service) item(caller common.Address, req *core.CallRequest) (*core.BatchItem, error) {
	p, err := s.parse(caller, req)
	if err != nil {
		return nil, err
	}

	v := p.vault
	var fn call

	switch req.Action {
	case core.ActionDeposit:
		fn = func(ctx context.Context, account common.Address) (*uint256.Int, error) {
			return v.Deposit(ctx, account, p.amount, p.receiver)
		}
	case core.ActionMint:
		fn = func(ctx context.Context, account common.Address) (*uint256.Int, error) {
			return v.Mint(ctx, account, p.amount, p.receiver)
		}
	case core.ActionWithdraw:
		fn = func(ctx context.Context, account common.Address) (*uint256.Int, error) {
			return v.Withdraw(ctx, account, p.amount, p.receiver, p.from)
		}
	case core.ActionRedeem:
		fn = func(ctx context.Context, account common.Address) (*uint256.Int, error) {
			return v.Redeem(ctx, account, p.amount, p.receiver, p.from)
		}
	case core.ActionTransfer:
		fn = noResult(func(ctx context.Context, account common.Address) error {
			return v.Transfer(ctx, account, p.receiver, p.amount)
		})
	case core.ActionTransferFrom:
		fn = noResult(func(ctx context.Context, account common.Address) error {
			return v.TransferFrom(ctx, account, p.from, p.receiver, p.amount)
		})
	case core.ActionApprove:
		fn = noResult(func(ctx context.Context, account common.Address) error {
			return v.Approve(ctx, account, p.receiver, p.amount)
		})
	case core.ActionBorrow:
		fn = func(ctx context.Context, account common.Address) (*uint256.Int, error) {
			return v.Borrow(ctx, account, p.amount, p.receiver)
		}
	case core.ActionRepay:
		fn = func(ctx context.Context, account common.Address) (*uint256.Int, error) {
			return v.Repay(ctx, account, p.amount, p.receiver)
		}
	case core.ActionLoop:
		fn = func(ctx context.Context, account common.Address) (*uint256.Int, error) {
			return v.Loop(ctx, account, p.amount, p.receiver)
		}
	case core.ActionDeloop:
		fn = func(ctx context.Context, account common.Address) (*uint256.Int, error) {
			return v.Deloop(ctx, account, p.amount, p.from)
		}
	case core.ActionPullDebt:
		fn = func(ctx context.Context, account common.Address) (*uint256.Int, error) {
			return v.PullDebt(ctx, account, p.amount, p.from)
		}
	case core.ActionLiquidate:
		fn = func(ctx context.Context, account common.Address) (*uint256.Int, error) {
			_, yield, err := v.Liquidate(ctx, account, p.from, p.collateral, p.amount, p.minYield)
			return yield, err
		}
	case core.ActionConvertFees:
		fn = noResult(v.ConvertFees)
	case core.ActionTouch:
		fn = noResult(v.Touch)
	case core.ActionDisableController:
		fn = noResult(v.DisableController)
	case core.ActionEnableCollateral:
		fn = noResult(func(ctx context.Context, account common.Address) error {
			return s.connector.EnableCollateral(ctx, account, account, p.vaultAddr)
		})
	case core.ActionDisableCollateral:
		fn = noResult(func(ctx context.Context, account common.Address) error {
			return s.connector.DisableCollateral(ctx, account, account, p.vaultAddr)
		})
	case core.ActionEnableController:
		fn = noResult(func(ctx context.Context, account common.Address) error {
			return s.connector.EnableController(ctx, account, account, p.vaultAddr)
		})
	default:
		return nil, errors.Errorf("unknown action %q", req.Action)
	}

	return &core.BatchItem{
		Name:       req.Action,
		OnBehalfOf: p.onBehalfOf,
		Call:       fn,
	}, nil
}
