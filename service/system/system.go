package system

import (
	"context"
	"strings"
	"time"

	"evault/core"
	"evault/internal/compound"
	"evault/pkg/number"
	"evault/service/connector"
	"evault/service/operation"
	"evault/service/oracle"
	"evault/service/token"
	"evault/service/vault"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// DefaultUnitOfAccount ISO 4217 code of USD as an address
var DefaultUnitOfAccount = common.HexToAddress("0x0000000000000000000000000000000000000348")

// interest rate model kinds
const (
	RateModelZero  = "zero"
	RateModelFixed = "fixed"
	RateModelKink  = "linear_kink"
)

// System the vaults of one deployment, sharing a connector and an oracle
type System struct {
	UnitOfAccount common.Address
	Clock         core.IClock
	Oracle        core.IPriceOracle
	Connector     *connector.Connector
	Operations    *operation.Service

	tokens map[common.Address]*token.Token
	vaults map[common.Address]*vault.Vault
	order  []common.Address
}

// New build the vaults described by cfg. Genesis parameters go through the
// governance setters, so a config the governor could not set is rejected.
func New(ctx context.Context, cfg *core.Config, clock core.IClock, events core.IEventStore) (*System, error) {
	s := &System{
		UnitOfAccount: DefaultUnitOfAccount,
		Clock:         clock,
		Connector:     connector.New(clock, events),
		tokens:        map[common.Address]*token.Token{},
		vaults:        map[common.Address]*vault.Vault{},
	}

	if cfg.App.UnitOfAccount != "" {
		unit, err := core.ParseAddress(cfg.App.UnitOfAccount)
		if err != nil {
			return nil, errors.WithMessage(err, "unit of account")
		}
		s.UnitOfAccount = unit
	}

	var err error
	if s.Oracle, err = s.buildOracle(cfg.Oracle); err != nil {
		return nil, err
	}

	for _, t := range cfg.Tokens {
		if err := s.addToken(t); err != nil {
			return nil, errors.WithMessagef(err, "token %s", t.Symbol)
		}
	}

	for _, v := range cfg.Vaults {
		if err := s.addVault(v); err != nil {
			return nil, errors.WithMessagef(err, "vault %s", v.Address)
		}
	}

	// collaterals may be vaults listed later
	for _, v := range cfg.Vaults {
		if err := s.configureVault(ctx, v); err != nil {
			return nil, errors.WithMessagef(err, "vault %s", v.Address)
		}
	}

	for _, t := range cfg.Tokens {
		if t.ApproveVaults {
			s.approveVaults(core.MustParseAddress(t.Address), t.Balances)
		}
	}

	s.Operations = operation.New(s.Connector, s.Vaults()...)

	logger.FromContext(ctx).Infof("system: %d tokens, %d vaults", len(s.tokens), len(s.vaults))
	return s, nil
}

// Vault find vault by address
func (s *System) Vault(addr common.Address) (*vault.Vault, bool) {
	v, ok := s.vaults[addr]
	return v, ok
}

// Vaults all vaults in config order
func (s *System) Vaults() []*vault.Vault {
	vaults := make([]*vault.Vault, 0, len(s.order))
	for _, addr := range s.order {
		vaults = append(vaults, s.vaults[addr])
	}

	return vaults
}

// Token find underlying token by address
func (s *System) Token(addr common.Address) (*token.Token, bool) {
	t, ok := s.tokens[addr]
	return t, ok
}

func (s *System) buildOracle(cfg core.Oracle) (core.IPriceOracle, error) {
	prices := make(map[common.Address]string, len(cfg.Prices))
	for asset := range cfg.Prices {
		addr, err := core.ParseAddress(asset)
		if err != nil {
			return nil, errors.WithMessagef(err, "oracle price %s", asset)
		}
		prices[addr] = asset
	}

	if cfg.EndPoint == "" {
		static := oracle.NewStatic()
		for addr, asset := range prices {
			static.SetPrice(addr, cfg.Prices[asset])
		}

		return static, nil
	}

	remote := oracle.New(cfg.EndPoint, s.UnitOfAccount, time.Duration(cfg.TTLSeconds)*time.Second)
	for addr, asset := range prices {
		remote.Override(addr, cfg.Prices[asset])
	}

	return remote, nil
}

func (s *System) addToken(cfg core.Token) error {
	addr, err := core.ParseAddress(cfg.Address)
	if err != nil {
		return err
	}

	t := token.New(addr, cfg.Symbol)
	for holder, balance := range cfg.Balances {
		account, err := core.ParseAddress(holder)
		if err != nil {
			return errors.WithMessagef(err, "holder %s", holder)
		}

		amount, err := uint256.FromDecimal(balance)
		if err != nil {
			return errors.Wrapf(err, "balance of %s", holder)
		}

		t.Mint(account, amount)
	}

	s.tokens[addr] = t
	s.Connector.Register(t)
	return nil
}

func (s *System) addVault(cfg core.Vault) error {
	addr, err := core.ParseAddress(cfg.Address)
	if err != nil {
		return err
	}

	if _, ok := s.vaults[addr]; ok {
		return errors.WithMessage(core.ErrBadAddress, "duplicated vault")
	}

	assetAddr, err := core.ParseAddress(cfg.Asset)
	if err != nil {
		return errors.WithMessage(err, "asset")
	}

	asset, ok := s.tokens[assetAddr]
	if !ok {
		return errors.WithMessagef(core.ErrBadAddress, "asset %s is not a configured token", cfg.Asset)
	}

	var governor common.Address
	if cfg.Governor != "" {
		if governor, err = core.ParseAddress(cfg.Governor); err != nil {
			return errors.WithMessage(err, "governor")
		}
	}

	irm, err := RateModel(cfg.InterestRateModel)
	if err != nil {
		return err
	}

	v := vault.New(vault.Config{
		Address:       addr,
		UnitOfAccount: s.UnitOfAccount,
		Governor:      governor,
	}, asset, s.Connector, s.Oracle, irm, s.Clock)

	s.vaults[addr] = v
	s.order = append(s.order, addr)
	s.Connector.RegisterVault(v)
	return nil
}

func (s *System) approveVaults(asset common.Address, holders map[string]string) {
	t := s.tokens[asset]
	for _, v := range s.Vaults() {
		if v.Asset() != asset {
			continue
		}

		for holder := range holders {
			t.Approve(core.MustParseAddress(holder), v.Address(), number.MaxUint)
		}
	}
}

// RateModel build the interest rate model of cfg, nil for a zero rate
func RateModel(cfg core.RateModel) (core.IInterestRateModel, error) {
	switch strings.ToLower(cfg.Kind) {
	case "", RateModelZero:
		return nil, nil
	case RateModelFixed:
		return compound.NewFixedRateModel(compound.PerSecondRate(cfg.BaseRate)), nil
	case RateModelKink:
		return compound.NewJumpRateModel(cfg.BaseRate, cfg.Multiplier, cfg.JumpMultiplier, cfg.Kink), nil
	default:
		return nil, errors.Errorf("unknown interest rate model %q", cfg.Kind)
	}
}

func fraction(name string, d decimal.Decimal) (uint16, error) {
	v, ok := number.Fraction(d)
	if !ok {
		return 0, errors.WithMessagef(core.ErrConfigAmountTooLargeToEncode, "%s %s", name, d.String())
	}

	return v, nil
}

func parseCap(s string) (*uint256.Int, error) {
	if s == "" {
		return nil, nil
	}

	c, err := number.Parse(s)
	if err != nil {
		return nil, errors.Wrapf(err, "cap %q", s)
	}

	return c, nil
}

func optionalAddress(s string) (common.Address, error) {
	if s == "" {
		return common.Address{}, nil
	}

	return core.ParseAddress(s)
}

// configureVault apply the genesis parameters of cfg as its governor
func (s *System) configureVault(ctx context.Context, cfg core.Vault) error {
	v := s.vaults[core.MustParseAddress(cfg.Address)]
	gov := v.Governor()

	fee, err := fraction("interest fee", cfg.InterestFee)
	if err != nil {
		return err
	}

	if err := v.SetInterestFee(ctx, gov, fee); err != nil {
		return err
	}

	share, err := fraction("protocol fee share", cfg.ProtocolFeeShare)
	if err != nil {
		return err
	}

	if err := v.SetProtocolFeeShare(ctx, gov, share); err != nil {
		return err
	}

	if !cfg.MaxLiquidationDiscount.IsZero() {
		discount, err := fraction("max liquidation discount", cfg.MaxLiquidationDiscount)
		if err != nil {
			return err
		}

		if err := v.SetMaxLiquidationDiscount(ctx, gov, discount); err != nil {
			return err
		}
	}

	if !cfg.BorrowFactor.IsZero() {
		factor, ok := number.FromDecimal(cfg.BorrowFactor, 4)
		if !ok || !factor.IsUint64() || factor.Uint64() > 0xffff {
			return errors.WithMessagef(core.ErrConfigAmountTooLargeToEncode, "borrow factor %s", cfg.BorrowFactor)
		}

		if err := v.SetBorrowFactor(ctx, gov, uint16(factor.Uint64())); err != nil {
			return err
		}
	}

	feeReceiver, err := optionalAddress(cfg.FeeReceiver)
	if err != nil {
		return errors.WithMessage(err, "fee receiver")
	}

	protocolReceiver, err := optionalAddress(cfg.ProtocolFeeReceiver)
	if err != nil {
		return errors.WithMessage(err, "protocol fee receiver")
	}

	if err := v.SetFeeReceiver(ctx, gov, feeReceiver); err != nil {
		return err
	}

	if err := v.SetProtocolFeeReceiver(ctx, gov, protocolReceiver); err != nil {
		return err
	}

	supplyCap, err := parseCap(cfg.SupplyCap)
	if err != nil {
		return err
	}

	borrowCap, err := parseCap(cfg.BorrowCap)
	if err != nil {
		return err
	}

	if err := v.SetCaps(ctx, gov, supplyCap, borrowCap); err != nil {
		return err
	}

	var disabled core.Operation
	for _, name := range cfg.DisabledOps {
		op, ok := core.ParseOperation(name)
		if !ok {
			return errors.Errorf("unknown operation %q", name)
		}

		disabled |= op
	}

	if err := v.SetHookConfig(ctx, gov, nil, disabled); err != nil {
		return err
	}

	if cfg.DontSocializeDebt {
		if err := v.SetConfigFlags(ctx, gov, core.CfgDontSocializeDebt); err != nil {
			return err
		}
	}

	for _, ltv := range cfg.LTVs {
		collateral, err := core.ParseAddress(ltv.Collateral)
		if err != nil {
			return errors.WithMessage(err, "ltv collateral")
		}

		if _, ok := s.vaults[collateral]; !ok {
			return errors.WithMessagef(core.ErrBadAddress, "collateral %s is not a configured vault", ltv.Collateral)
		}

		value, err := fraction("ltv", ltv.LTV)
		if err != nil {
			return err
		}

		if err := v.SetLTV(ctx, gov, collateral, value, ltv.RampDuration); err != nil {
			return errors.WithMessagef(err, "ltv of %s", ltv.Collateral)
		}
	}

	return nil
}
