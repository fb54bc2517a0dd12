package rest

import (
	"context"
	"errors"
	"net/http"

	"evault/core"
	"evault/handler/render"
	"evault/handler/views"
	"evault/pkg/number"
	"evault/service/system"
	"evault/service/vault"

	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

func listVaultsHandler(sys *system.System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var items []*views.Vault
		_ = sys.Connector.View(r.Context(), func(ctx context.Context) error {
			for _, v := range sys.Vaults() {
				items = append(items, vaultView(ctx, v))
			}
			return nil
		})

		render.JSON(w, items)
	}
}

func vaultHandler(sys *system.System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := vaultParam(sys, r)
		if err != nil {
			render.Error(w, err)
			return
		}

		var view *views.Vault
		if err := sys.Connector.View(r.Context(), func(ctx context.Context) error {
			view = vaultView(ctx, v)
			return nil
		}); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, view)
	}
}

func vaultSnapshotsHandler(sys *system.System, snapshots core.ISnapshotStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := vaultParam(sys, r)
		if err != nil {
			render.Error(w, err)
			return
		}

		items, err := snapshots.List(r.Context(), v.Address().Hex(), limitQuery(r))
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, items)
	}
}

func latestSnapshotHandler(sys *system.System, snapshots core.ISnapshotStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := vaultParam(sys, r)
		if err != nil {
			render.Error(w, err)
			return
		}

		snapshot, err := snapshots.FindLatest(r.Context(), v.Address().Hex())
		if gorm.IsRecordNotFoundError(err) {
			render.NotFoundRequest(w, errors.New("no snapshot yet"))
			return
		} else if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, snapshot)
	}
}

func vaultEventsHandler(sys *system.System, events core.IEventStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := vaultParam(sys, r)
		if err != nil {
			render.Error(w, err)
			return
		}

		items, err := events.ListByVault(r.Context(), v.Address().Hex(), fromQuery(r), limitQuery(r))
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, items)
	}
}

func fraction(v uint16) decimal.Decimal {
	return decimal.NewFromInt(int64(v)).Div(decimal.NewFromInt(number.ConfigScale))
}

func vaultView(ctx context.Context, v *vault.Vault) *views.Vault {
	record := v.Record(ctx)
	cfg := v.Config()

	view := &views.Vault{
		Address:               v.Address().Hex(),
		Asset:                 v.Asset().Hex(),
		Governor:              cfg.Governor.Hex(),
		Cash:                  record.Cash,
		TotalShares:           record.TotalShares,
		TotalAssets:           record.TotalAssets,
		TotalBorrows:          record.TotalBorrows,
		AccumulatedFees:       record.AccumulatedFees,
		AccumulatedFeesAssets: v.AccumulatedFeesAssets(ctx).Dec(),
		InterestAccumulator:   record.InterestAccumulator,
		InterestRate:          v.InterestRate(ctx).Dec(),
		BorrowAPR:             record.BorrowAPR,
		UtilizationRate:       record.UtilizationRate,
		ExchangeRate:          record.ExchangeRate,
		InterestFee:           fraction(cfg.InterestFee),
		ProtocolFeeShare:      fraction(cfg.ProtocolFeeShare),
		MaxDiscount:           fraction(cfg.MaxLiquidationDiscount),
		BorrowFactor:          fraction(cfg.BorrowFactor),
		LTVs:                  []*views.LTV{},
	}

	supplyCap, borrowCap := v.Caps()
	if supplyCap != nil {
		view.SupplyCap = supplyCap.Dec()
	}
	if borrowCap != nil {
		view.BorrowCap = borrowCap.Dec()
	}

	for _, collateral := range v.LTVList() {
		view.LTVs = append(view.LTVs, &views.LTV{
			Collateral:  collateral.Hex(),
			Borrow:      fraction(v.LTVBorrow(collateral)),
			Liquidation: fraction(v.LTVLiquidation(collateral)),
		})
	}

	return view
}
