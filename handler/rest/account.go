package rest

import (
	"context"
	"net/http"

	"evault/core"
	"evault/handler/render"
	"evault/handler/views"
	"evault/service/system"

	"github.com/spf13/cast"
)

func accountHandler(sys *system.System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr, err := addressParam(r)
		if err != nil {
			render.Error(w, err)
			return
		}

		view := &views.Account{
			Address:     addr.Hex(),
			Collaterals: []string{},
			Positions:   []*views.Position{},
		}

		_ = sys.Connector.View(r.Context(), func(ctx context.Context) error {
			if controller, ok := sys.Connector.Controller(addr); ok {
				view.Controller = controller.Hex()
			}

			for _, c := range sys.Connector.Collaterals(addr) {
				view.Collaterals = append(view.Collaterals, c.Hex())
			}

			for _, v := range sys.Vaults() {
				shares := v.BalanceOf(addr)
				debt := v.DebtOf(ctx, addr)
				if shares.IsZero() && debt.IsZero() {
					continue
				}

				view.Positions = append(view.Positions, &views.Position{
					Vault:  v.Address().Hex(),
					Shares: shares.Dec(),
					Assets: v.ConvertToAssets(ctx, shares).Dec(),
					Debt:   debt.Dec(),
				})
			}

			return nil
		})

		render.JSON(w, view)
	}
}

func liquidityHandler(sys *system.System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr, err := addressParam(r)
		if err != nil {
			render.Error(w, err)
			return
		}

		liquidation := cast.ToBool(r.URL.Query().Get("liquidation"))
		view := &views.Liquidity{Collateral: "0", Liability: "0", Healthy: true}

		if err := sys.Connector.View(r.Context(), func(ctx context.Context) error {
			controller, ok := sys.Connector.Controller(addr)
			if !ok {
				return nil
			}

			v, err := findVault(sys, controller)
			if err != nil {
				return err
			}

			collateral, liability, err := v.AccountLiquidity(ctx, addr, liquidation)
			if err != nil {
				return err
			}

			view.Vault = controller.Hex()
			view.Collateral = collateral.Dec()
			view.Liability = liability.Dec()
			view.Healthy = !liability.Gt(collateral)
			return nil
		}); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, view)
	}
}

func accountEventsHandler(events core.IEventStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr, err := addressParam(r)
		if err != nil {
			render.Error(w, err)
			return
		}

		items, err := events.ListByAccount(r.Context(), addr.Hex(), fromQuery(r), limitQuery(r))
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, items)
	}
}
