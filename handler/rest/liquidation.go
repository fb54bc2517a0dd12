package rest

import (
	"context"
	"net/http"

	"evault/handler/render"
	"evault/handler/views"
	"evault/service/system"
)

func checkLiquidationHandler(sys *system.System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vaultAddr, err := addressQuery(r, "vault")
		if err != nil {
			render.Error(w, err)
			return
		}

		liquidator, err := addressQuery(r, "liquidator")
		if err != nil {
			render.Error(w, err)
			return
		}

		violator, err := addressQuery(r, "violator")
		if err != nil {
			render.Error(w, err)
			return
		}

		collateral, err := addressQuery(r, "collateral")
		if err != nil {
			render.Error(w, err)
			return
		}

		v, err := findVault(sys, vaultAddr)
		if err != nil {
			render.Error(w, err)
			return
		}

		var view views.Liquidation
		if err := sys.Connector.View(r.Context(), func(ctx context.Context) error {
			maxRepay, maxYield, err := v.CheckLiquidation(ctx, liquidator, violator, collateral)
			if err != nil {
				return err
			}

			view.MaxRepay = maxRepay.Dec()
			view.MaxYield = maxYield.Dec()
			return nil
		}); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, view)
	}
}
