package rest

import (
	"encoding/json"
	"net/http"

	"evault/core"
	"evault/handler/render"
	"evault/handler/views"
	"evault/service/system"

	"github.com/fox-one/pkg/logger"
)

func simulateHandler(sys *system.System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var batch core.Batch
		if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
			render.BadRequest(w, err)
			return
		}

		result, err := sys.Operations.Simulate(ctx, &batch)
		if err != nil {
			logger.FromContext(ctx).WithError(err).Debugln("simulate: bad batch")
			render.Error(w, err)
			return
		}

		render.JSON(w, views.NewSimulation(result))
	}
}
