package rest

import (
	"errors"
	"net/http"

	"evault/core"
	"evault/handler/render"
	"evault/service/system"
	"evault/service/vault"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi"
	"github.com/spf13/cast"
	"github.com/twitchtv/twirp"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Handle handle rest api request
func Handle(sys *system.System, events core.IEventStore, snapshots core.ISnapshotStore) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/vaults", listVaultsHandler(sys))
	router.Route("/vaults/{address}", func(r chi.Router) {
		r.Get("/", vaultHandler(sys))
		r.Get("/snapshots", vaultSnapshotsHandler(sys, snapshots))
		r.Get("/snapshots/latest", latestSnapshotHandler(sys, snapshots))
		r.Get("/events", vaultEventsHandler(sys, events))
	})

	router.Route("/accounts/{address}", func(r chi.Router) {
		r.Get("/", accountHandler(sys))
		r.Get("/liquidity", liquidityHandler(sys))
		r.Get("/events", accountEventsHandler(events))
	})

	router.Get("/liquidations", checkLiquidationHandler(sys))
	router.Post("/simulate", simulateHandler(sys))

	return router
}

func addressParam(r *http.Request) (common.Address, error) {
	addr, err := core.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		return common.Address{}, twirp.InvalidArgumentError("address", err.Error())
	}

	return addr, nil
}

func addressQuery(r *http.Request, key string) (common.Address, error) {
	addr, err := core.ParseAddress(r.URL.Query().Get(key))
	if err != nil {
		return common.Address{}, twirp.InvalidArgumentError(key, err.Error())
	}

	return addr, nil
}

func findVault(sys *system.System, addr common.Address) (*vault.Vault, error) {
	v, ok := sys.Vault(addr)
	if !ok {
		return nil, twirp.NotFoundError("vault not found")
	}

	return v, nil
}

func vaultParam(sys *system.System, r *http.Request) (*vault.Vault, error) {
	addr, err := addressParam(r)
	if err != nil {
		return nil, err
	}

	return findVault(sys, addr)
}

func limitQuery(r *http.Request) int {
	limit := cast.ToInt(r.URL.Query().Get("limit"))
	if limit <= 0 {
		return defaultLimit
	}

	if limit > maxLimit {
		return maxLimit
	}

	return limit
}

func fromQuery(r *http.Request) int64 {
	return cast.ToInt64(r.URL.Query().Get("from"))
}
