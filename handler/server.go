package handler

import (
	"net/http"

	"evault/core"
	"evault/handler/hc"
	"evault/handler/render"
	"evault/handler/rest"
	"evault/service/system"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twitchtv/twirp"
)

// Server server
type Server struct {
	sys       *system.System
	events    core.IEventStore
	snapshots core.ISnapshotStore
}

// New new server function
func New(
	sys *system.System,
	events core.IEventStore,
	snapshots core.ISnapshotStore,
) Server {
	return Server{
		sys:       sys,
		events:    events,
		snapshots: snapshots,
	}
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(render.WrapResponse)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, twirp.NotFoundError("not found"))
	})

	r.Mount("/", rest.Handle(s.sys, s.events, s.snapshots))
	return r
}

// HandleHC health check
func (s Server) HandleHC(version string) http.Handler {
	return hc.Handle(version, func() int { return len(s.sys.Vaults()) })
}

// HandleMetrics prometheus metrics
func (s Server) HandleMetrics() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", promhttp.Handler())
	return r
}
