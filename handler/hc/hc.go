package hc

import (
	"net/http"
	"time"

	"evault/handler/render"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Handle handle hc request, vaults reports the number of live vaults
func Handle(ver string, vaults func() int) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(ver, vaults))
	return r
}

func handle(version string, vaults func() int) http.HandlerFunc {
	b := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := time.Since(b).Truncate(time.Millisecond)
		render.JSON(w, render.H{
			"uptime":  uptime.String(),
			"version": version,
			"vaults":  vaults(),
		})
	}
}
