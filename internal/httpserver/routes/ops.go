package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marquee/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/marquee/internal/httpserver/mw"
)

func init() {
	Register(Group{
		Name: "ops",
		Middleware: func(d deps.Deps) []func(http.Handler) http.Handler {
			return []func(http.Handler) http.Handler{mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)}
		},
		Routes: func(r chi.Router, d deps.Deps) {
			r.Get("/healthz", handlers.Healthz(d))
			r.Get("/readyz", handlers.Readyz(d))
			r.Get("/infra", handlers.Infra(d))
		},
	})
}
