package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marquee/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/marquee/internal/httpserver/mw"
)

func init() {
	Register(Group{
		Name: "pages",
		Middleware: func(d deps.Deps) []func(http.Handler) http.Handler {
			return []func(http.Handler) http.Handler{mw.EnforceHost(d.AllowedHosts, d.Logger)}
		},
		Routes: registerPages,
	})
}

func registerPages(r chi.Router, d deps.Deps) {
	base := d.BasePath

	r.Get(base, handlers.SearchPage(d))
	r.With(mw.CatalogQuota(mw.QuotaConfig{
		Burst:      d.RateBurst,
		PerMinute:  d.RatePerMinute,
		MaxClients: 10000,
		TrustProxy: d.TrustProxy,
		Logger:     d.Logger,
	})).Post(base+"search", handlers.SubmitSearch(d))
	r.Post(base+"clear", handlers.ClearSearch(d))
	r.Get(base+"{imdbID}", handlers.DetailPage(d))

	if base != "/" {
		bare := strings.TrimSuffix(base, "/")
		r.Get(bare, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, base, http.StatusMovedPermanently)
		})
	}
}
