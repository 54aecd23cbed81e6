package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marquee/internal/httpserver/pages"
)

func init() {
	Register(Group{
		Name: "static",
		Routes: func(r chi.Router, _ deps.Deps) {
			r.Handle("/static/*", pages.Static())
			// Browsers ask for it on every page; without this it would hit the detail route.
			r.Get("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
		},
	})
}
