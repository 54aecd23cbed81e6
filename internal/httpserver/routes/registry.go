// Package routes assembles the router from named route groups. Each file
// registers its group from init; RegisterAll mounts them in name order.
package routes

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marquee/internal/logger"
)

// Group is a set of routes sharing middleware. Middleware builds the chain
// from deps, since most of it is configured at startup.
type Group struct {
	Name       string
	Middleware func(d deps.Deps) []func(http.Handler) http.Handler
	Routes     func(r chi.Router, d deps.Deps)
}

var groups = map[string]Group{}

// Register adds g. Names are unique.
func Register(g Group) {
	if _, dup := groups[g.Name]; dup {
		panic("routes: group registered twice: " + g.Name)
	}
	groups[g.Name] = g
}

// Names lists the registered groups in mount order.
func Names() []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterAll mounts every group on r. Called once from NewRouter.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, name := range Names() {
		g := groups[name]
		r.Group(func(sub chi.Router) {
			if g.Middleware != nil {
				sub.Use(g.Middleware(d)...)
			}
			g.Routes(sub, d)
		})
		d.Logger.Debug("route group mounted", logger.String("group", name))
	}
}
