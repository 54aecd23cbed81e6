package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marquee/internal/termstore"
)

type componentStatus struct {
	OK        bool   `json:"ok"`
	Backend   string `json:"backend,omitempty"`
	Keys      *int   `json:"keys,omitempty"`
	Sessions  *int   `json:"sessions,omitempty"`
	LastSweep string `json:"last_sweep,omitempty"`
	Impact    string `json:"impact,omitempty"`
	Error     string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")

		sessions := d.Sessions.Count()
		lastSweep := d.Sessions.GetLastSweep()
		lastSweepStr := "never"
		if !lastSweep.IsZero() {
			lastSweepStr = lastSweep.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"term_store": checkTermStore(r.Context(), d),
			"sessions": {
				OK:        true,
				Sessions:  &sessions,
				LastSweep: lastSweepStr,
			},
			"catalog": {
				OK: d.Catalog != nil,
			},
		}

		response := infraResponse{
			Mode:       determineMode(components),
			Components: components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func determineMode(components map[string]componentStatus) string {
	if catalog, exists := components["catalog"]; exists && !catalog.OK {
		return "critical" // no catalog = nothing to search
	}

	// Term store down: searches still work, the last term is not remembered
	if terms, exists := components["term_store"]; exists && !terms.OK {
		return "degraded"
	}

	return "ok"
}

func checkTermStore(parent context.Context, d deps.Deps) componentStatus {
	st := componentStatus{Backend: d.TermBackend}
	if d.Terms == nil {
		st.Impact = "last-term-not-remembered"
		st.Error = "store not initialized"
		return st
	}

	if err := pingTerms(parent, d.Terms); err != nil {
		st.Impact = "last-term-not-remembered"
		st.Error = err.Error()
		return st
	}

	if l, ok := d.Terms.(termstore.Lister); ok {
		ctx, cancel := context.WithTimeout(parent, 2*time.Second)
		defer cancel()
		if keys, err := l.Keys(ctx); err == nil {
			n := len(keys)
			st.Keys = &n
		}
	}

	st.OK = true
	return st
}
