package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/marquee/internal/logger"
	"github.com/MrSnakeDoc/marquee/internal/screen"
	"github.com/MrSnakeDoc/marquee/internal/session"
	"github.com/MrSnakeDoc/marquee/internal/termstore"
)

type Deps struct {
	Logger            logger.Logger
	StartTime         time.Time
	Version           string
	Commit            string
	BuildDate         string
	GoVersion         string
	AllowedHosts      []string          // Host headers allowed to access the server
	AllowedCIDRS      []string          // IPs allowed to access ops endpoints
	TrustProxy        bool              // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RequestTimeout    time.Duration     // per-request deadline set by the router
	AppContext        context.Context   // queries run under this, not the request context
	Catalog           screen.Catalog    // remote metadata service
	Terms             termstore.Store   // unscoped term store, scoped per session by handlers
	TermBackend       string            // memory | redis | sqlite | file
	TermKey           string            // fixed key holding the last search term
	Sessions          *session.Registry // live Search screens per browser session
	BasePath          string            // list view path, always "/" or "/x/"
	PlaceholderPoster string            // shown when a poster is "N/A"
	SessionCookie     string            // cookie carrying the session ID
	RateBurst         int               // search submissions allowed in a burst per client
	RatePerMinute     int               // search submissions refilled per minute per client
}

// SessionTerms is the term store as seen by one browser session.
func (d Deps) SessionTerms(sessionID string) termstore.Store {
	return termstore.Scope(d.Terms, sessionID)
}

// NewSearch builds an unmounted Search screen for a browser session.
func (d Deps) NewSearch(sessionID string) *screen.Search {
	return screen.NewSearch(d.AppContext, d.Catalog, d.SessionTerms(sessionID), d.TermKey,
		d.Logger.With(logger.String("session_id", sessionID)))
}

// NewDetail builds an unmounted Detail screen for id.
func (d Deps) NewDetail(sessionID, id string) *screen.Detail {
	return screen.NewDetail(d.AppContext, d.Catalog, id,
		d.Logger.With(logger.String("session_id", sessionID)))
}
