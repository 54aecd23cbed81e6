package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marquee/internal/httpserver/pages"
	"github.com/MrSnakeDoc/marquee/internal/logger"
	"github.com/MrSnakeDoc/marquee/internal/screen"
	"github.com/MrSnakeDoc/marquee/internal/session"
)

// SearchPage is a page load: it mounts a fresh Search screen for the session,
// replacing the previous one, and renders once the restored search (if any)
// has been applied.
func SearchPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := session.IDFrom(r.Context())
		s := d.NewSearch(sid)
		d.Sessions.Replace(sid, s)

		if !waitFor(r.Context(), s.Mount()) {
			gaveUp(d, r, "restore search")
			return
		}
		renderSearch(w, d, s)
	}
}

// SubmitSearch applies the form's term to the session's screen and submits it.
func SubmitSearch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		s := liveSearch(d, session.IDFrom(r.Context()))

		s.InputChange(r.PostForm.Get("term"))
		if !waitFor(r.Context(), s.Submit()) {
			gaveUp(d, r, "title search")
			return
		}
		renderSearch(w, d, s)
	}
}

// ClearSearch clears the session's screen and renders it.
func ClearSearch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := liveSearch(d, session.IDFrom(r.Context()))
		s.Clear()
		renderSearch(w, d, s)
	}
}

// DetailPage mounts a Detail screen for the path identifier and renders it
// once the lookup has been handled. The screen lives for this request only.
func DetailPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "imdbID")
		sid := session.IDFrom(r.Context())
		// Reading a detail keeps the session's list screen from going idle.
		d.Sessions.Get(sid)

		dt := d.NewDetail(sid, id)
		defer dt.Unmount()

		if !waitFor(r.Context(), dt.Mount()) {
			gaveUp(d, r, "lookup")
			return
		}

		view := pages.DetailView{Back: d.BasePath, Movie: dt.Snapshot()}
		if err := pages.Render(w, "detail", view); err != nil {
			d.Logger.Error("failed to render detail page", logger.String("imdb_id", id), logger.Error(err))
		}
	}
}

// liveSearch returns the session's screen. A session without one (first
// request was a POST, or it was collected) gets a new screen that is not
// mounted, so no restored search races the action.
func liveSearch(d deps.Deps, sid string) *screen.Search {
	s, created := d.Sessions.GetOrCreate(sid, func() *screen.Search { return d.NewSearch(sid) })
	if created {
		d.Logger.Debug("no live screen for session, created one", logger.String("session_id", sid))
	}
	return s
}

func renderSearch(w http.ResponseWriter, d deps.Deps, s *screen.Search) {
	view := pages.NewSearchView(d.BasePath, d.PlaceholderPoster, s.Snapshot())
	if err := pages.Render(w, "search", view); err != nil {
		d.Logger.Error("failed to render search page", logger.Error(err))
	}
}

// waitFor blocks until the query is handled or the request gives up. It
// reports whether the query was handled in time.
func waitFor(ctx context.Context, done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

// gaveUp logs a request that ended before its query did. Nothing is written:
// the Timeout middleware answers 504 on deadline, and a cancelled client is
// gone. The screen still applies the late result for the next render.
func gaveUp(d deps.Deps, r *http.Request, what string) {
	d.Logger.Warn("request ended before "+what+" completed",
		logger.String("path", r.URL.Path),
		logger.String("session_id", session.IDFrom(r.Context())),
		logger.Error(r.Context().Err()))
}
