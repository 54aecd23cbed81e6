// Package pages renders the two HTML views and serves their static assets.
package pages

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/MrSnakeDoc/marquee/internal/domain"
	"github.com/MrSnakeDoc/marquee/internal/screen"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var templates = template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))

// Tile is one search result card.
type Tile struct {
	ID     string
	Href   string
	Poster string
	Title  string
	Year   string
}

// SearchView is everything the list page renders.
type SearchView struct {
	Term          string
	Tiles         []Tile
	ShowNoResults bool
	SearchAction  string
	ClearAction   string
}

// NewSearchView projects a Search snapshot onto the list page. Tiles link
// to base+imdbID; "N/A" posters become placeholder.
func NewSearchView(base, placeholder string, st screen.SearchState) SearchView {
	tiles := make([]Tile, 0, len(st.Movies))
	for _, m := range st.Movies {
		tiles = append(tiles, Tile{
			ID:     m.ID,
			Href:   base + m.ID,
			Poster: m.PosterOr(placeholder),
			Title:  m.Title,
			Year:   m.Year,
		})
	}
	return SearchView{
		Term:          st.Term,
		Tiles:         tiles,
		ShowNoResults: st.NoResults && len(tiles) == 0,
		SearchAction:  base + "search",
		ClearAction:   base + "clear",
	}
}

// DetailView is everything the detail page renders. Fields are shown as
// returned by the service.
type DetailView struct {
	Back  string
	Movie domain.MovieDetail
}

// Render executes the named page into w with a 200 status. The page is
// rendered to a buffer first so a template error never sends half a page.
func Render(w http.ResponseWriter, name string, data any) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded assets. Mount it under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
