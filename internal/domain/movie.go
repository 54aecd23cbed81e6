package domain

// NoPoster is the service's sentinel for "no image available".
const NoPoster = "N/A"

// MovieSummary is one entry of a title search.
//
// ID is the catalog identifier (imdbID), unique and stable across the service.
// It is the navigation key of the detail view.
type MovieSummary struct {
	ID     string `json:"imdbID"`
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Poster string `json:"Poster"`
}

// PosterOr returns the poster URL, or placeholder when the service reports no image.
func (m MovieSummary) PosterOr(placeholder string) string {
	if m.Poster == NoPoster {
		return placeholder
	}
	return m.Poster
}

// SearchResult is the outcome of a title search.
type SearchResult struct {
	// Movies is the result array in service order. Empty when NotFound.
	Movies []MovieSummary

	// NotFound is true when the service answered with its error indicator
	// ({"Response":"False","Error":"..."}) instead of results.
	NotFound bool

	// Message carries the service's Error text when NotFound.
	Message string
}

// MovieDetail is a single full record keyed by identifier.
//
// It mirrors the lookup response body verbatim: when the service answers with
// its error object the fields are simply blank.
type MovieDetail struct {
	ID       string `json:"imdbID"`
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	Poster   string `json:"Poster"`
	Plot     string `json:"Plot"`
	Released string `json:"Released"`
	Director string `json:"Director"`
	Actors   string `json:"Actors"`
	Awards   string `json:"Awards"`

	// Raw is the untouched response body.
	Raw []byte `json:"-"`
}

