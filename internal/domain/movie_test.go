package domain

import "testing"

func TestPosterOr(t *testing.T) {
	const placeholder = "/static/movie_alt_pic.svg"

	tests := []struct {
		name     string
		poster   string
		expected string
	}{
		{name: "no image sentinel", poster: "N/A", expected: placeholder},
		{name: "real poster", poster: "https://m.media-amazon.com/images/M/x.jpg", expected: "https://m.media-amazon.com/images/M/x.jpg"},
		{name: "empty poster kept as-is", poster: "", expected: ""},
		{name: "sentinel is case sensitive", poster: "n/a", expected: "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MovieSummary{ID: "tt0372784", Title: "Batman Begins", Year: "2005", Poster: tt.poster}
			if got := m.PosterOr(placeholder); got != tt.expected {
				t.Errorf("PosterOr() = %q, want %q", got, tt.expected)
			}
		})
	}
}
