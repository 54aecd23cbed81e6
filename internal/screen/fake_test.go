package screen

import (
	"context"
	"errors"
	"sync"

	"github.com/MrSnakeDoc/marquee/internal/domain"
)

var errNetwork = errors.New("connection refused")

// fakeCatalog answers from fixed maps. A term listed in gates blocks until
// its channel is closed, which lets tests reorder responses.
type fakeCatalog struct {
	mu       sync.Mutex
	results  map[string]domain.SearchResult
	details  map[string]domain.MovieDetail
	fail     bool
	gates    map[string]chan struct{}
	searches []string
	lookups  []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		results: make(map[string]domain.SearchResult),
		details: make(map[string]domain.MovieDetail),
		gates:   make(map[string]chan struct{}),
	}
}

func (f *fakeCatalog) gate(key string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[key] = ch
	return ch
}

func (f *fakeCatalog) wait(key string) {
	f.mu.Lock()
	ch := f.gates[key]
	f.mu.Unlock()
	if ch != nil {
		<-ch
	}
}

func (f *fakeCatalog) SearchTitles(_ context.Context, term string) (domain.SearchResult, error) {
	f.mu.Lock()
	f.searches = append(f.searches, term)
	f.mu.Unlock()

	f.wait(term)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return domain.SearchResult{}, errNetwork
	}
	if r, ok := f.results[term]; ok {
		return r, nil
	}
	return domain.SearchResult{NotFound: true, Message: "Movie not found!"}, nil
}

func (f *fakeCatalog) LookupByID(_ context.Context, id string) (domain.MovieDetail, error) {
	f.mu.Lock()
	f.lookups = append(f.lookups, id)
	f.mu.Unlock()

	f.wait(id)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return domain.MovieDetail{}, errNetwork
	}
	return f.details[id], nil
}

func (f *fakeCatalog) searchCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searches...)
}

func (f *fakeCatalog) lookupCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lookups...)
}
