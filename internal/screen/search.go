package screen

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/marquee/internal/domain"
	"github.com/MrSnakeDoc/marquee/internal/logger"
	"github.com/MrSnakeDoc/marquee/internal/termstore"
)

// SearchState is a point-in-time copy of a Search screen.
type SearchState struct {
	Term      string
	Movies    []domain.MovieSummary
	NoResults bool
}

// Search is the list view: it owns the input term, issues title searches,
// and remembers the last submitted term in a term store.
type Search struct {
	ctx     context.Context
	catalog Catalog
	store   termstore.Store
	key     string
	log     logger.Logger

	// persistMu orders term store writes with the state changes that
	// caused them. Lock order: persistMu, then mu.
	persistMu sync.Mutex

	mu        sync.Mutex
	state     SearchState
	seq       uint64
	mounted   bool
	unmounted bool

	hub hub[SearchState]
}

// NewSearch builds an unmounted Search screen. Queries run under ctx, which
// outlives any single caller; key is the fixed term store key.
func NewSearch(ctx context.Context, catalog Catalog, store termstore.Store, key string, log logger.Logger) *Search {
	if key == "" {
		key = termstore.DefaultKey
	}
	return &Search{
		ctx:     ctx,
		catalog: catalog,
		store:   store,
		key:     key,
		log:     log,
		state:   SearchState{Movies: []domain.MovieSummary{}},
	}
}

// Mount runs once. It restores the persisted term and, when one is present
// and non-empty, submits it. The returned channel closes when that search
// has been applied (or immediately when there is nothing to do).
func (s *Search) Mount() <-chan struct{} {
	s.mu.Lock()
	if s.mounted || s.unmounted {
		s.mu.Unlock()
		return closedChan()
	}
	s.mounted = true
	s.mu.Unlock()

	term, ok, err := s.store.Get(s.ctx, s.key)
	if err != nil {
		s.log.Warn("failed to read search term", logger.String("key", s.key), logger.Error(err))
		return closedChan()
	}
	if !ok || term == "" {
		return closedChan()
	}

	s.log.Debug("restoring search term", logger.String("term", term))
	s.InputChange(term)
	return s.Submit()
}

// InputChange updates the term. It does not query.
func (s *Search) InputChange(text string) {
	s.mu.Lock()
	if s.unmounted {
		s.mu.Unlock()
		return
	}
	s.state.Term = text
	s.mu.Unlock()

	s.hub.publish(s.Snapshot)
}

// Submit persists the current term and issues a title search for it, as-is.
// The returned channel closes once the response has been handled.
//
// Only the latest submitted search may apply its result: a response that
// arrives after a newer Submit is dropped.
func (s *Search) Submit() <-chan struct{} {
	s.persistMu.Lock()
	s.mu.Lock()
	if s.unmounted {
		s.mu.Unlock()
		s.persistMu.Unlock()
		return closedChan()
	}
	term := s.state.Term
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	if err := s.store.Set(s.ctx, s.key, term); err != nil {
		s.log.Warn("failed to persist search term",
			logger.String("key", s.key),
			logger.String("term", term),
			logger.Error(err))
	}
	s.persistMu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.run(seq, term)
	}()
	return done
}

func (s *Search) run(seq uint64, term string) {
	start := time.Now()
	res, err := s.catalog.SearchTitles(s.ctx, term)
	if err != nil {
		s.log.Warn("title search failed",
			logger.String("term", term),
			logger.Duration("took", time.Since(start)),
			logger.Error(err))
		return
	}

	s.mu.Lock()
	switch {
	case s.unmounted:
		s.mu.Unlock()
		return
	case seq != s.seq:
		s.mu.Unlock()
		s.log.Debug("dropping stale search response",
			logger.String("term", term),
			logger.Uint64("seq", seq))
		return
	}
	if res.NotFound {
		s.state.Movies = []domain.MovieSummary{}
		s.state.NoResults = true
	} else {
		s.state.Movies = res.Movies
		if s.state.Movies == nil {
			s.state.Movies = []domain.MovieSummary{}
		}
		s.state.NoResults = false
	}
	s.mu.Unlock()

	s.log.Debug("title search applied",
		logger.String("term", term),
		logger.Int("results", len(res.Movies)),
		logger.Bool("not_found", res.NotFound),
		logger.Duration("took", time.Since(start)))

	s.hub.publish(s.Snapshot)
}

// Clear empties the term and the list and forgets the persisted term.
// NoResults keeps its value.
func (s *Search) Clear() {
	s.persistMu.Lock()
	s.mu.Lock()
	if s.unmounted {
		s.mu.Unlock()
		s.persistMu.Unlock()
		return
	}
	s.state.Term = ""
	s.state.Movies = []domain.MovieSummary{}
	s.mu.Unlock()

	if err := s.store.Remove(s.ctx, s.key); err != nil {
		s.log.Warn("failed to remove search term", logger.String("key", s.key), logger.Error(err))
	}
	s.persistMu.Unlock()

	s.hub.publish(s.Snapshot)
}

// Unmount detaches the screen. Pending responses become no-ops and
// subscribers are dropped.
func (s *Search) Unmount() {
	s.mu.Lock()
	s.unmounted = true
	s.mu.Unlock()
	s.hub.reset()
}

// Snapshot returns a copy of the current state.
func (s *Search) Snapshot() SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Movies = append([]domain.MovieSummary(nil), s.state.Movies...)
	return st
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned func unsubscribes.
func (s *Search) Subscribe(fn func(SearchState)) func() {
	return s.hub.subscribe(fn)
}
