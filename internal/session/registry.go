package session

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/marquee/internal/screen"
)

// entry is one browser session's live Search screen.
type entry struct {
	search   *screen.Search
	lastSeen time.Time
}

// Registry keeps the live Search screen of every browser session in memory.
// Screens are replaced on a fresh page load and unmounted when dropped.
type Registry struct {
	mu        sync.RWMutex
	sessions  map[string]*entry // session ID -> screen
	lastSweep time.Time         // Timestamp of last idle sweep
	now       func() time.Time
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

// Get returns the live screen of a session and marks it as seen
func (r *Registry) Get(id string) (*screen.Search, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.search, true
}

// Replace installs s as the session's screen. The previous screen, if any,
// is unmounted.
func (r *Registry) Replace(id string, s *screen.Search) {
	r.mu.Lock()
	prev, had := r.sessions[id]
	r.sessions[id] = &entry{search: s, lastSeen: r.now()}
	r.mu.Unlock()

	if had && prev.search != s {
		prev.search.Unmount()
	}
}

// GetOrCreate returns the session's screen, building and storing one with
// create when the session has none. created reports whether create ran.
func (r *Registry) GetOrCreate(id string, create func() *screen.Search) (s *screen.Search, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.sessions[id]; ok {
		e.lastSeen = r.now()
		return e.search, false
	}
	s = create()
	r.sessions[id] = &entry{search: s, lastSeen: r.now()}
	return s, true
}

// Count returns the number of live sessions
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// Sweep unmounts and drops every session not seen for longer than idle.
// It returns the dropped session IDs.
func (r *Registry) Sweep(idle time.Duration) []string {
	r.mu.Lock()
	now := r.now()
	var (
		dropped []string
		screens []*screen.Search
	)
	for id, e := range r.sessions {
		if now.Sub(e.lastSeen) < idle {
			continue
		}
		dropped = append(dropped, id)
		screens = append(screens, e.search)
		delete(r.sessions, id)
	}
	r.lastSweep = now
	r.mu.Unlock()

	for _, s := range screens {
		s.Unmount()
	}
	return dropped
}

// Close unmounts every screen. Used on shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range sessions {
		e.search.Unmount()
	}
}

// GetLastSweep returns the timestamp of the last idle sweep
func (r *Registry) GetLastSweep() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lastSweep
}
