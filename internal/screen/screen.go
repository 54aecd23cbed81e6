// Package screen holds the state machines behind the two views: Search and
// Detail. They are front-end agnostic; the web pages and the terminal UI both
// drive them and render from their snapshots.
//
// Queries run in their own goroutine and apply their result later. Nothing
// cancels them: a response that lands after Unmount is dropped.
package screen

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/marquee/internal/domain"
)

// Catalog is the remote metadata service as seen by the screens.
type Catalog interface {
	SearchTitles(ctx context.Context, term string) (domain.SearchResult, error)
	LookupByID(ctx context.Context, id string) (domain.MovieDetail, error)
}

// hub fans state snapshots out to subscribers. Deliveries are serialized so a
// subscriber never sees an older snapshot after a newer one.
type hub[T any] struct {
	mu     sync.Mutex
	next   int
	subs   map[int]func(T)
	sendMu sync.Mutex
}

func (h *hub[T]) subscribe(fn func(T)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs == nil {
		h.subs = make(map[int]func(T))
	}
	id := h.next
	h.next++
	h.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// publish calls every subscriber with snap(). snap is evaluated while
// deliveries are serialized, so it must read the latest state.
func (h *hub[T]) publish(snap func() T) {
	h.sendMu.Lock()
	defer h.sendMu.Unlock()

	h.mu.Lock()
	fns := make([]func(T), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	if len(fns) == 0 {
		return
	}
	s := snap()
	for _, fn := range fns {
		fn(s)
	}
}

func (h *hub[T]) reset() {
	h.mu.Lock()
	h.subs = nil
	h.mu.Unlock()
}

func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
