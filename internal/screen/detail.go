package screen

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/marquee/internal/domain"
	"github.com/MrSnakeDoc/marquee/internal/logger"
)

// Detail is the single record view for one identifier.
type Detail struct {
	ctx     context.Context
	catalog Catalog
	id      string
	log     logger.Logger

	mu        sync.Mutex
	movie     domain.MovieDetail
	mounted   bool
	unmounted bool

	hub hub[domain.MovieDetail]
}

// NewDetail builds an unmounted Detail screen for id. The id is used as-is,
// empty included.
func NewDetail(ctx context.Context, catalog Catalog, id string, log logger.Logger) *Detail {
	return &Detail{ctx: ctx, catalog: catalog, id: id, log: log}
}

// ID returns the identifier the screen was built for.
func (d *Detail) ID() string { return d.id }

// Mount runs once and issues the lookup. Whatever body comes back replaces
// the record, error object included. The channel closes once handled.
func (d *Detail) Mount() <-chan struct{} {
	d.mu.Lock()
	if d.mounted || d.unmounted {
		d.mu.Unlock()
		return closedChan()
	}
	d.mounted = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		d.run()
	}()
	return done
}

func (d *Detail) run() {
	start := time.Now()
	movie, err := d.catalog.LookupByID(d.ctx, d.id)
	if err != nil {
		d.log.Warn("lookup failed",
			logger.String("imdb_id", d.id),
			logger.Duration("took", time.Since(start)),
			logger.Error(err))
		return
	}

	d.mu.Lock()
	if d.unmounted {
		d.mu.Unlock()
		return
	}
	d.movie = movie
	d.mu.Unlock()

	d.log.Debug("lookup applied",
		logger.String("imdb_id", d.id),
		logger.Duration("took", time.Since(start)))

	d.hub.publish(d.Snapshot)
}

// Unmount detaches the screen; a late lookup response is dropped.
func (d *Detail) Unmount() {
	d.mu.Lock()
	d.unmounted = true
	d.mu.Unlock()
	d.hub.reset()
}

// Snapshot returns the current record. Before the first response it is empty.
func (d *Detail) Snapshot() domain.MovieDetail {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.movie
}

// Subscribe registers fn to receive the record after every change.
// The returned func unsubscribes.
func (d *Detail) Subscribe(fn func(domain.MovieDetail)) func() {
	return d.hub.subscribe(fn)
}
