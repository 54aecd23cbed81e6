package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/marquee/internal/logger"
	"github.com/MrSnakeDoc/marquee/internal/session"
)

const (
	// DefaultIdleTTL is how long a browser session may stay silent before its screen is dropped
	DefaultIdleTTL = 30 * time.Minute
)

// SessionCollector unmounts the Search screens of idle browser sessions
type SessionCollector struct {
	sessions *session.Registry
	logger   logger.Logger
	interval time.Duration
	idle     time.Duration
	stopCh   chan struct{}
}

// NewSessionCollector creates a new idle session collector
func NewSessionCollector(
	sessions *session.Registry,
	log logger.Logger,
	interval time.Duration,
	idle time.Duration,
) *SessionCollector {
	if idle == 0 {
		idle = DefaultIdleTTL
	}

	return &SessionCollector{
		sessions: sessions,
		logger:   log,
		interval: interval,
		idle:     idle,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (c *SessionCollector) Start(ctx context.Context) error {
	c.Collect(ctx)

	ticker := time.NewTicker(c.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Collect(ctx)
			case <-c.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the collector
func (c *SessionCollector) Stop() {
	close(c.stopCh)
}

// Collect drops every session idle for longer than the threshold
func (c *SessionCollector) Collect(_ context.Context) {
	dropped := c.sessions.Sweep(c.idle)

	if len(dropped) > 0 {
		c.logger.Info("idle sessions collected",
			logger.Int("dropped", len(dropped)),
			logger.Int("remaining", c.sessions.Count()),
			logger.Duration("idle_ttl", c.idle))
	} else {
		c.logger.Debug("no idle sessions to collect")
	}
}
