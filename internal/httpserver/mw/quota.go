package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/marquee/internal/logger"
	"github.com/MrSnakeDoc/marquee/internal/session"
	"github.com/MrSnakeDoc/marquee/internal/utils"
)

// QuotaConfig sizes the per-client allowance of catalog queries. Every
// search submission costs one query against the shared API key.
type QuotaConfig struct {
	Burst      int           // queries a client may issue back to back
	PerMinute  int           // queries a client regains per minute
	MaxClients int           // tracked clients before idle ones are dropped early (0 = no cap)
	IdleTTL    time.Duration // forget a client after this long without queries
	TrustProxy bool          // resolve the client from proxy headers
	Logger     logger.Logger
}

type allowance struct {
	left    float64
	updated time.Time
}

// quota is a token bucket per client IP behind a single lock.
type quota struct {
	cfg       QuotaConfig
	clients   map[string]*allowance
	lastSweep time.Time
	now       func() time.Time

	mu sync.Mutex
}

func newQuota(cfg QuotaConfig) *quota {
	cfg.Burst = max(cfg.Burst, 1)
	cfg.PerMinute = max(cfg.PerMinute, 1)
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	return &quota{
		cfg:       cfg,
		clients:   make(map[string]*allowance),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// take spends one query for client. When none is left it reports how long
// until the next one is regained.
func (q *quota) take(client string) (ok bool, left int, wait time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	if now.Sub(q.lastSweep) >= q.cfg.IdleTTL || (q.cfg.MaxClients > 0 && len(q.clients) >= q.cfg.MaxClients) {
		q.sweep(now)
	}

	a, found := q.clients[client]
	if !found {
		a = &allowance{left: float64(q.cfg.Burst), updated: now}
		q.clients[client] = a
	}
	perMinute := float64(q.cfg.PerMinute)
	if elapsed := now.Sub(a.updated).Seconds(); elapsed > 0 {
		a.left = math.Min(float64(q.cfg.Burst), a.left+elapsed*perMinute/60)
	}
	a.updated = now

	if a.left < 1 {
		secs := math.Ceil((1 - a.left) * 60 / perMinute)
		return false, 0, time.Duration(secs) * time.Second
	}
	a.left--
	return true, int(a.left), 0
}

// sweep forgets clients idle for longer than IdleTTL. Callers hold mu.
func (q *quota) sweep(now time.Time) {
	for client, a := range q.clients {
		if now.Sub(a.updated) > q.cfg.IdleTTL {
			delete(q.clients, client)
		}
	}
	q.lastSweep = now
}

// CatalogQuota rejects requests with 429 once a client has used up its
// allowance of catalog queries.
func CatalogQuota(cfg QuotaConfig) func(http.Handler) http.Handler {
	q := newQuota(cfg)
	limit := strconv.Itoa(q.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := utils.ClientIP(r, q.cfg.TrustProxy)

			ok, left, wait := q.take(client)
			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(left))
			if !ok {
				q.cfg.Logger.Warn("catalog quota exhausted",
					logger.String("client_ip", client),
					logger.String("session_id", session.IDFrom(r.Context())),
					logger.Duration("retry_after", wait))
				w.Header().Set("Retry-After", strconv.Itoa(int(wait/time.Second)))
				http.Error(w, "too many searches, try again shortly", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
