package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/marquee/internal/config"
	"github.com/MrSnakeDoc/marquee/internal/httpserver"
	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marquee/internal/logger"
	"github.com/MrSnakeDoc/marquee/internal/scheduler"
	"github.com/MrSnakeDoc/marquee/internal/session"
	"github.com/MrSnakeDoc/marquee/internal/version"
)

// App is the web front end.
type App struct {
	cfg        *config.Config
	logger     logger.Logger
	server     *httpserver.Server
	components *Components
	sessions   *session.Registry
	gc         *scheduler.SessionCollector
	stopQuery  context.CancelFunc
}

func New(cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	// Open the term store early - fail fast if unavailable
	components, err := Open(context.Background(), cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	sessions := session.NewRegistry()

	gc := scheduler.NewSessionCollector(
		sessions,
		loggerClient,
		cfg.SessionGCInterval,
		cfg.SessionIdleTTL,
	)

	// Screen queries outlive the request that issued them; they stop at shutdown.
	queryCtx, stopQuery := context.WithCancel(context.Background())

	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		AllowedHosts:      cfg.AllowedHosts,
		AllowedCIDRS:      cfg.AllowedCIDRS,
		TrustProxy:        cfg.TrustProxy,
		RequestTimeout:    cfg.RequestTimeout,
		AppContext:        queryCtx,
		Catalog:           components.Catalog,
		Terms:             components.Terms,
		TermBackend:       components.Backend,
		TermKey:           cfg.TermKey,
		Sessions:          sessions,
		BasePath:          cfg.BasePath,
		PlaceholderPoster: cfg.PlaceholderPoster,
		SessionCookie:     cfg.SessionCookie,
		RateBurst:         cfg.RateBurst,
		RatePerMinute:     cfg.RatePerMinute,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:        cfg,
		logger:     loggerClient,
		server:     server,
		components: components,
		sessions:   sessions,
		gc:         gc,
		stopQuery:  stopQuery,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Marquee v%s on %s (base path %s)", version.Version, a.cfg.ListenPort, a.cfg.BasePath)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start idle session collector
	if err := a.gc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session collector: %w", err)
	}
	a.logger.Info("session collector started",
		logger.Duration("interval", a.cfg.SessionGCInterval),
		logger.Duration("idle_ttl", a.cfg.SessionIdleTTL))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.shutdownComponents()
		return err
	}

	// Stop session collector
	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.shutdownComponents()
	a.logger.Info("✅ Marquee stopped cleanly")
	return nil
}

// shutdownComponents unmounts live screens, abandons pending queries and
// closes the term store.
func (a *App) shutdownComponents() {
	a.sessions.Close()
	a.stopQuery()
	a.components.Close()
}
