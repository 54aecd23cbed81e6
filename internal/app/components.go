package app

import (
	"context"
	"fmt"
	"io"

	"github.com/MrSnakeDoc/marquee/internal/config"
	"github.com/MrSnakeDoc/marquee/internal/logger"
	"github.com/MrSnakeDoc/marquee/internal/omdb"
	"github.com/MrSnakeDoc/marquee/internal/redis"
	filestore "github.com/MrSnakeDoc/marquee/internal/store/file"
	redisstore "github.com/MrSnakeDoc/marquee/internal/store/redis"
	sqlitestore "github.com/MrSnakeDoc/marquee/internal/store/sqlite"
	"github.com/MrSnakeDoc/marquee/internal/termstore"
	"github.com/MrSnakeDoc/marquee/internal/utils"
	"github.com/MrSnakeDoc/marquee/internal/version"
)

// Components are the pieces every front end shares: the catalog and the term store.
type Components struct {
	Catalog *omdb.Client
	Terms   termstore.Store
	Backend string

	closeTerms io.Closer
	logger     logger.Logger
}

// Open builds the catalog client and opens the configured term store.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (*Components, error) {
	catalog, err := NewCatalog(cfg, log)
	if err != nil {
		return nil, err
	}

	terms, closeTerms, err := OpenTermStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &Components{
		Catalog:    catalog,
		Terms:      terms,
		Backend:    cfg.TermStore,
		closeTerms: closeTerms,
		logger:     log,
	}, nil
}

// Close releases the term store.
func (c *Components) Close() {
	if c.closeTerms == nil {
		return
	}
	utils.CloseLogged(c.closeTerms, c.Backend+" term store", c.logger)
}

// NewCatalog builds the OMDb client from config.
func NewCatalog(cfg *config.Config, log logger.Logger) (*omdb.Client, error) {
	c, err := omdb.NewClient(omdb.Options{
		BaseURL:   cfg.OMDbURL,
		APIKey:    cfg.OMDbAPIKey,
		RetryMax:  cfg.OMDbRetryMax,
		Timeout:   cfg.OMDbTimeout,
		UserAgent: "marquee/" + version.Version,
	}, log.With(logger.String("component", "omdb")))
	if err != nil {
		return nil, fmt.Errorf("failed to build omdb client: %w", err)
	}
	return c, nil
}

// OpenTermStore opens the backend named by cfg.TermStore. The returned closer
// releases it and may be nil.
func OpenTermStore(ctx context.Context, cfg *config.Config, log logger.Logger) (termstore.Store, io.Closer, error) {
	switch cfg.TermStore {
	case config.BackendMemory:
		log.Info("term store: memory (terms are lost on restart)")
		return termstore.NewMemory(), nil, nil

	case config.BackendRedis:
		client, err := redis.Connect(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("term store: redis", logger.String("addr", cfg.RedisAddr), logger.Duration("ttl", cfg.TermTTL))
		return redisstore.NewStore(client, cfg.TermTTL), client, nil

	case config.BackendSQLite:
		s, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite term store: %w", err)
		}
		log.Info("term store: sqlite", logger.String("path", cfg.SQLitePath))
		return s, s, nil

	case config.BackendFile:
		s, err := filestore.Open(cfg.TermFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open term file: %w", err)
		}
		log.Info("term store: file", logger.String("path", s.Path()))
		return s, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown term store backend %q", cfg.TermStore)
}
