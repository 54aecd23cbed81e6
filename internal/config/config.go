package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Term store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline enforced by the router (ex: 10s)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)
	LogFile   string // TUI log destination (stdout belongs to the terminal UI)

	BasePath          string        // list view path; detail view lives at <base>/<imdbID>
	PlaceholderPoster string        // asset shown when the service reports no poster
	SessionCookie     string        // cookie identifying a browser session
	SessionIdleTTL    time.Duration // idle sessions are unmounted after this long
	SessionGCInterval time.Duration // interval between idle session sweeps

	// OMDb
	OMDbURL      string        // ex: "https://www.omdbapi.com/"
	OMDbAPIKey   string        // required
	OMDbRetryMax int           // 0 = single attempt
	OMDbTimeout  time.Duration // 0 = no client timeout

	// Term store
	TermStore     string        // memory | redis | sqlite | file
	TermKey       string        // fixed key holding the last search term
	TermTTL       time.Duration // redis only, 0 = keep until cleared
	SQLitePath    string        // sqlite backend database file
	TermFile      string        // file backend TOML path
	TUISessionID  string        // scope used by the terminal UI and CLI one-shots
	RateBurst     int           // search submissions allowed in a burst per client
	RatePerMinute int           // search submissions refilled per minute per client

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict ops endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	if path := os.Getenv("MARQUEE_CONFIG_FILE"); path != "" {
		values, err := loadFile(path)
		if err != nil {
			panic(fmt.Sprintf("❌ FATAL: %v", err))
		}
		fileValues = values
	}

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("MARQUEE_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("MARQUEE_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("MARQUEE_REQUEST_TIMEOUT", 10*time.Second),

		// Logging
		LogLevel:  getenv("MARQUEE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("MARQUEE_PRETTY_LOG", true),
		LogFile:   getenv("MARQUEE_LOG_FILE", "/tmp/marquee.log"),

		// Pages
		BasePath:          normalizeBasePath(getenv("MARQUEE_BASE_PATH", "/")),
		PlaceholderPoster: getenv("MARQUEE_PLACEHOLDER_POSTER", "/static/movie_alt_pic.svg"),
		SessionCookie:     getenv("MARQUEE_SESSION_COOKIE", "marquee_session"),
		SessionIdleTTL:    mustDuration("MARQUEE_SESSION_IDLE_TTL", 30*time.Minute),
		SessionGCInterval: mustDuration("MARQUEE_SESSION_GC_INTERVAL", 5*time.Minute),

		// OMDb
		OMDbURL:      getenv("MARQUEE_OMDB_URL", "https://www.omdbapi.com/"),
		OMDbAPIKey:   requireEnv("MARQUEE_OMDB_API_KEY"),
		OMDbRetryMax: getenvInt("MARQUEE_OMDB_RETRY_MAX", 0),
		OMDbTimeout:  mustDuration("MARQUEE_OMDB_TIMEOUT", 0),

		// Term store
		TermStore:     strings.ToLower(getenv("MARQUEE_TERM_STORE", BackendMemory)),
		TermKey:       getenv("MARQUEE_TERM_KEY", "searchTerm"),
		TermTTL:       mustDuration("MARQUEE_TERM_TTL", 0),
		SQLitePath:    getenv("MARQUEE_SQLITE_PATH", "~/.local/share/marquee/terms.db"),
		TermFile:      getenv("MARQUEE_TERM_FILE", "~/.config/marquee/terms.toml"),
		TUISessionID:  getenv("MARQUEE_TUI_SESSION", "local"),
		RateBurst:     getenvInt("MARQUEE_RATE_BURST", 20),
		RatePerMinute: getenvInt("MARQUEE_RATE_PER_MINUTE", 60),

		// Redis settings
		RedisAddr:             getenv("MARQUEE_REDIS_ADDR", "localhost:6379"),
		RedisUser:             getenv("MARQUEE_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("MARQUEE_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("MARQUEE_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("MARQUEE_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("MARQUEE_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("MARQUEE_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("MARQUEE_TRUST_PROXY", false),
	}

	switch cfg.TermStore {
	case BackendMemory, BackendRedis, BackendSQLite, BackendFile:
	default:
		panic(fmt.Sprintf("❌ FATAL: MARQUEE_TERM_STORE must be one of memory, redis, sqlite, file (got %q)", cfg.TermStore))
	}

	// Validate Redis password configuration
	if cfg.TermStore == BackendRedis && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: MARQUEE_REDIS_PASSWORD is required when MARQUEE_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.OMDbAPIKey = "***REDACTED***"
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := lookupEnv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := lookupEnv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := lookupEnv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := lookupEnv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := lookupEnv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// normalizeBasePath makes the list view path absolute with a trailing slash,
// so detail links are always base + imdbID.
// Examples: "" -> "/", "movies" -> "/movies/", "/movies/" -> "/movies/"
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.Trim(p, "/")
	if p == "" {
		return "/"
	}
	return "/" + p + "/"
}
