package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marquee/internal/app"
	"github.com/MrSnakeDoc/marquee/internal/config"
	"github.com/MrSnakeDoc/marquee/internal/logger"
	"github.com/MrSnakeDoc/marquee/internal/termstore"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "marquee",
	Short: "Movie search over the OMDb catalog.",
	Long: `marquee searches the OMDb movie catalog by title and shows full records.

Run without a subcommand to start the web front end. The last submitted
search term is remembered and restored the next time the list is opened.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML file of MARQUEE_* settings (environment wins)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "loglevel", "l", "", "Set log level. Available: debug, info, warn, error")
}

// loadConfig applies the global flags and reads the configuration.
func loadConfig() *config.Config {
	if cfgFile != "" {
		_ = os.Setenv("MARQUEE_CONFIG_FILE", cfgFile)
	}
	cfg := config.Load()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg
}

// session is what the terminal commands share: config, a file logger (the
// terminal itself is busy), the opened components and the scoped term store.
type session struct {
	cfg        *config.Config
	log        logger.Logger
	components *app.Components
	terms      termstore.Store
}

func openSession(ctx context.Context) (*session, error) {
	cfg := loadConfig()

	log, err := logger.NewToFile(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	components, err := app.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:        cfg,
		log:        log,
		components: components,
		terms:      termstore.Scope(components.Terms, cfg.TUISessionID),
	}, nil
}

func (s *session) Close() {
	s.components.Close()
	_ = s.log.Sync()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
