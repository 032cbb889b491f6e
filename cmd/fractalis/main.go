package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"fractalis/internal/config"
	"fractalis/internal/coordinator"
	"fractalis/internal/logging"
	"fractalis/internal/store"
)

var (
	// Global flags
	configPath string
	sharedDir  string
	interval   string
	debug      bool

	// Logger for command-level errors; the daemon's own trail goes to the
	// categorized file logs.
	logger *zap.Logger

	cfg *config.Config
)

// rootCmd runs the coordinator daemon.
var rootCmd = &cobra.Command{
	Use:   "fractalis",
	Short: "fractalis - fractal ecosystem coordinator",
	Long: `fractalis coordinates a fractal ecosystem over a shared directory.

It watches the state files the mutator and explorer publish, scores
ecosystem health and activity each tick, schedules interventions through
its strategy roster, and forwards explorer recommendations to the mutator.

Run without arguments to start the coordination daemon.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if debug {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Flags beat both the file and the environment, but only when set.
		if cmd.Flags().Changed("shared") {
			cfg.Coordinator.SharedDir = sharedDir
		}
		if cmd.Flags().Changed("interval") {
			cfg.Coordinator.CoordinationInterval = interval
		}
		if debug {
			cfg.Coordinator.Debug = true
			cfg.Logging.Level = "debug"
		}

		return cfg.Validate()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runDaemon,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".fractalis/config.yaml", "Config file path")
	rootCmd.PersistentFlags().StringVar(&sharedDir, "shared", "./shared", "Shared directory the components communicate through")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&interval, "interval", "2s", "Coordination tick interval")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runDaemon starts the coordination loop and, when enabled, the shared
// directory watcher, and blocks until a signal arrives.
func runDaemon(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logging.Options{
		Enabled:    cfg.Logging.Enabled,
		Level:      cfg.Logging.Level,
		Dir:        cfg.Logging.Dir,
		Categories: cfg.Logging.Categories,
	}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.CloseAll()

	if err := logging.InitAudit(); err != nil {
		logger.Warn("Audit trail unavailable", zap.Error(err))
	}
	defer logging.CloseAudit()

	st, err := store.New(cfg.Coordinator.SharedDir)
	if err != nil {
		return fmt.Errorf("failed to open shared directory: %w", err)
	}

	coord := coordinator.New(cfg, st)
	logger.Info("Starting fractalis coordinator",
		zap.String("session", coord.SessionID()),
		zap.String("shared_dir", cfg.Coordinator.SharedDir),
		zap.Duration("interval", cfg.GetCoordinationInterval()))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Store.WatcherEnabled {
		watcher, err := store.NewStateWatcher(cfg.Coordinator.SharedDir, cfg.GetWatchDebounce(), func(path string) {
			logger.Debug("State file changed", zap.String("path", path))
		})
		if err != nil {
			// Advisory only; the coordinator polls regardless.
			logger.Warn("State watcher unavailable", zap.Error(err))
		} else {
			g.Go(func() error {
				if err := watcher.Start(gctx); err != nil {
					logger.Warn("State watcher failed to start", zap.Error(err))
					return nil
				}
				<-gctx.Done()
				watcher.Stop()
				return nil
			})
		}
	}

	g.Go(func() error {
		return coord.Run(gctx)
	})

	return g.Wait()
}
