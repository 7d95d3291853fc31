// Command empirical-rx serves and manages a reference of empirical first-line treatments
// for common conditions, with a pediatric dose calculator and catalog exports.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giygas/empirical-rx/catalog"
	"github.com/giygas/empirical-rx/config"
	"github.com/giygas/empirical-rx/handlers"
	"github.com/giygas/empirical-rx/health"
	"github.com/giygas/empirical-rx/interfaces"
	"github.com/giygas/empirical-rx/logging"
	"github.com/giygas/empirical-rx/scheduler"
	"github.com/giygas/empirical-rx/server"
	"github.com/giygas/empirical-rx/storage"
	"github.com/giygas/empirical-rx/validation"
	"github.com/spf13/cobra"
)

const (
	openTimeout     = 10 * time.Second
	shutdownTimeout = 30 * time.Second
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "empirical-rx",
		Short:        "Empirical prescribing reference for common conditions",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("env-file", ".env", "Optional .env file to load before reading the environment")
	rootCmd.PersistentFlags().Bool("ephemeral", false, "Keep the catalog in memory only; nothing is persisted")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log at info level on the console")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(doseCmd())
	rootCmd.AddCommand(exportCmd())

	return rootCmd
}

// app holds what every catalog command needs
type app struct {
	cfg   *config.Config
	logs  *logging.LoggingService
	slot  interfaces.Slot
	store *catalog.Store
}

// bootstrap loads configuration, starts logging and opens the catalog. The
// server logs to files as well; other commands keep the console quiet because
// their output goes to stdout.
func bootstrap(cmd *cobra.Command, serving bool) (*app, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	ephemeral, _ := cmd.Flags().GetBool("ephemeral")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if ephemeral {
		cfg.StorageBackend = config.BackendMemory
	}

	opts := logging.Options{
		Env:            cfg.Env,
		Level:          cfg.LogLevel,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
		Verbose:        verbose,
	}
	if serving {
		opts.Dir = cfg.LogDir
	} else if !verbose {
		opts.Level = "error"
	}
	logs := logging.Init(opts)

	ctx, cancel := context.WithTimeout(cmd.Context(), openTimeout)
	defer cancel()

	slot, err := storage.Open(ctx, cfg)
	if err != nil {
		_ = logs.Close()
		return nil, err
	}

	store := catalog.NewStore(slot)
	store.Load(ctx)

	return &app{cfg: cfg, logs: logs, slot: slot, store: store}, nil
}

// Close releases the storage connection and flushes the log files
func (a *app) Close() {
	if err := a.slot.Close(); err != nil {
		logging.Warn("Failed to close storage", "slot", a.slot.Name(), "error", err)
	}
	_ = a.logs.Close()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the export scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()

			return runServer(a)
		},
	}
}

func runServer(a *app) error {
	exports := scheduler.NewScheduler(a.store, scheduler.Options{
		Dir:           a.cfg.ExportDir,
		At:            a.cfg.ExportSchedule,
		RetentionDays: a.cfg.ExportRetentionDays,
	})
	if err := exports.Start(); err != nil {
		logging.Error("Export snapshots disabled", "error", err)
	} else {
		defer exports.Stop()
	}

	handler := handlers.NewHTTPHandler(
		a.store,
		validation.NewDataValidator(),
		health.NewHealthChecker(a.store, a.slot),
		handlers.Options{
			AdminEnabled:  a.cfg.AdminEnabled,
			DrugSearchURL: a.cfg.DrugSearchURL,
		},
	)
	srv := server.NewServer(a.cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		logging.Info("Received shutdown signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(ctx)
}
