package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leengari/secindex/internal/config"
	"github.com/leengari/secindex/internal/engine"
	"github.com/leengari/secindex/internal/logging"
	"github.com/leengari/secindex/internal/storage/manager"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "secidx",
	Short:         "Ordered compound secondary indexes with a query shell and server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRepl,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (YAML, TOML or JSON)")
	rootCmd.AddCommand(replCmd, serveCmd, inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is the state shared by the repl and serve commands
type app struct {
	cfg      *config.Config
	registry *manager.Registry
	engine   *engine.Engine
	closeLog func()
}

func setup() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger, closeLog := logging.SetupLogger(os.Stderr, level, cfg.Log.SeqURL)
	slog.SetDefault(logger)

	registry := manager.NewRegistry(cfg.Data.Dir, cfg.Query.CacheSize)
	if cfg.Data.LoadOnStart {
		if err := registry.LoadAll(); err != nil {
			// damaged snapshots are logged and skipped
			slog.Warn("some indexes could not be loaded", "error", err)
		}
	}

	eng := engine.New(registry)
	eng.AddObserver(engine.NewLoggingObserver())

	slog.Info("application ready", "data_dir", cfg.Data.Dir, "indexes", len(registry.List()))
	return &app{cfg: cfg, registry: registry, engine: eng, closeLog: closeLog}, nil
}

func (a *app) shutdown() {
	if a.cfg.Data.SaveOnExit {
		slog.Info("shutting down - saving indexes...")
		if err := a.registry.SaveAll(); err != nil {
			slog.Error("shutdown save failed", "error", err)
		}
	}
	a.registry.CloseAll()
	a.closeLog()
}
