// Package main is the rpgstat command line: it runs scenarios against the
// simulated host and inspects the leveling curve, stat tables and settings.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgstat/internal/config"
	"github.com/cory-johannsen/rpgstat/internal/game/dice"
	"github.com/cory-johannsen/rpgstat/internal/observability"
	"github.com/cory-johannsen/rpgstat/internal/simhost"
	"github.com/cory-johannsen/rpgstat/internal/storage/postgres"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "rpgstat",
	Short:         "RPG attribute progression engine",
	Long:          `rpgstat drives the attribute progression, stat modifier and power balancing core against a simulated host.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file (defaults and RPGSTAT_ env only when empty)")
	rootCmd.AddCommand(scenarioCmd, runCmd, curveCmd, statsCmd, overridesCmd)
}

// env is the state shared by commands that need a host.
type env struct {
	cfg      config.Config
	logger   *zap.Logger
	host     *simhost.Host
	settings *simhost.Settings
	pool     *postgres.Pool
}

func loadConfig() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("loading config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, logger, nil
}

// openEnv builds a host, applies persisted settings and, with postgres
// storage, restores saved progress.
func openEnv(ctx context.Context) (*env, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, logger: logger}

	e.host, err = simhost.New(cfg, dice.NewCryptoSource(), logger)
	if err != nil {
		return nil, err
	}
	e.settings, err = simhost.OpenSettings(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := e.host.LoadSettings(ctx, e.settings); err != nil {
		e.close()
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	if cfg.SimHost.Storage == "postgres" {
		e.pool, err = postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			e.close()
			return nil, err
		}
		if _, err := e.host.LoadProgress(ctx, postgres.NewProgressRepository(e.pool.DB())); err != nil {
			e.close()
			return nil, fmt.Errorf("loading progress: %w", err)
		}
	}
	return e, nil
}

// save persists settings and, with postgres storage, progress.
func (e *env) save(ctx context.Context) error {
	if err := e.host.SaveSettings(ctx, e.settings); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	if e.pool != nil {
		if err := e.host.SaveProgress(ctx, postgres.NewProgressRepository(e.pool.DB())); err != nil {
			return fmt.Errorf("saving progress: %w", err)
		}
	}
	return nil
}

func (e *env) close() {
	if e.settings != nil {
		e.settings.Close()
	}
	if e.pool != nil {
		e.pool.Close()
	}
	_ = e.logger.Sync()
}
