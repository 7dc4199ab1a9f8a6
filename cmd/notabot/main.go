// Package main provides the CLI entry point for the Notabot Telegram notes bot.
//
// Notabot lets each Telegram user keep a private list of notes through a
// guided conversation: a two-step add flow, inline-button list navigation,
// and button-driven view, edit, and delete.
//
// # Basic Usage
//
// Start the bot:
//
//	notabot serve --config notabot.yaml
//
// Prepare the database without starting the bot:
//
//	notabot migrate --config notabot.yaml
//
// # Environment Variables
//
//   - NOTABOT_CONFIG: Path to configuration file (default: notabot.yaml)
//   - TELEGRAM_BOT_TOKEN: Telegram bot token (fallback when the config
//     file omits it)
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/haasonsaas/notabot/internal/channels/telegram"
	"github.com/haasonsaas/notabot/internal/config"
	"github.com/haasonsaas/notabot/internal/conversation"
	"github.com/haasonsaas/notabot/internal/notes"
	"github.com/haasonsaas/notabot/internal/observability"
	"github.com/haasonsaas/notabot/internal/service"
	"github.com/haasonsaas/notabot/internal/sessions"
)

// Build information - populated by ldflags during build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "notabot",
		Short:        "Notabot - Telegram notes bot",
		Long:         "Notabot keeps per-user notes behind a guided Telegram conversation.",
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		buildServeCmd(),
		buildMigrateCmd(),
	)
	return rootCmd
}

func buildServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath(configPath))
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	return cmd
}

func buildMigrateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath(configPath))
			if err != nil {
				return err
			}

			store, err := notes.NewSQLiteStore(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer store.Close()

			if err := store.Migrate(); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("database ready: %s\n", cfg.Database.Path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	return cmd
}

func resolveConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("NOTABOT_CONFIG"); env != "" {
		return env
	}
	return "notabot.yaml"
}

func runServe(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := observability.NewLogger(observability.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	slog.SetDefault(logger)

	metrics := observability.NewMetrics()
	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.ListenAddr, logger); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	noteStore, err := notes.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open note store: %w", err)
	}
	defer noteStore.Close()

	sessionStore, closeSessions, err := buildSessionStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer closeSessions()

	adapter, err := telegram.NewAdapter(telegram.Config{
		Token:      cfg.Telegram.Token,
		Mode:       telegram.Mode(cfg.Telegram.Mode),
		WebhookURL: cfg.Telegram.WebhookURL,
		ListenAddr: cfg.Telegram.ListenAddr,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create telegram adapter: %w", err)
	}

	engine := conversation.NewEngine(noteStore, sessionStore, logger, metrics)
	svc := service.New(adapter, engine, sessionStore, service.SweepConfig{
		Schedule: cfg.Sessions.SweepSchedule,
		IdleTTL:  cfg.Sessions.IdleTTL,
	}, logger, metrics)

	logger.Info("starting notabot",
		"version", version,
		"mode", cfg.Telegram.Mode,
		"database", cfg.Database.Path,
		"sessions", cfg.Sessions.Backend)

	if err := svc.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// buildSessionStore picks the session backend from configuration. The
// sqlite backend keeps in-flight flows across restarts; memory is enough
// for a single short-lived process.
func buildSessionStore(cfg *config.Config) (sessions.Store, func(), error) {
	if cfg.Sessions.Backend == "sqlite" {
		store, err := sessions.NewSQLiteStore(cfg.Database.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}
	return sessions.NewMemoryStore(), func() {}, nil
}
