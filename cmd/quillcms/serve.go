// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuillCMS Contributors

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quillcms/quillcms/internal/config"
	"github.com/quillcms/quillcms/internal/events"
	"github.com/quillcms/quillcms/internal/logging"
	"github.com/quillcms/quillcms/internal/modules/audit"
	"github.com/quillcms/quillcms/internal/modules/sitemap"
	"github.com/quillcms/quillcms/internal/observability"
	"github.com/quillcms/quillcms/internal/plugin"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the QuillCMS server",
		Long: `Start the QuillCMS server: discover modules from the modules
directory, boot them in dependency order, and serve HTTP.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(resolveConfigFile(), cmd.Flags())
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	// Flag keys mirror config file paths so posflag can layer them.
	cmd.Flags().String("modules.dir", config.Default().Modules.Dir, "modules directory")
	cmd.Flags().String("log.format", config.Default().Log.Format, "log format (json or text)")
	cmd.Flags().String("log.level", config.Default().Log.Level, "log level (debug, info, warn, error)")
	cmd.Flags().String("metrics.addr", config.Default().Metrics.Addr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("http.addr", config.Default().HTTP.Addr, "HTTP listen address")

	return cmd
}

// registerBuiltins installs the factories compiled into this binary.
// Discovery only constructs modules whose manifest is present in the
// modules directory.
func registerBuiltins(registry *plugin.Registry) {
	registry.Register(audit.ModuleName, audit.New)
	registry.Register(sitemap.ModuleName, sitemap.New)
}

func runServe(ctx context.Context, cfg config.Config) error {
	logging.SetDefault("quillcms", version, cfg.Log.Format, cfg.Log.Level)

	slog.Info("starting quillcms",
		"modules_dir", cfg.Modules.Dir,
		"http_addr", cfg.HTTP.Addr,
		"log_format", cfg.Log.Format,
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := plugin.NewRegistry()
	registerBuiltins(registry)

	bus := events.NewBus()
	hooks := plugin.NewHookRegistry()
	mux := http.NewServeMux()

	manager := plugin.NewManager(registry, cfg.Modules.Dir,
		plugin.WithBus(bus),
		plugin.WithHooks(hooks),
		plugin.WithMux(mux),
	)

	// Discovery must succeed before the server accepts traffic; graph
	// errors are fatal, missing factories are not.
	if err := manager.DiscoverAndRegister(ctx); err != nil {
		return fmt.Errorf("module discovery failed: %w", err)
	}
	slog.Info("modules active", "modules", manager.Active())

	var ready atomic.Bool

	var obsErrCh <-chan error
	var obsServer *observability.Server
	if cfg.Metrics.Addr != "" {
		obsServer = observability.NewServer(cfg.Metrics.Addr, ready.Load)
		ch, err := obsServer.Start()
		if err != nil {
			return fmt.Errorf("start observability server: %w", err)
		}
		obsErrCh = ch
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpErrCh := make(chan error, 1)
	go func() {
		slog.Info("http server started", "addr", cfg.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErrCh <- err
		}
	}()

	ready.Store(true)

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-httpErrCh:
		slog.Error("http server failed", "error", err)
	case err := <-obsErrCh:
		slog.Error("observability server failed", "error", err)
	}
	ready.Store(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown failed", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Error("observability server shutdown failed", "error", err)
		}
	}

	slog.Info("quillcms stopped")
	return nil
}
