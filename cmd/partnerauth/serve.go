// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ceremo Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/ceremo/partnerauth/internal/auth"
	"github.com/ceremo/partnerauth/internal/auth/postgres"
	"github.com/ceremo/partnerauth/internal/config"
	"github.com/ceremo/partnerauth/internal/httpapi"
	"github.com/ceremo/partnerauth/internal/logging"
	"github.com/ceremo/partnerauth/internal/observability"
	"github.com/ceremo/partnerauth/internal/store"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the authentication HTTP server",
		Long: `Start the HTTP server which handles rental partner sign-up and
sign-in requests against the PostgreSQL database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), cfgFromCmd(cmd), cmd, nil)
		},
	}

	// Flag names match config keys so they can override file and env values.
	cmd.Flags().String("server.addr", ":8080", "HTTP listen address")
	cmd.Flags().String("metrics_addr", ":9090", "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("database_url", "", "PostgreSQL connection URL")
	cmd.Flags().String("log_format", "json", "log format (json or text)")
	cmd.Flags().String("cors_origin", "*", "allowed CORS origin for /api/ routes")

	return cmd
}

// cfgFromCmd loads configuration using the command's flag set for overrides.
func cfgFromCmd(cmd *cobra.Command) func() (*config.Config, error) {
	return func() (*config.Config, error) {
		return config.Load(configFile, cmd.Flags())
	}
}

// runServeWithDeps starts the service with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, loadConfig func() (*config.Config, error), cmd *cobra.Command, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}

	if deps.PoolFactory == nil {
		deps.PoolFactory = func(ctx context.Context, url string) (Pool, error) {
			return store.NewPool(ctx, url)
		}
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}
	if deps.APIServerFactory == nil {
		deps.APIServerFactory = func(cfg config.ServerConfig, handler http.Handler) APIServer {
			return httpapi.NewServer(cfg, handler)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return oops.With("operation", "load configuration").Wrap(err)
	}

	logging.SetDefault("partnerauth", version, cfg.LogFormat)
	logger := slog.Default()

	logger.Info("starting partner auth service",
		"addr", cfg.Server.Addr,
		"log_format", cfg.LogFormat,
	)

	pool, err := deps.PoolFactory(ctx, cfg.DatabaseURL)
	if err != nil {
		return oops.With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	logger.Info("connected to database")

	issuer, err := auth.NewJWTIssuer(cfg.Auth.JWTSecret)
	if err != nil {
		return err
	}

	service, err := auth.NewService(
		postgres.NewPartnerRepository(pool),
		auth.NewBcryptHasher(),
		issuer,
		auth.Policy{
			TokenExpiryHours:     cfg.Auth.TokenExpiryHours,
			RefreshExpiryHours:   cfg.Auth.RefreshExpiryHours,
			MinPasswordLength:    cfg.Auth.MinPasswordLength,
			RememberMeMultiplier: cfg.Auth.RememberMeMultiplier,
		},
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Ready once the API server is accepting connections.
	var ready atomic.Bool

	var obsServer ObservabilityServer
	var metrics *observability.Metrics
	if cfg.MetricsAddr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.MetricsAddr, ready.Load)
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return oops.With("operation", "start observability server").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		metrics = obsServer.Metrics()
		logger.Info("observability server started", "addr", obsServer.Addr())
	}

	handlers := httpapi.NewHandlers(service, logger, metrics)
	router := httpapi.NewRouter(handlers, logger, metrics, cfg.CORSOrigin)

	apiServer := deps.APIServerFactory(cfg.Server, router)
	apiErrChan, err := apiServer.Start()
	if err != nil {
		stopObservability(obsServer, cfg.Server.ShutdownTimeout)
		return oops.With("operation", "start api server").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrChan, "api")
	ready.Store(true)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("Partner auth service started")
	logger.Info("partner auth service ready", "addr", apiServer.Addr())

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	ready.Store(false)
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Warn("error stopping api server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("error stopping observability server", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// stopObservability stops the observability server during startup cleanup.
func stopObservability(obsServer ObservabilityServer, timeout time.Duration) {
	if obsServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := obsServer.Stop(ctx); err != nil {
		slog.Warn("failed to stop observability server during cleanup", "error", err)
	}
}

// monitorServerErrors watches a server's error channel and cancels the
// context on error so a server failure shuts down the whole process.
// It exits when an error arrives, the channel closes, or the context ends.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
