// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/cryal/cryal/internal/auth"
	"github.com/cryal/cryal/internal/httpapi"
	"github.com/cryal/cryal/internal/logging"
	"github.com/cryal/cryal/internal/observability"
	"github.com/cryal/cryal/internal/store"
	"github.com/cryal/cryal/internal/trip"
	"github.com/cryal/cryal/internal/trip/postgres"
	"github.com/cryal/cryal/pkg/errutil"
)

// Environment variables carrying secrets and the database DSN. Secrets never
// appear on the command line or in logs.
const (
	envDatabaseURL = "CRYAL_DATABASE_URL"
	envTokenKey    = "CRYAL_TOKEN_KEY"
	envAPISecret   = "CRYAL_API_SECRET"
)

// Default values for serve command flags.
const (
	defaultAPIAddr     = "127.0.0.1:8080"
	defaultMetricsAddr = "127.0.0.1:9100"
	defaultLogFormat   = "json"
	defaultLogLevel    = "info"
)

// serveConfig holds configuration for the serve command.
type serveConfig struct {
	apiAddr     string
	metricsAddr string
	visibility  string
	logFormat   string
	logLevel    string
	autoMigrate bool
}

// Validate checks that the configuration is valid.
func (cfg *serveConfig) Validate() error {
	if cfg.apiAddr == "" {
		return fmt.Errorf("api-addr is required")
	}
	if cfg.logFormat != "json" && cfg.logFormat != "text" {
		return fmt.Errorf("log-format must be 'json' or 'text', got %q", cfg.logFormat)
	}
	switch trip.Visibility(cfg.visibility) {
	case trip.VisibilityMembersOnly, trip.VisibilityPublic:
	default:
		return fmt.Errorf("room-visibility must be 'members_only' or 'public', got %q", cfg.visibility)
	}
	return nil
}

// ServeDeps contains injectable dependencies for the serve command. Nil
// fields use their default implementations.
type ServeDeps struct {
	// Connect opens the database pool. Default: store.Connect.
	Connect func(ctx context.Context, databaseURL string) (*pgxpool.Pool, error)

	// Env reads an environment variable. Default: os.Getenv.
	Env func(key string) string
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cfg := &serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Cryal API server",
		Long: `Start the HTTP API server. Requires CRYAL_DATABASE_URL,
CRYAL_TOKEN_KEY and CRYAL_API_SECRET in the environment.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cfg, nil)
		},
	}

	cmd.Flags().StringVar(&cfg.apiAddr, "api-addr", defaultAPIAddr, "API listen address")
	cmd.Flags().StringVar(&cfg.metricsAddr, "metrics-addr", defaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().StringVar(&cfg.visibility, "room-visibility", string(trip.VisibilityMembersOnly), "room directory visibility (members_only or public)")
	cmd.Flags().StringVar(&cfg.logFormat, "log-format", defaultLogFormat, "log format (json or text)")
	cmd.Flags().StringVar(&cfg.logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&cfg.autoMigrate, "auto-migrate", false, "run pending migrations before serving")

	return cmd
}

// runServe starts the API server with injectable dependencies. If deps is
// nil, default implementations are used.
func runServe(ctx context.Context, cfg *serveConfig, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	if deps.Connect == nil {
		deps.Connect = store.Connect
	}
	if deps.Env == nil {
		deps.Env = os.Getenv
	}

	if err := cfg.Validate(); err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	logging.SetDefault("cryal", version, cfg.logFormat, logging.ParseLevel(cfg.logLevel))

	databaseURL := deps.Env(envDatabaseURL)
	if databaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("%s environment variable is required", envDatabaseURL)
	}
	// The auth constructors report their own codes; reduce them to the config
	// failure they are here, keeping only the length complaint.
	tokens, err := auth.NewCodec([]byte(deps.Env(envTokenKey)))
	if err != nil {
		return oops.Code("CONFIG_INVALID").Errorf("%s: %v", envTokenKey, err)
	}
	signer, err := auth.NewSigner([]byte(deps.Env(envAPISecret)))
	if err != nil {
		return oops.Code("CONFIG_INVALID").Errorf("%s: %v", envAPISecret, err)
	}

	if cfg.autoMigrate {
		if err := autoMigrate(databaseURL); err != nil {
			return err
		}
	}

	pool, err := deps.Connect(ctx, databaseURL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}
	defer pool.Close()
	slog.Info("connected to database")

	svc := trip.NewService(trip.ServiceConfig{
		Accounts:    postgres.NewAccountRepository(pool),
		Rooms:       postgres.NewRoomRepository(pool),
		Memberships: postgres.NewMembershipRepository(pool),
		Plans:       postgres.NewPlanRepository(pool),
		Waypoints:   postgres.NewWaypointRepository(pool),
		Locations:   postgres.NewLocationRepository(pool),
		Tx:          postgres.NewTransactor(pool),
		Hasher:      auth.NewArgon2idHasher(),
		Tokens:      tokens,
		Signer:      signer,
		Visibility:  trip.Visibility(cfg.visibility),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var metrics *observability.Metrics
	var obsServer *observability.Server
	if cfg.metricsAddr != "" {
		obsServer = observability.NewServer(cfg.metricsAddr, func() bool {
			return pool.Ping(ctx) == nil
		})
		metrics = obsServer.Metrics()
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
	}

	apiServer := httpapi.NewServer(httpapi.Config{
		Addr:    cfg.apiAddr,
		Service: svc,
		Tokens:  tokens,
		Metrics: metrics,
	})
	apiErrCh, err := apiServer.Start()
	if err != nil {
		stopObservability(obsServer)
		return oops.Code("API_START_FAILED").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrCh, "api")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		slog.Info("shutting down", "signal", sig.String())
	case <-ctx.Done():
		slog.Info("shutting down", "reason", "server error")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		errutil.LogError(slog.Default(), "api server shutdown", err)
	}
	stopObservability(obsServer)

	return nil
}

func autoMigrate(databaseURL string) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return oops.Code("MIGRATION_INIT_FAILED").Wrap(err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			errutil.LogError(slog.Default(), "close migrator", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return oops.Code("AUTO_MIGRATION_FAILED").Wrap(err)
	}
	slog.Info("migrations applied")
	return nil
}

func stopObservability(srv *observability.Server) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		errutil.LogError(slog.Default(), "observability server shutdown", err)
	}
}

// monitorServerErrors cancels the process context when a server reports a
// fatal error after startup.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, name string) {
	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			slog.Error("server failed", "server", name, "error", err)
			cancel()
		}
	case <-ctx.Done():
	}
}
