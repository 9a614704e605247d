// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/cobra"

	"github.com/tracklab/tracklab/internal/assets"
	"github.com/tracklab/tracklab/internal/auth"
	authpg "github.com/tracklab/tracklab/internal/auth/postgres"
	"github.com/tracklab/tracklab/internal/catalog"
	catalogpg "github.com/tracklab/tracklab/internal/catalog/postgres"
	"github.com/tracklab/tracklab/internal/config"
	"github.com/tracklab/tracklab/internal/httpapi"
	"github.com/tracklab/tracklab/internal/logging"
	"github.com/tracklab/tracklab/internal/store"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the HTTP API server. Connects to PostgreSQL, optionally applies
pending migrations, and serves the catalog until SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logging.SetDefault("tracklab", version, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := connectPool(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	slog.Info("connected to database")

	if cfg.Database.Migrate {
		if err := autoMigrate(cfg.Database.URL); err != nil {
			return err
		}
	}

	server, err := buildServer(cfg, pool)
	if err != nil {
		return err
	}

	errCh, err := server.Start()
	if err != nil {
		return oops.Code("SERVER_START_FAILED").Wrap(err)
	}

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case serveErr, ok := <-errCh:
		if ok && serveErr != nil {
			return oops.Code("SERVER_FAILED").Wrap(serveErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return err
	}

	slog.Info("shutdown complete")
	return nil
}

// connectPool opens the pgx pool, retrying with exponential backoff so a
// database that is still starting does not kill the process.
func connectPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool

	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		pool, err = pgxpool.New(ctx, databaseURL)
		if err != nil {
			return err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	return pool, nil
}

func autoMigrate(databaseURL string) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer migrator.Close() //nolint:errcheck // close error is irrelevant after Up

	if err := migrator.Up(); err != nil {
		return err
	}
	slog.Info("migrations applied")
	return nil
}

// buildServer wires every component explicitly: hashing, tokens, guard,
// repositories, graph, services, asset storage, and the HTTP server.
func buildServer(cfg *config.Config, pool *pgxpool.Pool) (*httpapi.Server, error) {
	tokens, err := auth.NewTokenService([]byte(cfg.Auth.TokenSecret), cfg.Auth.TokenTTL)
	if err != nil {
		return nil, err
	}
	guard, err := auth.NewGuard(tokens)
	if err != nil {
		return nil, err
	}

	diskStore, err := assets.NewDiskStore(cfg.Assets.Dir)
	if err != nil {
		return nil, err
	}

	userSvc, err := auth.NewService(authpg.NewUserRepository(pool), auth.NewArgon2idHasher(), tokens, guard, diskStore)
	if err != nil {
		return nil, err
	}

	artists := catalogpg.NewArtistRepository(pool)
	albums := catalogpg.NewAlbumRepository(pool)
	tracks := catalogpg.NewTrackRepository(pool)
	relations := catalogpg.NewRelationRepository(pool)

	graph, err := catalog.NewGraphManager(artists, albums, tracks, relations, catalogpg.NewTransactor(pool))
	if err != nil {
		return nil, err
	}
	catalogSvc, err := catalog.NewService(artists, albums, tracks, graph, guard)
	if err != nil {
		return nil, err
	}
	binder, err := catalog.NewAssetBinder(artists, albums, tracks, diskStore, guard)
	if err != nil {
		return nil, err
	}

	return httpapi.NewServer(cfg.HTTP.Addr, userSvc, catalogSvc, binder, pool)
}
