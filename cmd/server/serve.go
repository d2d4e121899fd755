package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dfryer1193/postboard/blog/application"
	"github.com/dfryer1193/postboard/blog/domain"
	"github.com/dfryer1193/postboard/blog/persistence"
	"github.com/dfryer1193/postboard/internal/middleware"
	"github.com/dfryer1193/postboard/internal/rest"
	"github.com/dfryer1193/postboard/shared/config"
	"github.com/dfryer1193/postboard/shared/db"
	"github.com/dfryer1193/postboard/shared/db/postgres"
	"github.com/dfryer1193/postboard/shared/db/sqlite"
	"github.com/dfryer1193/postboard/shared/remote"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout  = 5 * time.Second
	redisPingTimeout = 2 * time.Second
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the postboard HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(opts.cfg)
		},
	}
}

func serve(cfg config.Config) error {
	database, err := openDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close()

	postRepo := persistence.NewPostRepository(database.DB(), database.Dialect())

	var blobStore domain.BlobStore = persistence.NewBlobRepository(database.DB(), database.Dialect())
	if cfg.Cache.RedisAddr != "" {
		client, err := openRedis(cfg.Cache.RedisAddr)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Cache.RedisAddr).Msg("Blob cache disabled")
		} else {
			defer client.Close()
			blobStore = persistence.NewCachedBlobStore(blobStore, persistence.NewRedisBlobCache(client, cfg.CacheTTL()))
			log.Info().Str("addr", cfg.Cache.RedisAddr).Msg("Blob cache enabled")
		}
	}

	avatars := application.NewAvatarResolver(remote.NewClient(cfg.AvatarTimeout(), nil), blobStore, cfg.Avatar.MaxBytes)
	postService := application.NewPostService(postRepo, blobStore)
	pipeline := application.NewSubmissionPipeline(postRepo, blobStore, avatars)

	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.LoggingMiddleware(), gin.CustomRecovery(middleware.HandlePanics()))
	rest.NewApi(router, rest.NewHandlers(postService, pipeline, cfg.Upload.MaxBytes))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}

// openDatabase connects to the configured backend and applies migrations.
func openDatabase(cfg config.DatabaseConfig) (db.Database, error) {
	var database db.Database
	switch cfg.Driver {
	case config.DriverPostgres:
		database = postgres.NewPostgresDB(&postgres.PostgresConfig{DSN: cfg.DSN})
	default:
		database = sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: cfg.Path})
	}

	if err := database.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}

	if cfg.Driver == config.DriverSQLite && cfg.Path == "" {
		log.Warn().Msg("Using an in-memory database; posts are lost on exit")
	}

	return database, nil
}

func openRedis(addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
