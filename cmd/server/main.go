package main

import (
	"context"
	"dispatch-conflict-service/internal/adapters/cache"
	"dispatch-conflict-service/internal/adapters/repositories"
	"dispatch-conflict-service/internal/api"
	"dispatch-conflict-service/internal/config"
	"dispatch-conflict-service/internal/platform/db"
	"dispatch-conflict-service/internal/platform/logging"
	"dispatch-conflict-service/internal/platform/obs"
	"dispatch-conflict-service/internal/ports"
	"dispatch-conflict-service/internal/services"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// main is the application composition root.
// It wires the SQL schedule repository, optional Redis cache and metrics behind the
// conflict service and starts the HTTP server.
func main() {
	cfg, dotenv, err := config.Load()
	if err != nil {
		bootLogger := logging.Setup("production")
		bootLogger.Fatal().Err(err).Msg("load config")
	}

	logger := logging.Setup(cfg.Environment)
	if !dotenv {
		logger.Info().Msg("No .env file found (using environment variables)")
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	conn, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Local SQLite runs create the schema on startup; Postgres is managed with dbtool.
	if cfg.DBDriver == db.DriverSQLite {
		if err := repositories.InitSchema(conn); err != nil {
			return err
		}
	}

	var conflictCache ports.ConflictCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		perr := client.Ping(ctx).Err()
		cancel()
		if perr != nil {
			logger.Warn().Err(perr).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, running without conflict cache")
		} else {
			conflictCache = cache.NewRedisConflictCache(client, cfg.ConflictTTL)
			logger.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.ConflictTTL).Msg("conflict cache enabled")
		}
	}

	var metrics *obs.Metrics
	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		if metrics, err = obs.NewMetrics(reg); err != nil {
			return err
		}
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	repo := repositories.NewSQLScheduleRepository(conn)
	svc := services.NewConflictService(repo, conflictCache, metrics, logger)
	router := api.NewRouter(svc, conn, metricsHandler, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("db_driver", cfg.DBDriver).Msg("Server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
