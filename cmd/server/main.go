// @title Go2gether Budget API
// @version 1.0
// @description Shared trip expense ledger: budget items, splits and trip membership.

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a JWT.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	_ "GO2GETHER_BUDGET/docs" // This is required for swagger
	"GO2GETHER_BUDGET/internal/config"
	"GO2GETHER_BUDGET/internal/handlers"
	"GO2GETHER_BUDGET/internal/logging"
	"GO2GETHER_BUDGET/internal/migrations"
	"GO2GETHER_BUDGET/internal/realtime"
	"GO2GETHER_BUDGET/internal/repository"
	"GO2GETHER_BUDGET/internal/routes"
	"GO2GETHER_BUDGET/internal/services"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("budget server: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Server.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	sl := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(sl)
	logger := logging.NewSlogLogger(sl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		store  repository.Store
		pinger handlers.Pinger
		pool   *pgxpool.Pool
	)
	switch cfg.Database.Driver {
	case config.StoreMemory:
		mem := repository.NewMemory()
		store, pinger = mem, mem
	default:
		if pool, err = openPool(ctx, cfg); err != nil {
			return err
		}
		defer pool.Close()

		if cfg.Database.AutoMigrate {
			if err := migrations.Up(ctx, pool); err != nil {
				return err
			}
			logger.Info(ctx, "migrations applied")
		}
		store, pinger = repository.NewPostgres(pool), pool
	}

	feed, closeFeed, err := openFeed(ctx, cfg, pool, logger)
	if err != nil {
		return err
	}
	defer closeFeed()

	checks := map[string]handlers.Pinger{"store": pinger}
	if p, ok := feed.(handlers.Pinger); ok {
		checks["feed"] = p
	}

	budget := services.NewBudgetService(store, feed, logger.With("component", "budget"), cfg.Ledger.DefaultCurrency)
	trips := services.NewTripService(store, feed, logger.With("component", "trips"), cfg.Ledger.DefaultCurrency)

	router := routes.SetupRoutes(routes.Handlers{
		Health: handlers.NewHealthHandler(checks),
		Trips:  handlers.NewTripsHandler(trips),
		Budget: handlers.NewBudgetHandler(budget),
	}, &cfg.JWT)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(gctx, "HTTP server listening", "addr", srv.Addr, "store", cfg.Database.Driver, "feed", cfg.Feed.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(context.Background(), "shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info(context.Background(), "server stopped")
	return nil
}

func openPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	// Simple protocol is required behind PgBouncer in transaction mode.
	pcfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pcfg.ConnConfig.RuntimeParams["application_name"] = "go2gether-budget"
	pcfg.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.Database.QueryTimeout.Milliseconds(), 10)
	pcfg.MaxConns = cfg.Database.MaxConns
	pcfg.MinConns = cfg.Database.MinConns
	pcfg.MaxConnLifetime = cfg.Database.MaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// openFeed returns the configured change feed and its cleanup.
func openFeed(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger logging.Logger) (realtime.Feed, func(), error) {
	log := logger.With("component", "feed")
	switch cfg.Feed.Driver {
	case config.FeedRedis:
		f, err := realtime.NewRedisFeed(ctx, cfg.Redis.URL, log)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { _ = f.Close() }, nil
	case config.FeedPostgres:
		return realtime.NewPostgresFeed(pool, log), func() {}, nil
	default:
		return realtime.NewBroker(), func() {}, nil
	}
}
