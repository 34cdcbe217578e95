package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/ethnoguessr/api/internal/catalog"
	"github.com/ethnoguessr/api/internal/config"
	"github.com/ethnoguessr/api/internal/database"
	"github.com/ethnoguessr/api/internal/handler/health"
	"github.com/ethnoguessr/api/internal/migrations"
	"github.com/ethnoguessr/api/internal/server"
	"github.com/ethnoguessr/api/internal/session"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	decks := catalog.NewStore(db)
	seeded, err := decks.SeedDefault(ctx)
	if err != nil {
		return fmt.Errorf("seeding decks: %w", err)
	}
	if seeded {
		logger.Info("seeded default deck", "deck", catalog.DefaultDeckID)
	}

	admin := server.NewAdminStore(db)
	created, err := admin.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}
	if created {
		logger.Info("created admin account", "email", cfg.AdminEmail)
	}

	checks := map[string]health.Checker{
		"sqlite": dbChecker{db},
	}

	// --- Sessions ---
	var repo session.Repository
	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		logger.Info("connected to redis")

		repo = session.NewRedisRepository(rdb, cfg.SessionTTL)
		checks["redis"] = redisChecker{rdb}
	} else {
		repo = session.NewMemoryRepository(cfg.SessionTTL)
		logger.Info("keeping sessions in memory", "ttl", cfg.SessionTTL.String())
	}

	games := session.NewManager(repo, decks, session.NewBroker(), logger)

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Games:     games,
		Decks:     decks,
		Admin:     admin,
		Checks:    checks,
		PublicURL: cfg.PublicURL,
		SPADir:    cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}

// dbChecker adapts *sql.DB to health.Checker.
type dbChecker struct{ db *sql.DB }

func (d dbChecker) Check(ctx context.Context) error { return d.db.PingContext(ctx) }

// redisChecker adapts *redis.Client to health.Checker.
type redisChecker struct{ client *redis.Client }

func (r redisChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }
