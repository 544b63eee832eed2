package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/artemisia-corp/preference-service/internal/cache"
	"github.com/artemisia-corp/preference-service/internal/config"
	"github.com/artemisia-corp/preference-service/internal/handler"
	"github.com/artemisia-corp/preference-service/internal/logger"
	"github.com/artemisia-corp/preference-service/internal/preference"
	"github.com/artemisia-corp/preference-service/internal/recommender"
	"github.com/artemisia-corp/preference-service/internal/repository"
	"github.com/artemisia-corp/preference-service/internal/router"
	"github.com/artemisia-corp/preference-service/internal/service"
	"github.com/artemisia-corp/preference-service/seeds"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// ------------ PostgreSQL ---------------
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalw("failed to parse database config", "error", err)
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := waitForDB(ctx, pool, log); err != nil {
		log.Fatalw("database not ready", "error", err)
	}
	log.Infow("connected to PostgreSQL")

	// ------------ Migrations ---------------
	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		if err := runMigration(ctx, pool, "migrations/create_tables.down.sql"); err != nil {
			log.Fatalw("failed to migrate down", "error", err)
		}
		log.Infow("migrations dropped")
		return
	}

	if err := runMigration(ctx, pool, "migrations/create_tables.up.sql"); err != nil {
		log.Fatalw("failed to migrate up", "error", err)
	}
	log.Infow("migrations applied")

	if err := checkSeed(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed database", "error", err)
	}

	// ------------ Redis ---------------
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalw("failed to parse redis url", "error", err)
	}
	redisClient := redis.NewClient(redisOpts)
	recCache := cache.NewCache(redisClient, cfg.CacheTTL)
	if err := recCache.Ping(ctx); err != nil {
		log.Fatalw("redis not ready", "error", err)
	}
	log.Infow("connected to Redis")

	// ------------ Wiring ---------------
	repo := repository.New(pool)
	recClient := recommender.NewClient(cfg.RecommenderURL, cfg.RecommenderAPIKey, log)

	history := preference.NewFallbackHistoryProvider(
		preference.NewStoreHistoryProvider(repo),
		preference.NewPurchaseHistoryProvider(repo),
	)
	calc := preference.NewCalculator(history, repo, log)

	views := service.NewViewService(repo, repo, recClient, recCache, cfg.TrackTimeout, log)
	recs := service.NewRecommendationService(repo, repo, repo, repo, repo, recCache, recClient, calc, log)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go views.RunRetentionSweep(sweepCtx, cfg.ViewSweepInterval, cfg.ViewRetentionDays)

	// ------------ Server ---------------
	h := handler.NewHandler(views, recs, cfg.ViewRetentionDays, log)
	log.Infow("server running", "addr", cfg.Addr())
	if err := http.ListenAndServe(cfg.Addr(), router.Setup(h)); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		log.Infow("waiting for database", "attempt", i+1, "max", 30)
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func runMigration(ctx context.Context, pool *pgxpool.Pool, path string) error {
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	return nil
}

func checkSeed(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("check users count: %w", err)
	}
	if count > 0 {
		log.Infow("database already seeded, skipping", "users", count)
		return nil
	}
	return seeds.Setup(ctx, pool, log)
}
