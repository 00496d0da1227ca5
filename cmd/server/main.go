package main

import (
	"context"
	"database/sql"
	"fmt"
	"haul-turn-planner/internal/adapters/cache"
	"haul-turn-planner/internal/adapters/repositories"
	"haul-turn-planner/internal/api"
	"haul-turn-planner/internal/config"
	"haul-turn-planner/internal/domain"
	"haul-turn-planner/internal/platform/db"
	"haul-turn-planner/internal/ports"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "server")

// main is the application composition root.
// It wires concrete adapters (SQL, Redis) behind ports and starts the HTTP server.
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run returns instead of exiting so deferred cleanup always happens.
func run() error {
	if err := config.Load(); err != nil {
		return err
	}

	level, err := config.ParseLogLevel(config.Get("LOG_LEVEL", "info"))
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	port := config.Get("PORT", "8080")
	seedPath := config.Get("SEED_PATH", "data/seeds/movements.json")

	registry, err := loadRegistry(config.Get("PROFILES_PATH", ""))
	if err != nil {
		return err
	}

	conn, dialect, err := openDB()
	if err != nil {
		return err
	}
	defer conn.Close()

	// Initialize schema and seed movements on startup.
	if err := initAndSeed(conn, seedPath, dialect); err != nil {
		return err
	}

	pathCache, err := openPathCache(conn, dialect)
	if err != nil {
		return err
	}

	provider := repositories.NewSqliteIntersectionRepository(conn)
	if dialect == repositories.DialectPostgres {
		provider = repositories.NewPostgresIntersectionRepository(conn)
	}
	router := api.NewRouter(registry, provider, pathCache)

	log.WithFields(logrus.Fields{
		"addr":     ":" + port,
		"db":       dialect.String(),
		"profiles": registry.IDs(),
	}).Info("server listening")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv.ListenAndServe()
}

// loadRegistry builds the built-in profile table, extended by the YAML
// file at path when one is configured.
func loadRegistry(path string) (*domain.ProfileRegistry, error) {
	registry, err := domain.NewProfileRegistry(domain.DefaultProfiles())
	if err != nil {
		return nil, err
	}
	if path == "" {
		return registry, nil
	}

	extra, err := config.LoadProfiles(path)
	if err != nil {
		return nil, err
	}
	return registry.With(extra)
}

// DATABASE_URL selects Postgres; otherwise a SQLite file at DB_PATH is used.
func openDB() (*sql.DB, repositories.Dialect, error) {
	if url := config.Get("DATABASE_URL", ""); url != "" {
		conn, err := db.Open(url)
		return conn, repositories.DialectPostgres, err
	}

	conn, err := db.OpenSqlite(config.Get("DB_PATH", "data/turns.db"))
	return conn, repositories.DialectSQLite, err
}

func initAndSeed(conn *sql.DB, seedPath string, dialect repositories.Dialect) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(conn, seedPath, dialect); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// REDIS_URL selects Redis with PATH_CACHE_TTL; otherwise paths are cached
// in the SQL database and entries older than PATH_CACHE_TTL are pruned at
// startup.
func openPathCache(conn *sql.DB, dialect repositories.Dialect) (ports.PathCache, error) {
	ttl, err := time.ParseDuration(config.Get("PATH_CACHE_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("open path cache: PATH_CACHE_TTL: %v: %w", err, domain.ErrConfiguration)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if url := config.Get("REDIS_URL", ""); url != "" {
		client, err := cache.NewRedisClient(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("open path cache: %w", err)
		}
		return cache.NewRedisPathCache(client, ttl), nil
	}

	sqlCache := cache.NewSqlitePathCache(conn)
	if dialect == repositories.DialectPostgres {
		sqlCache = cache.NewPostgresPathCache(conn)
	}
	if ttl > 0 {
		n, err := sqlCache.Prune(ctx, ttl)
		if err != nil {
			return nil, fmt.Errorf("open path cache: %w", err)
		}
		log.WithField("pruned", n).Info("path cache pruned")
	}
	return sqlCache, nil
}
