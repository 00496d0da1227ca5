package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"haul-turn-planner/internal/adapters/cache"
	"haul-turn-planner/internal/adapters/repositories"
	"haul-turn-planner/internal/config"
	"haul-turn-planner/internal/platform/db"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "dbtool")

var (
	seedPath = flag.String("seed", "", "movement seed file (default $SEED_PATH or data/seeds/movements.json)")
	pruneAge = flag.Duration("prune", 0, "delete cached paths older than this age (0 keeps all)")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run returns instead of exiting so deferred cleanup always happens.
func run() error {
	if err := config.Load(); err != nil {
		return err
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	path := *seedPath
	if path == "" {
		path = config.Get("SEED_PATH", "data/seeds/movements.json")
	}
	if err := initAndSeed(conn, path, repositories.DialectPostgres); err != nil {
		return err
	}

	if *pruneAge > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := cache.NewPostgresPathCache(conn).Prune(ctx, *pruneAge)
		if err != nil {
			return fmt.Errorf("prune path cache: %w", err)
		}
		log.Infof("Pruned %d cached paths.", n)
	}
	return nil
}

func initAndSeed(conn *sql.DB, seedPath string, dialect repositories.Dialect) error {
	log.Info("Initializing database schema...")
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	log.Info("Schema ready.")

	log.WithField("seed", seedPath).Info("Seeding database...")
	if err := repositories.SeedFromJSON(conn, seedPath, dialect); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	log.Info("Seeding complete.")

	return nil
}
