package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/logger"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

const demoUser = "demo"

func main() {
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		logger.New(logger.Config{}).Fatal("Failed to load config", "error", err)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Service: "travelbooking-migrate"})

	if cfg.Database.Driver != config.DriverPostgres {
		log.Info("Nothing to migrate", "driver", cfg.Database.Driver)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to postgres", "error", err)
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool); err != nil {
		log.Fatal("Migration failed", "error", err)
	}
	log.Info("Schema applied")

	seed, _ := strconv.ParseBool(os.Getenv("SEED"))
	if !seed {
		return
	}

	n, err := repository.Seed(ctx, repository.NewTravelOptionRepository(pool))
	if err != nil {
		log.Fatal("Seeding travel options failed", "error", err)
	}
	userID, err := repository.EnsureUser(ctx, pool, demoUser)
	if err != nil {
		log.Fatal("Creating demo user failed", "error", err)
	}
	log.Info("Seed data loaded", "travel_options", n, "demo_user_id", userID)
}
