package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/audit"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/logger"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/Domenick1991/travelbooking/internal/service/inventory"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		logger.New(logger.Config{}).Fatal("Failed to load config", "error", err)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Service: "travelbooking-worker"})

	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatal("Worker requires the postgres driver", "driver", cfg.Database.Driver)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to postgres", "error", err)
	}
	defer pool.Close()

	ledger := inventory.NewLedger(repository.NewTravelOptionRepository(pool), log, nil)

	var wg sync.WaitGroup

	if len(cfg.Kafka.Brokers) > 0 {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingEventsTopic, log)
		defer consumer.Close()

		recorder := audit.NewRecorder(log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := consumer.ConsumeBookingEvents(ctx, func(ctx context.Context, event kafka.BookingEvent) error {
				if err := recorder.Record(ctx, event); err != nil {
					log.Warn("Skipping booking event", "error", err)
				}
				return nil
			})
			if err != nil && ctx.Err() == nil {
				log.Error("Consumer stopped", "error", err)
				stop()
			}
		}()
	} else {
		log.Warn("No Kafka brokers configured, booking event audit disabled")
	}

	runAudit := func() {
		drifts, err := ledger.Audit(ctx)
		if err != nil {
			log.Error("Inventory audit failed", "error", err)
			return
		}
		log.Info("Inventory audit finished", "drifted_options", len(drifts))
	}

	runAudit()
	ticker := time.NewTicker(time.Duration(cfg.Worker.AuditIntervalMinutes) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			runAudit()
		case <-ctx.Done():
			log.Info("Shutting down worker")
			wg.Wait()
			return
		}
	}
}
