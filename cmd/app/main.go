package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/bootstrap"
	"github.com/Domenick1991/travelbooking/internal/cache"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/logger"
	"github.com/Domenick1991/travelbooking/internal/metrics"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/Domenick1991/travelbooking/internal/repository/memory"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/Domenick1991/travelbooking/internal/service/inventory"
	"github.com/Domenick1991/travelbooking/internal/service/travel"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		logger.New(logger.Config{}).Fatal("Failed to load config", "error", err)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Service: "travelbooking-api"})
	if cfg.Log.Level != logger.DEBUG {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector()
	registry := prometheus.NewRegistry()
	registry.MustRegister(collector, collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	checks := map[string]bootstrap.HealthCheck{}

	var (
		tx       repository.Transactor
		options  repository.TravelOptionRepository
		bookings repository.BookingRepository
	)
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := memory.New()
		n, err := repository.Seed(ctx, store.TravelOptions())
		if err != nil {
			log.Fatal("Failed to seed memory store", "error", err)
		}
		log.Warn("Using in-memory store, data is lost on restart", "travel_options", n)
		tx, options, bookings = store, store.TravelOptions(), store.Bookings()
	default:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to postgres", "error", err)
		}
		defer pool.Close()
		checks["database"] = pool.Ping

		tx = repository.NewTransactor(pool, repository.WithRetry(cfg.Booking.TxRetryAttempts, cfg.Booking.TxRetryDelay()))
		options = repository.NewTravelOptionRepository(pool)
		bookings = repository.NewBookingRepository(pool)
	}

	bookingOpts := []booking.BookingServiceOption{
		booking.WithMetrics(collector),
		booking.WithIDAttempts(cfg.Booking.IDRetryAttempts),
	}

	var optionCache travel.OptionCache
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.CacheTTL())
		defer redisCache.Close()
		checks["redis"] = redisCache.Ping
		optionCache = redisCache
		bookingOpts = append(bookingOpts, booking.WithCache(redisCache))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
		defer producer.Close()
		checks["kafka"] = producer.CheckConnection
		bookingOpts = append(bookingOpts, booking.WithProducer(producer, cfg.Kafka.BookingEventsTopic))
	}

	ledger := inventory.NewLedger(options, log, collector)
	travelService := travel.NewTravelService(options, optionCache, log)
	bookingService := booking.NewBookingService(tx, ledger, bookings, log, bookingOpts...)

	router := bootstrap.NewRouter(cfg, bootstrap.Dependencies{
		Travel:   travelService,
		Bookings: bookingService,
		Registry: registry,
		Checks:   checks,
		Log:      log,
	})

	if err := bootstrap.Run(ctx, cfg, router, log); err != nil {
		log.Fatal("Server error", "error", err)
	}
	log.Info("Server stopped")
}
