package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/krsingh2254/flightbooking/config"
	"github.com/krsingh2254/flightbooking/internal/bootstrap"
	"github.com/krsingh2254/flightbooking/internal/cache"
	"github.com/krsingh2254/flightbooking/internal/inventory"
	"github.com/krsingh2254/flightbooking/internal/kafka"
	"github.com/krsingh2254/flightbooking/internal/repository"
	"github.com/krsingh2254/flightbooking/internal/service/booking"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	locker := cache.NewRedisLocker(cfg.Redis, cfg.Booking.FlightLockRetries, time.Duration(cfg.Booking.FlightLockRetryDelayMs)*time.Millisecond)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	inventoryClient := inventory.NewClient(cfg.Inventory)
	bookingService := booking.NewBookingService(
		bookingRepo,
		inventoryClient,
		locker,
		producer,
		time.Duration(cfg.Booking.FlightLockTTLSeconds)*time.Second,
		cfg.Worker.SweepMinAge(),
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithLogger(logger),
	)

	if err := bootstrap.Run(ctx, cfg, logger, bookingService, producer); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
