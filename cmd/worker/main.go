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
	"github.com/krsingh2254/flightbooking/internal/email"
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

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	inventoryClient := inventory.NewClient(cfg.Inventory)
	bookingService := booking.NewBookingService(
		bookingRepo,
		inventoryClient,
		nil,
		producer,
		time.Duration(cfg.Booking.FlightLockTTLSeconds)*time.Second,
		cfg.Worker.SweepMinAge(),
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithLogger(logger),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, logger)
	defer consumer.Close()

	emailSender := email.NewSender(logger)

	go func() {
		if err := consumer.Consume(ctx, emailSender.Send); err != nil {
			logger.Warn("consumer stopped", zap.Error(err))
		}
	}()

	sweepTicker := time.NewTicker(cfg.Worker.SweepInterval())
	defer sweepTicker.Stop()

	for {
		select {
		case <-sweepTicker.C:
			swept, err := bookingService.SweepStuckBookings(ctx)
			if err != nil {
				logger.Error("sweep stuck bookings", zap.Error(err))
				continue
			}
			if len(swept) > 0 {
				logger.Info("swept stuck bookings", zap.Int("count", len(swept)))
			}
		case <-ctx.Done():
			logger.Info("shutting down worker")
			return
		}
	}
}
