package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-slms/internal/balance"
	"go-slms/internal/holiday"
	"go-slms/internal/leave"
	"go-slms/internal/messaging/kafka"
	"go-slms/internal/messaging/kafka/producer"
	"go-slms/internal/shared/connection"

	"go.uber.org/zap"
)

func RunWorker() error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(gormDB)

	balanceService := balance.NewService(
		balance.NewRepository(gormDB),
		holiday.NewRepository(gormDB),
	)
	leaveService := leave.NewService(
		gormDB,
		leave.NewRepository(gormDB),
		balanceService,
		outboxRepo,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	go runEndedLeaveSweep(ctx, leaveService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

// runEndedLeaveSweep flags approved requests whose end date has passed. It
// runs once at startup and then every 24 hours.
func runEndedLeaveSweep(ctx context.Context, leaveService leave.Service, logger *zap.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		flagged, err := leaveService.SweepEnded(ctx)
		if err != nil {
			logger.Error("ended leave sweep failed", zap.Error(err))
		} else if flagged > 0 {
			logger.Info("ended leave sweep completed", zap.Int("flagged", flagged))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
