package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/notification"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/notification/email"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/config"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/db"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/utils"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not found: %v\n", err)
	}

	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(config.LoggerConfig{
		Level:   cfg.LogLevel,
		Env:     cfg.Env,
		Service: "storefront-notifier",
	})
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	tp, err := utils.InitTracer(ctx, utils.TracerConfig{
		ServiceName: "storefront-notifier",
		Environment: cfg.Env,
		Endpoint:    cfg.Tracing.Endpoint,
	})
	if err != nil {
		logger.Fatal("Error starting telemetry", zap.Error(err))
	}

	pool, err := db.NewPostgresDB(ctx, db.PoolConfig{
		URL:      cfg.Postgres.URL,
		MaxConns: cfg.Postgres.MaxConns,
		MinConns: cfg.Postgres.MinConns,
	}, logger)
	if err != nil {
		logger.Fatal("Error creating postgres pool", zap.Error(err))
	}

	sender := email.NewSMTPSender(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
	}, logger)

	svc := notification.NewService(
		sender,
		notification.PostgresDeduplicator(pool, logger),
		cfg.SMTP.AdminEmail,
		logger,
	)
	consumer := notification.NewConsumer(svc, logger)

	logger.Info("Notifier started", zap.Strings("brokers", cfg.Kafka.Brokers))

	if err := consumer.Start(ctx, cfg.Kafka.Brokers); err != nil {
		logger.Error("Consumer stopped with error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error closing telemetry", zap.Error(err))
	}

	pool.Close()
	logger.Info("Notifier stopped")
}
