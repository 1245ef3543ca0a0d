package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/auth"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/repository"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/service"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/storage"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/transport/http"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/transport/http/handler"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/transport/http/middleware"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/config"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/db"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/kafka"
	outbox "github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/outbox/repository"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/outbox/worker"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
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
		Service: "storefront-api",
	})
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	tp, err := utils.InitTracer(ctx, utils.TracerConfig{
		ServiceName: "storefront-api",
		Environment: cfg.Env,
		Endpoint:    cfg.Tracing.Endpoint,
	})
	if err != nil {
		logger.Fatal("Failed to init tracer", zap.Error(err))
	}

	if cfg.Postgres.AutoMigrate {
		if err := db.Migrate(cfg.Postgres.URL, cfg.Postgres.Migrations, logger); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	pool, err := db.NewPostgresDB(ctx, db.PoolConfig{
		URL:      cfg.Postgres.URL,
		MaxConns: cfg.Postgres.MaxConns,
		MinConns: cfg.Postgres.MinConns,
	}, logger)
	if err != nil {
		logger.Fatal("Error creating postgres pool", zap.Error(err))
	}

	store, err := storage.NewSupabaseStorage(ctx, storage.Config{
		URL:       cfg.Supabase.URL,
		AccessKey: cfg.Supabase.AccessKey,
		SecretKey: cfg.Supabase.SecretKey,
		Region:    cfg.Supabase.Region,
		Bucket:    cfg.Supabase.Bucket,
	}, logger)
	if err != nil {
		logger.Fatal("Error creating storage client", zap.Error(err))
	}
	if err := store.EnsureBucket(ctx); err != nil {
		logger.Warn("Could not ensure storage bucket, uploads may fail", zap.Error(err))
	}

	productRepo := repository.NewProductRepository(pool, logger)
	imageRepo := repository.NewImageRepository(pool, logger)
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	collectionRepo := repository.NewCollectionRepository(pool, logger)
	offerRepo := repository.NewOfferRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	enquiryRepo := repository.NewEnquiryRepository(pool, logger)
	settingsRepo := repository.NewSettingsRepository(pool, logger)
	statsRepo := repository.NewStatsRepository(pool, logger)
	outboxRepo := outbox.NewOutboxRepository()

	var (
		productService service.ProductService = service.NewProductService(productRepo, outboxRepo, pool, logger)
		invalidator    service.CacheInvalidator
		rdb            *redis.Client
	)
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("Redis ping failed", zap.Error(err))
		}

		cached := service.NewCachedProductService(productService, rdb, cfg.Redis.TTL, logger)
		productService = cached
		invalidator = cached
		logger.Info("Product cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var producer kafka.Producer
	if cfg.Kafka.Enabled {
		producer, err = kafka.NewProducer(cfg.Kafka.Brokers, logger)
		if err != nil {
			logger.Fatal("Error creating kafka producer", zap.Error(err))
		}

		outboxProcessor := worker.NewOutboxProcessor(pool, outboxRepo, producer, logger,
			worker.WithBatchSize(cfg.Kafka.OutboxBatch),
			worker.WithInterval(cfg.Kafka.OutboxInterval),
			worker.WithRegisterer(registry),
		)
		go outboxProcessor.Start(ctx)
	}

	userService := service.NewUserService(userRepo, logger)

	handlers := &http.Handlers{
		Auth:       handler.NewAuthHandler(cfg.IsProduction(), logger),
		Product:    handler.NewProductHandler(productService, logger),
		Image:      handler.NewImageHandler(service.NewImageService(productRepo, imageRepo, store, invalidator, pool, logger), logger),
		Category:   handler.NewCategoryHandler(service.NewCategoryService(categoryRepo, productRepo, store, invalidator, logger), logger),
		Collection: handler.NewCollectionHandler(service.NewCollectionService(collectionRepo, productRepo, store, pool, logger), logger),
		Offer:      handler.NewOfferHandler(service.NewOfferService(offerRepo, store, logger), logger),
		Settings:   handler.NewSettingsHandler(service.NewSettingsService(settingsRepo, logger), logger),
		Order:      handler.NewOrderHandler(service.NewOrderService(orderRepo, productRepo, userRepo, outboxRepo, invalidator, pool, logger), logger),
		Enquiry:    handler.NewEnquiryHandler(service.NewEnquiryService(enquiryRepo, outboxRepo, pool, logger), logger),
		Admin:      handler.NewAdminHandler(service.NewAdminService(statsRepo, productRepo), userService, logger),
	}

	app := http.NewApp(http.AppConfig{
		IsProduction:   cfg.IsProduction(),
		BodyLimitBytes: cfg.HTTP.BodyLimitBytes,
		Timeout:        cfg.HTTP.Timeout,
		AllowOrigins:   cfg.CORS.AllowOrigins,
	}, middleware.NewMetrics(registry, "storefront"), logger)

	http.RegisterRoutes(app, handlers, http.RouteDeps{
		Auth:     middleware.NewAuthMiddleware(auth.NewVerifier(cfg.Supabase.JWTSecret, cfg.Supabase.JWTAudience), userService, logger),
		Limiter:  http.NewLimiter(cfg.Limiter.Max, cfg.Limiter.Window),
		Gatherer: registry,
	})

	go func() {
		logger.Info("HTTP server listening", zap.String("port", cfg.HTTP.Port), zap.String("env", cfg.Env))
		if err := app.Listen(cfg.HTTP.Port); err != nil {
			logger.Fatal("Error listening on HTTP port", zap.String("port", cfg.HTTP.Port), zap.Error(err))
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Error shutting down HTTP app", zap.Error(err))
	} else {
		logger.Info("HTTP app stopped gracefully")
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("Error closing kafka producer", zap.Error(err))
		}
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("Error closing redis client", zap.Error(err))
		}
	}

	pool.Close()
	logger.Info("Closed db pool")

	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down telemetry", zap.Error(err))
	} else {
		logger.Info("Telemetry stopped")
	}
}
