package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Vidgram-Market/service-pricing/internal/application"
	"github.com/Vidgram-Market/service-pricing/internal/config"
	pricingEvents "github.com/Vidgram-Market/service-pricing/internal/events"
	"github.com/Vidgram-Market/service-pricing/internal/handler"
	"github.com/Vidgram-Market/service-pricing/internal/platform/auth"
	"github.com/Vidgram-Market/service-pricing/internal/platform/database"
	"github.com/Vidgram-Market/service-pricing/internal/platform/health"
	"github.com/Vidgram-Market/service-pricing/internal/platform/kafka"
	"github.com/Vidgram-Market/service-pricing/internal/platform/logger"
	"github.com/Vidgram-Market/service-pricing/internal/platform/metrics"
	"github.com/Vidgram-Market/service-pricing/internal/platform/middleware"
	"github.com/Vidgram-Market/service-pricing/internal/repository"
	"github.com/Vidgram-Market/service-pricing/internal/rushslot"
	"github.com/Vidgram-Market/service-pricing/internal/saga"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewNamed(cfg.AppEnv, "service-pricing")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting service-pricing",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(repository.Models()...); err != nil {
			zapLogger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		zapLogger.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), repository.Migrations, "migrations", zapLogger); err != nil {
			zapLogger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Connect to Redis for rush slot counters
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConfig.Addr,
		Password: cfg.RedisConfig.Password,
		DB:       cfg.RedisConfig.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		zapLogger.Fatal("failed to connect to redis", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, cfg.JWTConfig.Issuer, 15*time.Minute)

	// Register Prometheus collectors
	metrics.MustRegister(nil)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, zapLogger)
	defer kafkaProducer.Close()

	// Initialize repositories
	pricingRepo := repository.NewCreatorPricingRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	rushCounter := rushslot.NewCounter(rdb)

	// Initialize saga service
	sagaService := saga.NewQuoteSagaService(quoteRepo, rushCounter, kafkaProducer, zapLogger)

	// Initialize application services
	pricingService := application.NewPricingService(pricingRepo, rushCounter, zapLogger)
	quoteService := application.NewQuoteService(quoteRepo, pricingRepo, rushCounter, sagaService, cfg.QuoteTTL, zapLogger)

	// Initialize Kafka consumer for booking events
	consumerGroupID := cfg.KafkaConfig.GroupPrefix + "pricing-service"
	bookingConsumer := pricingEvents.NewBookingEventConsumer(
		cfg.KafkaConfig.Brokers,
		consumerGroupID,
		quoteService,
		zapLogger,
	)
	defer bookingConsumer.Close()

	// Start Kafka consumer in a goroutine
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	go func() {
		zapLogger.Info("starting booking event consumer")
		if err := bookingConsumer.Start(consumerCtx); err != nil {
			if consumerCtx.Err() == nil {
				zapLogger.Error("booking event consumer failed", zap.Error(err))
			}
		}
	}()

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.LoggerMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check and metrics routes
	healthHandler := health.NewHandler(db, rdb, "service-pricing")
	healthHandler.RegisterRoutes(router)
	router.GET("/metrics", metrics.Handler())

	// Register API routes
	apiV1 := router.Group("/api/v1")
	handler.NewPricingHandler(pricingService).RegisterRoutes(apiV1, jwtManager)
	handler.NewQuoteHandler(quoteService).RegisterRoutes(apiV1, jwtManager)
	handler.NewInsightsHandler(pricingService).RegisterRoutes(apiV1, jwtManager)
	handler.NewAdminQuoteHandler(quoteService).RegisterRoutes(apiV1, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down service-pricing...")

	// Cancel Kafka consumer
	consumerCancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("service-pricing stopped")
}
