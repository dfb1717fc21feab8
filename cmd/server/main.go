package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/altapos/variant-wizard-service/config"
	"github.com/altapos/variant-wizard-service/internal/pkg/broker"
	"github.com/altapos/variant-wizard-service/internal/pkg/cache"
	"github.com/altapos/variant-wizard-service/internal/pkg/imagestore"
	"github.com/altapos/variant-wizard-service/internal/pkg/logger"
	"github.com/altapos/variant-wizard-service/internal/pkg/postgres"
	"github.com/altapos/variant-wizard-service/internal/pkg/search"
	"github.com/altapos/variant-wizard-service/internal/server"

	attrH "github.com/altapos/variant-wizard-service/internal/attribute/handler"
	attrListenerPkg "github.com/altapos/variant-wizard-service/internal/attribute/listener"
	attrRepoPkg "github.com/altapos/variant-wizard-service/internal/attribute/repository"
	attrUCPkg "github.com/altapos/variant-wizard-service/internal/attribute/usecase"

	wizH "github.com/altapos/variant-wizard-service/internal/wizard/handler"
	wizRepoPkg "github.com/altapos/variant-wizard-service/internal/wizard/repository"
	wizUCPkg "github.com/altapos/variant-wizard-service/internal/wizard/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     false,
		DisableStacktrace: false,
	}

	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Repositories
	attrRepo := attrRepoPkg.NewPGRepository(db)
	wizRepo := wizRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5.5 Initialize Kafka
	catalogConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.CatalogTopic,
		GroupID: cfg.Kafka.CatalogGroupID,
	})
	defer catalogConsumer.Close()
	appLogger.Info("Connected to Kafka Consumer",
		zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.CatalogTopic))

	draftProducer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.DraftTopic,
	})
	defer draftProducer.Close()

	// 5.8 Initialize Elasticsearch
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch (draft search will fall back to DB)", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 5.9 Image store for per-row wizard uploads
	images, err := imagestore.New(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
	if err != nil {
		appLogger.Fatal("Could not initialize image store", zap.Error(err))
	}

	// 6. Initialize UseCases
	attrUC := attrUCPkg.NewAttributeUseCase(attrRepo, redisClient, appLogger)
	wizUC := wizUCPkg.NewWizardUseCase(wizRepo, attrUC, redisClient, esClient, draftProducer, images, appLogger)

	// 6.5 Initialize Listeners
	catalogListener := attrListenerPkg.NewCatalogListener(catalogConsumer, attrUC, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go catalogListener.Start(ctx)

	// 7. Initialize Handlers and start HTTP server
	attrHandler := attrH.NewAttributeHandler(attrUC, appLogger)
	wizHandler := wizH.NewWizardHandler(wizUC, appLogger)

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		cfg.Server.HTTPPort = ":" + port
	}

	srv := server.New(cfg, attrHandler, wizHandler)

	appLogger.Info("Starting HTTP server", zap.String("port", cfg.Server.HTTPPort))

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
