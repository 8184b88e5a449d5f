package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minhvu/coolsearch/internal/api"
	"github.com/minhvu/coolsearch/internal/config"
	"github.com/minhvu/coolsearch/internal/logger"
	"github.com/minhvu/coolsearch/internal/repository"
	"github.com/minhvu/coolsearch/internal/service"
	"github.com/minhvu/coolsearch/internal/storage"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	productRepo := repository.NewProductRepository(db)
	jobRepo := repository.NewSyncJobRepository(db)

	qdrantRepo, err := repository.NewQdrantRepository(&repository.QdrantConnectionConfig{
		Host:            cfg.Qdrant.Host,
		Port:            cfg.Qdrant.Port,
		Collection:      cfg.Qdrant.Collection,
		APIKey:          cfg.Qdrant.APIKey,
		UseTLS:          cfg.Qdrant.UseTLS,
		VectorDimension: cfg.Embedding.Dimensions,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize Qdrant repository")
	}
	defer qdrantRepo.Close()

	ctx := context.Background()
	if err := qdrantRepo.EnsureCollection(ctx); err != nil {
		appLogger.WithError(err).Fatal("Failed to ensure Qdrant collection")
	}

	// Object storage is optional; without credentials the export endpoint is
	// simply unavailable.
	var artifactStore storage.ObjectStorage
	if cfg.Storage.AccessKey != "" {
		artifactStore, err = storage.NewStorage(&storage.S3Config{
			Type:      storage.StorageType(cfg.Storage.Type),
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize storage")
		}
		if err := artifactStore.EnsureBucket(ctx); err != nil {
			appLogger.WithError(err).Fatal("Failed to ensure storage bucket")
		}
	} else {
		appLogger.Info("Object storage not configured, catalog export disabled")
	}

	embeddingProvider, err := service.NewEmbeddingProvider(&cfg.Embedding)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize embedding provider")
	}

	searchService := service.NewSearchService(
		productRepo,
		qdrantRepo,
		embeddingProvider,
		appLogger,
		&service.SearchConfig{
			DefaultTopK:     cfg.Search.DefaultTopK,
			MaxTopK:         cfg.Search.MaxTopK,
			OverfetchFactor: cfg.Search.OverfetchFactor,
			ScoreThreshold:  cfg.Search.ScoreThreshold,
		},
	)

	syncService := service.NewSyncService(
		jobRepo,
		qdrantRepo,
		embeddingProvider,
		appLogger,
		&service.SyncConfig{
			BatchSize: cfg.Sync.BatchSize,
		},
	)

	recommendService := service.NewRecommendService(&cfg.Chat)
	if recommendService.IsEnabled() {
		appLogger.WithField("model", cfg.Chat.Model).Info("Recommendation replies enabled")
	}

	router := api.SetupRouter(searchService, recommendService, syncService, productRepo, jobRepo, artifactStore, cfg)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
