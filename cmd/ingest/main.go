package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minhvu/coolsearch/internal/catalog"
	"github.com/minhvu/coolsearch/internal/config"
	"github.com/minhvu/coolsearch/internal/domain"
	"github.com/minhvu/coolsearch/internal/logger"
	"github.com/minhvu/coolsearch/internal/repository"
	"github.com/minhvu/coolsearch/internal/service"
	"github.com/minhvu/coolsearch/internal/storage"
)

func main() {
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "coolsearch-ingest",
	})
	logger.SetDefaultLogger(appLogger)

	catalogFile := flag.String("file", "", "Line-oriented catalog text file (default from config)")
	artifactPath := flag.String("artifact", "", "Where to write the parsed catalog JSON (default from config)")
	doSync := flag.Bool("sync", false, "Upload embeddings to the vector store after parsing")
	force := flag.Bool("force", false, "Re-upload even when the collection is non-empty")
	doExport := flag.Bool("export", false, "Upload the catalog artifact to object storage")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	sourceFile := *catalogFile
	if sourceFile == "" {
		sourceFile = cfg.Catalog.File
	}
	artifact := *artifactPath
	if artifact == "" {
		artifact = cfg.Catalog.Artifact
	}

	appLogger.WithFields(logger.Fields{
		"file":     sourceFile,
		"artifact": artifact,
		"sync":     *doSync,
		"force":    *force,
	}).Info("Starting catalog ingestion")

	products, err := catalog.ParseFile(sourceFile)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to parse catalog file")
	}
	appLogger.WithField("count", len(products)).Info("Parsed catalog")

	if err := catalog.WriteArtifact(artifact, products); err != nil {
		appLogger.WithError(err).Fatal("Failed to write catalog artifact")
	}

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	productRepo := repository.NewProductRepository(db)
	jobRepo := repository.NewSyncJobRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	if err := productRepo.UpsertAll(ctx, products); err != nil {
		appLogger.WithError(err).Fatal("Failed to store catalog")
	}
	appLogger.WithField("count", len(products)).Info("Catalog stored")

	if *doSync {
		if err := cfg.Validate(); err != nil {
			appLogger.WithError(err).Fatal("Invalid config")
		}
		runSync(ctx, cfg, jobRepo, products, *force, appLogger)
	}

	if *doExport {
		exportArtifact(ctx, cfg, products, appLogger)
	}
}

// runSync embeds the parsed catalog and uploads it to the vector store.
func runSync(ctx context.Context, cfg *config.Config, jobRepo *repository.SyncJobRepository, products []domain.Product, force bool, appLogger *logger.Logger) {
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

	if err := qdrantRepo.EnsureCollection(ctx); err != nil {
		appLogger.WithError(err).Fatal("Failed to ensure Qdrant collection")
	}

	embeddingProvider, err := service.NewEmbeddingProvider(&cfg.Embedding)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize embedding provider")
	}

	syncService := service.NewSyncService(
		jobRepo,
		qdrantRepo,
		embeddingProvider,
		appLogger,
		&service.SyncConfig{
			BatchSize: cfg.Sync.BatchSize,
		},
	)

	stats, err := syncService.SyncCatalog(ctx, products, &service.SyncOptions{Force: force})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to sync catalog")
	}
	appLogger.WithFields(logger.Fields{
		"total":    stats.TotalItems,
		"uploaded": stats.UploadedItems,
		"failed":   stats.FailedItems,
		"skipped":  stats.Skipped,
	}).Info("Sync completed")
}

// exportArtifact uploads the parsed catalog JSON to object storage for backup.
func exportArtifact(ctx context.Context, cfg *config.Config, products []domain.Product, appLogger *logger.Logger) {
	if cfg.Storage.AccessKey == "" {
		appLogger.Warn("Object storage not configured, skipping export")
		return
	}

	objectStorage, err := storage.NewStorage(&storage.S3Config{
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

	if err := objectStorage.EnsureBucket(ctx); err != nil {
		appLogger.WithError(err).Fatal("Failed to ensure storage bucket")
	}

	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to serialize catalog")
	}

	key := fmt.Sprintf("exports/products-%s.json", time.Now().UTC().Format("20060102-150405"))
	if err := objectStorage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), "application/json"); err != nil {
		appLogger.WithError(err).Fatal("Failed to upload catalog artifact")
	}

	appLogger.WithFields(logger.Fields{
		"key": key,
		"url": objectStorage.GetURL(key),
	}).Info("Catalog artifact exported")
}
