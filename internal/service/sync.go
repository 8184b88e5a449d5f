package service

import (
	"context"
	"fmt"
	"time"

	"github.com/minhvu/coolsearch/internal/domain"
	"github.com/minhvu/coolsearch/internal/logger"
	"github.com/minhvu/coolsearch/internal/repository"
)

// VectorIndex is the slice of the vector store the pipeline depends on.
// *repository.QdrantRepository implements it.
type VectorIndex interface {
	Collection() string
	Count(ctx context.Context) (uint64, error)
	UpsertBatch(ctx context.Context, points []repository.ProductPoint) error
	Search(ctx context.Context, vector []float32, limit int) ([]repository.SearchResult, error)
}

// SyncService uploads catalog embeddings to the vector store.
type SyncService struct {
	jobRepo   *repository.SyncJobRepository
	index     VectorIndex
	embedding EmbeddingProvider
	logger    *logger.Logger
	batchSize int
}

// SyncConfig holds configuration for the sync service.
type SyncConfig struct {
	BatchSize int
}

// NewSyncService creates a sync service. jobRepo may be nil when job
// bookkeeping is not wanted.
func NewSyncService(
	jobRepo *repository.SyncJobRepository,
	index VectorIndex,
	embedding EmbeddingProvider,
	log *logger.Logger,
	cfg *SyncConfig,
) *SyncService {
	batchSize := 50
	if cfg != nil && cfg.BatchSize > 0 {
		batchSize = cfg.BatchSize
	}
	return &SyncService{
		jobRepo:   jobRepo,
		index:     index,
		embedding: embedding,
		logger:    log,
		batchSize: batchSize,
	}
}

// SyncOptions controls a single sync run.
type SyncOptions struct {
	// Force re-embeds and re-uploads even when the collection is non-empty.
	Force bool
}

// SyncStats holds counters for one sync run.
type SyncStats struct {
	TotalItems    int
	UploadedItems int
	FailedItems   int
	Skipped       bool
	StartTime     time.Time
	EndTime       time.Time
}

// BuildEmbeddingText builds the text that is embedded for a product.
// The same composition must be used for every upload within one collection.
func BuildEmbeddingText(p *domain.Product) string {
	return fmt.Sprintf("%s %s %s", p.Title, p.Category, p.Description)
}

// SyncCatalog ensures every product has a vector in the store.
//
// Idempotence is count-based only: a non-empty collection is treated as already
// synchronized and no embedding work happens. This cannot tell a fully synced
// catalog from a partially uploaded one; Force is the operator escape hatch.
//
// A failure embedding or upserting one record does not abort the run: the
// failure is logged, counted, and the remaining records continue. There is no
// retry and no rollback.
func (s *SyncService) SyncCatalog(ctx context.Context, products []domain.Product, opts *SyncOptions) (*SyncStats, error) {
	if opts == nil {
		opts = &SyncOptions{}
	}

	stats := &SyncStats{
		TotalItems: len(products),
		StartTime:  time.Now(),
	}

	count, err := s.index.Count(ctx)
	if err != nil {
		return nil, &StoreError{Op: "count", Err: err}
	}

	if count > 0 && !opts.Force {
		stats.Skipped = true
		stats.EndTime = time.Now()
		logger.CtxInfo(ctx, "Collection already contains %d vectors, skipping sync: collection=%s",
			count, s.index.Collection())
		s.recordJob(ctx, stats, domain.JobStatusSkipped, "")
		return stats, nil
	}

	var job *domain.SyncJob
	if s.jobRepo != nil {
		job, err = s.jobRepo.Start(ctx, s.index.Collection(), len(products))
		if err != nil {
			logger.CtxWarn(ctx, "Failed to record sync job: error=%v", err)
		} else {
			ctx = logger.WithFields(ctx, logger.Fields{
				logger.FieldJobID:     job.ID,
				logger.FieldComponent: "sync",
			})
		}
	}

	var lastErr error
	buffer := make([]repository.ProductPoint, 0, s.batchSize)

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		if err := s.index.UpsertBatch(ctx, buffer); err != nil {
			lastErr = &StoreError{Op: "upsert", Err: err}
			stats.FailedItems += len(buffer)
			logger.CtxError(ctx, "Failed to upsert batch: size=%d, error=%v", len(buffer), err)
		} else {
			stats.UploadedItems += len(buffer)
		}
		buffer = buffer[:0]
	}

	for i := range products {
		product := &products[i]

		vector, err := s.embedding.Embed(ctx, BuildEmbeddingText(product))
		if err != nil {
			lastErr = &ProviderError{Op: "embed " + product.ID, Err: err}
			stats.FailedItems++
			logger.CtxWarn(ctx, "Failed to embed product, continuing: id=%s, error=%v", product.ID, err)
			continue
		}

		buffer = append(buffer, repository.ProductPoint{
			ProductID: product.ID,
			Vector:    vector,
			Payload: &repository.ProductPayload{
				ProductID:       product.ID,
				Title:           product.Title,
				Category:        product.Category,
				Price:           product.Price,
				Description:     product.Description,
				DiscountPercent: product.DiscountPercent,
			},
		})

		if len(buffer) >= s.batchSize {
			flush()
		}
	}
	flush()

	stats.EndTime = time.Now()

	status := domain.JobStatusCompleted
	errorLog := ""
	if lastErr != nil {
		errorLog = lastErr.Error()
		if stats.UploadedItems == 0 && stats.TotalItems > 0 {
			status = domain.JobStatusFailed
		}
	}
	if job != nil {
		if err := s.jobRepo.Finish(ctx, job, status, stats.UploadedItems, stats.FailedItems, errorLog); err != nil {
			logger.CtxWarn(ctx, "Failed to finish sync job: error=%v", err)
		}
	}

	logger.With(logger.Fields{
		logger.FieldCount:      stats.UploadedItems,
		logger.FieldDurationMs: stats.EndTime.Sub(stats.StartTime).Milliseconds(),
		logger.FieldStatus:     string(status),
	}).Info(ctx, "Catalog sync finished: total=%d, uploaded=%d, failed=%d",
		stats.TotalItems, stats.UploadedItems, stats.FailedItems)

	return stats, nil
}

// recordJob writes a terminal job row for runs that never started uploading.
func (s *SyncService) recordJob(ctx context.Context, stats *SyncStats, status domain.JobStatus, errorLog string) {
	if s.jobRepo == nil {
		return
	}
	job, err := s.jobRepo.Start(ctx, s.index.Collection(), stats.TotalItems)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to record sync job: error=%v", err)
		return
	}
	if err := s.jobRepo.Finish(ctx, job, status, stats.UploadedItems, stats.FailedItems, errorLog); err != nil {
		logger.CtxWarn(ctx, "Failed to finish sync job: error=%v", err)
	}
}
