package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/minhvu/coolsearch/internal/domain"
	"gorm.io/gorm"
)

// SyncJobRepository persists catalog sync job bookkeeping.
type SyncJobRepository struct {
	db *gorm.DB
}

// NewSyncJobRepository creates a new SyncJobRepository bound to db.
func NewSyncJobRepository(db *gorm.DB) *SyncJobRepository {
	return &SyncJobRepository{db: db}
}

// Start creates a running job record for the given collection.
func (r *SyncJobRepository) Start(ctx context.Context, collection string, totalItems int) (*domain.SyncJob, error) {
	now := time.Now()
	job := &domain.SyncJob{
		ID:         uuid.New().String(),
		Collection: collection,
		Status:     domain.JobStatusRunning,
		TotalItems: totalItems,
		StartedAt:  &now,
	}
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

// Finish marks a job terminal with its final counters.
func (r *SyncJobRepository) Finish(ctx context.Context, job *domain.SyncJob, status domain.JobStatus, uploaded, failed int, errorLog string) error {
	now := time.Now()
	job.Status = status
	job.UploadedItems = uploaded
	job.FailedItems = failed
	job.ErrorLog = errorLog
	job.CompletedAt = &now
	return r.db.WithContext(ctx).Save(job).Error
}

// Latest returns the most recent job for a collection, or nil if none exists.
func (r *SyncJobRepository) Latest(ctx context.Context, collection string) (*domain.SyncJob, error) {
	var job domain.SyncJob
	err := r.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("created_at DESC").
		First(&job).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}
