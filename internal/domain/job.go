package domain

import "time"

// JobStatus represents the status of a catalog sync job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusSkipped   JobStatus = "skipped"
	JobStatusFailed    JobStatus = "failed"
)

// SyncJob records one catalog-to-vector-store synchronization run.
type SyncJob struct {
	ID            string     `gorm:"type:text;primaryKey" json:"id"`
	Collection    string     `gorm:"type:text;not null;index" json:"collection"`
	Status        JobStatus  `gorm:"default:pending" json:"status"`
	TotalItems    int        `gorm:"default:0" json:"total_items"`
	UploadedItems int        `gorm:"default:0" json:"uploaded_items"`
	FailedItems   int        `gorm:"default:0" json:"failed_items"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	ErrorLog      string     `json:"error_log,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName returns the database table name for SyncJob.
func (SyncJob) TableName() string {
	return "sync_jobs"
}
