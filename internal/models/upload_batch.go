package models

import (
	"time"

	"github.com/google/uuid"
)

// UploadBatch tracks one ledger file upload and its ingest progress.
type UploadBatch struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Filename       string     `json:"filename"`
	TotalRecords   int        `json:"total_records"`
	ProcessedCount int        `json:"processed_count"`
	SkippedCount   int        `json:"skipped_count"`
	Status         string     `json:"status"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at"`
	CreatedAt      time.Time  `json:"created_at"`
}
