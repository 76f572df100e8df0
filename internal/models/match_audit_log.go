package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchAuditLog records a review action taken on a matched pair, primarily
// confirm/reject decisions on pending-verification matches.
type MatchAuditLog struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecordUID      string    `gorm:"index"`
	CounterpartUID string
	Action         string
	PerformedBy    string
	Reason         string
	CreatedAt      time.Time
}
