package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Match status lifecycle of a ledger record.
const (
	StatusUnmatched           = "unmatched"
	StatusMatched             = "matched"
	StatusPendingVerification = "pending_verification"
)

// LedgerRecord is one row of an uploaded tally ledger. Exactly one of
// Debit/Credit is non-zero: debit rows are lender legs, credit rows are
// borrower legs. Match state links the two legs of a reconciled pair
// symmetrically through MatchedWith.
type LedgerRecord struct {
	UID           string    `gorm:"primaryKey" json:"uid"`
	UploadBatchID uuid.UUID `gorm:"index" json:"upload_batch_id"`
	Company       string    `gorm:"index" json:"company"`
	TxnDate       time.Time `gorm:"column:txn_date" json:"txn_date"`
	Particulars   string    `json:"particulars"`
	Debit         float64   `gorm:"index" json:"debit"`
	Credit        float64   `gorm:"index" json:"credit"`
	EnteredBy     string    `json:"entered_by"`

	MatchStatus string         `gorm:"index;default:unmatched" json:"match_status"`
	MatchedWith string         `gorm:"index" json:"matched_with"`
	MatchMethod string         `json:"match_method"`
	Keywords    string         `json:"keywords"`
	AuditInfo   datatypes.JSON `json:"audit_info"`

	CreatedAt time.Time `json:"created_at"`
}

// IsLenderLeg reports whether the record carries the debit side.
func (r *LedgerRecord) IsLenderLeg() bool { return r.Debit > 0 }

// IsBorrowerLeg reports whether the record carries the credit side.
func (r *LedgerRecord) IsBorrowerLeg() bool { return r.Credit > 0 }
