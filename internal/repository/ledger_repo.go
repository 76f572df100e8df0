package repository

import (
	"ledger-reconciliation-backend/internal/models"
	"ledger-reconciliation-backend/internal/services/matching"

	"gorm.io/gorm"
)

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Expose DB if needed
func (r *LedgerRepository) DB() *gorm.DB {
	return r.db
}

// GetUnmatched returns the current unmatched pool ordered by uid. The
// order is load-bearing: the engine's greedy first-fit tie-break is
// defined over this ordering.
func (r *LedgerRepository) GetUnmatched() ([]models.LedgerRecord, error) {
	var records []models.LedgerRecord
	err := r.db.
		Where("match_status = ?", models.StatusUnmatched).
		Order("uid ASC").
		Find(&records).Error
	return records, err
}

// CreateRecord inserts a single ledger row.
func (r *LedgerRepository) CreateRecord(record *models.LedgerRecord) error {
	return r.db.Create(record).Error
}

// ApplyMatches persists one orchestration pass: for every match both legs
// get the same method, keywords and audit document, and each leg's
// matched_with points at the other. Manual-verification matches land in
// pending_verification instead of matched. The whole pass commits in one
// transaction.
func (r *LedgerRepository) ApplyMatches(matches []matching.Match) error {
	if len(matches) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range matches {
			status := models.StatusMatched
			if m.RequiresVerification() {
				status = models.StatusPendingVerification
			}
			auditDoc, err := m.AuditDocument()
			if err != nil {
				return err
			}

			updates := map[string]any{
				"match_status": status,
				"match_method": string(m.Method),
				"keywords":     m.Audit.Keywords(),
				"audit_info":   auditDoc,
			}

			lenderUpdates := cloneUpdates(updates)
			lenderUpdates["matched_with"] = m.BorrowerUID
			if err := tx.Model(&models.LedgerRecord{}).
				Where("uid = ?", m.LenderUID).
				Updates(lenderUpdates).Error; err != nil {
				return err
			}

			borrowerUpdates := cloneUpdates(updates)
			borrowerUpdates["matched_with"] = m.LenderUID
			if err := tx.Model(&models.LedgerRecord{}).
				Where("uid = ?", m.BorrowerUID).
				Updates(borrowerUpdates).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByUID fetches a single record.
func (r *LedgerRepository) GetByUID(uid string) (*models.LedgerRecord, error) {
	var record models.LedgerRecord
	if err := r.db.First(&record, "uid = ?", uid).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// MatchedPair is a reconciled lender/borrower leg pair.
type MatchedPair struct {
	Lender   models.LedgerRecord `json:"lender"`
	Borrower models.LedgerRecord `json:"borrower"`
}

// GetMatchedPairs returns reconciled pairs, lender side leading. Pending
// verification pairs are included; callers filter on match_status.
func (r *LedgerRepository) GetMatchedPairs() ([]MatchedPair, error) {
	var lenders []models.LedgerRecord
	err := r.db.
		Where("match_status IN ?", []string{models.StatusMatched, models.StatusPendingVerification}).
		Where("debit > 0").
		Order("uid ASC").
		Find(&lenders).Error
	if err != nil {
		return nil, err
	}

	pairs := make([]MatchedPair, 0, len(lenders))
	for _, lender := range lenders {
		if lender.MatchedWith == "" {
			continue
		}
		var borrower models.LedgerRecord
		if err := r.db.First(&borrower, "uid = ?", lender.MatchedWith).Error; err != nil {
			return nil, err
		}
		pairs = append(pairs, MatchedPair{Lender: lender, Borrower: borrower})
	}
	return pairs, nil
}

// GetUnmatchedRecords lists rows still awaiting a counterpart.
func (r *LedgerRepository) GetUnmatchedRecords() ([]models.LedgerRecord, error) {
	var records []models.LedgerRecord
	err := r.db.
		Where("match_status = ?", models.StatusUnmatched).
		Order("uid ASC").
		Find(&records).Error
	return records, err
}

// SetPairStatus updates both legs of an existing pair to the given status.
func (r *LedgerRepository) SetPairStatus(uid, counterpartUID, status string) error {
	return r.db.Model(&models.LedgerRecord{}).
		Where("uid IN ?", []string{uid, counterpartUID}).
		Update("match_status", status).Error
}

// ClearPair returns both legs of a pair to the unmatched pool.
func (r *LedgerRepository) ClearPair(uid, counterpartUID string) error {
	return r.db.Model(&models.LedgerRecord{}).
		Where("uid IN ?", []string{uid, counterpartUID}).
		Updates(map[string]any{
			"match_status": models.StatusUnmatched,
			"matched_with": "",
			"match_method": "",
			"keywords":     "",
			"audit_info":   nil,
		}).Error
}

// ResetMatches returns every record to the unmatched pool.
func (r *LedgerRepository) ResetMatches() (int64, error) {
	result := r.db.Model(&models.LedgerRecord{}).
		Where("match_status <> ?", models.StatusUnmatched).
		Updates(map[string]any{
			"match_status": models.StatusUnmatched,
			"matched_with": "",
			"match_method": "",
			"keywords":     "",
			"audit_info":   nil,
		})
	return result.RowsAffected, result.Error
}

// LedgerStats summarizes the pool by match status.
type LedgerStats struct {
	Total          int64   `json:"total"`
	TotalDebit     float64 `json:"total_debit"`
	TotalCredit    float64 `json:"total_credit"`
	MatchedCount   int64   `json:"matched_count"`
	PendingCount   int64   `json:"pending_verification_count"`
	UnmatchedCount int64   `json:"unmatched_count"`
}

type statRow struct {
	MatchStatus string
	Count       int64
	DebitSum    float64
	CreditSum   float64
}

// GetStats aggregates record counts and sums grouped by match status.
func (r *LedgerRepository) GetStats() (LedgerStats, error) {
	var stats LedgerStats
	var rows []statRow

	err := r.db.Model(&models.LedgerRecord{}).
		Select("match_status, COUNT(*) as count, COALESCE(SUM(debit),0) as debit_sum, COALESCE(SUM(credit),0) as credit_sum").
		Group("match_status").
		Scan(&rows).Error
	if err != nil {
		return stats, err
	}

	for _, row := range rows {
		stats.Total += row.Count
		stats.TotalDebit += row.DebitSum
		stats.TotalCredit += row.CreditSum
		switch row.MatchStatus {
		case models.StatusMatched:
			stats.MatchedCount = row.Count
		case models.StatusPendingVerification:
			stats.PendingCount = row.Count
		case models.StatusUnmatched:
			stats.UnmatchedCount = row.Count
		}
	}
	return stats, nil
}

func cloneUpdates(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
