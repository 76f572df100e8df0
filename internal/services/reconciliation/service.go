package reconciliation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"ledger-reconciliation-backend/internal/models"
	"ledger-reconciliation-backend/internal/repository"
	"ledger-reconciliation-backend/internal/services/matching"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReconciliationService struct {
	ledgerRepo *repository.LedgerRepository
	engine     *matching.Engine
	db         *gorm.DB
}

func NewReconciliationService(ledgerRepo *repository.LedgerRepository, engine *matching.Engine) *ReconciliationService {
	return &ReconciliationService{
		ledgerRepo: ledgerRepo,
		engine:     engine,
		db:         ledgerRepo.DB(),
	}
}

// RunSummary reports one reconciliation pass.
type RunSummary struct {
	RecordsProcessed     int            `json:"records_processed"`
	Lenders              int            `json:"lenders"`
	Borrowers            int            `json:"borrowers"`
	MatchesFound         int            `json:"matches_found"`
	RequiresVerification int            `json:"requires_verification"`
	ByType               map[string]int `json:"by_type"`
}

// Run loads the unmatched pool, runs one engine pass and persists the
// results. Not safe to run concurrently against the same pool: consumption
// state is local to the pass and persistence is not transactionally linked
// to the read, so two overlapping passes can select the same record.
func (s *ReconciliationService) Run() (*RunSummary, error) {
	records, err := s.ledgerRepo.GetUnmatched()
	if err != nil {
		return nil, fmt.Errorf("load unmatched pool: %w", err)
	}

	summary := &RunSummary{
		RecordsProcessed: len(records),
		ByType:           make(map[string]int),
	}

	pool := make([]matching.Record, 0, len(records))
	for _, r := range records {
		pool = append(pool, matching.Record{
			UID:         r.UID,
			Particulars: r.Particulars,
			Debit:       r.Debit,
			Credit:      r.Credit,
			EnteredBy:   r.EnteredBy,
			Company:     r.Company,
		})
		if r.IsLenderLeg() {
			summary.Lenders++
		} else if r.IsBorrowerLeg() {
			summary.Borrowers++
		}
	}

	matches := s.engine.FindMatches(pool)
	if err := s.ledgerRepo.ApplyMatches(matches); err != nil {
		return nil, fmt.Errorf("persist matches: %w", err)
	}

	summary.MatchesFound = len(matches)
	for _, m := range matches {
		summary.ByType[string(m.Type)]++
		if m.RequiresVerification() {
			summary.RequiresVerification++
		}
	}

	log.Printf("reconciliation pass: %d records, %d matches (%d pending verification)",
		summary.RecordsProcessed, summary.MatchesFound, summary.RequiresVerification)
	return summary, nil
}

// CreateBatch creates a new UploadBatch in DB
func (s *ReconciliationService) CreateBatch(filename string) *models.UploadBatch {
	batch := &models.UploadBatch{
		ID:        uuid.New(),
		Filename:  filename,
		Status:    "processing",
		StartedAt: time.Now(),
		CreatedAt: time.Now(),
	}
	s.db.Create(batch)
	return batch
}

func (s *ReconciliationService) GetBatch(batchID uuid.UUID) (*models.UploadBatch, error) {
	var batch models.UploadBatch
	if err := s.db.First(&batch, "id = ?", batchID).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

// IngestLedgerCSV parses an uploaded tally ledger file into records.
// Expected columns: uid, company, date, particulars, debit, credit,
// entered_by. Rows violating the one-sided amount invariant are skipped,
// not fatal.
func (s *ReconciliationService) IngestLedgerCSV(batchID uuid.UUID, reader io.Reader) (int, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1

	// Skip header
	if _, err := csvReader.Read(); err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}

	inserted := 0
	skipped := 0
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if len(row) < 6 || strings.Join(row, "") == "" {
			skipped++
			continue
		}

		record, err := parseLedgerRow(batchID, row)
		if err != nil {
			skipped++
			continue
		}
		if err := s.ledgerRepo.CreateRecord(record); err != nil {
			log.Printf("insert row %s: %v", record.UID, err)
			skipped++
			continue
		}
		inserted++

		if inserted%100 == 0 {
			s.updateBatchProgress(batchID, inserted, skipped)
		}
	}

	s.markBatchCompleted(batchID, inserted, skipped)
	log.Printf("batch %s: %d rows inserted, %d skipped", batchID, inserted, skipped)
	return inserted, nil
}

func parseLedgerRow(batchID uuid.UUID, row []string) (*models.LedgerRecord, error) {
	uid := strings.TrimSpace(row[0])
	if uid == "" {
		uid = uuid.New().String()
	}

	debit, err := parseAmount(row[4])
	if err != nil {
		return nil, err
	}
	credit, err := parseAmount(row[5])
	if err != nil {
		return nil, err
	}
	// A record is one leg, never both.
	if (debit > 0) == (credit > 0) {
		return nil, errors.New("row must carry exactly one of debit/credit")
	}

	txnDate, err := time.Parse("2006-01-02", strings.TrimSpace(row[2]))
	if err != nil {
		txnDate, err = time.Parse("02-01-2006", strings.TrimSpace(row[2]))
	}
	if err != nil {
		return nil, err
	}

	enteredBy := ""
	if len(row) > 6 {
		enteredBy = strings.TrimSpace(row[6])
	}

	return &models.LedgerRecord{
		UID:           uid,
		UploadBatchID: batchID,
		Company:       strings.TrimSpace(row[1]),
		TxnDate:       txnDate,
		Particulars:   strings.TrimSpace(row[3]),
		Debit:         debit,
		Credit:        credit,
		EnteredBy:     enteredBy,
		MatchStatus:   models.StatusUnmatched,
		CreatedAt:     time.Now(),
	}, nil
}

func parseAmount(field string) (float64, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(field, ",", ""), 64)
}

func (s *ReconciliationService) updateBatchProgress(batchID uuid.UUID, inserted, skipped int) {
	s.db.Model(&models.UploadBatch{}).
		Where("id = ?", batchID).
		Updates(map[string]any{
			"processed_count": inserted,
			"skipped_count":   skipped,
		})
}

func (s *ReconciliationService) markBatchCompleted(batchID uuid.UUID, inserted, skipped int) {
	now := time.Now()
	s.db.Model(&models.UploadBatch{}).
		Where("id = ?", batchID).
		Updates(map[string]any{
			"processed_count": inserted,
			"skipped_count":   skipped,
			"total_records":   inserted,
			"status":          "completed",
			"completed_at":    &now,
		})
}

// ConfirmMatch promotes a pending-verification pair to matched. Only
// manual-verification matches sit in that state; everything else was
// accepted by the engine outright.
func (s *ReconciliationService) ConfirmMatch(uid, performedBy string) (*models.LedgerRecord, error) {
	record, err := s.ledgerRepo.GetByUID(uid)
	if err != nil {
		return nil, err
	}
	if record.MatchStatus != models.StatusPendingVerification {
		return nil, fmt.Errorf("record %s is not pending verification", uid)
	}
	if err := s.ledgerRepo.SetPairStatus(record.UID, record.MatchedWith, models.StatusMatched); err != nil {
		return nil, err
	}
	s.logAction(record, "confirm", performedBy, "manual verification confirmed")
	return s.ledgerRepo.GetByUID(uid)
}

// RejectMatch returns both legs of a pair to the unmatched pool.
func (s *ReconciliationService) RejectMatch(uid, performedBy, reason string) (*models.LedgerRecord, error) {
	record, err := s.ledgerRepo.GetByUID(uid)
	if err != nil {
		return nil, err
	}
	if record.MatchedWith == "" {
		return nil, fmt.Errorf("record %s has no counterpart", uid)
	}
	if err := s.ledgerRepo.ClearPair(record.UID, record.MatchedWith); err != nil {
		return nil, err
	}
	s.logAction(record, "reject", performedBy, reason)
	return s.ledgerRepo.GetByUID(uid)
}

func (s *ReconciliationService) logAction(record *models.LedgerRecord, action, performedBy, reason string) {
	s.db.Create(&models.MatchAuditLog{
		ID:             uuid.New(),
		RecordUID:      record.UID,
		CounterpartUID: record.MatchedWith,
		Action:         action,
		PerformedBy:    performedBy,
		Reason:         reason,
		CreatedAt:      time.Now(),
	})
}

// ResetMatches clears all match state.
func (s *ReconciliationService) ResetMatches() (int64, error) {
	return s.ledgerRepo.ResetMatches()
}

func (s *ReconciliationService) LedgerRepo() *repository.LedgerRepository {
	return s.ledgerRepo
}

func (s *ReconciliationService) DB() *gorm.DB {
	return s.db
}
