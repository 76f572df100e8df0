package handler

import (
	"encoding/csv"
	"log"
	"net/http"
	"strconv"

	service "ledger-reconciliation-backend/internal/services/reconciliation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReconciliationHandler struct {
	service *service.ReconciliationService
}

func NewReconciliationHandler(s *service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{service: s}
}

// UploadLedger handles tally ledger CSV uploads, creates a batch, and
// processes rows in background
func (h *ReconciliationHandler) UploadLedger(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}

	log.Println("Received ledger file:", header.Filename, "size:", header.Size)

	batch := h.service.CreateBatch(header.Filename)

	go func() {
		defer file.Close()
		if _, err := h.service.IngestLedgerCSV(batch.ID, file); err != nil {
			log.Printf("ingest batch %s: %v", batch.ID, err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"batch_id": batch.ID.String(),
		"status":   "processing",
	})
}

// GetBatchProgress reports ingest progress for one batch
func (h *ReconciliationHandler) GetBatchProgress(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("batchId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch ID"})
		return
	}
	batch, err := h.service.GetBatch(batchID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"processed_count": batch.ProcessedCount,
		"skipped_count":   batch.SkippedCount,
		"total":           batch.TotalRecords,
		"status":          batch.Status,
	})
}

// Run executes one reconciliation pass over the unmatched pool
func (h *ReconciliationHandler) Run(c *gin.Context) {
	summary, err := h.service.Run()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reconciliation completed", "summary": summary})
}

// GetMatched lists reconciled pairs
func (h *ReconciliationHandler) GetMatched(c *gin.Context) {
	pairs, err := h.service.LedgerRepo().GetMatchedPairs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pairs": pairs, "count": len(pairs)})
}

// GetUnmatched lists records still awaiting a counterpart
func (h *ReconciliationHandler) GetUnmatched(c *gin.Context) {
	records, err := h.service.LedgerRepo().GetUnmatchedRecords()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}

// GetStats reports pool counts and sums grouped by match status
func (h *ReconciliationHandler) GetStats(c *gin.Context) {
	stats, err := h.service.LedgerRepo().GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ConfirmMatch promotes a pending-verification pair to matched
func (h *ReconciliationHandler) ConfirmMatch(c *gin.Context) {
	uid := c.Param("uid")
	record, err := h.service.ConfirmMatch(uid, c.Query("performed_by"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "match confirmed", "record": record})
}

// RejectMatch returns both legs of a pair to the unmatched pool
func (h *ReconciliationHandler) RejectMatch(c *gin.Context) {
	uid := c.Param("uid")
	var payload struct {
		Reason string `json:"reason"`
	}
	_ = c.BindJSON(&payload)

	record, err := h.service.RejectMatch(uid, c.Query("performed_by"), payload.Reason)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "match rejected", "record": record})
}

// ResetMatches clears all match state
func (h *ReconciliationHandler) ResetMatches(c *gin.Context) {
	count, err := h.service.ResetMatches()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "matches reset", "records_updated": count})
}

// ExportMatched streams the reconciled pairs as CSV
func (h *ReconciliationHandler) ExportMatched(c *gin.Context) {
	pairs, err := h.service.LedgerRepo().GetMatchedPairs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="matched_pairs.csv"`)

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	_ = w.Write([]string{
		"lender_uid", "lender_particulars", "borrower_uid", "borrower_particulars",
		"amount", "match_status", "match_method", "keywords",
	})
	for _, pair := range pairs {
		_ = w.Write([]string{
			pair.Lender.UID,
			pair.Lender.Particulars,
			pair.Borrower.UID,
			pair.Borrower.Particulars,
			strconv.FormatFloat(pair.Lender.Debit, 'f', 2, 64),
			pair.Lender.MatchStatus,
			pair.Lender.MatchMethod,
			pair.Lender.Keywords,
		})
	}
	log.Printf("exported %d matched pairs", len(pairs))
}

// Health is a simple liveness endpoint
func (h *ReconciliationHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
