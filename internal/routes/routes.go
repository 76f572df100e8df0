package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	handler "ledger-reconciliation-backend/internal/handlers"
	"ledger-reconciliation-backend/internal/repository"
	"ledger-reconciliation-backend/internal/services/matching"
	service "ledger-reconciliation-backend/internal/services/reconciliation"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, registry *matching.BankRegistry) {
	ledgerRepo := repository.NewLedgerRepository(db)
	engine := matching.NewEngine(registry)

	reconService := service.NewReconciliationService(ledgerRepo, engine)
	reconHandler := handler.NewReconciliationHandler(reconService)

	api := r.Group("/api")

	// Health check
	api.GET("/health", reconHandler.Health)

	// Ledger ingest
	ledger := api.Group("/ledger")
	ledger.POST("/upload", reconHandler.UploadLedger)

	// Batch progress
	api.GET("/batches/:batchId", reconHandler.GetBatchProgress)

	// Reconciliation
	recon := api.Group("/reconciliation")
	recon.POST("/run", reconHandler.Run)
	recon.GET("/matched", reconHandler.GetMatched)
	recon.GET("/unmatched", reconHandler.GetUnmatched)
	recon.GET("/stats", reconHandler.GetStats)
	recon.GET("/export", reconHandler.ExportMatched)
	recon.POST("/reset", reconHandler.ResetMatches)

	// Transaction-level review
	tx := api.Group("/transactions")
	tx.POST("/:uid/confirm", reconHandler.ConfirmMatch)
	tx.POST("/:uid/reject", reconHandler.RejectMatch)
}
