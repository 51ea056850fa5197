package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/corebank/subledger/internal/apperrors"
	portssvc "github.com/corebank/subledger/internal/core/ports/services"
	"github.com/corebank/subledger/internal/dto"
	"github.com/corebank/subledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalEntryHandler exposes the posting and reversal commands of the
// sub-ledger. The bridge payloads stay untyped here; DTO assembly and
// validation happen inside the writer service.
type journalEntryHandler struct {
	writer   portssvc.JournalEntryWriterSvc
	reverser portssvc.JournalEntryReverserSvc
}

func newJournalEntryHandler(writer portssvc.JournalEntryWriterSvc, reverser portssvc.JournalEntryReverserSvc) *journalEntryHandler {
	return &journalEntryHandler{writer: writer, reverser: reverser}
}

func (h *journalEntryHandler) postBridgeSnapshot(c *gin.Context, post func(ctx *gin.Context, bridgeData map[string]interface{}) error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var bridgeData map[string]interface{}
	if err := c.ShouldBindJSON(&bridgeData); err != nil {
		logger.Error("Failed to bind bridge snapshot", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := post(c, bridgeData); err != nil {
		respondWithAccountingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "posted"})
}

// createForLoan posts all new transactions of one loan bridge snapshot.
func (h *journalEntryHandler) createForLoan(c *gin.Context) {
	h.postBridgeSnapshot(c, func(ctx *gin.Context, bridgeData map[string]interface{}) error {
		return h.writer.CreateJournalEntriesForLoan(ctx.Request.Context(), bridgeData)
	})
}

// createForSavings posts all new transactions of one savings bridge snapshot.
func (h *journalEntryHandler) createForSavings(c *gin.Context) {
	h.postBridgeSnapshot(c, func(ctx *gin.Context, bridgeData map[string]interface{}) error {
		return h.writer.CreateJournalEntriesForSavings(ctx.Request.Context(), bridgeData)
	})
}

// createForShares posts all new transactions of one share-account bridge snapshot.
func (h *journalEntryHandler) createForShares(c *gin.Context) {
	h.postBridgeSnapshot(c, func(ctx *gin.Context, bridgeData map[string]interface{}) error {
		return h.writer.CreateJournalEntriesForShares(ctx.Request.Context(), bridgeData)
	})
}

// createForClientTransaction posts one client charge payment snapshot.
func (h *journalEntryHandler) createForClientTransaction(c *gin.Context) {
	h.postBridgeSnapshot(c, func(ctx *gin.Context, bridgeData map[string]interface{}) error {
		return h.writer.CreateJournalEntriesForClientTransaction(ctx.Request.Context(), bridgeData)
	})
}

// createForProvisioning posts one provisioning run.
func (h *journalEntryHandler) createForProvisioning(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateProvisioningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind provisioning request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	entry, err := req.ToProvisioningDTO()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transactionID, err := h.writer.CreateProvisioningJournalEntries(c.Request.Context(), *entry)
	if err != nil {
		respondWithAccountingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactionID": transactionID})
}

// reverse mirrors the whole entry set of one business transaction id.
func (h *journalEntryHandler) reverse(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	var req dto.ReverseJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind reversal request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	reversalID, err := h.reverser.RevertJournalEntry(c.Request.Context(), transactionID, req.Comments)
	if err != nil {
		respondWithAccountingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reversalTransactionID": reversalID})
}

// reverseProvisioning reverses the entries of one provisioning run.
func (h *journalEntryHandler) reverseProvisioning(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entityID, ok := pathInt64(c, "entityID")
	if !ok {
		return
	}
	var req dto.ReverseProvisioningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind provisioning reversal request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	reversalDate, err := time.Parse("2006-01-02", req.ReversalDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reversal date"})
		return
	}

	transactionID, err := h.reverser.RevertProvisioningJournalEntries(c.Request.Context(), reversalDate, entityID)
	if err != nil {
		respondWithAccountingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactionID": transactionID})
}

// reverseShareTransactions reverses a batch of share transactions; ids with
// no journal entries are skipped.
func (h *journalEntryHandler) reverseShareTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ReverseShareTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind share reversal request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	reversalDate, err := time.Parse("2006-01-02", req.ReversalDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reversal date"})
		return
	}

	if err := h.reverser.RevertShareAccountJournalEntries(c.Request.Context(), req.TransactionIDs, reversalDate); err != nil {
		respondWithAccountingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reversed"})
}

// respondWithAccountingError maps the error taxonomy onto HTTP statuses:
// temporal and validation problems are the caller's to fix, configuration
// and integrity failures are server-side defects.
func respondWithAccountingError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var closed *apperrors.ClosedPeriodError
	switch {
	case errors.As(err, &closed):
		logger.Warn("Posting into closed period rejected",
			slog.Int64("office_id", closed.OfficeID),
			slog.Time("closing_date", closed.ClosingDate),
			slog.Time("entry_date", closed.EntryDate))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrFutureDate), errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Posting rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Referenced resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDataIntegrity):
		logger.Error("Accounting integrity violation", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAccountDisabled), errors.Is(err, apperrors.ErrManualEntriesNotAllowed):
		logger.Error("Posting against unusable account", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		logger.Error("Posting failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process journal entries"})
	}
}
