package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/corebank/subledger/internal/core/ports/services"
	"github.com/corebank/subledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// runningBalanceHandler triggers the running-balance batch job, either
// organization-wide or scoped to one office to bound latency.
type runningBalanceHandler struct {
	balances portssvc.RunningBalanceSvc
}

func newRunningBalanceHandler(balances portssvc.RunningBalanceSvc) *runningBalanceHandler {
	return &runningBalanceHandler{balances: balances}
}

func (h *runningBalanceHandler) update(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if raw := c.Query("officeID"); raw != "" {
		officeID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || officeID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid office id"})
			return
		}
		if err := h.balances.UpdateOfficeRunningBalances(c.Request.Context(), officeID); err != nil {
			logger.Error("Office running balance update failed",
				slog.Int64("office_id", officeID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update running balances"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "updated", "officeID": officeID})
		return
	}

	if err := h.balances.UpdateRunningBalances(c.Request.Context()); err != nil {
		logger.Error("Running balance update failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update running balances"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// pathInt64 parses a numeric path parameter, responding 400 on garbage.
func pathInt64(c *gin.Context, name string) (int64, bool) {
	value, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || value <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return value, true
}
