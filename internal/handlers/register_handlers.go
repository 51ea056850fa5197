package handlers

import (
	portssvc "github.com/corebank/subledger/internal/core/ports/services"
	"github.com/corebank/subledger/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	registerJournalEntryRoutes(v1, services.Writer, services.Reverser)
	registerRunningBalanceRoutes(v1, services.RunningBalance)
}

func registerJournalEntryRoutes(v1 *gin.RouterGroup, writer portssvc.JournalEntryWriterSvc, reverser portssvc.JournalEntryReverserSvc) {
	handler := newJournalEntryHandler(writer, reverser)

	entries := v1.Group("/journal-entries")
	{
		entries.POST("/loans", handler.createForLoan)
		entries.POST("/savings", handler.createForSavings)
		entries.POST("/shares", handler.createForShares)
		entries.POST("/client-transactions", handler.createForClientTransaction)
		entries.POST("/provisioning", handler.createForProvisioning)
		entries.POST("/:transactionID/reversal", handler.reverse)
		entries.POST("/provisioning/:entityID/reversal", handler.reverseProvisioning)
		entries.POST("/shares/reversal", handler.reverseShareTransactions)
	}
}

func registerRunningBalanceRoutes(v1 *gin.RouterGroup, balances portssvc.RunningBalanceSvc) {
	handler := newRunningBalanceHandler(balances)
	v1.POST("/running-balances", handler.update)
}
