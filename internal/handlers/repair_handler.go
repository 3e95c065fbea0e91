// shelton-springs/internal/handlers/repair_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RepairFeeLinksHandler relinks fees whose owner reference went stale after
// a member was removed. Unmatchable fees are left alone for manual review.
func RepairFeeLinksHandler(c *gin.Context) {
	result, err := engine.RepairObligationLinks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Repair failed: " + err.Error()})
		return
	}
	invalidateReportCache()
	c.JSON(http.StatusOK, result)
}
