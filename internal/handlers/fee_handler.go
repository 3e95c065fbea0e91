// shelton-springs/internal/handlers/fee_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Ruben-Jim/shelton-springs-sub001/config"
	"github.com/Ruben-Jim/shelton-springs-sub001/internal/reconcile"
	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

type GenerateAnnualFeesRequest struct {
	Year        int     `json:"year" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Description string  `json:"description"`
}

// GenerateAnnualFeesHandler runs the annual obligation generator. Safe to
// call repeatedly for the same year.
func GenerateAnnualFeesHandler(c *gin.Context) {
	var req GenerateAnnualFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}

	result, err := engine.GenerateAnnualFees(c.Request.Context(), req.Year, req.Amount, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Fee generation failed"})
		return
	}
	invalidateReportCache()
	c.JSON(http.StatusOK, result)
}

type BulkUpdateFeesRequest struct {
	Year    int     `json:"year" binding:"required"`
	Amount  float64 `json:"amount"`
	Formula string  `json:"formula"`
}

// BulkUpdateAnnualFeesHandler changes the amount of all not-yet-paid annual
// fees for a year, either to a flat amount or via a formula over the current
// amount.
func BulkUpdateAnnualFeesHandler(c *gin.Context) {
	var req BulkUpdateFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}
	if req.Amount == 0 && req.Formula == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either amount or formula is required"})
		return
	}

	result, err := engine.BulkUpdateAnnualFeeAmount(c.Request.Context(), req.Year, req.Amount, req.Formula)
	if err != nil {
		if errors.Is(err, reconcile.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Bulk update failed"})
		return
	}
	invalidateReportCache()
	c.JSON(http.StatusOK, result)
}

// ListFeesHandler returns fees, paginated, with optional filters on year,
// status, and a search over name and address.
func ListFeesHandler(c *gin.Context) {
	var fees []models.Fee
	query := config.DB.Order("id desc")

	if year := c.Query("year"); year != "" {
		query = query.Where("year = ?", year)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", pattern, pattern)
	}

	var totalRows int64
	countQuery := query
	if err := countQuery.Model(&models.Fee{}).Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not count fees"})
		return
	}

	paginatedQuery := query.Scopes(Paginate(c))
	if err := paginatedQuery.Find(&fees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch fees"})
		return
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, fees, totalRows))
}

// GetFeeHandler returns one fee by id.
func GetFeeHandler(c *gin.Context) {
	id := c.Param("id")
	var fee models.Fee
	if err := config.DB.Preload("User").First(&fee, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fee not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch fee"})
		return
	}
	c.JSON(http.StatusOK, fee)
}

// DeleteFeeHandler removes a fee. Deletion is an explicit admin action and
// never happens automatically.
func DeleteFeeHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fee ID"})
		return
	}
	result := config.DB.Delete(&models.Fee{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete fee"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Fee not found"})
		return
	}
	invalidateReportCache()
	c.JSON(http.StatusOK, gin.H{"message": "Fee deleted"})
}
