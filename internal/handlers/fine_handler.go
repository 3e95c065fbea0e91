package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Ruben-Jim/shelton-springs-sub001/config"
	"github.com/Ruben-Jim/shelton-springs-sub001/internal/reconcile"
	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

type AddFineRequest struct {
	Address     string  `json:"address"`
	MemberID    uint    `json:"memberId" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Reason      string  `json:"reason" binding:"required"`
	Description string  `json:"description"`
}

// AddFineHandler issues a fine against a resident.
func AddFineHandler(c *gin.Context) {
	var req AddFineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}

	fine, err := engine.AddFine(c.Request.Context(), reconcile.FineInput{
		Address:     req.Address,
		MemberID:    req.MemberID,
		Amount:      req.Amount,
		Reason:      req.Reason,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, reconcile.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		case errors.Is(err, reconcile.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create fine"})
		}
		return
	}
	invalidateReportCache()
	c.JSON(http.StatusCreated, gin.H{"fineId": fine.ID})
}

type UpdateFineStatusRequest struct {
	Status models.ObligationStatus `json:"status" binding:"required"`
}

// UpdateFineStatusHandler patches a fine's status.
func UpdateFineStatusHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fine ID"})
		return
	}
	var req UpdateFineStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}

	if err := engine.UpdateFineStatus(c.Request.Context(), uint(id), req.Status); err != nil {
		switch {
		case errors.Is(err, reconcile.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Fine not found"})
		case errors.Is(err, reconcile.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update fine"})
		}
		return
	}
	invalidateReportCache()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListFinesHandler returns fines, paginated, optionally filtered by member
// or status.
func ListFinesHandler(c *gin.Context) {
	var fines []models.Fine
	query := config.DB.Preload("Resident").Order("id desc")

	if memberID := c.Query("memberId"); memberID != "" {
		query = query.Where("resident_id = ?", memberID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var totalRows int64
	countQuery := query
	if err := countQuery.Model(&models.Fine{}).Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not count fines"})
		return
	}

	paginatedQuery := query.Scopes(Paginate(c))
	if err := paginatedQuery.Find(&fines).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch fines"})
		return
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, fines, totalRows))
}

// GetFineHandler returns one fine by id.
func GetFineHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fine ID"})
		return
	}
	fine, err := engine.Fine(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, reconcile.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fine not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch fine"})
		return
	}
	c.JSON(http.StatusOK, fine)
}
