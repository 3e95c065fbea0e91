// shelton-springs/internal/handlers/payment_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ruben-Jim/shelton-springs-sub001/config"
	"github.com/Ruben-Jim/shelton-springs-sub001/internal/reconcile"
	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

type SelfReportPaymentRequest struct {
	FeeType       string  `json:"feeType" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	VenmoUsername string  `json:"venmoUsername"`
	TransactionID string  `json:"transactionId"`
	ReceiptRef    string  `json:"receiptRef"`
	FeeID         *uint   `json:"feeId"`
	FineID        *uint   `json:"fineId"`
}

// SelfReportPaymentHandler records a member-asserted Venmo payment. The
// member comes from the session; the payment waits for verification.
func SelfReportPaymentHandler(c *gin.Context) {
	memberID, exists := c.Get("member_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req SelfReportPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}

	payment, err := engine.IntakeSelfReportedPayment(c.Request.Context(), reconcile.SelfReportedPayment{
		MemberID:      memberID.(uint),
		FeeType:       req.FeeType,
		Amount:        req.Amount,
		VenmoUsername: req.VenmoUsername,
		TransactionID: req.TransactionID,
		ReceiptRef:    req.ReceiptRef,
		FeeID:         req.FeeID,
		FineID:        req.FineID,
	})
	if err != nil {
		if errors.Is(err, reconcile.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not record payment"})
		return
	}
	invalidateReportCache()
	c.JSON(http.StatusCreated, gin.H{"paymentId": payment.ID})
}

type AdminRecordPaymentRequest struct {
	MemberID    uint                 `json:"memberId" binding:"required"`
	FeeType     string               `json:"feeType"`
	Amount      float64              `json:"amount" binding:"required"`
	Method      models.PaymentMethod `json:"method" binding:"required"`
	Date        string               `json:"date"`
	CheckNumber string               `json:"checkNumber"`
	Notes       string               `json:"notes"`
	FeeID       *uint                `json:"feeId"`
	FineID      *uint                `json:"fineId"`
}

// AdminRecordPaymentHandler records a trusted Check/Cash payment. With no
// explicit obligation it settles everything outstanding for the member.
func AdminRecordPaymentHandler(c *gin.Context) {
	var req AdminRecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, use YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	result, err := engine.IntakeAdminPayment(c.Request.Context(), reconcile.AdminPayment{
		MemberID:    req.MemberID,
		FeeType:     req.FeeType,
		Amount:      req.Amount,
		Method:      req.Method,
		Date:        date,
		CheckNumber: req.CheckNumber,
		Notes:       req.Notes,
		FeeID:       req.FeeID,
		FineID:      req.FineID,
	})
	if err != nil {
		switch {
		case errors.Is(err, reconcile.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, reconcile.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not record payment"})
		}
		return
	}
	invalidateReportCache()
	c.JSON(http.StatusOK, result)
}

type VerifyPaymentRequest struct {
	Status             models.ObligationStatus   `json:"status"`
	VerificationStatus models.VerificationStatus `json:"verificationStatus" binding:"required"`
	AdminNotes         string                    `json:"adminNotes"`
}

// VerifyPaymentHandler applies the admin trust decision to a self-reported
// payment.
func VerifyPaymentHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}

	err = engine.VerifyPayment(c.Request.Context(), reconcile.VerifyDecision{
		PaymentID:    uint(id),
		Status:       req.Status,
		Verification: req.VerificationStatus,
		AdminNotes:   req.AdminNotes,
	})
	if err != nil {
		switch {
		case errors.Is(err, reconcile.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		case errors.Is(err, reconcile.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not verify payment"})
		}
		return
	}
	invalidateReportCache()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListPaymentsHandler returns payments, paginated, optionally filtered by
// member, verification status, or method.
func ListPaymentsHandler(c *gin.Context) {
	var payments []models.Payment
	query := config.DB.Preload("User").Order("payment_date desc")

	if memberID := c.Query("memberId"); memberID != "" {
		query = query.Where("user_id = ?", memberID)
	}
	if verification := c.Query("verificationStatus"); verification != "" {
		query = query.Where("verification_status = ?", verification)
	}
	if method := c.Query("method"); method != "" {
		query = query.Where("payment_method = ?", method)
	}

	var totalRows int64
	countQuery := query
	if err := countQuery.Model(&models.Payment{}).Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not count payments"})
		return
	}

	paginatedQuery := query.Scopes(Paginate(c))
	if err := paginatedQuery.Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch payments"})
		return
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, payments, totalRows))
}

// DownloadReceiptHandler streams the receipt image attached to a payment.
func DownloadReceiptHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}
	data, err := engine.ReceiptImage(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, reconcile.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Receipt not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch receipt"})
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

// DeletePaymentHandler removes a payment record and its receipt blob.
func DeletePaymentHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}
	if err := engine.DeletePayment(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, reconcile.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete payment"})
		return
	}
	invalidateReportCache()
	c.JSON(http.StatusOK, gin.H{"message": "Payment deleted"})
}
