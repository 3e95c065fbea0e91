// shelton-springs/internal/handlers/status_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/Ruben-Jim/shelton-springs-sub001/config"
	"github.com/Ruben-Jim/shelton-springs-sub001/internal/reconcile"
)

const (
	reportCacheKey = "reports:payment-status"
	reportCacheTTL = 5 * time.Minute
)

// invalidateReportCache drops the cached payment status report. Mutation
// handlers call it so the next report read recomputes from the database.
func invalidateReportCache() {
	if config.RDB == nil {
		return
	}
	if err := config.RDB.Del(config.Ctx, reportCacheKey).Err(); err != nil {
		slog.Warn("Failed to invalidate report cache", "error", err)
	}
}

// MemberStandingHandler answers whether a single member's annual fee
// obligation is satisfied for the current year.
func MemberStandingHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}
	paid, err := engine.HasPaidAnnualFee(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, reconcile.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not determine standing"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"memberId": uint(id), "hasPaidAnnualFee": paid})
}

// PaymentStatusReportHandler returns the board's household payment report.
// The result is cached in Redis because building it touches every member.
func PaymentStatusReportHandler(c *gin.Context) {
	if config.RDB != nil {
		if cached, err := config.RDB.Get(config.Ctx, reportCacheKey).Result(); err == nil {
			var report reconcile.PaymentStatusReport
			if json.Unmarshal([]byte(cached), &report) == nil {
				c.JSON(http.StatusOK, report)
				return
			}
		}
	}

	report, err := engine.HouseholdPaymentStatusReport(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not build report"})
		return
	}

	if config.RDB != nil {
		if data, err := json.Marshal(report); err == nil {
			if err := config.RDB.Set(config.Ctx, reportCacheKey, data, reportCacheTTL).Err(); err != nil {
				slog.Warn("Failed to cache report", "error", err)
			}
		}
	}
	c.JSON(http.StatusOK, report)
}

// ExportPaymentStatusReportHandler streams the report as an xlsx workbook.
func ExportPaymentStatusReportHandler(c *gin.Context) {
	report, err := engine.HouseholdPaymentStatusReport(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not build report"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Payment Status"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Member", "Household", "Type", "Payment Status", "Annual Fee"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "E1", headerStyle)

	for i, row := range report.Rows {
		r := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), row.HouseholdKey)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), row.UserType)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), row.PaymentStatus)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", r), row.AnnualFeeAmount)
	}

	summaryRow := len(report.Rows) + 3
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total Collected")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow), report.TotalCollected.InexactFloat64())
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow+1), "Total Outstanding")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow+1), report.TotalOutstanding.InexactFloat64())

	filename := fmt.Sprintf("payment-status-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := f.Write(c.Writer); err != nil {
		slog.Error("Failed to write xlsx report", "error", err)
	}
}

// HealthHandler is the unauthenticated liveness probe.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
