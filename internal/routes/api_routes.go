// shelton-springs/internal/routes/api_routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Ruben-Jim/shelton-springs-sub001/internal/handlers"
	"github.com/Ruben-Jim/shelton-springs-sub001/internal/middleware"
)

// RegisterAPIRoutes registers every authenticated API route.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	apiGroup := api.Group("/api")
	{
		// --- MEMBERS ---
		members := apiGroup.Group("/members")
		{
			members.GET("", handlers.ListMembersHandler)
			members.GET("/:id", handlers.GetMemberHandler)
			members.GET("/:id/standing", handlers.MemberStandingHandler)
			members.POST("", middleware.BoardOnly(), handlers.CreateMemberHandler)
			members.PUT("/:id", middleware.BoardOnly(), handlers.UpdateMemberHandler)
			members.DELETE("/:id", middleware.BoardOnly(), handlers.DeleteMemberHandler)
		}

		// --- FEES ---
		fees := apiGroup.Group("/fees")
		{
			fees.GET("", handlers.ListFeesHandler)
			fees.GET("/:id", handlers.GetFeeHandler)
			fees.POST("/generate-annual", middleware.BoardOnly(), handlers.GenerateAnnualFeesHandler)
			fees.POST("/bulk-update-annual", middleware.BoardOnly(), handlers.BulkUpdateAnnualFeesHandler)
			fees.DELETE("/:id", middleware.BoardOnly(), handlers.DeleteFeeHandler)
		}

		// --- FINES ---
		fines := apiGroup.Group("/fines")
		{
			fines.GET("", handlers.ListFinesHandler)
			fines.GET("/:id", handlers.GetFineHandler)
			fines.POST("", middleware.BoardOnly(), handlers.AddFineHandler)
			fines.PUT("/:id/status", middleware.BoardOnly(), handlers.UpdateFineStatusHandler)
		}

		// --- PAYMENTS ---
		payments := apiGroup.Group("/payments")
		{
			payments.GET("", handlers.ListPaymentsHandler)
			payments.GET("/:id/receipt", handlers.DownloadReceiptHandler)
			payments.POST("/self-report", handlers.SelfReportPaymentHandler)
			payments.POST("/record", middleware.BoardOnly(), handlers.AdminRecordPaymentHandler)
			payments.PUT("/:id/verify", middleware.BoardOnly(), handlers.VerifyPaymentHandler)
			payments.DELETE("/:id", middleware.BoardOnly(), handlers.DeletePaymentHandler)
		}

		// --- REPORTS ---
		reports := apiGroup.Group("/reports")
		reports.Use(middleware.BoardOnly())
		{
			reports.GET("/payment-status", handlers.PaymentStatusReportHandler)
			reports.GET("/payment-status/export", handlers.ExportPaymentStatusReportHandler)
		}

		// --- MAINTENANCE ---
		maintenance := apiGroup.Group("/maintenance")
		maintenance.Use(middleware.BoardOnly())
		{
			maintenance.POST("/repair-fee-links", handlers.RepairFeeLinksHandler)
		}
	}
}
