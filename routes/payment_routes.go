package routes

import (
	"github.com/akhil-nair-17/FestPay/controllers"
	"github.com/akhil-nair-17/FestPay/middleware"
	"github.com/gin-gonic/gin"
)

// initPaymentRoutes registers the authenticated payment engine routes.
func initPaymentRoutes(router *gin.RouterGroup) {
	authenticated := router.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		// Captures and history
		authenticated.POST("/bookings/:id/payments", controllers.ProcessPayment)
		authenticated.GET("/bookings/:id/payments", controllers.GetPaymentHistory)

		// Invoices
		authenticated.GET("/bookings/:id/invoice", controllers.GenerateInvoice)
		authenticated.GET("/bookings/:id/invoice/pdf", controllers.DownloadInvoice)

		// Escrow
		authenticated.POST("/escrow", controllers.CreateEscrow)
		authenticated.GET("/escrow/:id", controllers.GetEscrow)
		authenticated.POST("/escrow/:id/release", controllers.ReleaseFunds)

		// Refunds
		authenticated.POST("/payments/:id/refund", controllers.ProcessRefund)

		// Vendor payouts
		authenticated.POST("/vendors/:id/payout-setup", controllers.SetupAutomatedPayout)
		authenticated.POST("/payments/:id/payout", controllers.ProcessVendorPayout)

		// Admin reporting
		admin := authenticated.Group("/admin")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("/payments/export", controllers.DownloadPaymentReportExcel)
		}
	}
}

// initWebhookRoutes registers the unauthenticated, signature-verified
// gateway callback.
func initWebhookRoutes(router *gin.RouterGroup) {
	router.POST("/webhooks/gateway", controllers.GatewayWebhook)
}
