package main

import (
	"log"

	"github.com/akhil-nair-17/FestPay/config"
	"github.com/akhil-nair-17/FestPay/controllers"
	"github.com/akhil-nair-17/FestPay/gateway"
	"github.com/akhil-nair-17/FestPay/payments"
	"github.com/akhil-nair-17/FestPay/routes"
	"github.com/akhil-nair-17/FestPay/utils"
)

func main() {
	// Initialize logger
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	// Initialize database
	config.InitDB()

	// Gateway client is built once here and injected; nothing below
	// constructs its own.
	cards := gateway.NewRazorpayClient(cfg.RazorpayKey, cfg.RazorpaySecret, cfg.GatewayTimeout)

	payouts := payments.NewPayoutScheduler(config.DB, cards)
	processor := payments.NewProcessor(config.DB, cards, nil, payouts, cfg.PlatformFeeBps, cfg.AutoPayoutEnabled)
	escrow := payments.NewEscrowLedger(config.DB, cfg.PlatformFeeBps)
	refunds := payments.NewRefundCoordinator(config.DB, cards)
	invoices := payments.NewInvoiceGenerator(config.DB, cfg.PlatformFeeBps)
	reconciler := payments.NewReconciler(config.DB, payouts, cfg.AutoPayoutEnabled)

	controllers.Init(processor, escrow, refunds, payouts, invoices, reconciler, cfg.WebhookSecret)

	// Set up router
	router := routes.SetupRouter()

	// Add middleware
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	utils.LogInfo("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}
