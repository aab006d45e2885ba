package controllers

import (
	"strconv"

	"github.com/akhil-nair-17/FestPay/payments"
	"github.com/akhil-nair-17/FestPay/utils"
	"github.com/gin-gonic/gin"
)

// POST /v1/vendors/:id/payout-setup
func SetupAutomatedPayout(c *gin.Context) {
	utils.LogInfo("SetupAutomatedPayout called")

	vendorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "Invalid vendor ID", nil)
		return
	}

	var req payments.PayoutDetails
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request. account_holder, account_number and ifsc are required", err.Error())
		return
	}

	vendor, err := payouts.SetupAutomatedPayout(c.Request.Context(), uint(vendorID), req)
	if err != nil {
		utils.LogError("Payout setup failed for vendor ID: %d: %v", vendorID, err)
		respondEngineError(c, err)
		return
	}

	utils.Success(c, "Payout destination configured", gin.H{
		"vendor_id":         vendor.ID,
		"payout_account_id": vendor.PayoutAccountID,
		"payout_setup_at":   vendor.PayoutSetupAt,
	})
}

// POST /v1/payments/:id/payout
func ProcessVendorPayout(c *gin.Context) {
	utils.LogInfo("ProcessVendorPayout called")

	paymentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "Invalid payment ID", nil)
		return
	}

	result, err := payouts.ProcessVendorPayout(c.Request.Context(), uint(paymentID))
	if err != nil {
		utils.LogError("Vendor payout failed for payment ID: %d: %v", paymentID, err)
		respondEngineError(c, err)
		return
	}

	utils.Success(c, "Vendor payout completed", result)
}
