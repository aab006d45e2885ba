package controllers

import (
	"strconv"

	"github.com/akhil-nair-17/FestPay/utils"
	"github.com/gin-gonic/gin"
)

// POST /v1/payments/:id/refund
func ProcessRefund(c *gin.Context) {
	utils.LogInfo("ProcessRefund called")

	paymentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "Invalid payment ID", nil)
		return
	}

	var req struct {
		Amount int64  `json:"amount" binding:"required"`
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request. amount and reason are required", err.Error())
		return
	}

	result, err := refunds.ProcessRefund(c.Request.Context(), uint(paymentID), req.Amount, req.Reason)
	if err != nil {
		utils.LogError("Refund failed for payment ID: %d: %v", paymentID, err)
		respondEngineError(c, err)
		return
	}

	utils.Success(c, "Refund processed successfully", result)
}
