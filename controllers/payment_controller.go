package controllers

import (
	"strconv"

	"github.com/akhil-nair-17/FestPay/models"
	"github.com/akhil-nair-17/FestPay/payments"
	"github.com/akhil-nair-17/FestPay/utils"
	"github.com/gin-gonic/gin"
)

// POST /v1/bookings/:id/payments
func ProcessPayment(c *gin.Context) {
	utils.LogInfo("ProcessPayment called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "Invalid booking ID", nil)
		return
	}

	var req struct {
		Amount      int64           `json:"amount" binding:"required"`
		Currency    string          `json:"currency" binding:"required"`
		Method      payments.Method `json:"method" binding:"required"`
		Description string          `json:"description"`
		MilestoneID *uint           `json:"milestone_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid payment request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request. amount, currency and method are required", err.Error())
		return
	}

	result, err := processor.ProcessPayment(c.Request.Context(), payments.PaymentRequest{
		BookingID:   uint(bookingID),
		PayerID:     user.ID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Method:      req.Method,
		Description: req.Description,
		MilestoneID: req.MilestoneID,
	})
	if err != nil {
		utils.LogError("Payment processing failed for booking ID: %d: %v", bookingID, err)
		respondEngineError(c, err)
		return
	}

	if !result.Success {
		utils.Success(c, "Payment attempt recorded", result)
		return
	}
	utils.Success(c, "Payment processed successfully", result)
}

// GET /v1/bookings/:id/payments
func GetPaymentHistory(c *gin.Context) {
	utils.LogInfo("GetPaymentHistory called")

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "Invalid booking ID", nil)
		return
	}

	pagination := utils.NewPagination(c)
	records, total, err := processor.PaymentHistory(uint(bookingID), pagination.Limit, pagination.Offset)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	pagination.SetTotal(total)

	utils.SendPaginatedResponse(c, "Payment history retrieved", records, pagination)
}
