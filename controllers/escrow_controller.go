package controllers

import (
	"strconv"

	"github.com/akhil-nair-17/FestPay/utils"
	"github.com/gin-gonic/gin"
)

// POST /v1/escrow
func CreateEscrow(c *gin.Context) {
	utils.LogInfo("CreateEscrow called")

	var req struct {
		BookingID uint   `json:"booking_id" binding:"required"`
		Amount    int64  `json:"amount" binding:"required"`
		Currency  string `json:"currency" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request. booking_id, amount and currency are required", err.Error())
		return
	}

	account, err := escrow.CreateEscrow(c.Request.Context(), req.BookingID, req.Amount, req.Currency)
	if err != nil {
		utils.LogError("Escrow creation failed for booking ID: %d: %v", req.BookingID, err)
		respondEngineError(c, err)
		return
	}

	utils.Created(c, "Escrow account created", account)
}

// GET /v1/escrow/:id
func GetEscrow(c *gin.Context) {
	escrowID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "Invalid escrow ID", nil)
		return
	}

	account, err := escrow.GetEscrow(uint(escrowID))
	if err != nil {
		respondEngineError(c, err)
		return
	}

	utils.Success(c, "Escrow account retrieved", account)
}

// POST /v1/escrow/:id/release
func ReleaseFunds(c *gin.Context) {
	utils.LogInfo("ReleaseFunds called")

	escrowID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "Invalid escrow ID", nil)
		return
	}

	var req struct {
		MilestoneID uint `json:"milestone_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request. milestone_id is required", err.Error())
		return
	}

	result, err := escrow.ReleaseFunds(c.Request.Context(), uint(escrowID), req.MilestoneID)
	if err != nil {
		utils.LogError("Milestone release failed - escrow ID: %d, milestone ID: %d: %v", escrowID, req.MilestoneID, err)
		respondEngineError(c, err)
		return
	}

	utils.Success(c, "Milestone released", result)
}
