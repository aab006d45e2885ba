package controllers

import (
	"fmt"
	"time"

	"github.com/akhil-nair-17/FestPay/config"
	"github.com/akhil-nair-17/FestPay/models"
	"github.com/akhil-nair-17/FestPay/utils"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

// Admin: Download payment records as Excel
// GET /v1/admin/payments/export
func DownloadPaymentReportExcel(c *gin.Context) {
	utils.LogInfo("DownloadPaymentReportExcel called")

	period := c.DefaultQuery("period", "day")
	now := time.Now()
	var startDate, endDate time.Time

	switch period {
	case "day":
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		endDate = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
	case "week":
		endDate = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
		startDate = endDate.AddDate(0, 0, -6)
		startDate = time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	case "month":
		startDate = now.AddDate(0, 0, -30).Truncate(24 * time.Hour)
		endDate = now.Add(24 * time.Hour)
	default:
		utils.LogError("Invalid period specified: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return
	}

	var records []models.PaymentRecord
	query := config.DB.Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Order("created_at DESC")
	if err := query.Find(&records).Error; err != nil {
		utils.LogError("Failed to fetch payment records: %v", err)
		utils.InternalServerError(c, "Failed to fetch payment records", nil)
		return
	}
	utils.LogDebug("Retrieved %d payment records for Excel report", len(records))

	var totalCaptured, totalFees, totalPayouts int64
	for _, rec := range records {
		if rec.Status == models.PaymentStatusCompleted || rec.Status == models.PaymentStatusRefunded {
			totalCaptured += rec.Amount
			totalFees += rec.PlatformFee
			totalPayouts += rec.VendorPayout
		}
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Payments")
	if err != nil {
		utils.InternalServerError(c, "Failed to build report", nil)
		return
	}

	header := sheet.AddRow()
	for _, title := range []string{"ID", "Booking", "Method", "Status", "Transaction", "Amount", "Platform Fee", "Vendor Payout", "Created"} {
		cell := header.AddCell()
		cell.Value = title
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	for _, rec := range records {
		row := sheet.AddRow()
		row.AddCell().Value = fmt.Sprintf("%d", rec.ID)
		row.AddCell().Value = fmt.Sprintf("%d", rec.BookingID)
		row.AddCell().Value = rec.Method
		row.AddCell().Value = rec.Status
		row.AddCell().Value = rec.TransactionID
		row.AddCell().Value = utils.FormatMinor(rec.Amount)
		row.AddCell().Value = utils.FormatMinor(rec.PlatformFee)
		row.AddCell().Value = utils.FormatMinor(rec.VendorPayout)
		row.AddCell().Value = rec.CreatedAt.Format("2006-01-02 15:04:05")
	}

	summary := sheet.AddRow()
	summary.AddCell().Value = "Totals"
	summary.AddCell()
	summary.AddCell()
	summary.AddCell()
	summary.AddCell()
	summary.AddCell().Value = utils.FormatMinor(totalCaptured)
	summary.AddCell().Value = utils.FormatMinor(totalFees)
	summary.AddCell().Value = utils.FormatMinor(totalPayouts)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=payment_report_%s.xlsx", period))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel report: %v", err)
	}
}
