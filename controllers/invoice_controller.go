package controllers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/akhil-nair-17/FestPay/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// GET /v1/bookings/:id/invoice
func GenerateInvoice(c *gin.Context) {
	utils.LogInfo("GenerateInvoice called")

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "Invalid booking ID", nil)
		return
	}

	invoice, err := invoices.GenerateInvoice(uint(bookingID))
	if err != nil {
		respondEngineError(c, err)
		return
	}

	utils.Success(c, "Invoice generated", invoice)
}

// GET /v1/bookings/:id/invoice/pdf
func DownloadInvoice(c *gin.Context) {
	utils.LogInfo("Starting invoice download process")

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "Invalid booking ID", nil)
		return
	}

	invoice, err := invoices.GenerateInvoice(uint(bookingID))
	if err != nil {
		respondEngineError(c, err)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Platform info
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "FestPay")
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "Event services marketplace")
	pdf.Ln(8)
	pdf.Cell(100, 8, "Email: billing@festpay.in | Phone: +91-98765-43210")
	pdf.Ln(12)

	// Invoice title and booking info
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "INVOICE "+invoice.InvoiceNumber)
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(60, 8, "Booking ID: "+strconv.Itoa(int(invoice.BookingID)))
	pdf.Cell(70, 8, "Service Date: "+invoice.ServiceDate.Format("2006-01-02"))
	pdf.Ln(8)
	pdf.Cell(60, 8, "Payment Status: "+invoice.PaymentStatus)
	pdf.Ln(10)

	// Parties
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Billed To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, invoice.OrganizerName)
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Vendor:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, invoice.VendorName)
	pdf.Ln(10)

	// Payment lines table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(60, 8, "Description", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, "Method", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Status", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	for _, line := range invoice.Lines {
		desc := line.Description
		if desc == "" {
			desc = line.TransactionID
		}
		pdf.CellFormat(60, 8, desc, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 8, line.Method, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, line.Status, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, utils.FormatMinor(line.Amount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	// Summary section
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(120, 8, "Vendor Subtotal:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(30, 8, utils.FormatMinor(invoice.Subtotal), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(120, 8, "Platform Fee:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(30, 8, utils.FormatMinor(invoice.PlatformFee), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(120, 10, "Grand Total:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(30, 10, utils.FormatMinor(invoice.Total), "", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 12)
	pdf.Cell(0, 10, "Thank you for booking with FestPay!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("PDF generation failed for booking ID: %d: %v", bookingID, err)
		utils.InternalServerError(c, "Failed to generate invoice PDF", nil)
		return
	}
	utils.LogInfo("PDF invoice generated successfully for booking ID: %d", bookingID)

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=invoice.pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
