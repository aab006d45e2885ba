package payments

import (
	"errors"
	"fmt"
	"time"

	"github.com/akhil-nair-17/FestPay/models"
	"gorm.io/gorm"
)

// Invoice payment status constants
const (
	InvoiceStatusPaid    = "PAID"
	InvoiceStatusPending = "PENDING"
	InvoiceStatusUnpaid  = "UNPAID"
)

// InvoiceGenerator is a read-only aggregation over a booking and its
// payment history. Same inputs, same invoice; nothing is mutated.
type InvoiceGenerator struct {
	db     *gorm.DB
	feeBps int64
}

func NewInvoiceGenerator(db *gorm.DB, feeBps int64) *InvoiceGenerator {
	return &InvoiceGenerator{db: db, feeBps: feeBps}
}

// InvoiceLine is one payment attempt on the invoice.
type InvoiceLine struct {
	Description   string     `json:"description"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	Amount        int64      `json:"amount"`
	TransactionID string     `json:"transaction_id"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
}

// Invoice is the derived billing document for a booking. Total is always
// the booking's effective price (final price, falling back to the quote);
// subtotal is the vendor share with the platform fee on top.
type Invoice struct {
	InvoiceNumber string        `json:"invoice_number"`
	BookingID     uint          `json:"booking_id"`
	OrganizerName string        `json:"organizer_name"`
	VendorName    string        `json:"vendor_name"`
	ServiceDate   time.Time     `json:"service_date"`
	Subtotal      int64         `json:"subtotal"`
	PlatformFee   int64         `json:"platform_fee"`
	Total         int64         `json:"total"`
	PaymentStatus string        `json:"payment_status"`
	Lines         []InvoiceLine `json:"lines"`
}

// GenerateInvoice builds the invoice for a booking.
func (g *InvoiceGenerator) GenerateInvoice(bookingID uint) (*Invoice, error) {
	var booking models.Booking
	err := g.db.Preload("Organizer").Preload("Vendor").First(&booking, bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("booking not found")
		}
		return nil, err
	}

	var records []models.PaymentRecord
	if err := g.db.Where("booking_id = ?", bookingID).Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	total := booking.EffectivePrice()
	platformFee, subtotal := splitFee(total, g.feeBps)

	status := InvoiceStatusUnpaid
	for _, rec := range records {
		switch rec.Status {
		case models.PaymentStatusCompleted, models.PaymentStatusRefunded:
			status = InvoiceStatusPaid
		case models.PaymentStatusPending:
			if status == InvoiceStatusUnpaid {
				status = InvoiceStatusPending
			}
		}
	}

	lines := make([]InvoiceLine, 0, len(records))
	for _, rec := range records {
		lines = append(lines, InvoiceLine{
			Description:   rec.Description,
			Method:        rec.Method,
			Status:        rec.Status,
			Amount:        rec.Amount,
			TransactionID: rec.TransactionID,
			ProcessedAt:   rec.ProcessedAt,
		})
	}

	organizer := booking.Organizer.FirstName + " " + booking.Organizer.LastName

	return &Invoice{
		InvoiceNumber: fmt.Sprintf("INV-%06d", booking.ID),
		BookingID:     booking.ID,
		OrganizerName: organizer,
		VendorName:    booking.Vendor.BusinessName,
		ServiceDate:   booking.ServiceDate,
		Subtotal:      subtotal,
		PlatformFee:   platformFee,
		Total:         total,
		PaymentStatus: status,
		Lines:         lines,
	}, nil
}
