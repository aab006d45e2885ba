package models

import (
	"strings"
	"time"
)

// PaymentRecord status constants
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusRefunded  = "REFUNDED"
)

// Payment method constants
const (
	PaymentMethodCard          = "CARD"
	PaymentMethodBankTransfer  = "BANK_TRANSFER"
	PaymentMethodWallet        = "WALLET"
	PaymentMethodEscrowRelease = "ESCROW_RELEASE"
)

// PaymentRecord is one row per capture attempt, successes and failures
// alike. Rows are never deleted; after creation only the status transitions
// and the refund/payout annotation fields may change.
type PaymentRecord struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	BookingID     uint   `json:"booking_id"`
	PayerID       uint   `json:"payer_id"`
	PayeeID       uint   `json:"payee_id"` // vendor receiving the payout
	Amount        int64  `json:"amount"`   // minor units
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	Method        string `json:"method"`
	TransactionID string `json:"transaction_id" gorm:"uniqueIndex"`
	Description   string `json:"description"`
	MilestoneID   *uint  `json:"milestone_id,omitempty"`
	PlatformFee   int64  `json:"platform_fee"`
	VendorPayout  int64  `json:"vendor_payout"`

	// Refund annotation, written once by the refund coordinator.
	RefundID     string     `json:"refund_id,omitempty"`
	RefundAmount int64      `json:"refund_amount,omitempty"`
	RefundReason string     `json:"refund_reason,omitempty"`
	RefundedAt   *time.Time `json:"refunded_at,omitempty"`

	// Payout annotation, written once by the payout scheduler.
	PayoutTransferID string     `json:"payout_transfer_id,omitempty"`
	PaidOutAt        *time.Time `json:"paid_out_at,omitempty"`

	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsCardOriginated reports whether the record's funds moved through the card
// gateway, the only place a refund can be pushed back through. Card-backed
// wallet captures carry the gateway's pay_ reference shape.
func (p *PaymentRecord) IsCardOriginated() bool {
	return p.Method == PaymentMethodCard || strings.HasPrefix(p.TransactionID, "pay_")
}
