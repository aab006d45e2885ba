package models

import (
	"time"
)

// Booking status constants
const (
	BookingStatusPending         = "PENDING"
	BookingStatusVendorReviewing = "VENDOR_REVIEWING"
	BookingStatusQuoteSent       = "QUOTE_SENT"
	BookingStatusQuoteAccepted   = "QUOTE_ACCEPTED"
	BookingStatusConfirmed       = "CONFIRMED"
	BookingStatusInProgress      = "IN_PROGRESS"
	BookingStatusCompleted       = "COMPLETED"
	BookingStatusCancelled       = "CANCELLED"
	BookingStatusDisputed        = "DISPUTED"
)

// bookingTransitions holds the forward edges of the booking lifecycle.
// CANCELLED and DISPUTED are reachable from any non-terminal state and are
// handled in CanTransition rather than listed per state.
var bookingTransitions = map[string][]string{
	BookingStatusPending:         {BookingStatusVendorReviewing},
	BookingStatusVendorReviewing: {BookingStatusQuoteSent},
	BookingStatusQuoteSent:       {BookingStatusQuoteAccepted},
	BookingStatusQuoteAccepted:   {BookingStatusConfirmed},
	BookingStatusConfirmed:       {BookingStatusInProgress},
	BookingStatusInProgress:      {BookingStatusCompleted},
}

type Booking struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	OrganizerID      uint       `json:"organizer_id"`
	Organizer        User       `json:"-" gorm:"foreignKey:OrganizerID"`
	VendorID         uint       `json:"vendor_id"`
	Vendor           Vendor     `json:"-" gorm:"foreignKey:VendorID"`
	ServiceListingID uint       `json:"service_listing_id"`
	Status           string     `json:"status"`
	QuotedPrice      int64      `json:"quoted_price"` // minor units
	FinalPrice       int64      `json:"final_price"`  // minor units, 0 until a quote is finalized
	ServiceDate      time.Time  `json:"service_date"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsTerminal reports whether the booking can no longer change state.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusDisputed:
		return true
	}
	return false
}

// IsPayable reports whether a capture may be taken against the booking.
func (b *Booking) IsPayable() bool {
	return b.Status == BookingStatusQuoteAccepted || b.Status == BookingStatusConfirmed
}

// CanTransition reports whether the lifecycle permits moving to the given
// status. The payment engine itself only ever performs
// QUOTE_ACCEPTED -> CONFIRMED; the full table exists so reads of externally
// owned transitions stay consistent with booking management.
func (b *Booking) CanTransition(to string) bool {
	if b.IsTerminal() {
		return false
	}
	if to == BookingStatusCancelled || to == BookingStatusDisputed {
		return true
	}
	for _, next := range bookingTransitions[b.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// EffectivePrice returns the price an invoice is drawn against.
func (b *Booking) EffectivePrice() int64 {
	if b.FinalPrice > 0 {
		return b.FinalPrice
	}
	return b.QuotedPrice
}
