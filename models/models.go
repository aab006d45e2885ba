package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an event organizer account. Profile management lives in
// the accounts service; the payment engine only needs a stable payer
// identity.
type User struct {
	gorm.Model
	Username  string `gorm:"uniqueIndex;not null" json:"username"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	IsBlocked bool   `json:"is_blocked"`
	IsAdmin   bool   `json:"is_admin" gorm:"default:false"`
}

// Vendor represents a service vendor. Verification and profile workflows
// are external; the engine reads the record and writes only the payout
// destination provisioned by the payout scheduler.
type Vendor struct {
	gorm.Model
	UserID       uint   `json:"user_id" gorm:"uniqueIndex"`
	User         User   `json:"-" gorm:"foreignKey:UserID"`
	BusinessName string `json:"business_name"`
	ContactEmail string `json:"contact_email"`

	// External payout destination reference, empty until
	// SetupAutomatedPayout provisions one.
	PayoutAccountID string     `json:"payout_account_id,omitempty"`
	PayoutSetupAt   *time.Time `json:"payout_setup_at,omitempty"`
}

// ServiceListing is the vendor's published service a booking points at.
type ServiceListing struct {
	gorm.Model
	VendorID    uint   `json:"vendor_id" gorm:"index"`
	Title       string `json:"title"`
	Description string `json:"description"`
	BasePrice   int64  `json:"base_price"` // minor units
	Active      bool   `json:"active" gorm:"default:true"`
}
