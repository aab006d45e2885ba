package models

import (
	"time"
)

// Milestone status constants
const (
	MilestoneStatusPending = "PENDING"
	MilestoneStatusPaid    = "PAID"
	MilestoneStatusOverdue = "OVERDUE"
)

// EscrowAccount partitions a booking's total payment into releasable
// milestones. released + pending always equals total; version guards the
// schedule against concurrent releases.
type EscrowAccount struct {
	ID             uint               `gorm:"primaryKey" json:"id"`
	BookingID      uint               `json:"booking_id" gorm:"uniqueIndex"`
	Currency       string             `json:"currency"`
	TotalAmount    int64              `json:"total_amount"`    // minor units
	ReleasedAmount int64              `json:"released_amount"` // minor units
	PendingAmount  int64              `json:"pending_amount"`  // minor units
	Version        int                `json:"version" gorm:"default:1"`
	Milestones     []PaymentMilestone `json:"milestones" gorm:"foreignKey:EscrowAccountID"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// PaymentMilestone is one releasable slice of an escrow account, ordered by
// Position. PENDING moves to PAID exactly once; there is no way back.
type PaymentMilestone struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	EscrowAccountID uint       `json:"escrow_account_id" gorm:"index"`
	Position        int        `json:"position"`
	Title           string     `json:"title"`
	Amount          int64      `json:"amount"` // minor units
	DueDate         time.Time  `json:"due_date"`
	Status          string     `json:"status"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ServiceAgreement is the externally negotiated contract between organizer
// and vendor. Its milestone template is the prerequisite for opening an
// escrow account; this engine reads it and never writes it.
type ServiceAgreement struct {
	ID         uint                 `gorm:"primaryKey" json:"id"`
	BookingID  uint                 `json:"booking_id" gorm:"uniqueIndex"`
	Milestones []AgreementMilestone `json:"milestones" gorm:"foreignKey:ServiceAgreementID"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// AgreementMilestone is a milestone template line in a service agreement.
type AgreementMilestone struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	ServiceAgreementID uint      `json:"service_agreement_id" gorm:"index"`
	Position           int       `json:"position"`
	Title              string    `json:"title"`
	Amount             int64     `json:"amount"` // minor units
	DueDate            time.Time `json:"due_date"`
}
