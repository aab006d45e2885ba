package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akhil-nair-17/FestPay/models"
	"github.com/akhil-nair-17/FestPay/utils"
	"gorm.io/gorm"
)

// EscrowLedger creates per-booking milestone schedules and releases funds
// against them. Each release is routed through the same fee-split/record
// discipline as a direct capture.
type EscrowLedger struct {
	db     *gorm.DB
	feeBps int64
}

func NewEscrowLedger(db *gorm.DB, feeBps int64) *EscrowLedger {
	return &EscrowLedger{db: db, feeBps: feeBps}
}

// ReleaseResult reports one milestone release.
type ReleaseResult struct {
	Success       bool   `json:"success"`
	RecordID      uint   `json:"record_id"`
	TransactionID string `json:"transaction_id"`
	MilestoneID   uint   `json:"milestone_id"`
	Amount        int64  `json:"amount"`
	PlatformFee   int64  `json:"platform_fee"`
	VendorPayout  int64  `json:"vendor_payout"`
}

// CreateEscrow opens the escrow account for a booking, seeded from the
// booking's service agreement milestone schedule. The agreement is the
// contract of record, so it must exist and its milestones must sum to the
// escrowed amount.
func (l *EscrowLedger) CreateEscrow(ctx context.Context, bookingID uint, amount int64, currency string) (*models.EscrowAccount, error) {
	if amount <= 0 {
		return nil, validationError("amount must be positive")
	}
	if currency == "" {
		return nil, validationError("currency is required")
	}

	var account models.EscrowAccount
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := forUpdate(tx).First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("booking not found")
			}
			return err
		}

		var existing int64
		if err := tx.Model(&models.EscrowAccount{}).Where("booking_id = ?", bookingID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return invalidStateError("escrow account already exists for this booking")
		}

		var agreement models.ServiceAgreement
		err := tx.Preload("Milestones", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).Where("booking_id = ?", bookingID).First(&agreement).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalidStateError("booking has no service agreement with a milestone schedule")
			}
			return err
		}
		if len(agreement.Milestones) == 0 {
			return invalidStateError("service agreement has no milestone schedule")
		}

		var scheduled int64
		for _, m := range agreement.Milestones {
			scheduled += m.Amount
		}
		if scheduled != amount {
			return validationError(fmt.Sprintf("milestone schedule totals %d, escrow amount is %d", scheduled, amount))
		}

		account = models.EscrowAccount{
			BookingID:      bookingID,
			Currency:       currency,
			TotalAmount:    amount,
			ReleasedAmount: 0,
			PendingAmount:  amount,
			Version:        1,
		}
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		for _, m := range agreement.Milestones {
			milestone := models.PaymentMilestone{
				EscrowAccountID: account.ID,
				Position:        m.Position,
				Title:           m.Title,
				Amount:          m.Amount,
				DueDate:         m.DueDate,
				Status:          models.MilestoneStatusPending,
			}
			if err := tx.Create(&milestone).Error; err != nil {
				return err
			}
			account.Milestones = append(account.Milestones, milestone)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Escrow account created - booking ID: %d, total: %d, milestones: %d",
		bookingID, account.TotalAmount, len(account.Milestones))
	return &account, nil
}

// ReleaseFunds releases a single milestone in full. The schedule is re-read
// inside the locked transaction and the account row is advanced with a
// compare-and-swap on its version, so a concurrent release cannot be lost
// or double-applied. The release's transaction reference is derived from
// the milestone id, which makes a retried release idempotent.
func (l *EscrowLedger) ReleaseFunds(ctx context.Context, escrowID, milestoneID uint) (*ReleaseResult, error) {
	var result ReleaseResult
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var account models.EscrowAccount
		if err := forUpdate(tx).First(&account, escrowID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("escrow account not found")
			}
			return err
		}

		var booking models.Booking
		if err := tx.First(&booking, account.BookingID).Error; err != nil {
			return err
		}

		// Latest schedule, not whatever the caller last saw.
		var milestone models.PaymentMilestone
		err := forUpdate(tx).Where("id = ? AND escrow_account_id = ?", milestoneID, account.ID).First(&milestone).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("milestone not found")
			}
			return err
		}
		if milestone.Status == models.MilestoneStatusPaid {
			return newError(KindAlreadyReleased, "milestone has already been released", nil)
		}

		platformFee, vendorPayout := splitFee(milestone.Amount, l.feeBps)
		now := time.Now()
		record := models.PaymentRecord{
			BookingID:     booking.ID,
			PayerID:       booking.OrganizerID,
			PayeeID:       booking.VendorID,
			Amount:        milestone.Amount,
			Currency:      account.Currency,
			Status:        models.PaymentStatusCompleted,
			Method:        models.PaymentMethodEscrowRelease,
			TransactionID: fmt.Sprintf("esc_%d_ms_%d", account.ID, milestone.ID),
			Description:   fmt.Sprintf("Escrow release: %s", milestone.Title),
			MilestoneID:   &milestone.ID,
			PlatformFee:   platformFee,
			VendorPayout:  vendorPayout,
			ProcessedAt:   &now,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		if err := tx.Model(&milestone).Updates(map[string]interface{}{
			"status":  models.MilestoneStatusPaid,
			"paid_at": &now,
		}).Error; err != nil {
			return err
		}

		cas := tx.Model(&models.EscrowAccount{}).
			Where("id = ? AND version = ?", account.ID, account.Version).
			Updates(map[string]interface{}{
				"released_amount": account.ReleasedAmount + milestone.Amount,
				"pending_amount":  account.PendingAmount - milestone.Amount,
				"version":         account.Version + 1,
			})
		if cas.Error != nil {
			return cas.Error
		}
		if cas.RowsAffected == 0 {
			return invalidStateError("escrow schedule changed concurrently, retry the release")
		}

		result = ReleaseResult{
			Success:       true,
			RecordID:      record.ID,
			TransactionID: record.TransactionID,
			MilestoneID:   milestone.ID,
			Amount:        record.Amount,
			PlatformFee:   platformFee,
			VendorPayout:  vendorPayout,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Milestone released - escrow ID: %d, milestone ID: %d, amount: %d",
		escrowID, result.MilestoneID, result.Amount)
	return &result, nil
}

// GetEscrow loads an escrow account with its ordered schedule.
func (l *EscrowLedger) GetEscrow(escrowID uint) (*models.EscrowAccount, error) {
	var account models.EscrowAccount
	err := l.db.Preload("Milestones", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&account, escrowID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("escrow account not found")
		}
		return nil, err
	}
	return &account, nil
}

// MarkOverdue sweeps unpaid milestones past their due date to OVERDUE.
// Overdue milestones stay releasable; the status only drives follow-up.
func (l *EscrowLedger) MarkOverdue(now time.Time) (int64, error) {
	res := l.db.Model(&models.PaymentMilestone{}).
		Where("status = ? AND due_date < ?", models.MilestoneStatusPending, now).
		Update("status", models.MilestoneStatusOverdue)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		utils.LogInfo("Marked %d milestones overdue", res.RowsAffected)
	}
	return res.RowsAffected, nil
}
