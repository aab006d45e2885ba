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

// Gateway event types the reconciler understands.
const (
	EventCaptureSucceeded = "capture.succeeded"
	EventCaptureFailed    = "capture.failed"
	EventTransferSettled  = "transfer.settled"
)

// GatewayEvent is an asynchronous callback from the payment provider,
// matched to a payment record by its transaction id. This is how pending
// bank transfers and delayed captures resolve.
type GatewayEvent struct {
	Type          string `json:"type"`
	TransactionID string `json:"transaction_id"`
	Reason        string `json:"reason,omitempty"`
}

// Reconciler applies gateway events to pending payment records.
type Reconciler struct {
	db         *gorm.DB
	payouts    *PayoutScheduler
	autoPayout bool
}

func NewReconciler(db *gorm.DB, payouts *PayoutScheduler, autoPayout bool) *Reconciler {
	return &Reconciler{db: db, payouts: payouts, autoPayout: autoPayout}
}

// Reconcile applies one gateway event. Events for records that already
// reached a terminal status are acknowledged without effect, so redelivered
// webhooks are harmless.
func (r *Reconciler) Reconcile(ctx context.Context, event GatewayEvent) (*PaymentResult, error) {
	if event.TransactionID == "" {
		return nil, validationError("event is missing a transaction id")
	}

	var record models.PaymentRecord
	var settled bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).Where("transaction_id = ?", event.TransactionID).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("no payment record matches the event transaction id")
			}
			return err
		}
		if record.Status != models.PaymentStatusPending {
			return nil
		}

		switch event.Type {
		case EventCaptureSucceeded, EventTransferSettled:
			settled = true
			return completeCaptureTx(tx, record.ID, "")
		case EventCaptureFailed:
			now := time.Now()
			updates := map[string]interface{}{
				"status":        models.PaymentStatusFailed,
				"platform_fee":  0,
				"vendor_payout": 0,
				"processed_at":  &now,
			}
			if event.Reason != "" {
				updates["description"] = fmt.Sprintf("%s (failed: %s)", record.Description, event.Reason)
			}
			return tx.Model(&record).Updates(updates).Error
		default:
			return validationError("unknown gateway event type")
		}
	})
	if err != nil {
		return nil, err
	}

	if err := r.db.First(&record, record.ID).Error; err != nil {
		return nil, err
	}
	utils.LogInfo("Gateway event reconciled - type: %s, transaction: %s, status: %s",
		event.Type, event.TransactionID, record.Status)

	if settled && r.autoPayout && r.payouts != nil {
		if _, err := r.payouts.ProcessVendorPayout(ctx, record.ID); err != nil {
			utils.LogError("Automated payout failed for payment ID: %d: %v", record.ID, err)
		}
		if err := r.db.First(&record, record.ID).Error; err != nil {
			return nil, err
		}
	}

	success := record.Status == models.PaymentStatusCompleted
	reason := ""
	if !success {
		reason = "capture failed"
	}
	return resultFor(&record, success, reason), nil
}
