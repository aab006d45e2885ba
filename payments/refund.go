package payments

import (
	"context"
	"errors"
	"time"

	"github.com/akhil-nair-17/FestPay/gateway"
	"github.com/akhil-nair-17/FestPay/models"
	"github.com/akhil-nair-17/FestPay/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefundCoordinator validates and executes refunds against completed
// payments.
type RefundCoordinator struct {
	db    *gorm.DB
	cards gateway.Client
}

func NewRefundCoordinator(db *gorm.DB, cards gateway.Client) *RefundCoordinator {
	return &RefundCoordinator{db: db, cards: cards}
}

// RefundResult reports a processed refund.
type RefundResult struct {
	Success  bool   `json:"success"`
	RefundID string `json:"refund_id"`
	Amount   int64  `json:"amount"`
}

// ProcessRefund refunds part or all of a completed payment. Card-originated
// payments are pushed back through the card gateway using the original
// transaction id; everything else is recorded for manual settlement. The
// record is only mutated after the gateway call succeeds (or is skipped),
// never speculatively.
//
// The stored fee/payout split is left untouched on partial refunds; whether
// vendor liability should shrink proportionally is an open product
// question, so the refund is recorded without rewriting the ledger split.
func (r *RefundCoordinator) ProcessRefund(ctx context.Context, paymentID uint, amount int64, reason string) (*RefundResult, error) {
	if amount <= 0 {
		return nil, validationError("refund amount must be positive")
	}
	if reason == "" {
		return nil, validationError("refund reason is required")
	}

	var payment models.PaymentRecord
	if err := r.db.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("payment not found")
		}
		return nil, err
	}
	if payment.Status != models.PaymentStatusCompleted {
		return nil, invalidStateError("only completed payments can be refunded")
	}
	if amount > payment.Amount {
		return nil, validationError("refund amount exceeds the payment amount")
	}

	refundID := "manual_" + uuid.New().String()
	if payment.IsCardOriginated() {
		res, err := r.cards.Refund(ctx, gateway.RefundRequest{
			TransactionID: payment.TransactionID,
			Amount:        amount,
			Reason:        reason,
		})
		if err == gateway.ErrTimeout {
			return nil, gatewayError("refund outcome unknown, retry", err)
		}
		if err != nil {
			utils.LogError("Gateway refund failed for payment ID: %d: %v", paymentID, err)
			return nil, gatewayError("refund was declined by the payment gateway", err)
		}
		refundID = res.RefundID
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var locked models.PaymentRecord
		if err := forUpdate(tx).First(&locked, paymentID).Error; err != nil {
			return err
		}
		if locked.Status != models.PaymentStatusCompleted {
			return invalidStateError("payment was refunded concurrently")
		}
		now := time.Now()
		return tx.Model(&locked).Updates(map[string]interface{}{
			"status":        models.PaymentStatusRefunded,
			"refund_id":     refundID,
			"refund_amount": amount,
			"refund_reason": reason,
			"refunded_at":   &now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Refund processed - payment ID: %d, refund ID: %s, amount: %d", paymentID, refundID, amount)
	return &RefundResult{Success: true, RefundID: refundID, Amount: amount}, nil
}
