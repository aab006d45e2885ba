package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akhil-nair-17/FestPay/gateway"
	"github.com/akhil-nair-17/FestPay/models"
	"github.com/akhil-nair-17/FestPay/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Processor validates booking payability, splits fees, dispatches captures
// to the right gateway adapter and records every attempt, failed ones
// included.
type Processor struct {
	db         *gorm.DB
	cards      gateway.Client
	wallets    gateway.Client
	payouts    *PayoutScheduler
	feeBps     int64
	autoPayout bool
}

// NewProcessor wires the processor with its gateway clients. wallets may be
// nil when no standalone wallet gateway is configured; card-backed wallet
// captures still work through the card client.
func NewProcessor(db *gorm.DB, cards, wallets gateway.Client, payouts *PayoutScheduler, feeBps int64, autoPayout bool) *Processor {
	return &Processor{
		db:         db,
		cards:      cards,
		wallets:    wallets,
		payouts:    payouts,
		feeBps:     feeBps,
		autoPayout: autoPayout,
	}
}

// PaymentRequest is an inbound capture request.
type PaymentRequest struct {
	BookingID   uint
	PayerID     uint
	Amount      int64 // minor units
	Currency    string
	Method      Method
	Description string
	MilestoneID *uint
}

// PaymentResult is what callers see: a success flag and a short reason,
// never gateway payloads.
type PaymentResult struct {
	Success       bool   `json:"success"`
	RecordID      uint   `json:"record_id"`
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	PlatformFee   int64  `json:"platform_fee"`
	VendorPayout  int64  `json:"vendor_payout"`
	Reason        string `json:"reason,omitempty"`
}

// ProcessPayment runs one capture attempt against a payable booking.
//
// The attempt row is created PENDING, with its transaction reference, before
// the gateway is called; the outcome then updates it. A gateway timeout
// leaves the row PENDING because the outcome is unknown, and a retry
// carrying the same reference resumes that row instead of opening a second
// attempt.
func (p *Processor) ProcessPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	if req.Amount <= 0 {
		return nil, validationError("amount must be positive")
	}
	if req.Currency == "" {
		return nil, validationError("currency is required")
	}
	if err := req.Method.Validate(); err != nil {
		return nil, err
	}

	var record models.PaymentRecord
	var early *PaymentResult
	err := p.db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := forUpdate(tx).First(&booking, req.BookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("booking not found")
			}
			return err
		}
		if !booking.IsPayable() {
			return invalidStateError("booking is not in a payable state")
		}

		var escrowCount int64
		if err := tx.Model(&models.EscrowAccount{}).Where("booking_id = ?", booking.ID).Count(&escrowCount).Error; err != nil {
			return err
		}
		if escrowCount > 0 {
			return invalidStateError("booking funds are managed by escrow")
		}

		reference := captureReference(req.Method)

		// A client-supplied reference is the idempotency key: resolve to
		// the attempt it already names, if any.
		if req.Method.Type != models.PaymentMethodBankTransfer {
			var existing models.PaymentRecord
			err := forUpdate(tx).Where("transaction_id = ?", reference).First(&existing).Error
			if err == nil {
				switch existing.Status {
				case models.PaymentStatusCompleted:
					early = resultFor(&existing, true, "payment already completed")
					return nil
				case models.PaymentStatusPending:
					record = existing
					return nil
				default:
					return invalidStateError("a settled attempt already exists for this transaction reference")
				}
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		payerID := req.PayerID
		if payerID == 0 {
			payerID = booking.OrganizerID
		}
		platformFee, vendorPayout := splitFee(req.Amount, p.feeBps)
		record = models.PaymentRecord{
			BookingID:     booking.ID,
			PayerID:       payerID,
			PayeeID:       booking.VendorID,
			Amount:        req.Amount,
			Currency:      req.Currency,
			Status:        models.PaymentStatusPending,
			Method:        req.Method.Type,
			TransactionID: reference,
			Description:   req.Description,
			MilestoneID:   req.MilestoneID,
			PlatformFee:   platformFee,
			VendorPayout:  vendorPayout,
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	if early != nil {
		return early, nil
	}

	// Bank transfers settle out of band; the PENDING row is the whole
	// synchronous story and reconciliation finishes it later.
	if req.Method.Type == models.PaymentMethodBankTransfer {
		utils.LogInfo("Bank transfer payment recorded as pending - booking ID: %d, reference: %s", record.BookingID, record.TransactionID)
		return resultFor(&record, true, "awaiting bank transfer settlement"), nil
	}

	client := p.cards
	if req.Method.Type == models.PaymentMethodWallet && !req.Method.Wallet.CardBacked {
		client = p.wallets
		if client == nil {
			if err := p.failAttempt(record.ID, "wallet gateway not configured"); err != nil {
				return nil, err
			}
			return nil, configurationError("wallet gateway not configured")
		}
	}

	capture, err := client.Capture(ctx, gateway.CaptureRequest{
		Reference:   record.TransactionID,
		Amount:      record.Amount,
		Currency:    record.Currency,
		Description: record.Description,
	})
	if err == gateway.ErrTimeout {
		utils.LogError("Gateway capture timed out - booking ID: %d, reference: %s", record.BookingID, record.TransactionID)
		res := resultFor(&record, false, "gateway timeout, outcome unknown; retry with the same reference")
		res.Status = models.PaymentStatusPending
		return res, nil
	}
	if err != nil {
		utils.LogError("Gateway capture errored - booking ID: %d, reference: %s: %v", record.BookingID, record.TransactionID, err)
		if err := p.failAttempt(record.ID, ""); err != nil {
			return nil, err
		}
		record.Status = models.PaymentStatusFailed
		record.PlatformFee = 0
		record.VendorPayout = 0
		return resultFor(&record, false, "payment gateway error"), nil
	}
	if !capture.Captured {
		utils.LogInfo("Capture declined - booking ID: %d, reference: %s: %s", record.BookingID, record.TransactionID, capture.FailureReason)
		if err := p.failAttempt(record.ID, capture.FailureReason); err != nil {
			return nil, err
		}
		record.Status = models.PaymentStatusFailed
		record.PlatformFee = 0
		record.VendorPayout = 0
		return resultFor(&record, false, capture.FailureReason), nil
	}

	err = p.db.Transaction(func(tx *gorm.DB) error {
		return completeCaptureTx(tx, record.ID, capture.TransactionID)
	})
	if err != nil {
		return nil, err
	}
	if err := p.db.First(&record, record.ID).Error; err != nil {
		return nil, err
	}
	utils.LogInfo("Capture completed - booking ID: %d, transaction: %s, fee: %d, payout: %d",
		record.BookingID, record.TransactionID, record.PlatformFee, record.VendorPayout)

	p.maybeTriggerPayout(ctx, record.ID)

	return resultFor(&record, true, ""), nil
}

// PaymentHistory returns the booking's attempt trail, newest first.
func (p *Processor) PaymentHistory(bookingID uint, limit, offset int) ([]models.PaymentRecord, int64, error) {
	var booking models.Booking
	if err := p.db.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, notFoundError("booking not found")
		}
		return nil, 0, err
	}

	var total int64
	if err := p.db.Model(&models.PaymentRecord{}).Where("booking_id = ?", bookingID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.PaymentRecord
	query := p.db.Where("booking_id = ?", bookingID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// failAttempt marks the attempt FAILED with zeroed fee fields. The row
// itself stays forever; absence of a record must never be mistaken for
// absence of an attempt.
func (p *Processor) failAttempt(recordID uint, reason string) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		var record models.PaymentRecord
		if err := forUpdate(tx).First(&record, recordID).Error; err != nil {
			return err
		}
		if record.Status != models.PaymentStatusPending {
			return nil
		}
		now := time.Now()
		updates := map[string]interface{}{
			"status":        models.PaymentStatusFailed,
			"platform_fee":  0,
			"vendor_payout": 0,
			"processed_at":  &now,
		}
		if reason != "" {
			updates["description"] = fmt.Sprintf("%s (failed: %s)", record.Description, reason)
		}
		return tx.Model(&record).Updates(updates).Error
	})
}

// maybeTriggerPayout runs the automated vendor payout after a completed
// capture. Payout failures are logged, never surfaced as capture failures.
func (p *Processor) maybeTriggerPayout(ctx context.Context, recordID uint) {
	if !p.autoPayout || p.payouts == nil {
		return
	}
	if _, err := p.payouts.ProcessVendorPayout(ctx, recordID); err != nil {
		utils.LogError("Automated payout failed for payment ID: %d: %v", recordID, err)
	}
}

// completeCaptureTx settles a PENDING attempt as COMPLETED and, on the
// booking's first completed payment, moves QUOTE_ACCEPTED to CONFIRMED.
// Shared by the synchronous card path and webhook reconciliation.
func completeCaptureTx(tx *gorm.DB, recordID uint, gatewayTxnID string) error {
	var record models.PaymentRecord
	if err := forUpdate(tx).First(&record, recordID).Error; err != nil {
		return err
	}
	if record.Status != models.PaymentStatusPending {
		return nil
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       models.PaymentStatusCompleted,
		"processed_at": &now,
	}
	if gatewayTxnID != "" && gatewayTxnID != record.TransactionID {
		updates["transaction_id"] = gatewayTxnID
	}
	if err := tx.Model(&record).Updates(updates).Error; err != nil {
		return err
	}

	var booking models.Booking
	if err := forUpdate(tx).First(&booking, record.BookingID).Error; err != nil {
		return err
	}
	if booking.Status == models.BookingStatusQuoteAccepted && booking.CanTransition(models.BookingStatusConfirmed) {
		if err := tx.Model(&booking).Updates(map[string]interface{}{
			"status":       models.BookingStatusConfirmed,
			"confirmed_at": &now,
		}).Error; err != nil {
			return err
		}
		utils.LogInfo("Booking confirmed on first completed payment - booking ID: %d", booking.ID)
	}
	return nil
}

// captureReference picks the transaction reference for an attempt. Card and
// wallet captures carry a client-supplied token, which doubles as the retry
// idempotency key; bank transfers get a synthesized reference because they
// settle out of band and are matched by the reconciler instead.
func captureReference(m Method) string {
	switch m.Type {
	case models.PaymentMethodCard:
		return m.Card.PaymentToken
	case models.PaymentMethodWallet:
		return m.Wallet.PaymentToken
	case models.PaymentMethodBankTransfer:
		return "bt_" + uuid.New().String()
	}
	return uuid.New().String()
}

func resultFor(record *models.PaymentRecord, success bool, reason string) *PaymentResult {
	return &PaymentResult{
		Success:       success,
		RecordID:      record.ID,
		TransactionID: record.TransactionID,
		Status:        record.Status,
		PlatformFee:   record.PlatformFee,
		VendorPayout:  record.VendorPayout,
		Reason:        reason,
	}
}
