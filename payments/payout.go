package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akhil-nair-17/FestPay/gateway"
	"github.com/akhil-nair-17/FestPay/models"
	"github.com/akhil-nair-17/FestPay/utils"
	"gorm.io/gorm"
)

// PayoutScheduler provisions vendor payout destinations and transfers
// vendor payout amounts for completed payments.
type PayoutScheduler struct {
	db *gorm.DB
	gw gateway.Client
}

func NewPayoutScheduler(db *gorm.DB, gw gateway.Client) *PayoutScheduler {
	return &PayoutScheduler{db: db, gw: gw}
}

// PayoutDetails is the vendor's bank destination to provision.
type PayoutDetails struct {
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
}

// PayoutResult reports one executed vendor payout.
type PayoutResult struct {
	Success    bool   `json:"success"`
	TransferID string `json:"transfer_id"`
	Amount     int64  `json:"amount"`
}

// SetupAutomatedPayout provisions an external payout destination for the
// vendor and stores its reference on the vendor record.
func (s *PayoutScheduler) SetupAutomatedPayout(ctx context.Context, vendorID uint, details PayoutDetails) (*models.Vendor, error) {
	if details.AccountHolder == "" || details.AccountNumber == "" || details.IFSC == "" {
		return nil, validationError("account holder, account number and IFSC are required")
	}

	var vendor models.Vendor
	if err := s.db.First(&vendor, vendorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("vendor not found")
		}
		return nil, err
	}

	accountID, err := s.gw.CreateFundAccount(ctx, gateway.FundAccountRequest{
		VendorRef:     fmt.Sprintf("vendor_%d", vendor.ID),
		AccountHolder: details.AccountHolder,
		AccountNumber: details.AccountNumber,
		IFSC:          details.IFSC,
	})
	if err != nil {
		utils.LogError("Payout destination provisioning failed for vendor ID: %d: %v", vendorID, err)
		return nil, gatewayError("could not provision the payout destination", err)
	}

	now := time.Now()
	if err := s.db.Model(&vendor).Updates(map[string]interface{}{
		"payout_account_id": accountID,
		"payout_setup_at":   &now,
	}).Error; err != nil {
		return nil, err
	}
	vendor.PayoutAccountID = accountID
	vendor.PayoutSetupAt = &now

	utils.LogInfo("Payout destination provisioned - vendor ID: %d, account: %s", vendorID, accountID)
	return &vendor, nil
}

// ProcessVendorPayout transfers the vendor payout share of a completed
// payment to the vendor's provisioned destination and stamps the transfer
// onto the payment record. The transfer reference is derived from the
// payment id, so a retried payout cannot move money twice.
func (s *PayoutScheduler) ProcessVendorPayout(ctx context.Context, paymentID uint) (*PayoutResult, error) {
	var payment models.PaymentRecord
	if err := s.db.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("payment not found")
		}
		return nil, err
	}
	if payment.Status != models.PaymentStatusCompleted {
		return nil, invalidStateError("only completed payments can be paid out")
	}
	if payment.PayoutTransferID != "" {
		return nil, invalidStateError("payment has already been paid out")
	}

	var vendor models.Vendor
	if err := s.db.First(&vendor, payment.PayeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("vendor not found")
		}
		return nil, err
	}
	if vendor.PayoutAccountID == "" {
		return nil, configurationError("vendor has no payout destination configured")
	}

	transfer, err := s.gw.Transfer(ctx, gateway.TransferRequest{
		Reference:   fmt.Sprintf("payout_%d", payment.ID),
		Destination: vendor.PayoutAccountID,
		Amount:      payment.VendorPayout,
		Currency:    payment.Currency,
	})
	if err == gateway.ErrTimeout {
		return nil, gatewayError("payout outcome unknown, retry", err)
	}
	if err != nil {
		utils.LogError("Payout transfer failed for payment ID: %d: %v", paymentID, err)
		return nil, gatewayError("payout transfer failed", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var locked models.PaymentRecord
		if err := forUpdate(tx).First(&locked, paymentID).Error; err != nil {
			return err
		}
		if locked.PayoutTransferID != "" {
			return invalidStateError("payment was paid out concurrently")
		}
		now := time.Now()
		return tx.Model(&locked).Updates(map[string]interface{}{
			"payout_transfer_id": transfer.TransferID,
			"paid_out_at":        &now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Vendor payout completed - payment ID: %d, transfer: %s, amount: %d",
		paymentID, transfer.TransferID, payment.VendorPayout)
	return &PayoutResult{Success: true, TransferID: transfer.TransferID, Amount: payment.VendorPayout}, nil
}
