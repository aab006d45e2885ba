package payments

import (
	"github.com/akhil-nair-17/FestPay/models"
)

// CardDetails carries the gateway reference of an authorized card payment.
// The reference is the capture idempotency key: a retried request with the
// same token resolves to the existing attempt instead of a new one.
type CardDetails struct {
	PaymentToken string `json:"payment_token"`
}

// BankTransferDetails identifies the expected inbound transfer. Settlement
// is asynchronous and reconciled later from a gateway event.
type BankTransferDetails struct {
	AccountHolder string `json:"account_holder"`
	BankName      string `json:"bank_name,omitempty"`
}

// WalletDetails identifies a wallet capture. The payment token is the
// capture idempotency key, exactly as for cards; card-backed wallets route
// through the card gateway with it.
type WalletDetails struct {
	Provider     string `json:"provider"`
	CardBacked   bool   `json:"card_backed"`
	PaymentToken string `json:"payment_token"`
}

// Method is the tagged payment-method union. Exactly the branch named by
// Type must be populated; Validate enforces that at the boundary before any
// dispatch happens.
type Method struct {
	Type         string               `json:"type"`
	Card         *CardDetails         `json:"card,omitempty"`
	BankTransfer *BankTransferDetails `json:"bank_transfer,omitempty"`
	Wallet       *WalletDetails       `json:"wallet,omitempty"`
}

// Validate checks the union is well formed for its tag.
func (m Method) Validate() error {
	switch m.Type {
	case models.PaymentMethodCard:
		if m.Card == nil || m.Card.PaymentToken == "" {
			return validationError("card payments require a payment token")
		}
	case models.PaymentMethodBankTransfer:
		if m.BankTransfer == nil || m.BankTransfer.AccountHolder == "" {
			return validationError("bank transfers require an account holder name")
		}
	case models.PaymentMethodWallet:
		if m.Wallet == nil || m.Wallet.Provider == "" {
			return validationError("wallet payments require a provider")
		}
		if m.Wallet.PaymentToken == "" {
			return validationError("wallet payments require a payment token")
		}
	default:
		return validationError("unknown payment method")
	}
	return nil
}
