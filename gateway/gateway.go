package gateway

import (
	"context"
	"errors"
)

// ErrTimeout means the gateway call exceeded its deadline. The outcome is
// unknown, not failed: the call may still land on the provider side, so the
// caller must retry with the same reference rather than record a failure.
var ErrTimeout = errors.New("gateway call timed out, outcome unknown")

// CaptureRequest asks the gateway to capture funds against a reference the
// engine generated. The reference doubles as the idempotency key.
type CaptureRequest struct {
	Reference   string
	Amount      int64 // minor units
	Currency    string
	Description string
}

// CaptureResult reports a settled capture attempt. Declined captures come
// back with Captured=false and a reason, not an error.
type CaptureResult struct {
	TransactionID string
	Captured      bool
	FailureReason string
}

type RefundRequest struct {
	TransactionID string
	Amount        int64 // minor units
	Reason        string
}

type RefundResult struct {
	RefundID string
}

// FundAccountRequest provisions a vendor payout destination.
type FundAccountRequest struct {
	VendorRef     string
	AccountHolder string
	AccountNumber string
	IFSC          string
}

type TransferRequest struct {
	Reference   string // idempotency key
	Destination string
	Amount      int64 // minor units
	Currency    string
}

type TransferResult struct {
	TransferID string
}

// Client is the payment gateway as the engine sees it. A single
// implementation is constructed at startup and passed in explicitly, so
// tests can substitute a fake. Every call must respect the context deadline
// and surface ErrTimeout when it expires.
type Client interface {
	Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error)
	Refund(ctx context.Context, req RefundRequest) (*RefundResult, error)
	CreateFundAccount(ctx context.Context, req FundAccountRequest) (string, error)
	Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
}
