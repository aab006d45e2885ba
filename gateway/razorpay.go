package gateway

import (
	"context"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayClient implements Client against Razorpay. The SDK is not
// context-aware, so every call runs under a watchdog that reports
// ErrTimeout when the deadline passes while the request is still in flight.
type RazorpayClient struct {
	client  *razorpay.Client
	timeout time.Duration
}

// NewRazorpayClient builds the gateway client used for card captures,
// refunds and vendor transfers.
func NewRazorpayClient(key, secret string, timeout time.Duration) *RazorpayClient {
	return &RazorpayClient{
		client:  razorpay.NewClient(key, secret),
		timeout: timeout,
	}
}

type sdkResult struct {
	body map[string]interface{}
	err  error
}

// call runs an SDK call with the configured deadline. On timeout the
// goroutine is abandoned; the provider may still complete the operation,
// which is exactly why ErrTimeout means unknown, not failed.
func (r *RazorpayClient) call(ctx context.Context, fn func() (map[string]interface{}, error)) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	done := make(chan sdkResult, 1)
	go func() {
		body, err := fn()
		done <- sdkResult{body: body, err: err}
	}()

	select {
	case res := <-done:
		return res.body, res.err
	case <-ctx.Done():
		return nil, ErrTimeout
	}
}

func (r *RazorpayClient) Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error) {
	body, err := r.call(ctx, func() (map[string]interface{}, error) {
		return r.client.Payment.Capture(req.Reference, int(req.Amount), map[string]interface{}{
			"currency": req.Currency,
		}, nil)
	})
	if err == ErrTimeout {
		return nil, ErrTimeout
	}
	if err != nil {
		// The provider settled the attempt and said no.
		return &CaptureResult{
			TransactionID: req.Reference,
			Captured:      false,
			FailureReason: "capture declined by gateway",
		}, nil
	}

	txnID := req.Reference
	if id, ok := body["id"].(string); ok && id != "" {
		txnID = id
	}
	return &CaptureResult{TransactionID: txnID, Captured: true}, nil
}

func (r *RazorpayClient) Refund(ctx context.Context, req RefundRequest) (*RefundResult, error) {
	body, err := r.call(ctx, func() (map[string]interface{}, error) {
		return r.client.Payment.Refund(req.TransactionID, int(req.Amount), map[string]interface{}{
			"notes": map[string]interface{}{"reason": req.Reason},
		}, nil)
	})
	if err != nil {
		return nil, err
	}
	refundID, _ := body["id"].(string)
	if refundID == "" {
		return nil, fmt.Errorf("gateway refund response missing id")
	}
	return &RefundResult{RefundID: refundID}, nil
}

func (r *RazorpayClient) CreateFundAccount(ctx context.Context, req FundAccountRequest) (string, error) {
	body, err := r.call(ctx, func() (map[string]interface{}, error) {
		return r.client.FundAccount.Create(map[string]interface{}{
			"contact_id":   req.VendorRef,
			"account_type": "bank_account",
			"bank_account": map[string]interface{}{
				"name":           req.AccountHolder,
				"account_number": req.AccountNumber,
				"ifsc":           req.IFSC,
			},
		}, nil)
	})
	if err != nil {
		return "", err
	}
	accountID, _ := body["id"].(string)
	if accountID == "" {
		return "", fmt.Errorf("gateway fund account response missing id")
	}
	return accountID, nil
}

func (r *RazorpayClient) Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	body, err := r.call(ctx, func() (map[string]interface{}, error) {
		return r.client.Transfer.Create(map[string]interface{}{
			"account":   req.Destination,
			"amount":    req.Amount,
			"currency":  req.Currency,
			"reference": req.Reference,
		}, nil)
	})
	if err != nil {
		return nil, err
	}
	transferID, _ := body["id"].(string)
	if transferID == "" {
		return nil, fmt.Errorf("gateway transfer response missing id")
	}
	return &TransferResult{TransferID: transferID}, nil
}
