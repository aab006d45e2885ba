package payments

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/akhil-nair-17/FestPay/config"
	"github.com/akhil-nair-17/FestPay/gateway"
	"github.com/akhil-nair-17/FestPay/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testFeeBps = 500 // 5%

// testDB opens a fresh in-memory database per test. The shared-cache DSN
// keeps every pooled connection on the same database.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// fakeGateway scripts gateway outcomes for the engine under test.
type fakeGateway struct {
	captureResult *gateway.CaptureResult
	captureErr    error
	captureCalls  []gateway.CaptureRequest

	refundID    string
	refundErr   error
	refundCalls []gateway.RefundRequest

	fundAccountID string
	fundErr       error

	transferID    string
	transferErr   error
	transferCalls []gateway.TransferRequest
}

func (f *fakeGateway) Capture(ctx context.Context, req gateway.CaptureRequest) (*gateway.CaptureResult, error) {
	f.captureCalls = append(f.captureCalls, req)
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	if f.captureResult != nil {
		return f.captureResult, nil
	}
	return &gateway.CaptureResult{TransactionID: req.Reference, Captured: true}, nil
}

func (f *fakeGateway) Refund(ctx context.Context, req gateway.RefundRequest) (*gateway.RefundResult, error) {
	f.refundCalls = append(f.refundCalls, req)
	if f.refundErr != nil {
		return nil, f.refundErr
	}
	id := f.refundID
	if id == "" {
		id = "rfnd_test_1"
	}
	return &gateway.RefundResult{RefundID: id}, nil
}

func (f *fakeGateway) CreateFundAccount(ctx context.Context, req gateway.FundAccountRequest) (string, error) {
	if f.fundErr != nil {
		return "", f.fundErr
	}
	if f.fundAccountID == "" {
		return "fa_test_1", nil
	}
	return f.fundAccountID, nil
}

func (f *fakeGateway) Transfer(ctx context.Context, req gateway.TransferRequest) (*gateway.TransferResult, error) {
	f.transferCalls = append(f.transferCalls, req)
	if f.transferErr != nil {
		return nil, f.transferErr
	}
	id := f.transferID
	if id == "" {
		id = "trf_test_1"
	}
	return &gateway.TransferResult{TransferID: id}, nil
}

func seedBooking(t *testing.T, db *gorm.DB, status string) *models.Booking {
	t.Helper()

	organizer := models.User{
		Username:  fmt.Sprintf("organizer_%s_%d", t.Name(), time.Now().UnixNano()),
		Email:     fmt.Sprintf("organizer_%d@example.com", time.Now().UnixNano()),
		FirstName: "Asha",
		LastName:  "Menon",
	}
	if err := db.Create(&organizer).Error; err != nil {
		t.Fatalf("failed to create organizer: %v", err)
	}

	vendorUser := models.User{
		Username: fmt.Sprintf("vendor_%s_%d", t.Name(), time.Now().UnixNano()),
		Email:    fmt.Sprintf("vendor_%d@example.com", time.Now().UnixNano()),
	}
	if err := db.Create(&vendorUser).Error; err != nil {
		t.Fatalf("failed to create vendor user: %v", err)
	}
	vendor := models.Vendor{
		UserID:       vendorUser.ID,
		BusinessName: "Golden Hour Catering",
		ContactEmail: vendorUser.Email,
	}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatalf("failed to create vendor: %v", err)
	}

	listing := models.ServiceListing{
		VendorID:  vendor.ID,
		Title:     "Full-service wedding catering",
		BasePrice: 100000,
		Active:    true,
	}
	if err := db.Create(&listing).Error; err != nil {
		t.Fatalf("failed to create listing: %v", err)
	}

	booking := models.Booking{
		OrganizerID:      organizer.ID,
		VendorID:         vendor.ID,
		ServiceListingID: listing.ID,
		Status:           status,
		QuotedPrice:      100000,
		ServiceDate:      time.Now().AddDate(0, 1, 0),
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("failed to create booking: %v", err)
	}
	return &booking
}

// seedAgreement attaches a milestone schedule to the booking, amounts in
// order.
func seedAgreement(t *testing.T, db *gorm.DB, bookingID uint, amounts ...int64) *models.ServiceAgreement {
	t.Helper()

	agreement := models.ServiceAgreement{BookingID: bookingID}
	if err := db.Create(&agreement).Error; err != nil {
		t.Fatalf("failed to create agreement: %v", err)
	}
	for i, amount := range amounts {
		milestone := models.AgreementMilestone{
			ServiceAgreementID: agreement.ID,
			Position:           i + 1,
			Title:              fmt.Sprintf("Milestone %d", i+1),
			Amount:             amount,
			DueDate:            time.Now().AddDate(0, 0, 7*(i+1)),
		}
		if err := db.Create(&milestone).Error; err != nil {
			t.Fatalf("failed to create agreement milestone: %v", err)
		}
	}
	return &agreement
}

func cardMethod(token string) Method {
	return Method{Type: models.PaymentMethodCard, Card: &CardDetails{PaymentToken: token}}
}

func bankTransferMethod() Method {
	return Method{Type: models.PaymentMethodBankTransfer, BankTransfer: &BankTransferDetails{AccountHolder: "Asha Menon"}}
}

func walletMethod(token string) Method {
	return Method{Type: models.PaymentMethodWallet, Wallet: &WalletDetails{Provider: "eventpay", PaymentToken: token}}
}

func cardBackedWalletMethod(token string) Method {
	return Method{Type: models.PaymentMethodWallet, Wallet: &WalletDetails{Provider: "gpay", CardBacked: true, PaymentToken: token}}
}
