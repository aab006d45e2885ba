package payments

import (
	"context"
	"testing"

	"github.com/akhil-nair-17/FestPay/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func pendingBankTransfer(t *testing.T, db *gorm.DB, processor *Processor, booking *models.Booking) *models.PaymentRecord {
	t.Helper()
	result, err := processor.ProcessPayment(context.Background(), PaymentRequest{
		BookingID: booking.ID,
		Amount:    100000,
		Currency:  "INR",
		Method:    bankTransferMethod(),
	})
	require.NoError(t, err)

	var record models.PaymentRecord
	require.NoError(t, db.First(&record, result.RecordID).Error)
	require.Equal(t, models.PaymentStatusPending, record.Status)
	return &record
}

func TestReconcileTransferSettled(t *testing.T) {
	db := testDB(t)
	processor := NewProcessor(db, &fakeGateway{}, nil, nil, testFeeBps, false)
	reconciler := NewReconciler(db, nil, false)
	booking := seedBooking(t, db, models.BookingStatusQuoteAccepted)
	record := pendingBankTransfer(t, db, processor, booking)

	result, err := reconciler.Reconcile(context.Background(), GatewayEvent{
		Type:          EventTransferSettled,
		TransactionID: record.TransactionID,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, models.PaymentStatusCompleted, result.Status)

	var settled models.PaymentRecord
	require.NoError(t, db.First(&settled, record.ID).Error)
	assert.Equal(t, models.PaymentStatusCompleted, settled.Status)
	assert.NotNil(t, settled.ProcessedAt)
	assert.Equal(t, settled.Amount, settled.PlatformFee+settled.VendorPayout)

	// Settlement confirms the booking.
	var updated models.Booking
	require.NoError(t, db.First(&updated, booking.ID).Error)
	assert.Equal(t, models.BookingStatusConfirmed, updated.Status)
}

func TestReconcileCaptureFailed(t *testing.T) {
	db := testDB(t)
	processor := NewProcessor(db, &fakeGateway{}, nil, nil, testFeeBps, false)
	reconciler := NewReconciler(db, nil, false)
	booking := seedBooking(t, db, models.BookingStatusQuoteAccepted)
	record := pendingBankTransfer(t, db, processor, booking)

	result, err := reconciler.Reconcile(context.Background(), GatewayEvent{
		Type:          EventCaptureFailed,
		TransactionID: record.TransactionID,
		Reason:        "transfer bounced",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)

	var failed models.PaymentRecord
	require.NoError(t, db.First(&failed, record.ID).Error)
	assert.Equal(t, models.PaymentStatusFailed, failed.Status)
	assert.Zero(t, failed.PlatformFee)
	assert.Zero(t, failed.VendorPayout)
	assert.Contains(t, failed.Description, "transfer bounced")

	var updated models.Booking
	require.NoError(t, db.First(&updated, booking.ID).Error)
	assert.Equal(t, models.BookingStatusQuoteAccepted, updated.Status)
}

func TestReconcileRedeliveredEvent(t *testing.T) {
	db := testDB(t)
	processor := NewProcessor(db, &fakeGateway{}, nil, nil, testFeeBps, false)
	reconciler := NewReconciler(db, nil, false)
	booking := seedBooking(t, db, models.BookingStatusQuoteAccepted)
	record := pendingBankTransfer(t, db, processor, booking)

	event := GatewayEvent{Type: EventTransferSettled, TransactionID: record.TransactionID}
	first, err := reconciler.Reconcile(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, first.Success)

	// Redelivery of the same event is acknowledged without effect.
	second, err := reconciler.Reconcile(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.Equal(t, first.RecordID, second.RecordID)

	// A late failure event for an already settled record changes nothing.
	late, err := reconciler.Reconcile(context.Background(), GatewayEvent{
		Type:          EventCaptureFailed,
		TransactionID: record.TransactionID,
		Reason:        "late failure",
	})
	require.NoError(t, err)
	assert.True(t, late.Success)

	var settled models.PaymentRecord
	require.NoError(t, db.First(&settled, record.ID).Error)
	assert.Equal(t, models.PaymentStatusCompleted, settled.Status)
}

func TestReconcileUnknownTransaction(t *testing.T) {
	db := testDB(t)
	reconciler := NewReconciler(db, nil, false)

	_, err := reconciler.Reconcile(context.Background(), GatewayEvent{
		Type:          EventCaptureSucceeded,
		TransactionID: "pay_nowhere_1",
	})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = reconciler.Reconcile(context.Background(), GatewayEvent{Type: EventCaptureSucceeded})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestReconcileUnknownEventType(t *testing.T) {
	db := testDB(t)
	processor := NewProcessor(db, &fakeGateway{}, nil, nil, testFeeBps, false)
	reconciler := NewReconciler(db, nil, false)
	booking := seedBooking(t, db, models.BookingStatusQuoteAccepted)
	record := pendingBankTransfer(t, db, processor, booking)

	_, err := reconciler.Reconcile(context.Background(), GatewayEvent{
		Type:          "capture.exploded",
		TransactionID: record.TransactionID,
	})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestReconcileSettlementTriggersAutoPayout(t *testing.T) {
	db := testDB(t)
	fake := &fakeGateway{transferID: "trf_settle_1"}
	processor := NewProcessor(db, fake, nil, nil, testFeeBps, false)
	payouts := NewPayoutScheduler(db, fake)
	reconciler := NewReconciler(db, payouts, true)
	booking := seedBooking(t, db, models.BookingStatusQuoteAccepted)
	record := pendingBankTransfer(t, db, processor, booking)

	_, err := payouts.SetupAutomatedPayout(context.Background(), booking.VendorID, PayoutDetails{
		AccountHolder: "Golden Hour Catering",
		AccountNumber: "1234567890",
		IFSC:          "HDFC0001234",
	})
	require.NoError(t, err)

	result, err := reconciler.Reconcile(context.Background(), GatewayEvent{
		Type:          EventTransferSettled,
		TransactionID: record.TransactionID,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	require.Len(t, fake.transferCalls, 1)
	var settled models.PaymentRecord
	require.NoError(t, db.First(&settled, record.ID).Error)
	assert.Equal(t, "trf_settle_1", settled.PayoutTransferID)
}
