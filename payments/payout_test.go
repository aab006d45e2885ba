package payments

import (
	"context"
	"fmt"
	"testing"

	"github.com/akhil-nair-17/FestPay/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupAutomatedPayout(t *testing.T) {
	db := testDB(t)
	fake := &fakeGateway{fundAccountID: "fa_vendor_1"}
	scheduler := NewPayoutScheduler(db, fake)
	booking := seedBooking(t, db, models.BookingStatusConfirmed)

	vendor, err := scheduler.SetupAutomatedPayout(context.Background(), booking.VendorID, PayoutDetails{
		AccountHolder: "Golden Hour Catering",
		AccountNumber: "1234567890",
		IFSC:          "HDFC0001234",
	})
	require.NoError(t, err)
	assert.Equal(t, "fa_vendor_1", vendor.PayoutAccountID)
	assert.NotNil(t, vendor.PayoutSetupAt)

	var stored models.Vendor
	require.NoError(t, db.First(&stored, booking.VendorID).Error)
	assert.Equal(t, "fa_vendor_1", stored.PayoutAccountID)
}

func TestSetupAutomatedPayoutValidation(t *testing.T) {
	db := testDB(t)
	scheduler := NewPayoutScheduler(db, &fakeGateway{})

	_, err := scheduler.SetupAutomatedPayout(context.Background(), 1, PayoutDetails{})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = scheduler.SetupAutomatedPayout(context.Background(), 9999, PayoutDetails{
		AccountHolder: "Nobody",
		AccountNumber: "0000000000",
		IFSC:          "HDFC0000000",
	})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestProcessVendorPayout(t *testing.T) {
	db := testDB(t)
	fake := &fakeGateway{transferID: "trf_vendor_1"}
	scheduler := NewPayoutScheduler(db, fake)
	booking := seedBooking(t, db, models.BookingStatusConfirmed)
	payment := completedPayment(t, db, booking, models.PaymentMethodCard, "pay_payout_1")

	_, err := scheduler.SetupAutomatedPayout(context.Background(), booking.VendorID, PayoutDetails{
		AccountHolder: "Golden Hour Catering",
		AccountNumber: "1234567890",
		IFSC:          "HDFC0001234",
	})
	require.NoError(t, err)

	result, err := scheduler.ProcessVendorPayout(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "trf_vendor_1", result.TransferID)
	assert.Equal(t, payment.VendorPayout, result.Amount)

	require.Len(t, fake.transferCalls, 1)
	assert.Equal(t, fmt.Sprintf("payout_%d", payment.ID), fake.transferCalls[0].Reference)
	assert.Equal(t, payment.VendorPayout, fake.transferCalls[0].Amount)

	var updated models.PaymentRecord
	require.NoError(t, db.First(&updated, payment.ID).Error)
	assert.Equal(t, "trf_vendor_1", updated.PayoutTransferID)
	assert.NotNil(t, updated.PaidOutAt)

	// No double payout.
	_, err = scheduler.ProcessVendorPayout(context.Background(), payment.ID)
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.Len(t, fake.transferCalls, 1)
}

func TestProcessVendorPayoutRequiresDestination(t *testing.T) {
	db := testDB(t)
	fake := &fakeGateway{}
	scheduler := NewPayoutScheduler(db, fake)
	booking := seedBooking(t, db, models.BookingStatusConfirmed)
	payment := completedPayment(t, db, booking, models.PaymentMethodCard, "pay_payout_nodest_1")

	_, err := scheduler.ProcessVendorPayout(context.Background(), payment.ID)
	require.Error(t, err)
	assert.Equal(t, KindConfiguration, KindOf(err))
	assert.Empty(t, fake.transferCalls)
}

func TestProcessVendorPayoutRequiresCompletedPayment(t *testing.T) {
	db := testDB(t)
	scheduler := NewPayoutScheduler(db, &fakeGateway{})
	booking := seedBooking(t, db, models.BookingStatusConfirmed)

	record := models.PaymentRecord{
		BookingID:     booking.ID,
		PayeeID:       booking.VendorID,
		Amount:        100000,
		Currency:      "INR",
		Status:        models.PaymentStatusPending,
		Method:        models.PaymentMethodBankTransfer,
		TransactionID: "bt_payout_pending_1",
	}
	require.NoError(t, db.Create(&record).Error)

	_, err := scheduler.ProcessVendorPayout(context.Background(), record.ID)
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))

	_, err = scheduler.ProcessVendorPayout(context.Background(), 9999)
	assert.Equal(t, KindNotFound, KindOf(err))
}
