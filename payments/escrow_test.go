package payments

import (
	"context"
	"testing"
	"time"

	"github.com/akhil-nair-17/FestPay/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEscrowRequiresAgreement(t *testing.T) {
	db := testDB(t)
	ledger := NewEscrowLedger(db, testFeeBps)
	booking := seedBooking(t, db, models.BookingStatusConfirmed)

	_, err := ledger.CreateEscrow(context.Background(), booking.ID, 300000, "INR")
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestCreateEscrowBookingNotFound(t *testing.T) {
	db := testDB(t)
	ledger := NewEscrowLedger(db, testFeeBps)

	_, err := ledger.CreateEscrow(context.Background(), 9999, 300000, "INR")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestCreateEscrowSeedsSchedule(t *testing.T) {
	db := testDB(t)
	ledger := NewEscrowLedger(db, testFeeBps)
	booking := seedBooking(t, db, models.BookingStatusConfirmed)
	seedAgreement(t, db, booking.ID, 100000, 100000, 100000)

	account, err := ledger.CreateEscrow(context.Background(), booking.ID, 300000, "INR")
	require.NoError(t, err)
	assert.Equal(t, int64(300000), account.TotalAmount)
	assert.Equal(t, int64(300000), account.PendingAmount)
	assert.Zero(t, account.ReleasedAmount)
	require.Len(t, account.Milestones, 3)

	var scheduled int64
	for i, milestone := range account.Milestones {
		assert.Equal(t, i+1, milestone.Position)
		assert.Equal(t, models.MilestoneStatusPending, milestone.Status)
		scheduled += milestone.Amount
	}
	assert.Equal(t, account.TotalAmount, scheduled)

	// A second escrow for the same booking is refused.
	_, err = ledger.CreateEscrow(context.Background(), booking.ID, 300000, "INR")
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestCreateEscrowScheduleMismatch(t *testing.T) {
	db := testDB(t)
	ledger := NewEscrowLedger(db, testFeeBps)
	booking := seedBooking(t, db, models.BookingStatusConfirmed)
	seedAgreement(t, db, booking.ID, 100000, 100000)

	_, err := ledger.CreateEscrow(context.Background(), booking.ID, 300000, "INR")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestReleaseFundsIdempotent(t *testing.T) {
	db := testDB(t)
	ledger := NewEscrowLedger(db, testFeeBps)
	booking := seedBooking(t, db, models.BookingStatusConfirmed)
	seedAgreement(t, db, booking.ID, 100000, 100000, 100000)

	account, err := ledger.CreateEscrow(context.Background(), booking.ID, 300000, "INR")
	require.NoError(t, err)
	first := account.Milestones[0]

	result, err := ledger.ReleaseFunds(context.Background(), account.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(100000), result.Amount)
	assert.Equal(t, int64(5000), result.PlatformFee)
	assert.Equal(t, int64(95000), result.VendorPayout)

	// Release is recorded through the same payment discipline.
	var record models.PaymentRecord
	require.NoError(t, db.First(&record, result.RecordID).Error)
	assert.Equal(t, models.PaymentMethodEscrowRelease, record.Method)
	assert.Equal(t, models.PaymentStatusCompleted, record.Status)
	assert.Equal(t, record.Amount, record.PlatformFee+record.VendorPayout)

	var updated models.EscrowAccount
	require.NoError(t, db.First(&updated, account.ID).Error)
	assert.Equal(t, int64(100000), updated.ReleasedAmount)
	assert.Equal(t, int64(200000), updated.PendingAmount)
	assert.Equal(t, updated.TotalAmount, updated.ReleasedAmount+updated.PendingAmount)
	assert.Equal(t, account.Version+1, updated.Version)

	var milestone models.PaymentMilestone
	require.NoError(t, db.First(&milestone, first.ID).Error)
	assert.Equal(t, models.MilestoneStatusPaid, milestone.Status)
	assert.NotNil(t, milestone.PaidAt)

	// Second release of the same milestone: AlreadyReleased, ledger
	// totals unchanged.
	_, err = ledger.ReleaseFunds(context.Background(), account.ID, first.ID)
	require.Error(t, err)
	assert.Equal(t, KindAlreadyReleased, KindOf(err))

	var after models.EscrowAccount
	require.NoError(t, db.First(&after, account.ID).Error)
	assert.Equal(t, updated.ReleasedAmount, after.ReleasedAmount)
	assert.Equal(t, updated.PendingAmount, after.PendingAmount)
	assert.Equal(t, updated.Version, after.Version)

	var releases int64
	db.Model(&models.PaymentRecord{}).Where("method = ?", models.PaymentMethodEscrowRelease).Count(&releases)
	assert.Equal(t, int64(1), releases)
}

func TestReleaseFundsLedgerInvariantAcrossReleases(t *testing.T) {
	db := testDB(t)
	ledger := NewEscrowLedger(db, testFeeBps)
	booking := seedBooking(t, db, models.BookingStatusConfirmed)
	seedAgreement(t, db, booking.ID, 100000, 150000, 50000)

	account, err := ledger.CreateEscrow(context.Background(), booking.ID, 300000, "INR")
	require.NoError(t, err)

	for _, milestone := range account.Milestones {
		_, err := ledger.ReleaseFunds(context.Background(), account.ID, milestone.ID)
		require.NoError(t, err)

		var current models.EscrowAccount
		require.NoError(t, db.First(&current, account.ID).Error)
		assert.Equal(t, current.TotalAmount, current.ReleasedAmount+current.PendingAmount)
	}

	var final models.EscrowAccount
	require.NoError(t, db.First(&final, account.ID).Error)
	assert.Equal(t, final.TotalAmount, final.ReleasedAmount)
	assert.Zero(t, final.PendingAmount)
}

func TestReleaseFundsUnknownMilestone(t *testing.T) {
	db := testDB(t)
	ledger := NewEscrowLedger(db, testFeeBps)
	booking := seedBooking(t, db, models.BookingStatusConfirmed)
	seedAgreement(t, db, booking.ID, 300000)

	account, err := ledger.CreateEscrow(context.Background(), booking.ID, 300000, "INR")
	require.NoError(t, err)

	_, err = ledger.ReleaseFunds(context.Background(), account.ID, 9999)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = ledger.ReleaseFunds(context.Background(), 9999, account.Milestones[0].ID)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestCreateEscrowRequiresCurrency(t *testing.T) {
	db := testDB(t)
	ledger := NewEscrowLedger(db, testFeeBps)
	booking := seedBooking(t, db, models.BookingStatusConfirmed)
	seedAgreement(t, db, booking.ID, 300000)

	_, err := ledger.CreateEscrow(context.Background(), booking.ID, 300000, "")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestReleaseFundsCarriesEscrowCurrency(t *testing.T) {
	db := testDB(t)
	ledger := NewEscrowLedger(db, testFeeBps)
	booking := seedBooking(t, db, models.BookingStatusConfirmed)
	seedAgreement(t, db, booking.ID, 300000)

	account, err := ledger.CreateEscrow(context.Background(), booking.ID, 300000, "USD")
	require.NoError(t, err)
	assert.Equal(t, "USD", account.Currency)

	result, err := ledger.ReleaseFunds(context.Background(), account.ID, account.Milestones[0].ID)
	require.NoError(t, err)

	var record models.PaymentRecord
	require.NoError(t, db.First(&record, result.RecordID).Error)
	assert.Equal(t, "USD", record.Currency)
}

func TestMarkOverdue(t *testing.T) {
	db := testDB(t)
	ledger := NewEscrowLedger(db, testFeeBps)
	booking := seedBooking(t, db, models.BookingStatusConfirmed)
	seedAgreement(t, db, booking.ID, 100000, 200000)

	account, err := ledger.CreateEscrow(context.Background(), booking.ID, 300000, "INR")
	require.NoError(t, err)

	// First milestone due a week out, swept as of a month from now.
	swept, err := ledger.MarkOverdue(time.Now().AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	var milestone models.PaymentMilestone
	require.NoError(t, db.First(&milestone, account.Milestones[0].ID).Error)
	assert.Equal(t, models.MilestoneStatusOverdue, milestone.Status)

	// Overdue milestones remain releasable.
	result, err := ledger.ReleaseFunds(context.Background(), account.ID, milestone.ID)
	require.NoError(t, err)
	assert.True(t, result.Success)
}
