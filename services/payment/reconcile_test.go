package payment

import (
	"context"
	"testing"
	"time"

	"glowhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileRefundsLateApproval(t *testing.T) {
	svc, sim, clock := newTestService(t)
	ctx := context.Background()

	res, err := svc.InitiatePayment(ctx, InitiateRequest{BookingRef: "a", Amount: 1500, Method: models.PaymentJazzCash, ContactNumber: "03001234567"})
	require.NoError(t, err)

	// The attempt gives up before the wallet approves.
	changed, err := svc.MarkFailed(ctx, res.TransactionID)
	require.NoError(t, err)
	require.True(t, changed)

	_, err = svc.Reconcile(ctx, res.TransactionID)
	assert.ErrorIs(t, err, ErrStillPending)

	clock.Advance(6 * time.Second)
	outcome, err := svc.Reconcile(ctx, res.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, ReconcileRefunded, outcome)
	assert.True(t, sim.Refunded(res.TransactionID))

	tx, err := svc.Get(ctx, res.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, tx.Status)
}

func TestReconcileRefundsPaidWithoutBooking(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	res, err := svc.InitiatePayment(ctx, InitiateRequest{BookingRef: "a", Amount: 900, Method: models.PaymentCard})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = svc.CheckStatus(ctx, res.TransactionID)
	require.NoError(t, err)

	outcome, err := svc.Reconcile(ctx, res.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, ReconcileRefunded, outcome)
}

func TestReconcileLeavesBookedPaymentAlone(t *testing.T) {
	svc, sim, clock := newTestService(t)
	ctx := context.Background()

	res, err := svc.InitiatePayment(ctx, InitiateRequest{BookingRef: "a", Amount: 900, Method: models.PaymentCard})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = svc.CheckStatus(ctx, res.TransactionID)
	require.NoError(t, err)
	require.NoError(t, svc.LinkBooking(ctx, res.TransactionID, "BK-1"))

	outcome, err := svc.Reconcile(ctx, res.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, ReconcileNothingToDo, outcome)
	assert.False(t, sim.Refunded(res.TransactionID))
}

func TestReconcileUnknownTransaction(t *testing.T) {
	svc, _, _ := newTestService(t)

	outcome, err := svc.Reconcile(context.Background(), "TX-missing")
	require.NoError(t, err)
	assert.Equal(t, ReconcileNothingToDo, outcome)
}
