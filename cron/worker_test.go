package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	transactionRepo "glowhub/database/repository/transaction"
	"glowhub/models"
	"glowhub/services/payment"
	"glowhub/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newReconcileFixture(t *testing.T, approveAfter time.Duration) (*payment.DefaultPaymentService, *payment.SimulatedProvider) {
	t.Helper()
	wallet := payment.NewSimulatedProvider(approveAfter, "https://receipts.test")
	svc := &payment.DefaultPaymentService{
		Repo:      transactionRepo.NewMemoryTransactionRepo(),
		Providers: map[models.PaymentMethod]payment.Provider{models.PaymentJazzCash: wallet},
		Settings:  payment.Settings{CommissionRate: 0.15, PointsEarnDivisor: 100, Currency: "PKR"},
		Logger:    zap.NewNop(),
	}
	return svc, wallet
}

// abandonedTransaction starts a wallet payment and fails it the way a timed
// out booking attempt does.
func abandonedTransaction(t *testing.T, svc *payment.DefaultPaymentService) string {
	t.Helper()
	ctx := context.Background()
	res, err := svc.InitiatePayment(ctx, payment.InitiateRequest{
		BookingRef:    "att-1",
		Amount:        1500,
		Method:        models.PaymentJazzCash,
		ContactNumber: "03001234567",
	})
	require.NoError(t, err)
	changed, err := svc.MarkFailed(ctx, res.TransactionID)
	require.NoError(t, err)
	require.True(t, changed)
	return res.TransactionID
}

func reconcileTask(t *testing.T, txID string) *asynq.Task {
	t.Helper()
	task, _, err := tasks.NewReconcileTask(tasks.ReconcilePayload{
		TransactionID: txID,
		BookingRef:    "att-1",
		Reason:        tasks.ReasonPaymentTimeout,
	})
	require.NoError(t, err)
	return task
}

func TestHandleReconcileTaskRefundsLateApproval(t *testing.T) {
	svc, wallet := newReconcileFixture(t, 0)
	txID := abandonedTransaction(t, svc)

	handler := HandleReconcileTask(svc, nil, zap.NewNop())
	require.NoError(t, handler(context.Background(), reconcileTask(t, txID)))

	tx, err := svc.Get(context.Background(), txID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, tx.Status)
	assert.True(t, wallet.Refunded(tx.GatewayRef))
}

func TestHandleReconcileTaskRetriesWhilePending(t *testing.T) {
	svc, _ := newReconcileFixture(t, -1)
	txID := abandonedTransaction(t, svc)

	err := HandleReconcileTask(svc, nil, zap.NewNop())(context.Background(), reconcileTask(t, txID))
	assert.ErrorIs(t, err, payment.ErrStillPending)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleReconcileTaskUnknownTransaction(t *testing.T) {
	svc, _ := newReconcileFixture(t, 0)
	assert.NoError(t, HandleReconcileTask(svc, nil, zap.NewNop())(context.Background(), reconcileTask(t, "TX-missing")))
}

func TestHandleReconcileTaskBadPayload(t *testing.T) {
	svc, _ := newReconcileFixture(t, 0)
	handler := HandleReconcileTask(svc, nil, zap.NewNop())

	err := handler(context.Background(), asynq.NewTask(tasks.TypeReconcilePayment, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	empty, _ := json.Marshal(tasks.ReconcilePayload{Reason: tasks.ReasonRefundFailed})
	err = handler(context.Background(), asynq.NewTask(tasks.TypeReconcilePayment, empty))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestReconcileRetryDelay(t *testing.T) {
	assert.Equal(t, 30*time.Second, reconcileRetryDelay(0, nil, nil))
	assert.Equal(t, 90*time.Second, reconcileRetryDelay(2, nil, nil))
	assert.Equal(t, 5*time.Minute, reconcileRetryDelay(40, nil, nil))
}
