package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeReconcilePayment = "payment:reconcile"
	QueueReconcile       = "reconcile"
)

// Reconciliation reasons.
const (
	ReasonPaymentTimeout   = "payment_timeout"
	ReasonAttemptCancelled = "attempt_cancelled"
	ReasonRefundFailed     = "refund_failed"
)

// ReconcilePayload identifies a transaction whose final state must be settled.
type ReconcilePayload struct {
	TransactionID string `json:"transactionId"`
	BookingRef    string `json:"bookingRef"`
	Reason        string `json:"reason"`
}

func NewReconcileTask(payload ReconcilePayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReconcilePayment, b)
	opts := []asynq.Option{
		asynq.Queue(QueueReconcile),
		asynq.MaxRetry(10),
		// Give a late wallet approval time to land before the first check.
		asynq.ProcessIn(30 * time.Second),
		asynq.TaskID(payload.Reason + ":" + payload.TransactionID),
	}
	return task, opts, nil
}
