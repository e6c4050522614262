package booking

import (
	"context"
	"errors"

	"glowhub/services/tasks"

	"github.com/hibiken/asynq"
)

// Reconciler queues transactions whose outcome must be settled later: a
// payment that may still complete after the attempt gave up, or a refund
// that failed during compensation.
type Reconciler interface {
	Enqueue(ctx context.Context, payload tasks.ReconcilePayload) error
}

// AsynqReconciler enqueues reconciliation tasks on the asynq queue.
type AsynqReconciler struct {
	Client *asynq.Client
}

func (r *AsynqReconciler) Enqueue(ctx context.Context, payload tasks.ReconcilePayload) error {
	task, opts, err := tasks.NewReconcileTask(payload)
	if err != nil {
		return err
	}
	_, err = r.Client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		// Already queued for the same transaction and reason.
		return nil
	}
	return err
}
