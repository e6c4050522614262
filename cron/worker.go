package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"glowhub/config"
	"glowhub/metrics"
	"glowhub/services/payment"
	"glowhub/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Reconciler is the part of the payment service the worker drives.
type Reconciler interface {
	Reconcile(ctx context.Context, txID string) (payment.ReconcileOutcome, error)
}

// InitReconcileWorker starts the payment reconciliation worker in the
// background. The returned server must be shut down by the caller.
func InitReconcileWorker(payments Reconciler, m *metrics.BookingMetrics, logger *zap.Logger) *asynq.Server {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				tasks.QueueReconcile: 1,
			},
			RetryDelayFunc: reconcileRetryDelay,
			Logger:         logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeReconcilePayment, HandleReconcileTask(payments, m, logger))

	go func() {
		logger.Info("starting reconcile worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil || errors.Is(err, asynq.ErrServerClosed) {
				return
			}
			logger.Error("reconcile worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("reconcile worker gave up; abandoned payments will not be reconciled")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()

	return srv
}

// reconcileRetryDelay backs off linearly up to five minutes. Wallet
// approvals rarely arrive later than that.
func reconcileRetryDelay(n int, err error, task *asynq.Task) time.Duration {
	d := time.Duration(n+1) * 30 * time.Second
	if d > 5*time.Minute {
		d = 5 * time.Minute
	}
	return d
}

// HandleReconcileTask settles one abandoned transaction. Returning an error
// makes asynq retry the task.
func HandleReconcileTask(payments Reconciler, m *metrics.BookingMetrics, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.ReconcilePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reconcile payload", zap.Error(err))
			return fmt.Errorf("decode reconcile payload: %v: %w", err, asynq.SkipRetry)
		}
		if p.TransactionID == "" {
			return fmt.Errorf("reconcile payload without transaction id: %w", asynq.SkipRetry)
		}

		outcome, err := payments.Reconcile(ctx, p.TransactionID)
		if errors.Is(err, payment.ErrStillPending) {
			logger.Debug("transaction still pending, retrying later",
				zap.String("transactionId", p.TransactionID), zap.String("reason", p.Reason))
			return err
		}
		m.ObserveCompensation("reconcile_task", err == nil)
		if err != nil {
			logger.Error("reconciliation failed",
				zap.String("transactionId", p.TransactionID), zap.String("reason", p.Reason), zap.Error(err))
			return err
		}

		logger.Info("transaction reconciled",
			zap.String("transactionId", p.TransactionID),
			zap.String("bookingRef", p.BookingRef),
			zap.String("reason", p.Reason),
			zap.String("outcome", string(outcome)),
		)
		return nil
	}
}
