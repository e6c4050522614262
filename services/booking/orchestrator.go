package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "glowhub/database/repository/booking"
	userRepo "glowhub/database/repository/user"
	"glowhub/metrics"
	"glowhub/models"
	"glowhub/services/payment"
	"glowhub/services/tasks"
	"glowhub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPollInterval    = time.Second
	defaultMaxPollAttempts = 10
	defaultHoldTTL         = 2 * time.Minute
	compensationTimeout    = 10 * time.Second
)

// DefaultBookingOrchestrator runs booking attempts: it validates and prices
// the selection, holds the slot, initiates payment, waits for settlement and
// writes the booking. A booking is only written once payment is PAID or
// deferred to the salon (UNPAID).
type DefaultBookingOrchestrator struct {
	Engine          *DefaultSlotEngine
	Bookings        bookingRepo.BookingRepository
	Payments        payment.Gateway
	Ledger          userRepo.LoyaltyLedger
	Holds           SlotHolder // optional
	Reconciler      Reconciler // optional
	Pricing         PricingRules
	Currency        string
	PollInterval    time.Duration
	MaxPollAttempts int
	HoldTTL         time.Duration
	Metrics         *metrics.BookingMetrics
	Logger          *zap.Logger
}

// selection is a BookingRequest resolved against the resource and its slots.
type selection struct {
	resource *models.Resource
	service  models.Service
	staff    models.Staff
	slot     models.TimeSlot
	date     string
}

func (o *DefaultBookingOrchestrator) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

func (o *DefaultBookingOrchestrator) pollInterval() time.Duration {
	if o.PollInterval > 0 {
		return o.PollInterval
	}
	return defaultPollInterval
}

func (o *DefaultBookingOrchestrator) maxPollAttempts() int {
	if o.MaxPollAttempts > 0 {
		return o.MaxPollAttempts
	}
	return defaultMaxPollAttempts
}

func (o *DefaultBookingOrchestrator) holdTTL() time.Duration {
	if o.HoldTTL > 0 {
		return o.HoldTTL
	}
	return defaultHoldTTL
}

func (o *DefaultBookingOrchestrator) resolveSelection(ctx context.Context, req models.BookingRequest) (*selection, error) {
	slots, res, err := o.Engine.daySlots(ctx, req.ResourceID, req.Date, req.StaffID)
	if err != nil {
		return nil, err
	}

	day, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, newError(CodeInvalidSelection, "date must be YYYY-MM-DD", err)
	}
	sel := &selection{resource: res, date: day}
	var ok bool
	if sel.service, ok = res.FindService(req.ServiceID); !ok {
		return nil, newError(CodeInvalidSelection, "service "+req.ServiceID+" is not offered by "+res.Name, nil)
	}
	if req.StaffID != "" {
		if sel.staff, ok = res.FindStaff(req.StaffID); !ok {
			return nil, newError(CodeInvalidSelection, "staff "+req.StaffID+" does not work at "+res.Name, nil)
		}
	}

	found := false
	for _, s := range slots {
		if s.ID == req.SlotID {
			sel.slot, found = s, true
			break
		}
	}
	switch {
	case !found:
		return nil, newError(CodeInvalidSelection, "slot "+req.SlotID+" does not exist on "+sel.date, nil)
	case sel.slot.IsBreak:
		return nil, newError(CodeInvalidSelection, "slot "+req.SlotID+" falls in a break", nil)
	case !sel.slot.Available:
		return nil, newError(CodeSlotUnavailable, "slot "+req.SlotID+" is no longer available", nil)
	}
	return sel, nil
}

func (o *DefaultBookingOrchestrator) price(ctx context.Context, req models.BookingRequest, sel *selection) (models.PriceBreakdown, error) {
	var points int64
	if req.RedeemPoints && req.UserID != "" && o.Ledger != nil {
		p, err := o.Ledger.GetUserPoints(ctx, req.UserID)
		if err != nil {
			return models.PriceBreakdown{}, newError(CodePaymentFailed, "loyalty balance unavailable", err)
		}
		points = p
	}
	return o.Pricing.Price(sel.service, sel.slot, sel.resource.Settings, req.PromoCode, points, req.RedeemPoints), nil
}

// Quote prices a selection without holding the slot or touching payment.
func (o *DefaultBookingOrchestrator) Quote(ctx context.Context, req models.BookingRequest) (*models.PriceBreakdown, error) {
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentCash
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	sel, err := o.resolveSelection(ctx, req)
	if err != nil {
		return nil, asBookingError(err)
	}
	quote, err := o.price(ctx, req, sel)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// Run executes one booking attempt to completion. Cancelling ctx stops the
// attempt; no booking is written after cancellation. Every failure is
// returned as a *BookingError.
func (o *DefaultBookingOrchestrator) Run(ctx context.Context, attemptID string, req models.BookingRequest, observe func(models.BookingAttempt)) (*models.Booking, error) {
	if attemptID == "" {
		attemptID = uuid.NewString()
	}
	started := time.Now()
	att := &models.BookingAttempt{
		ID:        attemptID,
		Request:   req,
		CreatedAt: started,
	}
	emit := func(state models.AttemptState) {
		att.State = state
		att.UpdatedAt = time.Now()
		o.logger().Debug("booking attempt state",
			zap.String("attemptId", att.ID),
			zap.String("state", string(state)),
			zap.String("transactionId", att.TransactionID),
		)
		if observe != nil {
			observe(*att)
		}
	}

	booking, err := o.run(ctx, att, emit)
	if err != nil {
		be := *asBookingError(err)
		if be.TransactionID == "" {
			be.TransactionID = att.TransactionID
		}
		att.Error = &models.AttemptError{Code: be.Code, Message: be.Message}
		if be.Code == CodeCancelled {
			emit(models.StateCancelled)
		} else {
			emit(models.StateError)
		}
		o.Metrics.ObserveAttempt(string(req.PaymentMethod), be.Code, time.Since(started).Seconds())
		o.logger().Info("booking attempt failed",
			zap.String("attemptId", att.ID),
			zap.String("code", be.Code),
			zap.String("transactionId", be.TransactionID),
			zap.Error(be.Err),
		)
		return nil, &be
	}

	o.Metrics.ObserveAttempt(string(req.PaymentMethod), "confirmed", time.Since(started).Seconds())
	o.logger().Info("booking confirmed",
		zap.String("attemptId", att.ID),
		zap.String("bookingId", booking.ID),
		zap.String("transactionId", booking.TransactionID),
		zap.String("paymentStatus", string(booking.PaymentStatus)),
	)
	return booking, nil
}

func (o *DefaultBookingOrchestrator) run(ctx context.Context, att *models.BookingAttempt, emit func(models.AttemptState)) (*models.Booking, error) {
	req := att.Request
	emit(models.StateSelecting)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	sel, err := o.resolveSelection(ctx, req)
	if err != nil {
		return nil, err
	}

	emit(models.StatePricing)
	quote, err := o.price(ctx, req, sel)
	if err != nil {
		return nil, err
	}
	att.Quote = &quote
	if err := validateContact(req, quote.FinalPrice); err != nil {
		return nil, err
	}

	slotKey := models.SlotKey(req.ResourceID, sel.date, sel.slot.Start, req.StaffID)
	if o.Holds != nil {
		if err := o.Holds.Hold(ctx, slotKey, att.ID, o.holdTTL()); err != nil {
			if errors.Is(err, ErrSlotHeld) {
				return nil, newError(CodeSlotUnavailable, "slot is being booked by someone else", err)
			}
			o.logger().Warn("slot hold unavailable, relying on confirmation check",
				zap.String("slotKey", slotKey), zap.Error(err))
		} else {
			defer o.releaseHold(ctx, slotKey, att.ID)
			// The slot may have been confirmed between selection and the hold.
			if err := o.ensureStillFree(ctx, req.ResourceID, sel.date, sel.slot.Start, req.StaffID); err != nil {
				return nil, err
			}
		}
	}

	emit(models.StatePaymentInitiated)
	initiated, err := o.Payments.InitiatePayment(ctx, payment.InitiateRequest{
		BookingRef:     att.ID,
		Amount:         quote.FinalPrice,
		Method:         req.PaymentMethod,
		ContactNumber:  normalizeContact(req.ContactNumber),
		PointsRedeemed: quote.LoyaltyDiscount,
	})
	if err != nil {
		if errors.Is(err, payment.ErrInvalidRequest) {
			return nil, newError(CodeInvalidSelection, "payment request rejected", err)
		}
		return nil, newError(CodePaymentFailed, "payment could not be started", err)
	}
	att.TransactionID = initiated.TransactionID
	att.PaymentStatus = initiated.Status
	att.Message = initiated.Message

	status := initiated.Status
	if status == models.PaymentPendingVerification {
		emit(models.StatePendingVerification)
		if status, err = o.awaitSettlement(ctx, att); err != nil {
			return nil, err
		}
		att.PaymentStatus = status
	}

	switch status {
	case models.PaymentFailed:
		emit(models.StateFailed)
		return nil, &BookingError{Code: CodePaymentFailed, Message: "payment was declined", TransactionID: att.TransactionID}
	case models.PaymentPaid:
		emit(models.StatePaid)
	}

	if err := ctx.Err(); err != nil {
		o.compensate(ctx, att, status, tasks.ReasonAttemptCancelled)
		return nil, newError(CodeCancelled, "attempt cancelled before confirmation", err)
	}

	emit(models.StateFinalizing)
	draft := models.Booking{
		ResourceID:     sel.resource.ID,
		ResourceName:   sel.resource.Name,
		ServiceID:      sel.service.ID,
		ServiceName:    sel.service.Name,
		StaffID:        sel.staff.ID,
		StaffName:      sel.staff.Name,
		UserID:         req.UserID,
		Date:           sel.date,
		Time:           sel.slot.Time,
		StartMinute:    sel.slot.Start,
		Price:          quote.FinalPrice,
		Currency:       o.Currency,
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  status,
		TransactionID:  att.TransactionID,
		ContactNumber:  normalizeContact(req.ContactNumber),
		PointsEarned:   initiated.PointsEarned,
		PointsRedeemed: quote.LoyaltyDiscount,
		SlotKey:        slotKey,
	}
	if draft.StaffName == "" {
		draft.StaffName = models.AnyStaff
	}
	if sel.resource.Currency != "" {
		draft.Currency = sel.resource.Currency
	}

	// Past the cancellation checkpoint the write must run to completion, or
	// a committed booking could be reported as failed and refunded.
	fctx, fcancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer fcancel()

	bookingID, err := o.ConfirmBooking(fctx, draft)
	if err != nil {
		moneyMoved := status == models.PaymentPaid && quote.FinalPrice > 0
		o.compensate(ctx, att, status, tasks.ReasonRefundFailed)
		if !moneyMoved && errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, newError(CodeSlotUnavailable, "slot was booked by someone else", err)
		}
		msg := "booking could not be saved, please retry"
		if moneyMoved {
			msg = "payment received but the booking could not be saved; it will be refunded"
		}
		return nil, &BookingError{
			Code:          CodeBookingConfirmationFailed,
			Message:       msg,
			TransactionID: att.TransactionID,
			Err:           err,
		}
	}
	draft.ID = bookingID
	draft.Status = models.BookingConfirmed

	if err := o.Payments.LinkBooking(fctx, att.TransactionID, bookingID); err != nil {
		o.logger().Warn("failed to link transaction to booking",
			zap.String("transactionId", att.TransactionID), zap.String("bookingId", bookingID), zap.Error(err))
	}
	att.BookingID = bookingID
	emit(models.StateConfirmed)
	return &draft, nil
}

// ensureStillFree re-reads confirmed bookings for one slot position.
func (o *DefaultBookingOrchestrator) ensureStillFree(ctx context.Context, resourceID, date string, start int, staffID string) error {
	occupied, err := o.Engine.occupied(ctx, resourceID, date, staffID)
	if err != nil {
		return err
	}
	if occupied[start] {
		return newError(CodeSlotUnavailable, "slot was booked by someone else", nil)
	}
	return nil
}

// awaitSettlement polls the payment until it leaves PENDING_VERIFICATION,
// the poll budget runs out, or ctx is cancelled.
func (o *DefaultBookingOrchestrator) awaitSettlement(ctx context.Context, att *models.BookingAttempt) (models.PaymentStatus, error) {
	ticker := time.NewTicker(o.pollInterval())
	defer ticker.Stop()

	maxAttempts := o.maxPollAttempts()
	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			o.abandon(ctx, att, tasks.ReasonAttemptCancelled)
			return "", &BookingError{Code: CodeCancelled, Message: "attempt cancelled while awaiting payment", TransactionID: att.TransactionID, Err: ctx.Err()}
		case <-ticker.C:
		}

		status, err := o.Payments.CheckStatus(ctx, att.TransactionID)
		if err != nil {
			o.logger().Warn("payment status check failed",
				zap.String("transactionId", att.TransactionID), zap.Int("attempt", attempt), zap.Error(err))
		} else {
			o.Metrics.ObservePaymentPoll(string(status))
			if status != models.PaymentPendingVerification {
				return status, nil
			}
		}

		if attempt >= maxAttempts {
			o.abandon(ctx, att, tasks.ReasonPaymentTimeout)
			return "", &BookingError{Code: CodePaymentTimeout, Message: "payment was not confirmed in time", TransactionID: att.TransactionID}
		}
	}
}

// abandon fails a still-pending transaction and queues it for
// reconciliation in case the provider settles it later.
func (o *DefaultBookingOrchestrator) abandon(ctx context.Context, att *models.BookingAttempt, reason string) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	changed, err := o.Payments.MarkFailed(cctx, att.TransactionID)
	if err != nil {
		o.logger().Error("failed to mark abandoned payment failed", zap.String("transactionId", att.TransactionID), zap.Error(err))
	}
	if err == nil && !changed {
		// Settled between the last poll and now.
		if tx, err := o.Payments.Get(cctx, att.TransactionID); err == nil && tx.Status == models.PaymentPaid {
			o.compensate(ctx, att, tx.Status, tasks.ReasonRefundFailed)
			return
		}
	}
	o.enqueueReconcile(cctx, att, reason)
}

// compensate undoes the payment side of an attempt that will not produce a
// booking. Captured funds are refunded; a failed refund is queued.
func (o *DefaultBookingOrchestrator) compensate(ctx context.Context, att *models.BookingAttempt, status models.PaymentStatus, reason string) {
	if att.TransactionID == "" {
		return
	}
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	switch status {
	case models.PaymentPaid:
		err := o.Payments.Refund(cctx, att.TransactionID)
		o.Metrics.ObserveCompensation("refund", err == nil)
		if err != nil {
			o.logger().Error("refund failed, queueing reconciliation",
				zap.String("transactionId", att.TransactionID), zap.Error(err))
			o.enqueueReconcile(cctx, att, reason)
			return
		}
		o.logger().Info("payment refunded after failed confirmation", zap.String("transactionId", att.TransactionID))
	case models.PaymentUnpaid:
		if _, err := o.Payments.MarkFailed(cctx, att.TransactionID); err != nil {
			o.logger().Error("failed to void unpaid transaction", zap.String("transactionId", att.TransactionID), zap.Error(err))
		}
	}
}

func (o *DefaultBookingOrchestrator) enqueueReconcile(ctx context.Context, att *models.BookingAttempt, reason string) {
	if o.Reconciler == nil {
		return
	}
	err := o.Reconciler.Enqueue(ctx, tasks.ReconcilePayload{
		TransactionID: att.TransactionID,
		BookingRef:    att.ID,
		Reason:        reason,
	})
	o.Metrics.ObserveCompensation("reconcile", err == nil)
	if err != nil {
		o.logger().Error("failed to queue reconciliation",
			zap.String("transactionId", att.TransactionID), zap.String("reason", reason), zap.Error(err))
	}
}

func (o *DefaultBookingOrchestrator) releaseHold(ctx context.Context, slotKey, owner string) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := o.Holds.Release(cctx, slotKey, owner); err != nil {
		o.logger().Warn("failed to release slot hold", zap.String("slotKey", slotKey), zap.Error(err))
	}
}

// asBookingError converts any error into a *BookingError. Errors that are
// not already classified are infrastructure failures before confirmation.
func asBookingError(err error) *BookingError {
	var be *BookingError
	if errors.As(err, &be) {
		return be
	}
	return newError(CodeBookingConfirmationFailed, "booking service unavailable, please retry", err)
}
