package booking

import (
	"errors"
	"fmt"
)

// Error codes reported to callers of the booking flow.
const (
	CodeResourceNotFound          = "RESOURCE_NOT_FOUND"
	CodeInvalidSelection          = "INVALID_SELECTION"
	CodeSlotUnavailable           = "SLOT_UNAVAILABLE"
	CodePaymentTimeout            = "PAYMENT_TIMEOUT"
	CodePaymentFailed             = "PAYMENT_FAILED"
	CodeBookingConfirmationFailed = "BOOKING_CONFIRMATION_FAILED"
	CodeCancelled                 = "CANCELLED"
)

// BookingError is the single error type surfaced by the slot engine and
// the orchestrator. Compare with errors.Is against the Err* values below.
type BookingError struct {
	Code          string
	Message       string
	TransactionID string
	Err           error
}

func (e *BookingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BookingError) Unwrap() error { return e.Err }

// Is matches on Code so wrapped instances compare equal to the sentinels.
func (e *BookingError) Is(target error) bool {
	t, ok := target.(*BookingError)
	return ok && t.Code == e.Code
}

var (
	ErrResourceNotFound          = &BookingError{Code: CodeResourceNotFound, Message: "resource not found"}
	ErrInvalidSelection          = &BookingError{Code: CodeInvalidSelection, Message: "invalid selection"}
	ErrSlotUnavailable           = &BookingError{Code: CodeSlotUnavailable, Message: "slot is no longer available"}
	ErrPaymentTimeout            = &BookingError{Code: CodePaymentTimeout, Message: "payment was not confirmed in time"}
	ErrPaymentFailed             = &BookingError{Code: CodePaymentFailed, Message: "payment failed"}
	ErrBookingConfirmationFailed = &BookingError{Code: CodeBookingConfirmationFailed, Message: "booking could not be confirmed"}
	ErrCancelled                 = &BookingError{Code: CodeCancelled, Message: "booking attempt cancelled"}
)

func newError(code, msg string, cause error) *BookingError {
	return &BookingError{Code: code, Message: msg, Err: cause}
}

// ErrorCode extracts the BookingError code of err, or "" for other errors.
func ErrorCode(err error) string {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
