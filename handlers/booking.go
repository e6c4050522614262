package handlers

import (
	"errors"
	"net/http"

	bookingRepo "glowhub/database/repository/booking"
	"glowhub/models"
	"glowhub/services/booking"
	"glowhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves slot queries, quotes and booking attempts.
type BookingHandler struct {
	Engine       booking.SlotEngine
	Orchestrator booking.BookingOrchestrator
	Attempts     *booking.AttemptManager
}

func NewBookingHandler(engine booking.SlotEngine, orchestrator booking.BookingOrchestrator, attempts *booking.AttemptManager) *BookingHandler {
	return &BookingHandler{
		Engine:       engine,
		Orchestrator: orchestrator,
		Attempts:     attempts,
	}
}

// bookingErrorStatus maps booking error codes to HTTP statuses.
var bookingErrorStatus = map[string]int{
	booking.CodeResourceNotFound:          http.StatusNotFound,
	booking.CodeInvalidSelection:          http.StatusBadRequest,
	booking.CodeSlotUnavailable:           http.StatusConflict,
	booking.CodePaymentTimeout:            http.StatusGatewayTimeout,
	booking.CodePaymentFailed:             http.StatusPaymentRequired,
	booking.CodeBookingConfirmationFailed: http.StatusBadGateway,
	booking.CodeCancelled:                 http.StatusConflict,
}

func writeBookingError(c *gin.Context, err error) {
	var be *booking.BookingError
	if errors.As(err, &be) {
		status, ok := bookingErrorStatus[be.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		utils.JSONCodedError(c, status, be.Code, be.Message, be.TransactionID)
		return
	}
	getLogger(c).Error("unclassified booking error", zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
}

// GetAvailableSlots handles GET /api/resources/:resourceID/slots.
func (h *BookingHandler) GetAvailableSlots(c *gin.Context) {
	resourceID := c.Param("resourceID")
	date := c.Query("date")
	if date == "" {
		utils.JSONCodedError(c, http.StatusBadRequest, booking.CodeInvalidSelection, "date query parameter is required", "")
		return
	}

	slots, err := h.Engine.GetAvailableSlots(c.Request.Context(), resourceID, date, c.Query("staffId"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"resourceId": resourceID,
		"date":       date,
		"slots":      slots,
	})
}

// QuoteBooking handles POST /api/bookings/quote.
func (h *BookingHandler) QuoteBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONCodedError(c, http.StatusBadRequest, booking.CodeInvalidSelection, "invalid input", err.Error())
		return
	}
	quote, err := h.Orchestrator.Quote(c.Request.Context(), req)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// StartAttempt handles POST /api/bookings/attempts. The attempt runs in the
// background; clients poll GetAttempt for its progress.
func (h *BookingHandler) StartAttempt(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONCodedError(c, http.StatusBadRequest, booking.CodeInvalidSelection, "invalid input", err.Error())
		return
	}
	attempt, err := h.Attempts.Start(c.Request.Context(), req)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	getLogger(c).Info("booking attempt started",
		zap.String("attemptId", attempt.ID),
		zap.String("resourceId", req.ResourceID),
		zap.String("slotId", req.SlotID),
	)
	c.JSON(http.StatusAccepted, attempt)
}

// GetAttempt handles GET /api/bookings/attempts/:id.
func (h *BookingHandler) GetAttempt(c *gin.Context) {
	attempt, err := h.Attempts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, booking.ErrAttemptNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Booking attempt not found", "")
			return
		}
		getLogger(c).Error("failed to load booking attempt", zap.String("attemptId", c.Param("id")), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load booking attempt", "")
		return
	}
	c.JSON(http.StatusOK, attempt)
}

// CancelAttempt handles DELETE /api/bookings/attempts/:id.
func (h *BookingHandler) CancelAttempt(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cancelled": h.Attempts.Cancel(c.Param("id"))})
}

// GetBooking handles GET /api/bookings/:bookingID.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Orchestrator.GetBooking(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Booking not found", "")
			return
		}
		getLogger(c).Error("failed to load booking", zap.String("bookingId", c.Param("bookingID")), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load booking", "")
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBooking handles DELETE /api/bookings/:bookingID.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	cancelled, err := h.Orchestrator.CancelBooking(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		getLogger(c).Error("failed to cancel booking", zap.String("bookingId", c.Param("bookingID")), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to cancel booking", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": cancelled})
}
