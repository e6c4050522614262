package handlers

import (
	"errors"
	"net/http"

	transactionRepo "glowhub/database/repository/transaction"
	userRepo "glowhub/database/repository/user"
	"glowhub/services/payment"
	"glowhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler serves payment status, receipts and loyalty balances.
type PaymentHandler struct {
	Payments payment.Gateway
	Ledger   userRepo.LoyaltyLedger
}

func NewPaymentHandler(payments payment.Gateway, ledger userRepo.LoyaltyLedger) *PaymentHandler {
	return &PaymentHandler{Payments: payments, Ledger: ledger}
}

// GetPaymentStatus handles GET /api/payments/:txID/status.
func (h *PaymentHandler) GetPaymentStatus(c *gin.Context) {
	txID := c.Param("txID")
	status, err := h.Payments.CheckStatus(c.Request.Context(), txID)
	if err != nil {
		getLogger(c).Error("payment status check failed", zap.String("transactionId", txID), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Payment status unavailable", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactionId": txID, "status": status})
}

// GetReceipt handles GET /api/payments/:txID/receipt.
func (h *PaymentHandler) GetReceipt(c *gin.Context) {
	txID := c.Param("txID")
	url, err := h.Payments.GetReceipt(c.Request.Context(), txID)
	switch {
	case errors.Is(err, transactionRepo.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Transaction not found", "")
	case errors.Is(err, payment.ErrNoReceipt):
		utils.JSONError(c, http.StatusNotFound, "Receipt not available yet", "")
	case err != nil:
		getLogger(c).Error("failed to load receipt", zap.String("transactionId", txID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load receipt", "")
	default:
		c.JSON(http.StatusOK, gin.H{"transactionId": txID, "receiptUrl": url})
	}
}

// GetUserPoints handles GET /api/users/:userID/points.
func (h *PaymentHandler) GetUserPoints(c *gin.Context) {
	userID := c.Param("userID")
	points, err := h.Ledger.GetUserPoints(c.Request.Context(), userID)
	if err != nil {
		getLogger(c).Error("failed to load loyalty points", zap.String("userId", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load loyalty points", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": userID, "points": points})
}
