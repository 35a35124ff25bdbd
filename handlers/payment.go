package handlers

import (
	"errors"
	"io"
	"net/http"

	"staybook/services/booking"
	"staybook/utils"
	"staybook/utils/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBytes = 65536

type PaymentHandler struct {
	Reconciler booking.PaymentReconciler
}

func NewPaymentHandler(reconciler booking.PaymentReconciler) *PaymentHandler {
	return &PaymentHandler{Reconciler: reconciler}
}

type checkoutRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
}

// CreateCheckoutSession handles POST /api/payments/create-checkout-session.
func (h *PaymentHandler) CreateCheckoutSession(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req checkoutRequest
	if !bindJSON(c, &req) {
		return
	}

	redirect, err := h.Reconciler.CreateCheckoutSession(c.Request.Context(), actor, req.BookingID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionUrl": redirect})
}

// PaymentSuccess handles GET /api/payments/success?bookingId=&session_id=.
func (h *PaymentHandler) PaymentSuccess(c *gin.Context) {
	bookingID := c.Query("bookingId")
	sessionID := c.Query("session_id")

	b, err := h.Reconciler.ConfirmCheckout(c.Request.Context(), sessionID, bookingID)
	if err != nil {
		if errors.Is(err, apperror.ErrStaleBooking) {
			getLogger(c).Error("Payment completed for cancelled booking", zap.String("bookingID", bookingID), zap.String("sessionID", sessionID))
		}
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": b})
}

// PaymentCancel handles GET /api/payments/cancel?bookingId=.
func (h *PaymentHandler) PaymentCancel(c *gin.Context) {
	bookingID := c.Query("bookingId")
	if bookingID == "" {
		utils.JSONError(c, http.StatusBadRequest, apperror.CodeInvalidInput, "bookingId is required", "")
		return
	}
	b, err := h.Reconciler.OnPaymentCancel(c.Request.Context(), bookingID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": b})
}

// StripeWebhook handles POST /api/payments/webhook.
func (h *PaymentHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Unreadable webhook body", err.Error())
		return
	}

	if err := h.Reconciler.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
