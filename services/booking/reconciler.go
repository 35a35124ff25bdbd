package booking

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"staybook/models"
	"staybook/services/payment"
	"staybook/services/tasks"
	"staybook/utils/apperror"

	"go.uber.org/zap"
)

// CreateCheckoutSession opens a checkout for a PENDING booking and returns the
// URL the guest is redirected to.
func (s *DefaultBookingService) CreateCheckoutSession(ctx context.Context, actor models.Actor, bookingID string) (string, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return "", storeError(err, "booking", bookingID)
	}
	if actor.UserID == "" || actor.UserID != b.GuestID {
		return "", apperror.Forbidden("only the guest can pay for booking %s", bookingID)
	}
	if b.Status != models.BookingPending {
		return "", apperror.InvalidTransition("booking %s is %s, payment requires PENDING", bookingID, b.Status)
	}

	room, err := s.Rooms.GetByID(ctx, b.RoomID)
	if err != nil {
		return "", storeError(err, "room", b.RoomID)
	}

	nightly, nights, fee := payment.Quote(*room, b.Interval(), s.Checkout.ServiceFeeRate)
	base := strings.TrimRight(s.Checkout.FrontendURL, "/")
	id := url.QueryEscape(b.ID)
	req := models.CheckoutRequest{
		BookingID:   b.ID,
		GuestID:     b.GuestID,
		RoomTitle:   room.Title,
		Nights:      nights,
		NightlyRate: nightly,
		ServiceFee:  fee,
		Currency:    s.Checkout.Currency,
		SuccessURL:  fmt.Sprintf("%s/my-bookings?success=true&bookingId=%s&session_id={CHECKOUT_SESSION_ID}", base, id),
		CancelURL:   fmt.Sprintf("%s/my-bookings?canceled=true&bookingId=%s", base, id),

		IdempotencyKey: fmt.Sprintf("checkout:%s:%d", b.ID, b.Version),
	}

	session, err := s.Payments.CreateCheckoutSession(ctx, req)
	if err != nil {
		s.Logger.Error("Checkout session creation failed", zap.String("bookingID", bookingID), zap.Error(err))
		return "", fmt.Errorf("checkout for booking %s: %w", bookingID, err)
	}
	return session.RedirectURL, nil
}

// OnPaymentSuccess confirms a PENDING booking for its guest. It is idempotent:
// an already CONFIRMED booking is returned unchanged. A CANCELLED booking is
// reported as StaleBooking and queued for refund review.
func (s *DefaultBookingService) OnPaymentSuccess(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, storeError(err, "booking", bookingID)
	}

	switch b.Status {
	case models.BookingConfirmed:
		s.Logger.Info("Payment success for confirmed booking, nothing to do", zap.String("bookingID", bookingID))
		return b, nil
	case models.BookingCancelled:
		return nil, s.staleBooking(*b)
	}

	guest := models.Actor{UserID: b.GuestID, Role: models.RoleGuest}
	confirmed, err := s.transition(ctx, guest, bookingID, models.BookingConfirmed, true)
	if err == nil {
		return confirmed, nil
	}
	if !errors.Is(err, apperror.ErrInvalidTransition) {
		return nil, err
	}

	// A concurrent writer moved the booking first.
	current, gerr := s.Bookings.GetByID(ctx, bookingID)
	if gerr != nil {
		return nil, storeError(gerr, "booking", bookingID)
	}
	switch current.Status {
	case models.BookingConfirmed:
		return current, nil
	case models.BookingCancelled:
		return nil, s.staleBooking(*current)
	}
	return nil, err
}

func (s *DefaultBookingService) staleBooking(b models.Booking) error {
	s.Logger.Error("Payment received for cancelled booking",
		zap.String("bookingID", b.ID),
		zap.String("guestID", b.GuestID),
		zap.String("roomID", b.RoomID))

	task, opts, err := tasks.NewPaymentStaleTask(b, "payment succeeded after cancellation")
	if err != nil {
		s.Logger.Error("Failed to build stale payment task", zap.String("bookingID", b.ID), zap.Error(err))
	} else {
		s.enqueue(task, opts, b.ID)
	}
	return apperror.StaleBooking("booking %s was cancelled before payment completed", b.ID)
}

// OnPaymentCancel records an abandoned checkout. The booking stays as it is.
func (s *DefaultBookingService) OnPaymentCancel(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, storeError(err, "booking", bookingID)
	}
	s.Logger.Info("Checkout abandoned",
		zap.String("bookingID", bookingID),
		zap.String("status", string(b.Status)))
	return b, nil
}

// ConfirmCheckout verifies a checkout session with the provider before
// confirming the booking it was opened for.
func (s *DefaultBookingService) ConfirmCheckout(ctx context.Context, sessionID, bookingID string) (*models.Booking, error) {
	if sessionID == "" || bookingID == "" {
		return nil, apperror.InvalidInput("session_id and bookingId are required")
	}

	result, err := s.Payments.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, payment.ErrUnknownSession) {
			return nil, apperror.Wrap(apperror.CodeInvalidInput, err, "unknown checkout session")
		}
		return nil, fmt.Errorf("verify checkout session %s: %w", sessionID, err)
	}
	if result.BookingID != bookingID {
		return nil, apperror.InvalidInput("checkout session %s does not belong to booking %s", sessionID, bookingID)
	}
	if !result.Paid {
		return nil, apperror.InvalidTransition("checkout session %s is not paid", sessionID)
	}
	return s.OnPaymentSuccess(ctx, bookingID)
}

// HandleWebhook processes a signed provider event. Events that cannot be acted
// on are acknowledged so the provider stops redelivering them; store failures
// are returned so it retries.
func (s *DefaultBookingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	result, err := s.Payments.ParseWebhook(payload, signature)
	if err != nil {
		return apperror.Wrap(apperror.CodeInvalidInput, err, "invalid webhook")
	}
	if result == nil {
		return nil
	}
	if !result.Paid || result.BookingID == "" {
		s.Logger.Warn("Ignoring checkout event",
			zap.String("sessionID", result.SessionID),
			zap.String("bookingID", result.BookingID),
			zap.Bool("paid", result.Paid))
		return nil
	}

	_, err = s.OnPaymentSuccess(ctx, result.BookingID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperror.ErrStaleBooking), errors.Is(err, apperror.ErrNotFound):
		s.Logger.Warn("Checkout event not applied",
			zap.String("sessionID", result.SessionID),
			zap.String("bookingID", result.BookingID),
			zap.Error(err))
		return nil
	default:
		return err
	}
}
