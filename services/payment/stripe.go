package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"staybook/models"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

const eventCheckoutCompleted = "checkout.session.completed"

// StripeCheckout implements CheckoutProvider with Stripe Checkout.
type StripeCheckout struct {
	webhookSecret string
	logger        *zap.Logger
}

// NewStripeCheckout sets the global Stripe key and returns the provider.
func NewStripeCheckout(apiKey, webhookSecret string, logger *zap.Logger) *StripeCheckout {
	stripe.Key = apiKey
	return &StripeCheckout{webhookSecret: webhookSecret, logger: logger}
}

func (s *StripeCheckout) CreateCheckoutSession(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(req.RoomTitle),
						Description: stripe.String(fmt.Sprintf("Booking for %d nights at %s", req.Nights, req.RoomTitle)),
					},
					UnitAmount: stripe.Int64(req.NightlyRate),
				},
				Quantity: stripe.Int64(int64(req.Nights)),
			},
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Service Fee"),
					},
					UnitAmount: stripe.Int64(req.ServiceFee),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx
	params.AddMetadata("bookingId", req.BookingID)
	params.AddMetadata("guestId", req.GuestID)
	params.SetIdempotencyKey(idempotencyKey(req))

	cs, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create stripe checkout session: %w", err)
	}

	s.logger.Info("Checkout session created",
		zap.String("sessionID", cs.ID),
		zap.String("bookingID", req.BookingID),
		zap.Int64("amount", req.Total()))
	return &models.CheckoutSession{ID: cs.ID, RedirectURL: cs.URL}, nil
}

func (s *StripeCheckout) GetCheckoutSession(ctx context.Context, sessionID string) (*models.CheckoutResult, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	cs, err := session.Get(sessionID, params)
	if err != nil {
		if stripeErr, ok := err.(*stripe.Error); ok && stripeErr.HTTPStatusCode == 404 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
		}
		return nil, fmt.Errorf("failed to fetch stripe checkout session: %w", err)
	}
	return checkoutResult(cs), nil
}

func (s *StripeCheckout) ParseWebhook(payload []byte, signature string) (*models.CheckoutResult, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	if string(event.Type) != eventCheckoutCompleted {
		s.logger.Debug("Ignoring stripe event", zap.String("type", string(event.Type)))
		return nil, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("failed to parse checkout session from event %s: %w", event.ID, err)
	}
	return checkoutResult(&cs), nil
}

// idempotencyKey falls back to a random key when the caller supplied none.
func idempotencyKey(req models.CheckoutRequest) string {
	if req.IdempotencyKey != "" {
		return req.IdempotencyKey
	}
	return "checkout:" + req.BookingID + ":" + uuid.New().String()
}

func checkoutResult(cs *stripe.CheckoutSession) *models.CheckoutResult {
	return &models.CheckoutResult{
		SessionID: cs.ID,
		BookingID: cs.Metadata["bookingId"],
		GuestID:   cs.Metadata["guestId"],
		Paid:      cs.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
	}
}
