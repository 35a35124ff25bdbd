package payment

import (
	"context"
	"errors"

	"staybook/models"
)

// ErrUnknownSession is returned when the provider has no record of a checkout session.
var ErrUnknownSession = errors.New("unknown checkout session")

// CheckoutProvider is the external payment collaborator.
type CheckoutProvider interface {
	// CreateCheckoutSession opens a hosted checkout and returns its redirect URL.
	CreateCheckoutSession(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error)
	// GetCheckoutSession returns the provider's view of a session.
	GetCheckoutSession(ctx context.Context, sessionID string) (*models.CheckoutResult, error)
	// ParseWebhook verifies a webhook delivery. It returns nil for events that
	// do not concern a completed checkout.
	ParseWebhook(payload []byte, signature string) (*models.CheckoutResult, error)
}
