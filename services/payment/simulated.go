package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"staybook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SimulatedCheckout stands in for Stripe when no STRIPE_KEY is configured.
// Sessions are held in memory and reported as paid once created, and the
// redirect URL is the success URL itself.
type SimulatedCheckout struct {
	mu       sync.Mutex
	sessions map[string]models.CheckoutResult
	logger   *zap.Logger
}

func NewSimulatedCheckout(logger *zap.Logger) *SimulatedCheckout {
	return &SimulatedCheckout{sessions: make(map[string]models.CheckoutResult), logger: logger}
}

func (s *SimulatedCheckout) CreateCheckoutSession(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	if req.Total() <= 0 {
		return nil, errors.New("invalid payment amount")
	}

	id := "cs_sim_" + uuid.New().String()
	s.mu.Lock()
	s.sessions[id] = models.CheckoutResult{SessionID: id, BookingID: req.BookingID, GuestID: req.GuestID, Paid: true}
	s.mu.Unlock()

	redirect := strings.ReplaceAll(req.SuccessURL, "{CHECKOUT_SESSION_ID}", url.QueryEscape(id))
	s.logger.Info("Simulated checkout session created",
		zap.String("sessionID", id),
		zap.String("bookingID", req.BookingID),
		zap.Int64("amount", req.Total()))
	return &models.CheckoutSession{ID: id, RedirectURL: redirect}, nil
}

func (s *SimulatedCheckout) GetCheckoutSession(ctx context.Context, sessionID string) (*models.CheckoutResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
	}
	return &res, nil
}

func (s *SimulatedCheckout) ParseWebhook(payload []byte, signature string) (*models.CheckoutResult, error) {
	return nil, errors.New("webhooks are not delivered by the simulated payment provider")
}
