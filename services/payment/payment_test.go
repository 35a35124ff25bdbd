package payment

import (
	"context"
	"strings"
	"testing"
	"time"

	"staybook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestQuote(t *testing.T) {
	stay, err := models.NewInterval(
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	nightly, nights, fee := Quote(models.Room{PricePerNight: 1500.50}, stay, 0.12)

	assert.Equal(t, int64(150050), nightly)
	assert.Equal(t, 3, nights)
	assert.Equal(t, int64(54018), fee)
}

func TestToMinorUnitsRounds(t *testing.T) {
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
}

func TestIdempotencyKey(t *testing.T) {
	req := models.CheckoutRequest{BookingID: "b-1", IdempotencyKey: "checkout:b-1:1"}
	assert.Equal(t, "checkout:b-1:1", idempotencyKey(req))
	assert.Equal(t, idempotencyKey(req), idempotencyKey(req))

	req.IdempotencyKey = ""
	first, second := idempotencyKey(req), idempotencyKey(req)
	assert.True(t, strings.HasPrefix(first, "checkout:b-1:"))
	assert.NotEqual(t, first, second)
}

func TestSimulatedCheckout_RoundTrip(t *testing.T) {
	sim := NewSimulatedCheckout(zap.NewNop())

	cs, err := sim.CreateCheckoutSession(context.Background(), models.CheckoutRequest{
		BookingID:   "b-1",
		GuestID:     "g-1",
		Nights:      2,
		NightlyRate: 1000,
		SuccessURL:  "http://front/my-bookings?success=true&bookingId=b-1&session_id={CHECKOUT_SESSION_ID}",
	})
	require.NoError(t, err)
	assert.Contains(t, cs.RedirectURL, "session_id="+cs.ID)

	res, err := sim.GetCheckoutSession(context.Background(), cs.ID)
	require.NoError(t, err)
	assert.Equal(t, "b-1", res.BookingID)
	assert.True(t, res.Paid)

	_, err = sim.GetCheckoutSession(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, ErrUnknownSession)
}
