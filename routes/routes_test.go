package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"staybook/config"
	bookingRepo "staybook/database/repository/booking"
	roomRepo "staybook/database/repository/room"
	"staybook/handlers"
	"staybook/models"
	"staybook/services/booking"
	"staybook/services/lock"
	"staybook/services/payment"
	"staybook/services/room"
	"staybook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig.JWTSecret = "routes-test-secret"
}

type testServer struct {
	router *gin.Engine
	room   models.Room
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()

	rooms := roomRepo.NewMemoryRoomRepo()
	r := models.Room{ID: "room-1", OwnerID: "owner-1", Title: "Cabin", Location: "Naivasha", PricePerNight: 1000, MaxGuests: 2, IsAvailable: true}
	require.NoError(t, rooms.Create(context.Background(), &r))

	svc := booking.NewDefaultBookingService(
		bookingRepo.NewMemoryBookingRepo(),
		rooms,
		lock.NewLocalRoomLocker(time.Second),
		payment.NewSimulatedCheckout(logger),
		nil,
		booking.CheckoutOptions{FrontendURL: "http://localhost:3000", Currency: "inr", ServiceFeeRate: 0.12},
		logger,
	)
	bh := handlers.NewBookingHandler(svc)
	ph := handlers.NewPaymentHandler(svc)
	rh := handlers.NewRoomHandler(room.NewDefaultRoomService(rooms, logger))

	router := gin.New()
	RegisterRoutes(router, &handlers.HandlerBundle{
		CreateBooking:         bh.CreateBooking,
		GetBooking:            bh.GetBooking,
		UpdateBooking:         bh.UpdateBooking,
		CancelBooking:         bh.CancelBooking,
		MyBookings:            bh.MyBookings,
		OwnerBookings:         bh.OwnerBookings,
		RoomAvailability:      bh.RoomAvailability,
		CreateCheckoutSession: ph.CreateCheckoutSession,
		PaymentSuccess:        ph.PaymentSuccess,
		PaymentCancel:         ph.PaymentCancel,
		StripeWebhook:         ph.StripeWebhook,
		ListRooms:             rh.ListRooms,
		GetRoom:               rh.GetRoom,
		MyRooms:               rh.MyRooms,
		CreateRoom:            rh.CreateRoom,
		UpdateRoom:            rh.UpdateRoom,
		Health:                handlers.Health,
	}, nil)
	return &testServer{router: router, room: r}
}

func (s *testServer) do(t *testing.T, method, path, subject string, role models.Role, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if subject != "" {
		token, err := utils.GenerateToken(subject, role, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type bookingEnvelope struct {
	Success bool           `json:"success"`
	Booking models.Booking `json:"booking"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
}

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/bookings", "guest-1", models.RoleGuest, map[string]string{
		"roomId": s.room.ID, "checkIn": "2024-06-01", "checkOut": "2024-06-05",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created bookingEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.BookingPending, created.Booking.Status)

	w = s.do(t, http.MethodPost, "/api/bookings", "guest-2", models.RoleGuest, map[string]string{
		"roomId": s.room.ID, "checkIn": "2024-06-03", "checkOut": "2024-06-07",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	var conflict errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conflict))
	assert.Equal(t, "Conflict", conflict.Code)
	assert.False(t, conflict.Success)

	w = s.do(t, http.MethodPatch, "/api/bookings/"+created.Booking.ID, "guest-1", models.RoleGuest, map[string]string{"status": "CONFIRMED"})
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/payments/create-checkout-session", "guest-1", models.RoleGuest, map[string]string{
		"bookingId": created.Booking.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var checkout struct {
		SessionURL string `json:"sessionUrl"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &checkout))
	redirect, err := url.Parse(checkout.SessionURL)
	require.NoError(t, err)
	sessionID := redirect.Query().Get("session_id")
	require.NotEmpty(t, sessionID)

	successPath := "/api/payments/success?bookingId=" + url.QueryEscape(created.Booking.ID) + "&session_id=" + url.QueryEscape(sessionID)
	for i := 0; i < 2; i++ {
		w = s.do(t, http.MethodGet, successPath, "guest-1", models.RoleGuest, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var confirmed bookingEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &confirmed))
		assert.Equal(t, models.BookingConfirmed, confirmed.Booking.Status)
	}

	w = s.do(t, http.MethodDelete, "/api/bookings/"+created.Booking.ID, "guest-2", models.RoleGuest, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, "/api/bookings/"+created.Booking.ID, "owner-1", models.RoleOwner, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, successPath, "guest-1", models.RoleGuest, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	var stale errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stale))
	assert.Equal(t, "StaleBooking", stale.Code)
}

func TestCreateBookingValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/bookings", "guest-1", models.RoleGuest,
		`{"roomId":"room-1","checkIn":"2024-06-01","checkOut":"2024-06-02","price":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/bookings", "guest-1", models.RoleGuest, `{"roomId":"room-1","checkIn":"2024-06-01"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/bookings", "guest-1", models.RoleGuest, map[string]string{
		"roomId": "room-1", "checkIn": "2024-06-01", "checkOut": "2024-06-01",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/bookings", "", "", map[string]string{
		"roomId": "room-1", "checkIn": "2024-06-01", "checkOut": "2024-06-02",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPatch, "/api/bookings/missing", "guest-1", models.RoleGuest, map[string]string{"status": "CONFIRMED"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOwnerRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/bookings/owner-bookings", "guest-1", models.RoleGuest, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/rooms", "owner-1", models.RoleOwner, map[string]any{
		"title": "Treehouse", "location": "Kisumu", "description": "Up high", "pricePerNight": 800, "maxGuests": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/rooms/my/rooms", "owner-1", models.RoleOwner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine struct {
		Rooms []models.Room `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	assert.Len(t, mine.Rooms, 2)

	w = s.do(t, http.MethodGet, "/api/rooms/"+s.room.ID, "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/bookings/room/"+s.room.ID+"/availability", "guest-1", models.RoleGuest, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
