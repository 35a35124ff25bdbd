package booking

import (
	"context"
	"time"

	bookingRepo "staybook/database/repository/booking"
	roomRepo "staybook/database/repository/room"
	"staybook/models"
	"staybook/services/lock"
	"staybook/services/payment"
	"staybook/services/tasks"

	"go.uber.org/zap"
)

// BookingService covers availability, reservation and the booking lifecycle.
type BookingService interface {
	IsAvailable(ctx context.Context, roomID string, candidate models.Interval) (bool, error)
	RoomCalendar(ctx context.Context, roomID string) ([]models.BookingInterval, error)
	CreateBooking(ctx context.Context, actor models.Actor, roomID, checkIn, checkOut string) (*models.Booking, error)
	GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, actor models.Actor, bookingID, status string) (*models.Booking, error)
	Transition(ctx context.Context, actor models.Actor, bookingID string, to models.BookingStatus) (*models.Booking, error)
	Cancel(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	ListGuestBookings(ctx context.Context, actor models.Actor) ([]models.BookingWithRoom, error)
	ListOwnerBookings(ctx context.Context, actor models.Actor) ([]models.BookingWithRoom, error)
}

// PaymentReconciler maps checkout outcomes onto the booking lifecycle.
type PaymentReconciler interface {
	CreateCheckoutSession(ctx context.Context, actor models.Actor, bookingID string) (string, error)
	OnPaymentSuccess(ctx context.Context, bookingID string) (*models.Booking, error)
	OnPaymentCancel(ctx context.Context, bookingID string) (*models.Booking, error)
	ConfirmCheckout(ctx context.Context, sessionID, bookingID string) (*models.Booking, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// CheckoutOptions configures checkout sessions.
type CheckoutOptions struct {
	FrontendURL    string
	Currency       string
	ServiceFeeRate float64
}

// DefaultBookingService implements BookingService and PaymentReconciler.
type DefaultBookingService struct {
	Bookings bookingRepo.BookingRepository
	Rooms    roomRepo.RoomRepository
	Locker   lock.RoomLocker
	Payments payment.CheckoutProvider
	// Tasks may be nil, in which case lifecycle events are only logged.
	Tasks    tasks.Enqueuer
	Checkout CheckoutOptions
	Logger   *zap.Logger

	now func() time.Time
}

func NewDefaultBookingService(
	bookings bookingRepo.BookingRepository,
	rooms roomRepo.RoomRepository,
	locker lock.RoomLocker,
	payments payment.CheckoutProvider,
	enqueuer tasks.Enqueuer,
	checkout CheckoutOptions,
	logger *zap.Logger,
) *DefaultBookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingService{
		Bookings: bookings,
		Rooms:    rooms,
		Locker:   locker,
		Payments: payments,
		Tasks:    enqueuer,
		Checkout: checkout,
		Logger:   logger,
		now:      time.Now,
	}
}
