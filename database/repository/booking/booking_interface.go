// File: database/repository/booking/booking_interface.go
package bookingRepo

import (
	"context"

	"staybook/models"
)

// BookingRepository is the boundary to durable booking storage. Every method
// runs under a bounded timeout and reports timeouts as repository.ErrTransient.
type BookingRepository interface {
	// CreateIfAvailable re-checks the room for an overlapping active booking and
	// inserts the booking as one atomic unit. It returns repository.ErrOverlap
	// when the stay collides with an existing PENDING or CONFIRMED booking.
	CreateIfAvailable(ctx context.Context, booking *models.Booking) error
	// GetByID retrieves a booking by its ID.
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	// ListActiveByRoom returns the room's bookings whose status is not CANCELLED.
	ListActiveByRoom(ctx context.Context, roomID string) ([]models.Booking, error)
	// ListByGuest returns every booking made by the guest, newest first.
	ListByGuest(ctx context.Context, guestID string) ([]models.Booking, error)
	// ListByRooms returns every booking on the given rooms, newest first.
	ListByRooms(ctx context.Context, roomIDs []string) ([]models.Booking, error)
	// UpdateStatus moves a booking from (status, version) to the new status and
	// bumps its version. It returns repository.ErrStatusChanged when the stored
	// status or version no longer match.
	UpdateStatus(ctx context.Context, bookingID string, from models.BookingStatus, version int, to models.BookingStatus) (*models.Booking, error)
}
