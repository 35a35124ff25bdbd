package booking

import (
	"context"
	"strings"

	"staybook/models"
	"staybook/utils/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking reserves a room for the actor. The availability pre-check
// rejects obvious conflicts early; the room lock and the store's atomic
// CreateIfAvailable decide concurrent attempts.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, actor models.Actor, roomID, checkIn, checkOut string) (*models.Booking, error) {
	if actor.UserID == "" {
		return nil, apperror.Forbidden("missing caller identity")
	}
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return nil, apperror.InvalidInput("roomId is required")
	}
	stay, err := models.ParseInterval(checkIn, checkOut)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeInvalidInput, err, err.Error())
	}

	room, err := s.Rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, storeError(err, "room", roomID)
	}
	if !room.IsAvailable {
		return nil, apperror.Conflict("room %s is not accepting bookings", roomID)
	}

	ok, err := s.IsAvailable(ctx, roomID, stay)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Conflict(msgAlreadyBooked)
	}

	release, err := s.Locker.Lock(ctx, roomID)
	if err != nil {
		s.Logger.Warn("Room lock unavailable", zap.String("roomID", roomID), zap.Error(err))
		return nil, apperror.Transient(err)
	}
	defer release()

	now := s.now().UTC()
	booking := &models.Booking{
		ID:        uuid.New().String(),
		RoomID:    roomID,
		GuestID:   actor.UserID,
		CheckIn:   stay.CheckIn,
		CheckOut:  stay.CheckOut,
		Status:    models.BookingPending,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Bookings.CreateIfAvailable(ctx, booking); err != nil {
		return nil, storeError(err, "room", roomID)
	}

	s.Logger.Info("Booking created",
		zap.String("bookingID", booking.ID),
		zap.String("roomID", roomID),
		zap.String("guestID", actor.UserID),
		zap.Stringer("stay", stay))
	return booking, nil
}
