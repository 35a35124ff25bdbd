package booking

import (
	"context"

	"staybook/models"
)

// IsAvailable reports whether candidate is free of every non-cancelled
// booking on the room. It never writes.
func (s *DefaultBookingService) IsAvailable(ctx context.Context, roomID string, candidate models.Interval) (bool, error) {
	active, err := s.Bookings.ListActiveByRoom(ctx, roomID)
	if err != nil {
		return false, storeError(err, "room", roomID)
	}
	return firstOverlap(active, candidate) == nil, nil
}

// RoomCalendar lists the intervals a room is occupied for.
func (s *DefaultBookingService) RoomCalendar(ctx context.Context, roomID string) ([]models.BookingInterval, error) {
	if _, err := s.Rooms.GetByID(ctx, roomID); err != nil {
		return nil, storeError(err, "room", roomID)
	}

	active, err := s.Bookings.ListActiveByRoom(ctx, roomID)
	if err != nil {
		return nil, storeError(err, "room", roomID)
	}

	calendar := make([]models.BookingInterval, 0, len(active))
	for _, b := range active {
		if !b.Status.Active() {
			continue
		}
		calendar = append(calendar, models.BookingInterval{
			ID:       b.ID,
			CheckIn:  b.CheckIn,
			CheckOut: b.CheckOut,
			Status:   b.Status,
		})
	}
	return calendar, nil
}

func firstOverlap(bookings []models.Booking, candidate models.Interval) *models.Booking {
	for i := range bookings {
		if bookings[i].Status.Active() && bookings[i].Interval().Overlaps(candidate) {
			return &bookings[i]
		}
	}
	return nil
}
