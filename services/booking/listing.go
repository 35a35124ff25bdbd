package booking

import (
	"context"
	"errors"

	"staybook/database/repository"
	"staybook/models"
)

// ListGuestBookings returns the actor's own bookings, newest first.
func (s *DefaultBookingService) ListGuestBookings(ctx context.Context, actor models.Actor) ([]models.BookingWithRoom, error) {
	bookings, err := s.Bookings.ListByGuest(ctx, actor.UserID)
	if err != nil {
		return nil, storeError(err, "guest", actor.UserID)
	}

	rooms := make(map[string]*models.Room)
	out := make([]models.BookingWithRoom, 0, len(bookings))
	for _, b := range bookings {
		room, seen := rooms[b.RoomID]
		if !seen {
			room, err = s.Rooms.GetByID(ctx, b.RoomID)
			if err != nil {
				if !errors.Is(err, repository.ErrNotFound) {
					return nil, storeError(err, "room", b.RoomID)
				}
				room = nil
			}
			rooms[b.RoomID] = room
		}
		out = append(out, models.BookingWithRoom{Booking: b, Room: room})
	}
	return out, nil
}

// ListOwnerBookings returns every booking on rooms the actor owns.
func (s *DefaultBookingService) ListOwnerBookings(ctx context.Context, actor models.Actor) ([]models.BookingWithRoom, error) {
	owned, err := s.Rooms.ListByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, storeError(err, "owner", actor.UserID)
	}
	if len(owned) == 0 {
		return []models.BookingWithRoom{}, nil
	}

	rooms := make(map[string]*models.Room, len(owned))
	ids := make([]string, 0, len(owned))
	for i := range owned {
		rooms[owned[i].ID] = &owned[i]
		ids = append(ids, owned[i].ID)
	}

	bookings, err := s.Bookings.ListByRooms(ctx, ids)
	if err != nil {
		return nil, storeError(err, "owner", actor.UserID)
	}

	out := make([]models.BookingWithRoom, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, models.BookingWithRoom{Booking: b, Room: rooms[b.RoomID]})
	}
	return out, nil
}
