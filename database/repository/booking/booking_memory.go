// File: database/repository/booking/booking_memory.go
package bookingRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"staybook/database/repository"
	"staybook/models"
)

// MemoryBookingRepo is the in-process BookingRepository used by the "memory"
// store driver and by service tests. A single mutex makes every
// check-then-insert and compare-and-set atomic.
type MemoryBookingRepo struct {
	mu       sync.RWMutex
	bookings map[string]models.Booking
}

func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{bookings: make(map[string]models.Booking)}
}

func ctxErr(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w: %w", op, repository.ErrTransient, err)
	}
	return nil
}

func (repo *MemoryBookingRepo) CreateIfAvailable(ctx context.Context, booking *models.Booking) error {
	if err := ctxErr(ctx, "booking transaction failed"); err != nil {
		return err
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.bookings[booking.ID]; exists {
		return fmt.Errorf("booking %s already exists", booking.ID)
	}
	candidate := booking.Interval()
	for _, existing := range repo.bookings {
		if existing.RoomID == booking.RoomID && existing.Status.Active() && existing.Interval().Overlaps(candidate) {
			return fmt.Errorf("booking transaction failed: %w", repository.ErrOverlap)
		}
	}
	repo.bookings[booking.ID] = *booking
	return nil
}

func (repo *MemoryBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	if err := ctxErr(ctx, "error fetching booking "+bookingID); err != nil {
		return nil, err
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	b, ok := repo.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("error fetching booking %s: %w", bookingID, repository.ErrNotFound)
	}
	return &b, nil
}

func (repo *MemoryBookingRepo) ListActiveByRoom(ctx context.Context, roomID string) ([]models.Booking, error) {
	out, err := repo.filter(ctx, func(b models.Booking) bool {
		return b.RoomID == roomID && b.Status.Active()
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, nil
}

func (repo *MemoryBookingRepo) ListByGuest(ctx context.Context, guestID string) ([]models.Booking, error) {
	out, err := repo.filter(ctx, func(b models.Booking) bool { return b.GuestID == guestID })
	if err != nil {
		return nil, err
	}
	sortNewestFirst(out)
	return out, nil
}

func (repo *MemoryBookingRepo) ListByRooms(ctx context.Context, roomIDs []string) ([]models.Booking, error) {
	wanted := make(map[string]struct{}, len(roomIDs))
	for _, id := range roomIDs {
		wanted[id] = struct{}{}
	}
	out, err := repo.filter(ctx, func(b models.Booking) bool {
		_, ok := wanted[b.RoomID]
		return ok
	})
	if err != nil {
		return nil, err
	}
	sortNewestFirst(out)
	return out, nil
}

func (repo *MemoryBookingRepo) UpdateStatus(
	ctx context.Context,
	bookingID string,
	from models.BookingStatus,
	version int,
	to models.BookingStatus,
) (*models.Booking, error) {
	if err := ctxErr(ctx, "error updating booking "+bookingID); err != nil {
		return nil, err
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	b, ok := repo.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("error updating booking %s: %w", bookingID, repository.ErrNotFound)
	}
	if b.Status != from || b.Version != version {
		return nil, fmt.Errorf("error updating booking %s: %w", bookingID, repository.ErrStatusChanged)
	}
	b.Status = to
	b.Version++
	b.UpdatedAt = time.Now().UTC()
	repo.bookings[bookingID] = b
	return &b, nil
}

func (repo *MemoryBookingRepo) filter(ctx context.Context, keep func(models.Booking) bool) ([]models.Booking, error) {
	if err := ctxErr(ctx, "error listing bookings"); err != nil {
		return nil, err
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	out := []models.Booking{}
	for _, b := range repo.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

func sortNewestFirst(bookings []models.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].ID < bookings[j].ID
		}
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
}
