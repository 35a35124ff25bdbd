package bookingRepo

import (
	"context"
	"testing"
	"time"

	"staybook/database/repository"
	"staybook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBooking(id, room, guest, in, out string) *models.Booking {
	iv, _ := models.ParseInterval(in, out)
	return &models.Booking{
		ID:        id,
		RoomID:    room,
		GuestID:   guest,
		CheckIn:   iv.CheckIn,
		CheckOut:  iv.CheckOut,
		Status:    models.BookingPending,
		Version:   1,
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryBookingRepo_CreateIfAvailable(t *testing.T) {
	repo := NewMemoryBookingRepo()
	ctx := context.Background()

	require.NoError(t, repo.CreateIfAvailable(ctx, newBooking("b1", "r1", "g1", "2024-06-01", "2024-06-05")))

	err := repo.CreateIfAvailable(ctx, newBooking("b2", "r1", "g2", "2024-06-04", "2024-06-06"))
	assert.ErrorIs(t, err, repository.ErrOverlap)

	require.NoError(t, repo.CreateIfAvailable(ctx, newBooking("b3", "r1", "g2", "2024-06-05", "2024-06-06")))
	require.NoError(t, repo.CreateIfAvailable(ctx, newBooking("b4", "r2", "g2", "2024-06-01", "2024-06-05")))

	active, err := repo.ListActiveByRoom(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestMemoryBookingRepo_UpdateStatusCompareAndSet(t *testing.T) {
	repo := NewMemoryBookingRepo()
	ctx := context.Background()
	require.NoError(t, repo.CreateIfAvailable(ctx, newBooking("b1", "r1", "g1", "2024-06-01", "2024-06-05")))

	updated, err := repo.UpdateStatus(ctx, "b1", models.BookingPending, 1, models.BookingCancelled)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	_, err = repo.UpdateStatus(ctx, "b1", models.BookingPending, 1, models.BookingConfirmed)
	assert.ErrorIs(t, err, repository.ErrStatusChanged)

	_, err = repo.UpdateStatus(ctx, "missing", models.BookingPending, 1, models.BookingConfirmed)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Cancelled bookings release their dates.
	require.NoError(t, repo.CreateIfAvailable(ctx, newBooking("b2", "r1", "g2", "2024-06-02", "2024-06-04")))
}

func TestMemoryBookingRepo_ContextErrorsAreTransient(t *testing.T) {
	repo := NewMemoryBookingRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetByID(ctx, "b1")
	assert.ErrorIs(t, err, repository.ErrTransient)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryBookingRepo_Listings(t *testing.T) {
	repo := NewMemoryBookingRepo()
	ctx := context.Background()

	first := newBooking("b1", "r1", "g1", "2024-06-01", "2024-06-02")
	second := newBooking("b2", "r2", "g1", "2024-06-01", "2024-06-02")
	second.CreatedAt = first.CreatedAt.Add(time.Minute)
	third := newBooking("b3", "r3", "g2", "2024-06-01", "2024-06-02")
	for _, b := range []*models.Booking{first, second, third} {
		require.NoError(t, repo.CreateIfAvailable(ctx, b))
	}

	mine, err := repo.ListByGuest(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "b2", mine[0].ID)

	hosted, err := repo.ListByRooms(ctx, []string{"r1", "r3"})
	require.NoError(t, err)
	assert.Len(t, hosted, 2)
}
