package room

import (
	"context"
	"errors"
	"fmt"
	"testing"

	roomRepo "staybook/database/repository/room"
	"staybook/models"
	"staybook/utils/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	host  = models.Actor{UserID: "owner-1", Role: models.RoleOwner}
	other = models.Actor{UserID: "owner-2", Role: models.RoleOwner}
	admin = models.Actor{UserID: "admin-1", Role: models.RoleAdmin}
	guest = models.Actor{UserID: "guest-1", Role: models.RoleGuest}
)

func validInput() models.RoomInput {
	return models.RoomInput{
		Title:         "Garden studio",
		Location:      "Mombasa",
		Description:   "Quiet studio near the beach",
		PricePerNight: 3200,
		MaxGuests:     2,
	}
}

func TestCreateRoom(t *testing.T) {
	svc := NewDefaultRoomService(roomRepo.NewMemoryRoomRepo(), zap.NewNop())
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, host, validInput())
	require.NoError(t, err)
	assert.Equal(t, host.UserID, room.OwnerID)
	assert.True(t, room.IsAvailable)

	_, err = svc.CreateRoom(ctx, guest, validInput())
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	bad := validInput()
	bad.PricePerNight = 0
	_, err = svc.CreateRoom(ctx, host, bad)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	mine, err := svc.ListMyRooms(ctx, host)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestUpdateRoom(t *testing.T) {
	svc := NewDefaultRoomService(roomRepo.NewMemoryRoomRepo(), zap.NewNop())
	ctx := context.Background()
	room, err := svc.CreateRoom(ctx, host, validInput())
	require.NoError(t, err)

	price := 4000.0
	_, err = svc.UpdateRoom(ctx, other, room.ID, models.RoomUpdate{PricePerNight: &price})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.UpdateRoom(ctx, host, room.ID, models.RoomUpdate{})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	negative := -1.0
	_, err = svc.UpdateRoom(ctx, host, room.ID, models.RoomUpdate{PricePerNight: &negative})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	updated, err := svc.UpdateRoom(ctx, host, room.ID, models.RoomUpdate{PricePerNight: &price})
	require.NoError(t, err)
	assert.Equal(t, price, updated.PricePerNight)

	closed := false
	updated, err = svc.UpdateRoom(ctx, admin, room.ID, models.RoomUpdate{IsAvailable: &closed})
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)

	listed, err := svc.ListRooms(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, err = svc.GetRoom(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// failingRepo returns err from reads, the way the mongo driver surfaces a
// cancelled or expired context.
type failingRepo struct {
	roomRepo.RoomRepository
	err error
}

func (r failingRepo) GetByID(context.Context, string) (*models.Room, error) { return nil, r.err }

func (r failingRepo) ListAvailable(context.Context) ([]models.Room, error) { return nil, r.err }

func TestStoreErrorsAreTransient(t *testing.T) {
	for _, cause := range []error{context.Canceled, context.DeadlineExceeded} {
		svc := NewDefaultRoomService(failingRepo{err: fmt.Errorf("find room: %w", cause)}, zap.NewNop())

		_, err := svc.GetRoom(context.Background(), "room-1")
		assert.ErrorIs(t, err, apperror.ErrTransientStore, "%v", cause)
		assert.ErrorIs(t, err, cause)

		_, err = svc.ListRooms(context.Background())
		assert.ErrorIs(t, err, apperror.ErrTransientStore, "%v", cause)
	}

	svc := NewDefaultRoomService(failingRepo{err: errors.New("boom")}, zap.NewNop())
	_, err := svc.GetRoom(context.Background(), "room-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperror.ErrTransientStore)
}
