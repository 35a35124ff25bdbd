// File: database/repository/room/room_interface.go
package roomRepo

import (
	"context"

	"staybook/models"
)

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, roomID string) (*models.Room, error)
	ListAvailable(ctx context.Context) ([]models.Room, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Room, error)
	Update(ctx context.Context, roomID string, update models.RoomUpdate) (*models.Room, error)
}
