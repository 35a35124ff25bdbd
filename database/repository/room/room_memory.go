// File: database/repository/room/room_memory.go
package roomRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"staybook/database/repository"
	"staybook/models"
)

// MemoryRoomRepo is the in-process RoomRepository for the "memory" store driver.
type MemoryRoomRepo struct {
	mu    sync.RWMutex
	rooms map[string]models.Room
}

func NewMemoryRoomRepo() *MemoryRoomRepo {
	return &MemoryRoomRepo{rooms: make(map[string]models.Room)}
}

func (r *MemoryRoomRepo) Create(ctx context.Context, room *models.Room) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("error creating room: %w: %w", repository.ErrTransient, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[room.ID]; exists {
		return fmt.Errorf("room %s already exists", room.ID)
	}
	r.rooms[room.ID] = *room
	return nil
}

func (r *MemoryRoomRepo) GetByID(ctx context.Context, roomID string) (*models.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("error fetching room %s: %w: %w", roomID, repository.ErrTransient, err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("error fetching room %s: %w", roomID, repository.ErrNotFound)
	}
	return &room, nil
}

func (r *MemoryRoomRepo) ListAvailable(ctx context.Context) ([]models.Room, error) {
	return r.list(ctx, func(room models.Room) bool { return room.IsAvailable })
}

func (r *MemoryRoomRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Room, error) {
	return r.list(ctx, func(room models.Room) bool { return room.OwnerID == ownerID })
}

func (r *MemoryRoomRepo) Update(ctx context.Context, roomID string, update models.RoomUpdate) (*models.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("error updating room %s: %w: %w", roomID, repository.ErrTransient, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("error updating room %s: %w", roomID, repository.ErrNotFound)
	}
	if update.Title != nil {
		room.Title = *update.Title
	}
	if update.Location != nil {
		room.Location = *update.Location
	}
	if update.Description != nil {
		room.Description = *update.Description
	}
	if update.PricePerNight != nil {
		room.PricePerNight = *update.PricePerNight
	}
	if update.MaxGuests != nil {
		room.MaxGuests = *update.MaxGuests
	}
	if update.IsAvailable != nil {
		room.IsAvailable = *update.IsAvailable
	}
	room.UpdatedAt = time.Now().UTC()
	r.rooms[roomID] = room
	return &room, nil
}

func (r *MemoryRoomRepo) list(ctx context.Context, keep func(models.Room) bool) ([]models.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("error listing rooms: %w: %w", repository.ErrTransient, err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Room{}
	for _, room := range r.rooms {
		if keep(room) {
			out = append(out, room)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
