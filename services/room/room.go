// Package room manages the rooms guests book.
package room

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"staybook/database/repository"
	roomRepo "staybook/database/repository/room"
	"staybook/models"
	"staybook/utils/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RoomService interface {
	CreateRoom(ctx context.Context, actor models.Actor, input models.RoomInput) (*models.Room, error)
	UpdateRoom(ctx context.Context, actor models.Actor, roomID string, update models.RoomUpdate) (*models.Room, error)
	GetRoom(ctx context.Context, roomID string) (*models.Room, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	ListMyRooms(ctx context.Context, actor models.Actor) ([]models.Room, error)
}

type DefaultRoomService struct {
	Repo     roomRepo.RoomRepository
	Logger   *zap.Logger
	validate *validator.Validate
}

func NewDefaultRoomService(repo roomRepo.RoomRepository, logger *zap.Logger) *DefaultRoomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := validator.New()
	v.SetTagName("binding")
	return &DefaultRoomService{Repo: repo, Logger: logger, validate: v}
}

func (s *DefaultRoomService) CreateRoom(ctx context.Context, actor models.Actor, input models.RoomInput) (*models.Room, error) {
	if actor.Role != models.RoleOwner && !actor.IsAdmin() {
		return nil, apperror.Forbidden("only hosts can list rooms")
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Location = strings.TrimSpace(input.Location)
	if err := s.validate.Struct(input); err != nil {
		return nil, apperror.Wrap(apperror.CodeInvalidInput, err, "invalid room")
	}

	now := time.Now().UTC()
	room := &models.Room{
		ID:            uuid.New().String(),
		OwnerID:       actor.UserID,
		Title:         input.Title,
		Location:      input.Location,
		Description:   input.Description,
		PricePerNight: input.PricePerNight,
		MaxGuests:     input.MaxGuests,
		IsAvailable:   true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Repo.Create(ctx, room); err != nil {
		return nil, storeError(err, room.ID)
	}

	s.Logger.Info("Room created", zap.String("roomID", room.ID), zap.String("ownerID", actor.UserID))
	return room, nil
}

// UpdateRoom applies a partial update. Only the owner or an admin may change a room.
func (s *DefaultRoomService) UpdateRoom(ctx context.Context, actor models.Actor, roomID string, update models.RoomUpdate) (*models.Room, error) {
	if update.Empty() {
		return nil, apperror.InvalidInput("no fields to update")
	}
	if err := s.validate.Struct(update); err != nil {
		return nil, apperror.Wrap(apperror.CodeInvalidInput, err, "invalid room update")
	}

	existing, err := s.Repo.GetByID(ctx, roomID)
	if err != nil {
		return nil, storeError(err, roomID)
	}
	if !actor.IsAdmin() && actor.UserID != existing.OwnerID {
		return nil, apperror.Forbidden("not allowed to update room %s", roomID)
	}

	updated, err := s.Repo.Update(ctx, roomID, update)
	if err != nil {
		return nil, storeError(err, roomID)
	}
	s.Logger.Info("Room updated", zap.String("roomID", roomID), zap.String("actorID", actor.UserID))
	return updated, nil
}

func (s *DefaultRoomService) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	room, err := s.Repo.GetByID(ctx, roomID)
	if err != nil {
		return nil, storeError(err, roomID)
	}
	return room, nil
}

// ListRooms returns the rooms currently accepting bookings.
func (s *DefaultRoomService) ListRooms(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.Repo.ListAvailable(ctx)
	if err != nil {
		return nil, storeError(err, "")
	}
	return rooms, nil
}

func (s *DefaultRoomService) ListMyRooms(ctx context.Context, actor models.Actor) ([]models.Room, error) {
	rooms, err := s.Repo.ListByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, storeError(err, "")
	}
	return rooms, nil
}

func storeError(err error, roomID string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NotFound("room %s not found", roomID)
	case errors.Is(err, repository.ErrTransient),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return apperror.Transient(err)
	default:
		return fmt.Errorf("room %s: %w", roomID, err)
	}
}
