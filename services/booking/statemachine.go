package booking

import (
	"context"
	"errors"

	"staybook/database/repository"
	"staybook/models"
	"staybook/services/tasks"
	"staybook/utils/apperror"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// maxTransitionAttempts bounds reload-and-retry after a lost compare-and-set.
const maxTransitionAttempts = 3

var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed: {models.BookingCancelled},
}

func canTransition(from, to models.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// authorized reports whether the actor is the guest, the room owner or an admin.
func authorized(actor models.Actor, b *models.Booking, room *models.Room) bool {
	if actor.UserID == "" {
		return false
	}
	if actor.IsAdmin() || actor.UserID == b.GuestID {
		return true
	}
	return isOwner(actor, room)
}

func isOwner(actor models.Actor, room *models.Room) bool {
	return room != nil && actor.UserID != "" && actor.UserID == room.OwnerID
}

// mayConfirmManually reports whether the actor may confirm without a payment.
// Only the room owner and admins can; the guest confirms by paying.
func mayConfirmManually(actor models.Actor, room *models.Room) bool {
	return actor.IsAdmin() || isOwner(actor, room)
}

// loadForActor fetches the booking and checks that the actor may act on it.
// The room is loaded whenever the actor is not an admin, so callers can tell
// the owner apart from the guest.
func (s *DefaultBookingService) loadForActor(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, *models.Room, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, storeError(err, "booking", bookingID)
	}

	var room *models.Room
	if !actor.IsAdmin() {
		room, err = s.Rooms.GetByID(ctx, b.RoomID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, nil, storeError(err, "room", b.RoomID)
		}
	}
	if !authorized(actor, b, room) {
		return nil, nil, apperror.Forbidden("not allowed to access booking %s", bookingID)
	}
	return b, room, nil
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	b, _, err := s.loadForActor(ctx, actor, bookingID)
	return b, err
}

// UpdateStatus parses the requested status and applies it through Transition.
func (s *DefaultBookingService) UpdateStatus(ctx context.Context, actor models.Actor, bookingID, status string) (*models.Booking, error) {
	to, err := models.ParseBookingStatus(status)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeInvalidInput, err, err.Error())
	}
	return s.Transition(ctx, actor, bookingID, to)
}

func (s *DefaultBookingService) Cancel(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	return s.Transition(ctx, actor, bookingID, models.BookingCancelled)
}

// Transition moves a booking to the requested status on behalf of actor.
// A manual confirmation is reserved for the room owner and admins.
func (s *DefaultBookingService) Transition(ctx context.Context, actor models.Actor, bookingID string, to models.BookingStatus) (*models.Booking, error) {
	return s.transition(ctx, actor, bookingID, to, false)
}

// transition checks authorization before the transition table. viaPayment
// marks a confirmation driven by a settled checkout, which the guest may
// trigger. A lost compare-and-set reloads the booking and re-evaluates the
// table against the new state.
func (s *DefaultBookingService) transition(
	ctx context.Context,
	actor models.Actor,
	bookingID string,
	to models.BookingStatus,
	viaPayment bool,
) (*models.Booking, error) {
	if _, err := models.ParseBookingStatus(string(to)); err != nil {
		return nil, apperror.Wrap(apperror.CodeInvalidInput, err, err.Error())
	}

	current, room, err := s.loadForActor(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if to == models.BookingConfirmed && !viaPayment && !mayConfirmManually(actor, room) {
		return nil, apperror.Forbidden("booking %s is confirmed by completing payment", bookingID)
	}

	for attempt := 1; attempt <= maxTransitionAttempts; attempt++ {
		if !canTransition(current.Status, to) {
			return nil, apperror.InvalidTransition("cannot move booking from %s to %s", current.Status, to)
		}

		updated, err := s.Bookings.UpdateStatus(ctx, bookingID, current.Status, current.Version, to)
		if err == nil {
			s.Logger.Info("Booking status changed",
				zap.String("bookingID", bookingID),
				zap.String("from", string(current.Status)),
				zap.String("to", string(to)),
				zap.String("actorID", actor.UserID),
				zap.String("actorRole", string(actor.Role)))
			s.publishTransition(*updated)
			return updated, nil
		}
		if !errors.Is(err, repository.ErrStatusChanged) {
			return nil, storeError(err, "booking", bookingID)
		}

		s.Logger.Debug("Booking changed concurrently, reloading",
			zap.String("bookingID", bookingID),
			zap.Int("attempt", attempt))
		current, err = s.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return nil, storeError(err, "booking", bookingID)
		}
	}
	return nil, apperror.Conflict("booking %s is being modified concurrently, retry", bookingID)
}

func (s *DefaultBookingService) publishTransition(b models.Booking) {
	var (
		task *asynq.Task
		opts []asynq.Option
		err  error
	)
	switch b.Status {
	case models.BookingConfirmed:
		task, opts, err = tasks.NewBookingConfirmedTask(b)
	case models.BookingCancelled:
		task, opts, err = tasks.NewBookingCancelledTask(b, "")
	default:
		return
	}
	if err != nil {
		s.Logger.Error("Failed to build booking task", zap.String("bookingID", b.ID), zap.Error(err))
		return
	}
	s.enqueue(task, opts, b.ID)
}

// enqueue hands a task to the queue. Failures are logged and never undo the
// committed change.
func (s *DefaultBookingService) enqueue(task *asynq.Task, opts []asynq.Option, bookingID string) {
	if s.Tasks == nil {
		s.Logger.Debug("Task queue disabled, skipping", zap.String("task", task.Type()), zap.String("bookingID", bookingID))
		return
	}
	info, err := s.Tasks.Enqueue(task, opts...)
	switch {
	case errors.Is(err, asynq.ErrTaskIDConflict):
		s.Logger.Debug("Task already queued", zap.String("task", task.Type()), zap.String("bookingID", bookingID))
	case err != nil:
		s.Logger.Error("Failed to enqueue task", zap.String("task", task.Type()), zap.String("bookingID", bookingID), zap.Error(err))
	default:
		s.Logger.Debug("Task enqueued", zap.String("task", task.Type()), zap.String("taskID", info.ID))
	}
}
