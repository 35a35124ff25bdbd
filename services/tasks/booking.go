package tasks

import (
	"encoding/json"
	"time"

	"staybook/models"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingConfirmed = "booking:confirmed"
	TypeBookingCancelled = "booking:cancelled"
	TypePaymentStale     = "payment:stale"
)

// Enqueuer is the subset of *asynq.Client the booking services use.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func newBookingTask(typename string, b models.Booking, reason string) (*asynq.Task, error) {
	payload, err := json.Marshal(models.BookingEventPayload{
		BookingID: b.ID,
		RoomID:    b.RoomID,
		GuestID:   b.GuestID,
		Status:    b.Status,
		Reason:    reason,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(typename, payload), nil
}

func NewBookingConfirmedTask(b models.Booking) (*asynq.Task, []asynq.Option, error) {
	task, err := newBookingTask(TypeBookingConfirmed, b, "")
	if err != nil {
		return nil, nil, err
	}
	return task, []asynq.Option{asynq.MaxRetry(5)}, nil
}

func NewBookingCancelledTask(b models.Booking, reason string) (*asynq.Task, []asynq.Option, error) {
	task, err := newBookingTask(TypeBookingCancelled, b, reason)
	if err != nil {
		return nil, nil, err
	}
	return task, []asynq.Option{asynq.MaxRetry(5)}, nil
}

// NewPaymentStaleTask flags a payment that arrived for a booking that was
// already cancelled. The task ID is derived from the booking so redelivered
// payment signals queue a single refund review.
func NewPaymentStaleTask(b models.Booking, reason string) (*asynq.Task, []asynq.Option, error) {
	task, err := newBookingTask(TypePaymentStale, b, reason)
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{
		asynq.TaskID(TypePaymentStale + ":" + b.ID),
		asynq.Retention(24 * time.Hour),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// ParseBookingEvent decodes the payload of any booking task.
func ParseBookingEvent(task *asynq.Task) (models.BookingEventPayload, error) {
	var p models.BookingEventPayload
	err := json.Unmarshal(task.Payload(), &p)
	return p, err
}
