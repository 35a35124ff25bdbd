package booking

import (
	"context"
	"errors"
	"fmt"

	"staybook/database/repository"
	"staybook/utils/apperror"
)

const msgAlreadyBooked = "room already booked for selected dates"

// storeError translates repository sentinels into the service taxonomy.
// ErrStatusChanged is handled by the state machine and never reaches here.
func storeError(err error, what, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NotFound("%s %s not found", what, id)
	case errors.Is(err, repository.ErrOverlap):
		return apperror.Conflict(msgAlreadyBooked)
	case errors.Is(err, repository.ErrTransient),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return apperror.Transient(err)
	default:
		return fmt.Errorf("%s %s: %w", what, id, err)
	}
}
