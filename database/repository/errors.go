// Package repository holds the sentinel errors shared by the store gateways.
package repository

import (
	"errors"
	"fmt"

	"staybook/database"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when the requested document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrOverlap is returned by an atomic create when an active booking on the
	// same room overlaps the candidate stay.
	ErrOverlap = errors.New("overlapping booking exists")
	// ErrStatusChanged is returned by a compare-and-set status update when the
	// stored status or version no longer matches the expected one.
	ErrStatusChanged = errors.New("booking status changed concurrently")
	// ErrTransient wraps timeouts and connectivity failures from the store.
	ErrTransient = errors.New("transient store failure")
)

// Classify wraps a driver error so callers can match it against the sentinels
// above while keeping the original cause in the chain.
func Classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrOverlap), errors.Is(err, ErrStatusChanged):
		return fmt.Errorf("%s: %w", op, err)
	case database.IsTransient(err):
		return fmt.Errorf("%s: %w: %w", op, ErrTransient, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
