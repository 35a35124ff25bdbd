package bookingRepo

import (
	"context"
	"testing"
	"time"

	"staybook/database/repository"
	"staybook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const bookingsNS = "staybook.bookings"

func mockBooking() *models.Booking {
	return &models.Booking{
		ID:       "b1",
		RoomID:   "room-1",
		GuestID:  "guest-1",
		CheckIn:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		Status:   models.BookingPending,
		Version:  1,
	}
}

func updateResponse(matched int32) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: matched},
		bson.E{Key: "nModified", Value: matched},
	)
}

func countResponse(n int32) bson.D {
	if n == 0 {
		return mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch)
	}
	return mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch, bson.D{
		{Key: "_id", Value: 1},
		{Key: "n", Value: n},
	})
}

func TestMongoReserve(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unknown room", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB, time.Second)
		mt.AddMockResponses(updateResponse(0))

		err := repo.reserve(context.Background(), mockBooking())
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("overlapping booking", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB, time.Second)
		mt.AddMockResponses(updateResponse(1), countResponse(1))

		err := repo.reserve(context.Background(), mockBooking())
		assert.ErrorIs(mt, err, repository.ErrOverlap)
	})

	mt.Run("free stay is inserted", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB, time.Second)
		mt.AddMockResponses(updateResponse(1), countResponse(0), mtest.CreateSuccessResponse())

		require.NoError(mt, repo.reserve(context.Background(), mockBooking()))
	})

	mt.Run("count failure is not an overlap", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB, time.Second)
		mt.AddMockResponses(updateResponse(1), mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad filter",
		}))

		err := repo.reserve(context.Background(), mockBooking())
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, repository.ErrOverlap)
	})
}

func TestMongoUpdateStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	noMatch := mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil})

	mt.Run("status moved underneath", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB, time.Second)
		mt.AddMockResponses(noMatch, countResponse(1))

		_, err := repo.UpdateStatus(context.Background(), "b1", models.BookingPending, 1, models.BookingConfirmed)
		assert.ErrorIs(mt, err, repository.ErrStatusChanged)
	})

	mt.Run("missing booking", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB, time.Second)
		mt.AddMockResponses(noMatch, countResponse(0))

		_, err := repo.UpdateStatus(context.Background(), "b1", models.BookingPending, 1, models.BookingConfirmed)
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("applied", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "id", Value: "b1"},
			{Key: "roomId", Value: "room-1"},
			{Key: "status", Value: string(models.BookingConfirmed)},
			{Key: "version", Value: 2},
		}}))

		updated, err := repo.UpdateStatus(context.Background(), "b1", models.BookingPending, 1, models.BookingConfirmed)
		require.NoError(mt, err)
		assert.Equal(mt, models.BookingConfirmed, updated.Status)
		assert.Equal(mt, 2, updated.Version)
	})
}
