// File: database/repository/booking/booking_mongo.go
package bookingRepo

import (
	"context"
	"errors"
	"time"

	"staybook/database/repository"
	"staybook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	bookingColl *mongo.Collection
	roomColl    *mongo.Collection
	timeout     time.Duration
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo(db *mongo.Database, timeout time.Duration) *MongoBookingRepo {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MongoBookingRepo{
		bookingColl: db.Collection("bookings"),
		roomColl:    db.Collection("rooms"),
		timeout:     timeout,
	}
}

// overlapFilter selects active bookings on roomID intersecting iv under the
// half-open rule: existing.checkIn < iv.checkOut AND iv.checkIn < existing.checkOut.
func overlapFilter(roomID string, iv models.Interval) bson.M {
	return bson.M{
		"roomId":   roomID,
		"status":   bson.M{"$ne": models.BookingCancelled},
		"checkIn":  bson.M{"$lt": iv.CheckOut},
		"checkOut": bson.M{"$gt": iv.CheckIn},
	}
}

// CreateIfAvailable runs the overlap check and the insert in one snapshot
// transaction. The transaction first increments the room's bookingSeq, so two
// reservations on the same room always write the same document and one of
// them aborts with a write conflict. WithTransaction retries the loser, which
// then sees the winner's booking.
func (repo *MongoBookingRepo) CreateIfAvailable(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	client := repo.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return repository.Classify("could not start mongo session", err)
	}
	defer sess.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, repo.reserve(sc, booking)
	}, txnOpts)
	if err != nil {
		return repository.Classify("booking transaction failed", err)
	}
	return nil
}

// reserve is the transaction body: bump the room's bookingSeq, count
// overlapping active bookings, then insert.
func (repo *MongoBookingRepo) reserve(ctx context.Context, booking *models.Booking) error {
	res, err := repo.roomColl.UpdateOne(ctx,
		bson.M{"id": booking.RoomID},
		bson.M{"$inc": bson.M{"bookingSeq": 1}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}

	n, err := repo.bookingColl.CountDocuments(ctx, overlapFilter(booking.RoomID, booking.Interval()))
	if err != nil {
		return err
	}
	if n > 0 {
		return repository.ErrOverlap
	}

	_, err = repo.bookingColl.InsertOne(ctx, booking)
	return err
}

// GetByID retrieves a booking by its ID.
func (repo *MongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	var booking models.Booking
	err := repo.bookingColl.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking)
	if err != nil {
		return nil, repository.Classify("error fetching booking "+bookingID, err)
	}
	return &booking, nil
}

// ListActiveByRoom returns PENDING and CONFIRMED bookings on the room.
func (repo *MongoBookingRepo) ListActiveByRoom(ctx context.Context, roomID string) ([]models.Booking, error) {
	filter := bson.M{
		"roomId": roomID,
		"status": bson.M{"$ne": models.BookingCancelled},
	}
	opts := options.Find().SetSort(bson.D{{Key: "checkIn", Value: 1}})
	return repo.find(ctx, "error listing room bookings", filter, opts)
}

// ListByGuest returns the guest's bookings, newest first.
func (repo *MongoBookingRepo) ListByGuest(ctx context.Context, guestID string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return repo.find(ctx, "error listing guest bookings", bson.M{"guestId": guestID}, opts)
}

// ListByRooms returns bookings on any of the given rooms, newest first.
func (repo *MongoBookingRepo) ListByRooms(ctx context.Context, roomIDs []string) ([]models.Booking, error) {
	if len(roomIDs) == 0 {
		return []models.Booking{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return repo.find(ctx, "error listing owner bookings", bson.M{"roomId": bson.M{"$in": roomIDs}}, opts)
}

// UpdateStatus applies a compare-and-set on (id, status, version).
func (repo *MongoBookingRepo) UpdateStatus(
	ctx context.Context,
	bookingID string,
	from models.BookingStatus,
	version int,
	to models.BookingStatus,
) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	filter := bson.M{"id": bookingID, "status": from, "version": version}
	update := bson.M{
		"$set": bson.M{"status": to, "updatedAt": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Booking
	err := repo.bookingColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		n, countErr := repo.bookingColl.CountDocuments(ctx, bson.M{"id": bookingID})
		if countErr != nil {
			return nil, repository.Classify("error checking booking "+bookingID, countErr)
		}
		if n == 0 {
			return nil, repository.Classify("error updating booking "+bookingID, repository.ErrNotFound)
		}
		return nil, repository.Classify("error updating booking "+bookingID, repository.ErrStatusChanged)
	}
	if err != nil {
		return nil, repository.Classify("error updating booking "+bookingID, err)
	}
	return &updated, nil
}

func (repo *MongoBookingRepo) find(ctx context.Context, op string, filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	cursor, err := repo.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, repository.Classify(op, err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, repository.Classify(op, err)
	}
	return bookings, nil
}
