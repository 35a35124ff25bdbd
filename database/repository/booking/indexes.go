// FILE: database/repository/booking/indexes.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the bookings collection.
func (repo *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Overlap checks filter by room and status, then range on checkIn.
		{
			Keys:    bson.D{{Key: "roomId", Value: 1}, {Key: "status", Value: 1}, {Key: "checkIn", Value: 1}},
			Options: options.Index().SetName("room_status_checkin_idx"),
		},
		{
			Keys:    bson.D{{Key: "guestId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("guest_created_idx"),
		},
	}

	if _, err := repo.bookingColl.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
