// File: database/repository/room/room_mongo.go
package roomRepo

import (
	"context"
	"fmt"
	"time"

	"staybook/database/repository"
	"staybook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRoomRepo implements RoomRepository using MongoDB.
type MongoRoomRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoRoomRepo(db *mongo.Database, timeout time.Duration) *MongoRoomRepo {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MongoRoomRepo{coll: db.Collection("rooms"), timeout: timeout}
}

// EnsureIndexes creates the necessary indexes on the rooms collection.
func (r *MongoRoomRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("owner_created_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create room indexes: %w", err)
	}
	return nil
}

func (r *MongoRoomRepo) Create(ctx context.Context, room *models.Room) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, room); err != nil {
		return repository.Classify("error creating room", err)
	}
	return nil
}

func (r *MongoRoomRepo) GetByID(ctx context.Context, roomID string) (*models.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var room models.Room
	if err := r.coll.FindOne(ctx, bson.M{"id": roomID}).Decode(&room); err != nil {
		return nil, repository.Classify("error fetching room "+roomID, err)
	}
	return &room, nil
}

func (r *MongoRoomRepo) ListAvailable(ctx context.Context) ([]models.Room, error) {
	return r.find(ctx, "error listing rooms", bson.M{"isAvailable": true})
}

func (r *MongoRoomRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Room, error) {
	return r.find(ctx, "error listing owner rooms", bson.M{"ownerId": ownerID})
}

// Update sets the non-nil fields of update and returns the stored room.
func (r *MongoRoomRepo) Update(ctx context.Context, roomID string, update models.RoomUpdate) (*models.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.PricePerNight != nil {
		set["pricePerNight"] = *update.PricePerNight
	}
	if update.MaxGuests != nil {
		set["maxGuests"] = *update.MaxGuests
	}
	if update.IsAvailable != nil {
		set["isAvailable"] = *update.IsAvailable
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var room models.Room
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": roomID}, bson.M{"$set": set}, opts).Decode(&room)
	if err != nil {
		return nil, repository.Classify("error updating room "+roomID, err)
	}
	return &room, nil
}

func (r *MongoRoomRepo) find(ctx context.Context, op string, filter bson.M) ([]models.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, repository.Classify(op, err)
	}
	defer cursor.Close(ctx)

	rooms := []models.Room{}
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, repository.Classify(op, err)
	}
	return rooms, nil
}
