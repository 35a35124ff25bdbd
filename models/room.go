package models

import "time"

// Room is a bookable unit owned by a single host.
type Room struct {
	ID            string    `bson:"id" json:"id"`
	OwnerID       string    `bson:"ownerId" json:"ownerId"`
	Title         string    `bson:"title" json:"title"`
	Location      string    `bson:"location" json:"location"`
	Description   string    `bson:"description" json:"description"`
	PricePerNight float64   `bson:"pricePerNight" json:"pricePerNight"`
	MaxGuests     int       `bson:"maxGuests" json:"maxGuests"`
	IsAvailable   bool      `bson:"isAvailable" json:"isAvailable"`
	BookingSeq    int64     `bson:"bookingSeq" json:"-"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// RoomInput is the create payload.
type RoomInput struct {
	Title         string  `json:"title" binding:"required"`
	Location      string  `json:"location" binding:"required"`
	Description   string  `json:"description" binding:"required"`
	PricePerNight float64 `json:"pricePerNight" binding:"required,gt=0"`
	MaxGuests     int     `json:"maxGuests" binding:"required,gt=0"`
}

// RoomUpdate holds the fields an owner may change. Nil fields are left alone.
type RoomUpdate struct {
	Title         *string  `json:"title,omitempty" bson:"title,omitempty"`
	Location      *string  `json:"location,omitempty" bson:"location,omitempty"`
	Description   *string  `json:"description,omitempty" bson:"description,omitempty"`
	PricePerNight *float64 `json:"pricePerNight,omitempty" bson:"pricePerNight,omitempty" binding:"omitempty,gt=0"`
	MaxGuests     *int     `json:"maxGuests,omitempty" bson:"maxGuests,omitempty" binding:"omitempty,gt=0"`
	IsAvailable   *bool    `json:"isAvailable,omitempty" bson:"isAvailable,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u RoomUpdate) Empty() bool {
	return u.Title == nil && u.Location == nil && u.Description == nil &&
		u.PricePerNight == nil && u.MaxGuests == nil && u.IsAvailable == nil
}
