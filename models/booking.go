package models

import (
	"fmt"
	"strings"
	"time"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// ParseBookingStatus converts a string to a BookingStatus.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return status, nil
	}
	return "", fmt.Errorf("invalid booking status: %q", s)
}

// Active reports whether the booking still occupies its room.
func (s BookingStatus) Active() bool {
	return s != BookingCancelled
}

// Booking is a guest's stay in one room. Bookings are never deleted;
// cancellation is a status change.
type Booking struct {
	ID        string        `bson:"id" json:"id"`
	RoomID    string        `bson:"roomId" json:"roomId"`
	GuestID   string        `bson:"guestId" json:"guestId"`
	CheckIn   time.Time     `bson:"checkIn" json:"checkIn"`
	CheckOut  time.Time     `bson:"checkOut" json:"checkOut"`
	Status    BookingStatus `bson:"status" json:"status"`
	Version   int           `bson:"version" json:"version"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}

func (b Booking) Interval() Interval {
	return Interval{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

// BookingInterval is the calendar projection of a booking.
type BookingInterval struct {
	ID       string        `json:"id"`
	CheckIn  time.Time     `json:"checkIn"`
	CheckOut time.Time     `json:"checkOut"`
	Status   BookingStatus `json:"status"`
}

// BookingWithRoom is returned by listing endpoints so clients can render the stay.
type BookingWithRoom struct {
	Booking
	Room *Room `json:"room,omitempty"`
}
