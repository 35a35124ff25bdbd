package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func init() {
	// Request bodies have fixed schemas; unknown fields are rejected.
	binding.EnableDecoderDisallowUnknownFields = true
}

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Booking endpoints
	CreateBooking    gin.HandlerFunc
	GetBooking       gin.HandlerFunc
	UpdateBooking    gin.HandlerFunc
	CancelBooking    gin.HandlerFunc
	MyBookings       gin.HandlerFunc
	OwnerBookings    gin.HandlerFunc
	RoomAvailability gin.HandlerFunc

	// Payment endpoints
	CreateCheckoutSession gin.HandlerFunc
	PaymentSuccess        gin.HandlerFunc
	PaymentCancel         gin.HandlerFunc
	StripeWebhook         gin.HandlerFunc

	// Room endpoints
	ListRooms  gin.HandlerFunc
	GetRoom    gin.HandlerFunc
	MyRooms    gin.HandlerFunc
	CreateRoom gin.HandlerFunc
	UpdateRoom gin.HandlerFunc

	Health gin.HandlerFunc
}
