package routes

import (
	"time"

	"staybook/handlers"
	"staybook/middleware"
	"staybook/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	bookings := api.Group("/bookings")
	{
		bookings.Use(middleware.JWTAuthMiddleware())
		bookings.POST("", hb.CreateBooking)
		bookings.GET("/my-bookings", hb.MyBookings)
		bookings.GET("/owner-bookings", middleware.RequireRoles(models.RoleOwner, models.RoleAdmin), hb.OwnerBookings)
		bookings.GET("/room/:roomId/availability", hb.RoomAvailability)
		bookings.GET("/:id", hb.GetBooking)
		bookings.PATCH("/:id", hb.UpdateBooking)
		bookings.DELETE("/:id", hb.CancelBooking)
	}
}

// RegisterPaymentRoutes registers checkout endpoints. The webhook is
// authenticated by the provider's signature, not by a bearer token.
func RegisterPaymentRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	payments := api.Group("/payments")
	{
		payments.POST("/webhook", hb.StripeWebhook)

		protected := payments.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("/create-checkout-session", hb.CreateCheckoutSession)
		protected.GET("/success", hb.PaymentSuccess)
		protected.GET("/cancel", hb.PaymentCancel)
	}
}

// RegisterRoomRoutes registers room endpoints. Browsing is public.
func RegisterRoomRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	rooms := api.Group("/rooms")
	{
		rooms.GET("", hb.ListRooms)
		rooms.GET("/:id", hb.GetRoom)

		hosts := rooms.Group("")
		hosts.Use(middleware.JWTAuthMiddleware(), middleware.RequireRoles(models.RoleOwner, models.RoleAdmin))
		hosts.GET("/my/rooms", hb.MyRooms)
		hosts.POST("", hb.CreateRoom)
		hosts.PATCH("/:id", hb.UpdateRoom)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, allowOrigins []string) {
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", hb.Health)

	api := r.Group("/api")
	RegisterBookingRoutes(api, hb)
	RegisterPaymentRoutes(api, hb)
	RegisterRoomRoutes(api, hb)
}
