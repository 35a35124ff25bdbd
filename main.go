package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staybook/config"
	"staybook/cron"
	"staybook/database"
	bookingRepo "staybook/database/repository/booking"
	roomRepo "staybook/database/repository/room"
	"staybook/handlers"
	"staybook/middleware"
	"staybook/routes"
	"staybook/services/booking"
	"staybook/services/lock"
	"staybook/services/payment"
	"staybook/services/room"
	"staybook/services/tasks"
	"staybook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync() //nolint:errcheck

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	var (
		bookings    bookingRepo.BookingRepository
		rooms       roomRepo.RoomRepository
		locker      lock.RoomLocker
		enqueuer    tasks.Enqueuer
		taskClient  *asynq.Client
		worker      *asynq.Server
		mongoClient *mongo.Client
		redisPings  []*redis.Client
	)

	if config.UsesMemoryStore() {
		logger.Warn("Using in-memory store, data is lost on restart")
		bookings = bookingRepo.NewMemoryBookingRepo()
		rooms = roomRepo.NewMemoryRoomRepo()
		locker = lock.NewLocalRoomLocker(config.AppConfig.RoomLockWait)
	} else {
		database.InitDB()
		mongoClient = database.MongoClient

		mongoBookings := bookingRepo.NewMongoBookingRepo(database.DB(), config.AppConfig.StoreTimeout)
		mongoRooms := roomRepo.NewMongoRoomRepo(database.DB(), config.AppConfig.StoreTimeout)
		if err := mongoBookings.EnsureIndexes(); err != nil {
			logger.Fatal("Failed to create booking indexes", zap.Error(err))
		}
		if err := mongoRooms.EnsureIndexes(); err != nil {
			logger.Fatal("Failed to create room indexes", zap.Error(err))
		}
		bookings, rooms = mongoBookings, mongoRooms

		utils.InitLockCache()
		lockClient := utils.GetLockClient()
		redisPings = append(redisPings, lockClient)
		locker = lock.NewRedisRoomLocker(lockClient, config.AppConfig.RoomLockTTL, config.AppConfig.RoomLockWait, logger)

		taskClient = asynq.NewClient(cron.RedisOpt())
		enqueuer = taskClient
		worker = cron.InitBookingWorker(logger)
	}

	var payments payment.CheckoutProvider
	if config.AppConfig.StripeKey != "" {
		payments = payment.NewStripeCheckout(config.AppConfig.StripeKey, config.AppConfig.StripeWebhookSecret, logger)
	} else {
		logger.Warn("STRIPE_KEY not set, using simulated checkout")
		payments = payment.NewSimulatedCheckout(logger)
	}

	go utils.StartHealthMonitor(rootCtx, redisPings, mongoClient)

	bookingService := booking.NewDefaultBookingService(
		bookings,
		rooms,
		locker,
		payments,
		enqueuer,
		booking.CheckoutOptions{
			FrontendURL:    config.AppConfig.FrontendURL,
			Currency:       config.AppConfig.Currency,
			ServiceFeeRate: config.AppConfig.ServiceFeeRate,
		},
		logger,
	)
	roomService := room.NewDefaultRoomService(rooms, logger)

	bookingHandler := handlers.NewBookingHandler(bookingService)
	paymentHandler := handlers.NewPaymentHandler(bookingService)
	roomHandler := handlers.NewRoomHandler(roomService)

	handlerBundle := &handlers.HandlerBundle{
		// Booking endpoints.
		CreateBooking:    bookingHandler.CreateBooking,
		GetBooking:       bookingHandler.GetBooking,
		UpdateBooking:    bookingHandler.UpdateBooking,
		CancelBooking:    bookingHandler.CancelBooking,
		MyBookings:       bookingHandler.MyBookings,
		OwnerBookings:    bookingHandler.OwnerBookings,
		RoomAvailability: bookingHandler.RoomAvailability,

		// Payment endpoints.
		CreateCheckoutSession: paymentHandler.CreateCheckoutSession,
		PaymentSuccess:        paymentHandler.PaymentSuccess,
		PaymentCancel:         paymentHandler.PaymentCancel,
		StripeWebhook:         paymentHandler.StripeWebhook,

		// Room endpoints.
		ListRooms:  roomHandler.ListRooms,
		GetRoom:    roomHandler.GetRoom,
		MyRooms:    roomHandler.MyRooms,
		CreateRoom: roomHandler.CreateRoom,
		UpdateRoom: roomHandler.UpdateRoom,

		Health: handlers.Health,
	}

	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	var origins []string
	if config.IsProduction() && config.AppConfig.FrontendURL != "" {
		origins = []string{config.AppConfig.FrontendURL}
	}
	routes.RegisterRoutes(router, handlerBundle, origins)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("store", config.AppConfig.StoreDriver))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Server is shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	stopBackground()
	if worker != nil {
		worker.Shutdown()
	}
	if taskClient != nil {
		if err := taskClient.Close(); err != nil {
			logger.Warn("Failed to close task client", zap.Error(err))
		}
	}
	for _, c := range redisPings {
		_ = c.Close()
	}
	if mongoClient != nil {
		if err := database.Close(ctx); err != nil {
			logger.Warn("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}

	logger.Info("Server stopped gracefully")
}
