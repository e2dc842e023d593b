package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carhive/config"
	"carhive/cron"
	"carhive/database"
	bookingRepoPkg "carhive/database/repository/booking"
	carRepoPkg "carhive/database/repository/car"
	locationRepoPkg "carhive/database/repository/location"
	notificationRepoPkg "carhive/database/repository/notification"
	userRepoPkg "carhive/database/repository/user"
	"carhive/handlers"
	"carhive/middleware"
	"carhive/routes"
	"carhive/services/booking"
	"carhive/services/car"
	"carhive/services/notification"
	"carhive/services/user"
	"carhive/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	carRepo := carRepoPkg.NewMongoCarRepo()
	locationRepo := locationRepoPkg.NewMongoLocationRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	notificationRepo := notificationRepoPkg.NewMongoNotificationRepo()

	// shared infrastructure.
	mailer := utils.NewSMTPMailer()
	pushSender := notification.NewFCMPushSender()
	queue := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer queue.Close()

	// services.
	userService := &user.DefaultUserService{
		Repo: userRepo,
	}
	carService := &car.DefaultCarService{
		Repo: carRepo,
	}
	notificationService := &notification.DefaultNotificationService{
		Repo:   notificationRepo,
		Users:  userRepo,
		Mailer: mailer,
		Push:   pushSender,
		Cache:  utils.GetCacheClient(),
		Queue:  queue,
	}
	bookingService := &booking.DefaultBookingService{
		Repo:     bookingRepo,
		Cars:     carRepo,
		Users:    userRepo,
		Notifier: notificationService,
		Mailer:   mailer,
	}

	// handlers and routes.
	h := &routes.Handlers{
		UserRepo:     userRepo,
		User:         handlers.NewUserHandler(userService),
		Car:          handlers.NewCarHandler(carService),
		Location:     handlers.NewLocationHandler(locationRepo),
		Booking:      handlers.NewBookingHandler(bookingService),
		Notification: handlers.NewNotificationHandler(notificationService),
	}
	routes.RegisterRoutes(router, h)

	// Background worker draining the push retry queue.
	cron.InitPushRetryWorker(pushSender)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
