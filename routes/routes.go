package routes

import (
	"net/http"
	"time"

	userRepo "carhive/database/repository/user"
	"carhive/handlers"
	"carhive/middleware"
	"carhive/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups everything route registration needs.
type Handlers struct {
	UserRepo userRepo.UserRepository

	User         *handlers.UserHandler
	Car          *handlers.CarHandler
	Location     *handlers.LocationHandler
	Booking      *handlers.BookingHandler
	Notification *handlers.NotificationHandler
}

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/users")
	{
		api.POST("/register", h.User.RegisterUser)
		api.POST("/login", h.User.AuthenticateUser)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware(h.UserRepo))
		api.GET("/:id", h.User.GetUser)
		api.PUT("/fcm-token", h.User.UpdateFCMToken)
	}
}

// RegisterCarRoutes registers fleet management endpoints. Writes are limited
// to suppliers and admins.
func RegisterCarRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/cars")
	{
		api.Use(middleware.JWTAuthMiddleware(h.UserRepo))
		api.GET("/:id", h.Car.GetCar)
		api.GET("/supplier/:supplierId", h.Car.GetSupplierCars)

		protected := api.Group("")
		protected.Use(middleware.RequireUserType(models.UserTypeSupplier, models.UserTypeAdmin))
		protected.POST("", h.Car.CreateCar)
		protected.PUT("/:id", h.Car.UpdateCar)
		protected.DELETE("/:id", h.Car.DeleteCar)
	}
}

// RegisterLocationRoutes registers location reference-data endpoints. Writes
// are admin-only.
func RegisterLocationRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/locations")
	{
		api.GET("", h.Location.ListLocations)
		api.GET("/:id", h.Location.GetLocation)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(h.UserRepo))
		protected.Use(middleware.RequireUserType(models.UserTypeAdmin))
		protected.POST("", h.Location.CreateLocation)
		protected.PUT("/:id", h.Location.UpdateLocation)
		protected.DELETE("/:id", h.Location.DeleteLocation)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware(h.UserRepo))
		api.POST("", h.Booking.CreateBooking)
		api.POST("/search/:page/:size", h.Booking.SearchBookings)
		api.POST("/:id/cancel-request", h.Booking.RequestCancellation)

		protected := api.Group("")
		protected.Use(middleware.RequireUserType(models.UserTypeSupplier, models.UserTypeAdmin))
		protected.PUT("/:id/status", h.Booking.UpdateBookingStatus)
		protected.PUT("/status", h.Booking.BulkUpdateBookingStatus)
		protected.DELETE("", h.Booking.DeleteBookings)
	}
}

// RegisterNotificationRoutes registers inbox endpoints. Every route acts on
// the authenticated caller's own notifications.
func RegisterNotificationRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.JWTAuthMiddleware(h.UserRepo))
		api.GET("", h.Notification.ListNotifications)
		api.GET("/unread-count", h.Notification.UnreadCount)
		api.PUT("/read", h.Notification.MarkAsRead)
		api.PUT("/unread", h.Notification.MarkAsUnread)
		api.DELETE("", h.Notification.DeleteNotifications)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Carhive"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterUserRoutes(r, h)
	RegisterCarRoutes(r, h)
	RegisterLocationRoutes(r, h)
	RegisterBookingRoutes(r, h)
	RegisterNotificationRoutes(r, h)
}
