package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rountana/page1/config"
	"github.com/rountana/page1/controllers/booking_controller"
	middleware "github.com/rountana/page1/middlewares"
	"github.com/rountana/page1/middlewares/auth"
)

func RegisterBookingRoutes(router *gin.Engine, bc *booking_controller.BookingController, cfg *config.Config) {
	bookings := router.Group("/api/bookings")
	{
		bookings.POST("",
			middleware.NewRateLimiter("10-1m", "create-booking"),
			bc.CreateBooking)

		bookings.GET("/:booking_id",
			middleware.NewRateLimiter("30-1m", "get-booking"),
			bc.GetBooking)

		bookings.POST("/:booking_id/pay",
			middleware.NewRateLimiter("10-1m", "pay-booking"),
			bc.PayBooking)
	}

	admin := router.Group("/api/admin")
	admin.Use(auth.AdminMiddleware(cfg))
	{
		admin.GET("/bookings",
			middleware.NewRateLimiter("10-1m", "admin-bookings"),
			bc.ListBookings)
	}
}
