package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rountana/page1/controllers/hotel_controller"
	middleware "github.com/rountana/page1/middlewares"
)

func RegisterHotelRoutes(router *gin.Engine, hc *hotel_controller.HotelController) {
	hotels := router.Group("/api/hotels")
	{
		hotels.POST("/search",
			middleware.NewRateLimiter("20-1m", "hotel-search"),
			hc.SearchHotels)

		hotels.POST("/google-places",
			middleware.NewRateLimiter("30-1m", "google-places"),
			hc.GooglePlaces)

		hotels.GET("/:hotel_id",
			middleware.NewRateLimiter("30-1m", "hotel-details"),
			hc.GetHotelDetails)
	}
}
