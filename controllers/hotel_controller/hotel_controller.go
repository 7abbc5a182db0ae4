package hotel_controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rountana/page1/clients/amadeus"
	"github.com/rountana/page1/clients/googleplaces"
	"github.com/rountana/page1/logger"
	"github.com/rountana/page1/models/hotel_models"
	"github.com/rountana/page1/utils"
)

// HotelSearcher is the adapter surface the controller needs. Satisfied by
// *amadeus.Client.
type HotelSearcher interface {
	SearchHotels(ctx context.Context, cityCode string, checkIn, checkOut time.Time, adults int) ([]hotel_models.HotelSummary, error)
	GetHotelDetails(ctx context.Context, hotelID string, checkIn, checkOut time.Time, adults int) (*hotel_models.HotelDetails, error)
}

// PlacesLookup is the enrichment surface. Satisfied by *googleplaces.Client.
type PlacesLookup interface {
	Configured() bool
	FindPlaceID(ctx context.Context, hotelName, address string, lat, lng *float64) (string, error)
	GetPlaceDetails(ctx context.Context, placeID string) (*googleplaces.PlaceData, error)
	PhotoURL(photoName string, maxWidth, maxHeight int) string
}

// HotelController serves search, detail and enrichment endpoints.
type HotelController struct {
	Hotels HotelSearcher
	Places PlacesLookup
}

func NewHotelController(hotels HotelSearcher, places PlacesLookup) *HotelController {
	return &HotelController{Hotels: hotels, Places: places}
}

const dateLayout = "2006-01-02"

// SearchHotels handles POST /api/hotels/search.
func (hc *HotelController) SearchHotels(c *gin.Context) {
	var req hotel_models.HotelSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search request: " + err.Error()})
		return
	}

	checkIn, _ := time.Parse(dateLayout, req.CheckIn)
	checkOut, _ := time.Parse(dateLayout, req.CheckOut)
	if !checkOut.After(checkIn) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be after check_in"})
		return
	}
	if checkIn.Before(utils.Today()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in must not be in the past"})
		return
	}

	cityCode := amadeus.CityCode(req.Destination)
	logger.InfoLogger.Infof("Searching hotels in %s (%s to %s, %d travelers)",
		cityCode, req.CheckIn, req.CheckOut, req.Travelers)

	hotels, err := hc.Hotels.SearchHotels(c.Request.Context(), cityCode, checkIn, checkOut, req.Travelers)
	if err != nil {
		logger.ErrorLogger.Errorf("Hotel search failed for %s: %v", cityCode, err)
		c.JSON(utils.StatusForError(err), gin.H{"error": "error searching hotels"})
		return
	}

	c.JSON(http.StatusOK, hotel_models.HotelSearchResponse{
		Hotels: hotels,
		Total:  len(hotels),
	})
}

// GetHotelDetails handles GET /api/hotels/:hotel_id. Dates and party size
// are optional query parameters; missing dates default inside the adapter.
func (hc *HotelController) GetHotelDetails(c *gin.Context) {
	hotelID := c.Param("hotel_id")

	var checkIn, checkOut time.Time
	if v := c.Query("check_in"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check_in date"})
			return
		}
		checkIn = t
	}
	if v := c.Query("check_out"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check_out date"})
			return
		}
		checkOut = t
	}
	adults, _ := strconv.Atoi(c.DefaultQuery("adults", "1"))

	details, err := hc.Hotels.GetHotelDetails(c.Request.Context(), hotelID, checkIn, checkOut, adults)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "hotel not found"})
			return
		}
		logger.ErrorLogger.Errorf("Hotel details failed for %s: %v", hotelID, err)
		c.JSON(utils.StatusForError(err), gin.H{"error": "error getting hotel details"})
		return
	}

	c.JSON(http.StatusOK, details)
}

type placePhoto struct {
	URL          string `json:"url"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Attributions any    `json:"attributions,omitempty"`
}

// GooglePlaces handles POST /api/hotels/google-places. The endpoint is
// best-effort: a missing key or an upstream failure degrades to a skip
// response so the detail page falls back to placeholders.
func (hc *HotelController) GooglePlaces(c *gin.Context) {
	var req hotel_models.PlacesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	if hc.Places == nil || !hc.Places.Configured() {
		utils.EnrichmentDone("google-places", utils.EnrichmentSkipped, "api key not configured")
		c.JSON(http.StatusOK, gin.H{"status": "skipped", "message": "Google Places is not configured"})
		return
	}

	ctx := c.Request.Context()
	placeID, err := hc.Places.FindPlaceID(ctx, req.HotelName, req.Address, req.Latitude, req.Longitude)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Hotel not found in Google Places"})
			return
		}
		utils.EnrichmentDone("google-places", utils.EnrichmentError, err.Error())
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "Google Places lookup unavailable"})
		return
	}

	place, err := hc.Places.GetPlaceDetails(ctx, placeID)
	if err != nil {
		utils.EnrichmentDone("google-places", utils.EnrichmentError, err.Error())
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "Google Places lookup unavailable"})
		return
	}
	utils.EnrichmentDone("google-places", utils.EnrichmentOK, "")

	photos := make([]placePhoto, 0, len(place.PhotoRefs))
	for _, ref := range place.PhotoRefs {
		url := hc.Places.PhotoURL(ref.Name, 800, 600)
		if url == "" {
			continue
		}
		photos = append(photos, placePhoto{
			URL:          url,
			Width:        ref.WidthPx,
			Height:       ref.HeightPx,
			Attributions: ref.Attributions,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"place_id":             place.PlaceID,
		"reviews":              place.Reviews,
		"photos":               photos,
		"google_rating":        place.Rating,
		"google_ratings_total": place.UserRatingCount,
	})
}
