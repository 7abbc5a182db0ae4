package hotel_controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rountana/page1/clients/googleplaces"
	"github.com/rountana/page1/logger"
	"github.com/rountana/page1/models/hotel_models"
	"github.com/rountana/page1/utils"
)

func TestMain(m *testing.M) {
	logger.InitLoggers()
	gin.SetMode(gin.TestMode)
	m.Run()
}

type fakeSearcher struct {
	hotels     []hotel_models.HotelSummary
	details    *hotel_models.HotelDetails
	err        error
	gotCity    string
	gotAdults  int
	gotHotelID string
}

func (f *fakeSearcher) SearchHotels(_ context.Context, cityCode string, _, _ time.Time, adults int) ([]hotel_models.HotelSummary, error) {
	f.gotCity = cityCode
	f.gotAdults = adults
	return f.hotels, f.err
}

func (f *fakeSearcher) GetHotelDetails(_ context.Context, hotelID string, _, _ time.Time, adults int) (*hotel_models.HotelDetails, error) {
	f.gotHotelID = hotelID
	f.gotAdults = adults
	if f.err != nil {
		return nil, f.err
	}
	return f.details, nil
}

type fakePlaces struct {
	configured bool
	placeID    string
	findErr    error
	place      *googleplaces.PlaceData
}

func (f *fakePlaces) Configured() bool { return f.configured }

func (f *fakePlaces) FindPlaceID(context.Context, string, string, *float64, *float64) (string, error) {
	return f.placeID, f.findErr
}

func (f *fakePlaces) GetPlaceDetails(context.Context, string) (*googleplaces.PlaceData, error) {
	return f.place, nil
}

func (f *fakePlaces) PhotoURL(name string, w, h int) string {
	return fmt.Sprintf("https://example.com/%s?w=%d&h=%d", name, w, h)
}

func newTestRouter(searcher HotelSearcher, places PlacesLookup) *gin.Engine {
	hc := NewHotelController(searcher, places)
	r := gin.New()
	r.POST("/api/hotels/search", hc.SearchHotels)
	r.POST("/api/hotels/google-places", hc.GooglePlaces)
	r.GET("/api/hotels/:hotel_id", hc.GetHotelDetails)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func searchBody() map[string]any {
	return map[string]any{
		"destination": "London",
		"check_in":    "2026-10-01",
		"check_out":   "2026-10-04",
		"travelers":   2,
	}
}

func TestSearchHotels(t *testing.T) {
	searcher := &fakeSearcher{hotels: []hotel_models.HotelSummary{
		{HotelID: "A", Name: "Alpha"},
		{HotelID: "B", Name: "Beta"},
	}}
	r := newTestRouter(searcher, nil)

	w := doJSON(t, r, http.MethodPost, "/api/hotels/search", searchBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got hotel_models.HotelSearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Total)
	assert.Len(t, got.Hotels, 2)
	assert.Equal(t, "LON", searcher.gotCity)
	assert.Equal(t, 2, searcher.gotAdults)
}

func TestSearchHotelsValidation(t *testing.T) {
	r := newTestRouter(&fakeSearcher{}, nil)

	body := searchBody()
	body["check_out"] = "2026-09-30" // before check_in
	w := doJSON(t, r, http.MethodPost, "/api/hotels/search", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = searchBody()
	body["check_in"] = "01/10/2026"
	w = doJSON(t, r, http.MethodPost, "/api/hotels/search", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = searchBody()
	body["check_in"] = "2020-01-01"
	body["check_out"] = "2020-01-05"
	w = doJSON(t, r, http.MethodPost, "/api/hotels/search", body)
	assert.Equal(t, http.StatusBadRequest, w.Code, "past check_in must be rejected")

	body = searchBody()
	body["travelers"] = 0
	w = doJSON(t, r, http.MethodPost, "/api/hotels/search", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = searchBody()
	delete(body, "destination")
	w = doJSON(t, r, http.MethodPost, "/api/hotels/search", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchHotelsUpstreamErrors(t *testing.T) {
	r := newTestRouter(&fakeSearcher{err: utils.ErrUpstreamUnavailable}, nil)
	w := doJSON(t, r, http.MethodPost, "/api/hotels/search", searchBody())
	assert.Equal(t, http.StatusBadGateway, w.Code)

	r = newTestRouter(&fakeSearcher{err: utils.ErrInvalidParams}, nil)
	w = doJSON(t, r, http.MethodPost, "/api/hotels/search", searchBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetHotelDetails(t *testing.T) {
	searcher := &fakeSearcher{details: &hotel_models.HotelDetails{HotelID: "HLLON101", Name: "The Savoy"}}
	r := newTestRouter(searcher, nil)

	w := doJSON(t, r, http.MethodGet, "/api/hotels/HLLON101?check_in=2026-10-01&check_out=2026-10-04&adults=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HLLON101", searcher.gotHotelID)
	assert.Equal(t, 3, searcher.gotAdults)

	var got hotel_models.HotelDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "The Savoy", got.Name)
}

func TestGetHotelDetailsErrors(t *testing.T) {
	r := newTestRouter(&fakeSearcher{err: utils.ErrNotFound}, nil)
	w := doJSON(t, r, http.MethodGet, "/api/hotels/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	r = newTestRouter(&fakeSearcher{}, nil)
	w = doJSON(t, r, http.MethodGet, "/api/hotels/X?check_in=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func placesBody() map[string]any {
	return map[string]any{
		"hotel_name": "The Savoy",
		"address":    "Strand, London",
	}
}

func TestGooglePlacesSkippedWhenUnconfigured(t *testing.T) {
	r := newTestRouter(&fakeSearcher{}, &fakePlaces{configured: false})

	w := doJSON(t, r, http.MethodPost, "/api/hotels/google-places", placesBody())
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "skipped", got["status"])
}

func TestGooglePlacesNotFound(t *testing.T) {
	r := newTestRouter(&fakeSearcher{}, &fakePlaces{configured: true, findErr: utils.ErrNotFound})

	w := doJSON(t, r, http.MethodPost, "/api/hotels/google-places", placesBody())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGooglePlacesDegradesOnError(t *testing.T) {
	r := newTestRouter(&fakeSearcher{}, &fakePlaces{configured: true, findErr: utils.ErrUpstreamUnavailable})

	w := doJSON(t, r, http.MethodPost, "/api/hotels/google-places", placesBody())
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "error", got["status"])
}

func TestGooglePlacesSuccess(t *testing.T) {
	place := &googleplaces.PlaceData{
		PlaceID:         "places/abc123",
		Rating:          4.6,
		UserRatingCount: 1234,
		Reviews:         []googleplaces.Review{{AuthorName: "A", Rating: 5, Text: "great"}},
		PhotoRefs:       []googleplaces.PhotoRef{{Name: "places/abc123/photos/p1", WidthPx: 1600, HeightPx: 1200}},
	}
	r := newTestRouter(&fakeSearcher{}, &fakePlaces{configured: true, placeID: "places/abc123", place: place})

	w := doJSON(t, r, http.MethodPost, "/api/hotels/google-places", placesBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got struct {
		PlaceID string  `json:"place_id"`
		Rating  float64 `json:"google_rating"`
		Total   int     `json:"google_ratings_total"`
		Photos  []struct {
			URL    string `json:"url"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
		} `json:"photos"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "places/abc123", got.PlaceID)
	assert.Equal(t, 4.6, got.Rating)
	assert.Equal(t, 1234, got.Total)
	require.Len(t, got.Photos, 1)
	assert.Contains(t, got.Photos[0].URL, "w=800")
	assert.Equal(t, 1600, got.Photos[0].Width)
}
