package hotel_models

// Transient hotel shapes produced by normalizing upstream responses. Nothing
// here is persisted; results are recomputed per request behind the response
// cache.

type HotelImage struct {
	URL      string `json:"url"`
	Category string `json:"category,omitempty"`
}

type HotelPrice struct {
	Daily    *float64 `json:"daily"`
	Total    *float64 `json:"total"`
	Currency string   `json:"currency"`
}

type HotelSummary struct {
	HotelID   string       `json:"hotel_id"`
	Name      string       `json:"name"`
	Images    []HotelImage `json:"images"`
	Price     HotelPrice   `json:"price"`
	Address   string       `json:"address,omitempty"`
	Rating    *float64     `json:"rating"`
	Latitude  *float64     `json:"latitude,omitempty"`
	Longitude *float64     `json:"longitude,omitempty"`
}

type RoomFacility struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type RoomType struct {
	Type         string         `json:"type"`
	Description  string         `json:"description,omitempty"`
	Facilities   []RoomFacility `json:"facilities"`
	Price        HotelPrice     `json:"price"`
	MaxOccupancy int            `json:"max_occupancy"`
}

type HotelDetails struct {
	HotelID     string       `json:"hotel_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Address     string       `json:"address,omitempty"`
	Images      []HotelImage `json:"images"`
	Rooms       []RoomType   `json:"rooms"`
	Facilities  []string     `json:"facilities"`
	Rating      *float64     `json:"rating"`
	Price       HotelPrice   `json:"price"`
}

// HotelSearchRequest is the body of POST /api/hotels/search. Dates travel as
// YYYY-MM-DD strings and are validated by binding before being parsed.
type HotelSearchRequest struct {
	Destination string `json:"destination" binding:"required"`
	CheckIn     string `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut    string `json:"check_out" binding:"required,datetime=2006-01-02"`
	Travelers   int    `json:"travelers" binding:"required,gt=0"`
}

type HotelSearchResponse struct {
	Hotels []HotelSummary `json:"hotels"`
	Total  int            `json:"total"`
}

// PlacesRequest is the body of POST /api/hotels/google-places.
type PlacesRequest struct {
	HotelName string   `json:"hotel_name" binding:"required"`
	Address   string   `json:"address" binding:"required"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}
