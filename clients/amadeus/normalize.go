package amadeus

import (
	"strconv"
	"strings"

	"github.com/rountana/page1/models/hotel_models"
)

// Raw Amadeus response shapes, kept to the fields this service reads.

type rawAddress struct {
	Lines       []string `json:"lines"`
	CityName    string   `json:"cityName"`
	CountryCode string   `json:"countryCode"`
}

type hotelListResponse struct {
	Data []listedHotel `json:"data"`
}

type listedHotel struct {
	HotelID string `json:"hotelId"`
	Name    string `json:"name"`
	GeoCode struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"geoCode"`
	Address rawAddress `json:"address"`
}

type hotelOffersResponse struct {
	Data []offeredHotel `json:"data"`
}

type offeredHotel struct {
	Hotel struct {
		HotelID     string `json:"hotelId"`
		Name        string `json:"name"`
		Rating      string `json:"rating"`
		Description struct {
			Text string `json:"text"`
		} `json:"description"`
		Address rawAddress `json:"address"`
		Media   []struct {
			URI      string `json:"uri"`
			Category string `json:"category"`
		} `json:"media"`
		Amenities []struct {
			Description string `json:"description"`
		} `json:"amenities"`
	} `json:"hotel"`
	Available bool       `json:"available"`
	Offers    []rawOffer `json:"offers"`
}

type rawOffer struct {
	Room struct {
		Type        string `json:"type"`
		Description struct {
			Text string `json:"text"`
		} `json:"description"`
		Amenities []struct {
			Description string `json:"description"`
		} `json:"amenities"`
	} `json:"room"`
	Guests struct {
		Adults int `json:"adults"`
	} `json:"guests"`
	Price struct {
		Total    string `json:"total"`
		Currency string `json:"currency"`
	} `json:"price"`
}

// fallbackDailyRate stands in when an offer carries no parsable price.
const fallbackDailyRate = 100.0

func joinAddress(a rawAddress) string {
	parts := make([]string, 0, len(a.Lines)+2)
	for _, line := range a.Lines {
		if line != "" {
			parts = append(parts, line)
		}
	}
	if a.CityName != "" {
		parts = append(parts, a.CityName)
	}
	if a.CountryCode != "" {
		parts = append(parts, a.CountryCode)
	}
	return strings.Join(parts, ", ")
}

// parseStars converts the Amadeus star-rating string ("4") to a number,
// clamped to the 1..5 scale. Empty or junk input yields nil.
func parseStars(s string) *float64 {
	if s == "" {
		return nil
	}
	r, err := strconv.ParseFloat(s, 64)
	if err != nil || r <= 0 {
		return nil
	}
	if r > 5 {
		r = 5
	}
	return &r
}

func parsePrice(s string) (float64, bool) {
	p, err := strconv.ParseFloat(s, 64)
	if err != nil || p <= 0 {
		return 0, false
	}
	return p, true
}

// offerPrice extracts the first offer's price as a daily/total pair,
// falling back to the flat rate when no offer priced out.
func offerPrice(offers []rawOffer, nights int) hotel_models.HotelPrice {
	if nights < 1 {
		nights = 1
	}

	price := hotel_models.HotelPrice{Currency: "USD"}
	for _, offer := range offers {
		total, ok := parsePrice(offer.Price.Total)
		if !ok {
			continue
		}
		daily := total / float64(nights)
		price.Total = &total
		price.Daily = &daily
		if offer.Price.Currency != "" {
			price.Currency = offer.Price.Currency
		}
		return price
	}

	daily := fallbackDailyRate
	total := daily * float64(nights)
	price.Daily = &daily
	price.Total = &total
	return price
}

// summaryFromOffer merges an offers entry with its hotel-list counterpart.
// The list entry supplies coordinates and an address fallback, since the
// offers payload often omits both.
func summaryFromOffer(offer offeredHotel, listed listedHotel, nights int) hotel_models.HotelSummary {
	images := make([]hotel_models.HotelImage, 0, len(offer.Hotel.Media))
	for _, media := range offer.Hotel.Media {
		if media.Category == "EXTERIOR" || media.Category == "ROOM" {
			images = append(images, hotel_models.HotelImage{URL: media.URI, Category: media.Category})
		}
	}

	name := offer.Hotel.Name
	if name == "" {
		name = listed.Name
	}
	address := joinAddress(offer.Hotel.Address)
	if address == "" {
		address = joinAddress(listed.Address)
	}

	summary := hotel_models.HotelSummary{
		HotelID: offer.Hotel.HotelID,
		Name:    name,
		Images:  images,
		Price:   offerPrice(offer.Offers, nights),
		Address: address,
		Rating:  parseStars(offer.Hotel.Rating),
	}
	if listed.GeoCode.Latitude != 0 || listed.GeoCode.Longitude != 0 {
		lat, lng := listed.GeoCode.Latitude, listed.GeoCode.Longitude
		summary.Latitude = &lat
		summary.Longitude = &lng
	}
	return summary
}

// summaryFromList builds the no-offers entry: the hotel exists but we have
// no pricing for the requested stay.
func summaryFromList(listed listedHotel) hotel_models.HotelSummary {
	summary := hotel_models.HotelSummary{
		HotelID: listed.HotelID,
		Name:    listed.Name,
		Images:  []hotel_models.HotelImage{},
		Price:   hotel_models.HotelPrice{Currency: "USD"},
		Address: joinAddress(listed.Address),
	}
	if listed.GeoCode.Latitude != 0 || listed.GeoCode.Longitude != 0 {
		lat, lng := listed.GeoCode.Latitude, listed.GeoCode.Longitude
		summary.Latitude = &lat
		summary.Longitude = &lng
	}
	return summary
}

// detailsFromOffer normalizes a full offers entry into the detail view:
// every media item, one room per offer, and the union of room and hotel
// amenities as the facility list.
func detailsFromOffer(offer offeredHotel, nights int) hotel_models.HotelDetails {
	images := make([]hotel_models.HotelImage, 0, len(offer.Hotel.Media))
	for _, media := range offer.Hotel.Media {
		images = append(images, hotel_models.HotelImage{URL: media.URI, Category: media.Category})
	}

	facilitySet := make(map[string]struct{})
	facilities := make([]string, 0)
	addFacility := func(name string) {
		if name == "" {
			return
		}
		if _, seen := facilitySet[name]; seen {
			return
		}
		facilitySet[name] = struct{}{}
		facilities = append(facilities, name)
	}

	rooms := make([]hotel_models.RoomType, 0, len(offer.Offers))
	for _, o := range offer.Offers {
		roomType := o.Room.Type
		if roomType == "" {
			roomType = "Standard Room"
		}

		roomFacilities := make([]hotel_models.RoomFacility, 0, len(o.Room.Amenities))
		for _, amenity := range o.Room.Amenities {
			addFacility(amenity.Description)
			roomFacilities = append(roomFacilities, hotel_models.RoomFacility{
				Name:        amenity.Description,
				Description: amenity.Description,
			})
		}

		price := hotel_models.HotelPrice{Currency: "USD"}
		if total, ok := parsePrice(o.Price.Total); ok {
			price.Total = &total
			if o.Price.Currency != "" {
				price.Currency = o.Price.Currency
			}
		}

		occupancy := o.Guests.Adults
		if occupancy == 0 {
			occupancy = 2
		}

		rooms = append(rooms, hotel_models.RoomType{
			Type:         roomType,
			Description:  o.Room.Description.Text,
			Facilities:   roomFacilities,
			Price:        price,
			MaxOccupancy: occupancy,
		})
	}

	for _, amenity := range offer.Hotel.Amenities {
		addFacility(amenity.Description)
	}

	return hotel_models.HotelDetails{
		HotelID:     offer.Hotel.HotelID,
		Name:        offer.Hotel.Name,
		Description: offer.Hotel.Description.Text,
		Address:     joinAddress(offer.Hotel.Address),
		Images:      images,
		Rooms:       rooms,
		Facilities:  facilities,
		Rating:      parseStars(offer.Hotel.Rating),
		Price:       offerPrice(offer.Offers, nights),
	}
}
