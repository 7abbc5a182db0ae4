// Package googleplaces looks up hotel reviews and photos through the Google
// Places API (New). Everything here is best-effort enrichment for the detail
// page; a missing key or a failed lookup never blocks a request.
package googleplaces

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rountana/page1/config"
	"github.com/rountana/page1/logger"
	"github.com/rountana/page1/utils"
)

const defaultBaseURL = "https://places.googleapis.com/v1"

// searchEndpoint is the cache namespace for text searches; the real call is
// a POST so the parameters are folded into the fingerprint explicitly.
const (
	searchEndpoint  = "/v1/places:searchText"
	detailsEndpoint = "/v1/places"
)

// ResponseCache matches the slice of the response cache this client uses.
type ResponseCache interface {
	Get(ctx context.Context, endpoint string, params map[string]string) (json.RawMessage, bool)
	Put(ctx context.Context, endpoint string, params map[string]string, payload json.RawMessage)
}

type Review struct {
	AuthorName   string  `json:"author_name"`
	Rating       float64 `json:"rating"`
	Text         string  `json:"text"`
	Time         string  `json:"time"`
	RelativeTime string  `json:"relative_time_description"`
}

type PhotoRef struct {
	Name         string          `json:"name"`
	WidthPx      int             `json:"widthPx"`
	HeightPx     int             `json:"heightPx"`
	Attributions json.RawMessage `json:"authorAttributions,omitempty"`
}

// PlaceData is the normalized enrichment payload for one hotel.
type PlaceData struct {
	PlaceID         string     `json:"place_id"`
	Name            string     `json:"name"`
	Address         string     `json:"address"`
	Rating          float64    `json:"rating"`
	UserRatingCount int        `json:"user_ratings_total"`
	Reviews         []Review   `json:"reviews"`
	PhotoRefs       []PhotoRef `json:"photo_references"`
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      ResponseCache
}

func NewClient(cfg *config.Config, cache ResponseCache) *Client {
	return &Client{
		apiKey:     cfg.GooglePlacesAPIKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
	}
}

// Configured reports whether an API key is present. Without one every
// lookup is a skip, not an error.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type searchResult struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string `json:"formattedAddress"`
}

// FindPlaceID resolves a hotel name + address to a Place ID using text
// search with a lodging filter and, when coordinates are known, a 5km
// location bias.
func (c *Client) FindPlaceID(ctx context.Context, hotelName, address string, lat, lng *float64) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("google places api key not configured: %w", utils.ErrUpstreamUnavailable)
	}

	body := map[string]any{
		"textQuery":      hotelName + " " + address,
		"maxResultCount": 5,
		"includedType":   "lodging",
	}
	cacheParams := map[string]string{"textQuery": hotelName + " " + address}
	if lat != nil && lng != nil {
		body["locationBias"] = map[string]any{
			"circle": map[string]any{
				"center": map[string]float64{"latitude": *lat, "longitude": *lng},
				"radius": 5000.0,
			},
		}
		cacheParams["lat"] = fmt.Sprintf("%.6f", *lat)
		cacheParams["lng"] = fmt.Sprintf("%.6f", *lng)
	}

	var raw json.RawMessage
	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, searchEndpoint, cacheParams); ok {
			raw = cached
		}
	}

	if raw == nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("failed to build search body: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places:searchText", bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("failed to build search request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Goog-Api-Key", c.apiKey)
		req.Header.Set("X-Goog-FieldMask", "places.id,places.displayName,places.formattedAddress")

		raw, err = c.do(req)
		if err != nil {
			return "", err
		}
		if c.cache != nil {
			c.cache.Put(ctx, searchEndpoint, cacheParams, raw)
		}
	}

	var resp struct {
		Places []searchResult `json:"places"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("failed to parse search response: %w", err)
	}
	if len(resp.Places) == 0 {
		return "", fmt.Errorf("no place found for %q: %w", hotelName, utils.ErrNotFound)
	}

	best := bestMatch(resp.Places, hotelName)
	return trimPlaceID(best.ID), nil
}

// bestMatch scores results by name similarity: exact match wins, then
// substring containment, then shared words. Below the threshold the first
// result is as good a guess as any.
func bestMatch(results []searchResult, hotelName string) searchResult {
	want := strings.ToLower(hotelName)

	bestScore := -1
	best := results[0]
	for _, r := range results {
		got := strings.ToLower(r.DisplayName.Text)

		var score int
		switch {
		case got == want:
			score = 100
		case got != "" && (strings.Contains(got, want) || strings.Contains(want, got)):
			score = 80
		default:
			wordSet := make(map[string]struct{})
			for _, w := range strings.Fields(want) {
				wordSet[w] = struct{}{}
			}
			for _, w := range strings.Fields(got) {
				if _, ok := wordSet[w]; ok {
					score += 10
				}
			}
		}

		if score > bestScore {
			bestScore = score
			best = r
		}
	}

	if bestScore < 50 {
		return results[0]
	}
	return best
}

// trimPlaceID strips the "places/" resource prefix when present.
func trimPlaceID(id string) string {
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		return id[idx+1:]
	}
	return id
}

// detailsFieldMask lists the Place Details fields the detail page renders.
const detailsFieldMask = "id,displayName,formattedAddress,rating,userRatingCount,reviews,photos"

type rawPlaceDetails struct {
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string  `json:"formattedAddress"`
	Rating           float64 `json:"rating"`
	UserRatingCount  int     `json:"userRatingCount"`
	Reviews          []struct {
		Rating            float64 `json:"rating"`
		AuthorAttribution struct {
			DisplayName string `json:"displayName"`
		} `json:"authorAttribution"`
		Text struct {
			Text string `json:"text"`
		} `json:"text"`
		PublishTime                    string `json:"publishTime"`
		RelativePublishTimeDescription string `json:"relativePublishTimeDescription"`
	} `json:"reviews"`
	Photos []struct {
		Name               string          `json:"name"`
		WidthPx            int             `json:"widthPx"`
		HeightPx           int             `json:"heightPx"`
		AuthorAttributions json.RawMessage `json:"authorAttributions"`
	} `json:"photos"`
}

// GetPlaceDetails fetches reviews, photos and ratings for a place. Capped
// at five reviews and ten photos, matching what the detail page renders.
func (c *Client) GetPlaceDetails(ctx context.Context, placeID string) (*PlaceData, error) {
	if !c.Configured() || placeID == "" {
		return nil, fmt.Errorf("google places api key not configured: %w", utils.ErrUpstreamUnavailable)
	}

	placeID = trimPlaceID(placeID)
	cacheParams := map[string]string{"place_id": placeID, "field_mask": detailsFieldMask}

	var raw json.RawMessage
	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, detailsEndpoint, cacheParams); ok {
			raw = cached
		}
	}

	if raw == nil {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/places/"+placeID, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build details request: %w", err)
		}
		req.Header.Set("X-Goog-Api-Key", c.apiKey)
		req.Header.Set("X-Goog-FieldMask", detailsFieldMask)

		raw, err = c.do(req)
		if err != nil {
			return nil, err
		}
		if c.cache != nil {
			c.cache.Put(ctx, detailsEndpoint, cacheParams, raw)
		}
	}

	var details rawPlaceDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, fmt.Errorf("failed to parse place details: %w", err)
	}

	data := &PlaceData{
		PlaceID:         placeID,
		Name:            details.DisplayName.Text,
		Address:         details.FormattedAddress,
		Rating:          details.Rating,
		UserRatingCount: details.UserRatingCount,
		Reviews:         []Review{},
		PhotoRefs:       []PhotoRef{},
	}

	for i, r := range details.Reviews {
		if i == 5 {
			break
		}
		data.Reviews = append(data.Reviews, Review{
			AuthorName:   r.AuthorAttribution.DisplayName,
			Rating:       r.Rating,
			Text:         r.Text.Text,
			Time:         r.PublishTime,
			RelativeTime: r.RelativePublishTimeDescription,
		})
	}

	for i, p := range details.Photos {
		if i == 10 {
			break
		}
		data.PhotoRefs = append(data.PhotoRefs, PhotoRef{
			Name:         p.Name,
			WidthPx:      p.WidthPx,
			HeightPx:     p.HeightPx,
			Attributions: p.AuthorAttributions,
		})
	}

	return data, nil
}

// PhotoURL builds the media URL for a photo resource name. The media
// endpoint answers with a redirect to the actual image, so the browser can
// use this URL directly.
func (c *Client) PhotoURL(photoName string, maxWidth, maxHeight int) string {
	if !c.Configured() || !strings.HasPrefix(photoName, "places/") {
		return ""
	}
	return fmt.Sprintf("%s/%s/media?maxWidthPx=%d&maxHeightPx=%d&key=%s",
		c.baseURL, photoName, maxWidth, maxHeight, c.apiKey)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google places request failed: %v: %w", err, utils.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read google places response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("google places: %w", utils.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		logger.WarnLogger.Warnf("google places returned %d: %s", resp.StatusCode, body.String())
		return nil, fmt.Errorf("google places returned %d: %w", resp.StatusCode, utils.ErrUpstreamUnavailable)
	}
	return body.Bytes(), nil
}
