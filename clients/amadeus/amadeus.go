// Package amadeus wraps the Amadeus Self-Service hotel APIs behind the
// internal hotel shapes. Every GET funnels through the response cache so
// that equivalent requests inside the TTL window never hit the upstream.
package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rountana/page1/config"
	"github.com/rountana/page1/logger"
	"github.com/rountana/page1/models/hotel_models"
	"github.com/rountana/page1/utils"
)

// Amadeus endpoints used by this service.
const (
	tokenEndpoint        = "/v1/security/oauth2/token"
	hotelsByCityEndpoint = "/v1/reference-data/locations/hotels/by-city"
	hotelOffersEndpoint  = "/v3/shopping/hotel-offers"
)

// offerBatchSize is the Amadeus limit on hotelIds per offers request.
const offerBatchSize = 10

// ResponseCache is the slice of the cache the client needs. Satisfied by
// *cache.Store; tests swap in an in-memory fake.
type ResponseCache interface {
	Get(ctx context.Context, endpoint string, params map[string]string) (json.RawMessage, bool)
	Put(ctx context.Context, endpoint string, params map[string]string, payload json.RawMessage)
}

// Client is the Amadeus API adapter.
type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client
	cache        ResponseCache

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewClient(cfg *config.Config, cache ResponseCache) *Client {
	return &Client{
		clientID:     cfg.AmadeusClientID,
		clientSecret: cfg.AmadeusClientSecret,
		baseURL:      cfg.AmadeusBaseURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		cache:        cache,
	}
}

// token returns a valid OAuth2 access token, refreshing via the client
// credentials flow when the cached one is within 60s of expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	if c.clientID == "" || c.clientSecret == "" {
		return "", fmt.Errorf("amadeus credentials not configured: %w", utils.ErrUpstreamUnavailable)
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %v: %w", err, utils.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request returned %d: %s: %w", resp.StatusCode, body, utils.ErrUpstreamUnavailable)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}

	c.accessToken = result.AccessToken
	// Refresh early so in-flight requests never carry a dead token. Clamp the
	// margin for short-lived tokens so the expiry never lands in the past.
	lifetime := time.Duration(result.ExpiresIn) * time.Second
	margin := time.Minute
	if lifetime <= margin {
		margin = lifetime / 2
	}
	c.tokenExpiry = time.Now().Add(lifetime - margin)
	return c.accessToken, nil
}

// amadeusError is one element of the "errors" array Amadeus puts in bodies.
type amadeusError struct {
	Status int    `json:"status"`
	Code   int    `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// request performs an authenticated GET, serving from the cache when it can
// and storing successful bodies on a miss. Error bodies are surfaced as
// typed failures and never cached.
func (c *Client) request(ctx context.Context, endpoint string, params map[string]string) (json.RawMessage, error) {
	if c.cache != nil {
		if payload, ok := c.cache.Get(ctx, endpoint, params); ok {
			return payload, nil
		}
	}
	logger.InfoLogger.Infof("Cache MISS for endpoint: %s, making API request", endpoint)

	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	for k, v := range params {
		if v != "" {
			query.Set(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("amadeus request failed: %v: %w", err, utils.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read amadeus response: %w", err)
	}

	// Amadeus reports failures inside the body even on some 200s.
	var probe struct {
		Errors []amadeusError `json:"errors"`
	}
	if err := json.Unmarshal(body, &probe); err == nil && len(probe.Errors) > 0 {
		return nil, classifyError(probe.Errors[0])
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("amadeus returned %d: %w", resp.StatusCode, utils.ErrUpstreamUnavailable)
	}

	if c.cache != nil {
		c.cache.Put(ctx, endpoint, params, body)
	}
	return body, nil
}

func classifyError(e amadeusError) error {
	switch {
	case e.Status == http.StatusNotFound:
		return fmt.Errorf("amadeus: %s: %w", e.Detail, utils.ErrNotFound)
	case e.Status >= 400 && e.Status < 500:
		return fmt.Errorf("amadeus: %s: %w", e.Detail, utils.ErrInvalidParams)
	default:
		return fmt.Errorf("amadeus: %s: %w", e.Detail, utils.ErrUpstreamUnavailable)
	}
}

// SearchHotels runs the two-step search: hotel list by city, then offers for
// those hotels in batches. Hotels without offers still come back, just
// without pricing.
func (c *Client) SearchHotels(ctx context.Context, cityCode string, checkIn, checkOut time.Time, adults int) ([]hotel_models.HotelSummary, error) {
	nights := int(checkOut.Sub(checkIn).Hours() / 24)

	listed, err := c.fetchHotelsByCity(ctx, cityCode)
	if err != nil {
		return nil, err
	}
	if len(listed) == 0 {
		return []hotel_models.HotelSummary{}, nil
	}

	ids := make([]string, 0, len(listed))
	for _, h := range listed {
		if h.HotelID != "" {
			ids = append(ids, h.HotelID)
		}
	}

	offers := c.fetchHotelOffers(ctx, ids, checkIn, checkOut, adults)

	hotels := make([]hotel_models.HotelSummary, 0, len(listed))
	for _, entry := range listed {
		if offer, ok := offers[entry.HotelID]; ok {
			hotels = append(hotels, summaryFromOffer(offer, entry, nights))
		} else {
			hotels = append(hotels, summaryFromList(entry))
		}
	}

	logger.InfoLogger.Infof("Returning %d hotels for city %s (%d with offers)", len(hotels), cityCode, len(offers))
	return hotels, nil
}

func (c *Client) fetchHotelsByCity(ctx context.Context, cityCode string) ([]listedHotel, error) {
	params := map[string]string{
		"cityCode":    cityCode,
		"radius":      "5",
		"radiusUnit":  "KM",
		"hotelSource": "ALL",
	}

	body, err := c.request(ctx, hotelsByCityEndpoint, params)
	if err != nil {
		return nil, fmt.Errorf("hotel list failed: %w", err)
	}

	var resp hotelListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse hotel list: %w", err)
	}
	return resp.Data, nil
}

// fetchHotelOffers collects offers keyed by hotel id. A failed batch is
// logged and skipped so one bad id cannot sink the whole search.
func (c *Client) fetchHotelOffers(ctx context.Context, hotelIDs []string, checkIn, checkOut time.Time, adults int) map[string]offeredHotel {
	all := make(map[string]offeredHotel)

	for start := 0; start < len(hotelIDs); start += offerBatchSize {
		end := start + offerBatchSize
		if end > len(hotelIDs) {
			end = len(hotelIDs)
		}

		params := map[string]string{
			"hotelIds":     strings.Join(hotelIDs[start:end], ","),
			"checkInDate":  checkIn.Format("2006-01-02"),
			"checkOutDate": checkOut.Format("2006-01-02"),
			"adults":       fmt.Sprintf("%d", adults),
		}

		body, err := c.request(ctx, hotelOffersEndpoint, params)
		if err != nil {
			logger.WarnLogger.Warnf("Offers batch failed for %d hotels: %v", end-start, err)
			continue
		}

		var resp hotelOffersResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			logger.WarnLogger.Warnf("Failed to parse offers batch: %v", err)
			continue
		}
		for _, item := range resp.Data {
			if item.Hotel.HotelID != "" {
				all[item.Hotel.HotelID] = item
			}
		}
	}
	return all
}

// GetHotelDetails fetches offers for a single hotel and normalizes them into
// the detail shape. Missing dates default to a stay a month out.
func (c *Client) GetHotelDetails(ctx context.Context, hotelID string, checkIn, checkOut time.Time, adults int) (*hotel_models.HotelDetails, error) {
	if checkIn.IsZero() {
		checkIn = time.Now().AddDate(0, 0, 30)
	}
	if checkOut.IsZero() || !checkOut.After(checkIn) {
		checkOut = checkIn.AddDate(0, 0, 1)
	}
	if adults < 1 {
		adults = 1
	}

	params := map[string]string{
		"hotelIds":     hotelID,
		"checkInDate":  checkIn.Format("2006-01-02"),
		"checkOutDate": checkOut.Format("2006-01-02"),
		"adults":       fmt.Sprintf("%d", adults),
	}

	body, err := c.request(ctx, hotelOffersEndpoint, params)
	if err != nil {
		return nil, fmt.Errorf("hotel details failed: %w", err)
	}

	var resp hotelOffersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse hotel details: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("hotel %s: %w", hotelID, utils.ErrNotFound)
	}

	details := detailsFromOffer(resp.Data[0], int(checkOut.Sub(checkIn).Hours()/24))
	return &details, nil
}
