package googleplaces

import (
	"os"
	"testing"

	"github.com/rountana/page1/config"
	"github.com/rountana/page1/logger"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.InitLoggers()
	os.Exit(m.Run())
}

func result(id, name string) searchResult {
	var r searchResult
	r.ID = id
	r.DisplayName.Text = name
	return r
}

func TestBestMatch(t *testing.T) {
	results := []searchResult{
		result("places/A", "Hotel Lutece Annex"),
		result("places/B", "Hotel Lutece"),
		result("places/C", "Cafe Lutece"),
	}

	best := bestMatch(results, "Hotel Lutece")
	assert.Equal(t, "places/B", best.ID, "exact name match wins over substring match")
}

func TestBestMatchSubstring(t *testing.T) {
	results := []searchResult{
		result("places/A", "Boulangerie du Marais"),
		result("places/B", "The Grand Hotel Lutece Paris"),
	}

	best := bestMatch(results, "Grand Hotel Lutece")
	assert.Equal(t, "places/B", best.ID)
}

func TestBestMatchFallsBackToFirst(t *testing.T) {
	results := []searchResult{
		result("places/A", "Something Else Entirely"),
		result("places/B", "Also Unrelated"),
	}

	// Nothing scores above the threshold, so the first result stands.
	best := bestMatch(results, "Hotel Lutece")
	assert.Equal(t, "places/A", best.ID)
}

func TestTrimPlaceID(t *testing.T) {
	assert.Equal(t, "ChIJ123", trimPlaceID("places/ChIJ123"))
	assert.Equal(t, "ChIJ123", trimPlaceID("ChIJ123"))
}

func TestPhotoURL(t *testing.T) {
	c := NewClient(&config.Config{GooglePlacesAPIKey: "key"}, nil)

	url := c.PhotoURL("places/ChIJ123/photos/P1", 800, 600)
	assert.Equal(t, "https://places.googleapis.com/v1/places/ChIJ123/photos/P1/media?maxWidthPx=800&maxHeightPx=600&key=key", url)

	// A bare photo id cannot be turned into a media URL.
	assert.Empty(t, c.PhotoURL("P1", 800, 600))

	unconfigured := NewClient(&config.Config{}, nil)
	assert.Empty(t, unconfigured.PhotoURL("places/ChIJ123/photos/P1", 800, 600))
	assert.False(t, unconfigured.Configured())
}
