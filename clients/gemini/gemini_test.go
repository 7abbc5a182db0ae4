package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHotelFilterFenced(t *testing.T) {
	reply := "These two are closest to the park.\n```json\n{\"hotel_ids\": [\"HLPAR001\", \"HLPAR002\"]}\n```\nLet me know if you need more."

	text, filter, ok := ParseHotelFilter(reply)
	require.True(t, ok)
	assert.Equal(t, []string{"HLPAR001", "HLPAR002"}, filter.HotelIDs)
	assert.Contains(t, text, "These two are closest to the park.")
	assert.NotContains(t, text, "hotel_ids")
}

func TestParseHotelFilterBare(t *testing.T) {
	reply := `Matches: {"hotel_ids": ["HLPAR003"]}`

	text, filter, ok := ParseHotelFilter(reply)
	require.True(t, ok)
	assert.Equal(t, []string{"HLPAR003"}, filter.HotelIDs)
	assert.Equal(t, "Matches:", text)
}

func TestParseHotelFilterEmptyList(t *testing.T) {
	_, filter, ok := ParseHotelFilter("```json\n{\"hotel_ids\": []}\n```")
	require.True(t, ok, "an explicit empty filter is still a filter")
	assert.Empty(t, filter.HotelIDs)
}

func TestParseHotelFilterAbsent(t *testing.T) {
	for _, reply := range []string{
		"Just a plain answer about Paris hotels.",
		`{"something_else": true}`,
		"```json\nnot json at all\n```",
	} {
		text, filter, ok := ParseHotelFilter(reply)
		assert.False(t, ok, "reply %q should not parse", reply)
		assert.Nil(t, filter)
		assert.Equal(t, reply, text, "reply must come back untouched")
	}
}
