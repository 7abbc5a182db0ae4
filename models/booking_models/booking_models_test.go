package booking_models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

var guest = GuestInfo{
	FirstName: "Ada",
	LastName:  "Lovelace",
	Email:     "ada@example.com",
}

func TestNewBookingDefaults(t *testing.T) {
	b, err := NewBooking("HLLON101", "The Savoy", "DELUXE", date("2026-10-01"), date("2026-10-04"), 2, guest, 0, "")
	require.NoError(t, err)

	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, "USD", b.Currency)
	assert.Empty(t, b.TransactionID)
	// 3 nights x 2 travelers x 150.
	assert.InDelta(t, 900.0, b.TotalPrice, 0.01)

	id, err := uuid.Parse(b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestNewBookingKeepsExplicitPrice(t *testing.T) {
	b, err := NewBooking("H1", "Hotel", "", date("2026-10-01"), date("2026-10-02"), 1, guest, 215.50, "EUR")
	require.NoError(t, err)

	assert.InDelta(t, 215.50, b.TotalPrice, 0.01)
	assert.Equal(t, "EUR", b.Currency)
}

func TestNights(t *testing.T) {
	b := &Booking{CheckIn: date("2026-10-01"), CheckOut: date("2026-10-04")}
	assert.Equal(t, 3, b.Nights())

	// Degenerate ranges still bill at least one night.
	b = &Booking{CheckIn: date("2026-10-01"), CheckOut: date("2026-10-01")}
	assert.Equal(t, 1, b.Nights())
}

func TestBookingMarshalsDatesAsStrings(t *testing.T) {
	b, err := NewBooking("H1", "Hotel", "", date("2026-10-01"), date("2026-10-04"), 1, guest, 0, "")
	require.NoError(t, err)

	doc, err := json.Marshal(b)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(doc, &got))
	assert.Equal(t, "2026-10-01", got["check_in"])
	assert.Equal(t, "2026-10-04", got["check_out"])
	assert.Equal(t, b.ID.String(), got["booking_id"])
}
