package amadeus

import "strings"

// cityCodes maps common destination names to IATA city codes. Unknown
// destinations fall through to the upper-cased three-letter prefix, which
// covers people typing codes directly.
var cityCodes = map[string]string{
	"new york":      "NYC",
	"nyc":           "NYC",
	"new york city": "NYC",
	"paris":         "PAR",
	"london":        "LON",
	"tokyo":         "TYO",
	"los angeles":   "LAX",
	"lax":           "LAX",
	"san francisco": "SFO",
	"sfo":           "SFO",
	"chicago":       "CHI",
	"miami":         "MIA",
	"dubai":         "DXB",
	"singapore":     "SIN",
	"bangkok":       "BKK",
	"sydney":        "SYD",
	"rome":          "ROM",
	"barcelona":     "BCN",
	"amsterdam":     "AMS",
	"berlin":        "BER",
	"madrid":        "MAD",
}

// CityCode converts a free-text destination into an IATA city code.
func CityCode(destination string) string {
	dest := strings.ToLower(strings.TrimSpace(destination))
	if code, ok := cityCodes[dest]; ok {
		return code
	}
	upper := strings.ToUpper(dest)
	if len(upper) > 3 {
		upper = upper[:3]
	}
	return upper
}
