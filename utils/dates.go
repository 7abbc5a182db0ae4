package utils

import "time"

// Today is the current UTC date at midnight, comparable against parsed
// YYYY-MM-DD request dates.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
