package cache

import (
	"time"
)

// TimeUntilNextMarketOpen returns the duration until the next 9:30 AM
// in New York. Daily series cached until then stay fresh for the whole
// session gap without an extra invalidation pass.
func TimeUntilNextMarketOpen() time.Duration {
	loc, _ := time.LoadLocation("America/New_York")
	now := time.Now().In(loc)

	open := time.Date(now.Year(), now.Month(), now.Day(), 9, 30, 0, 0, loc)

	// Past today's open, roll over to tomorrow.
	if now.After(open) {
		open = open.Add(24 * time.Hour)
	}

	return open.Sub(now)
}
