package entity

import "time"

// Supported price intervals. These labels are stored verbatim with each
// price row and participate in the (security, timestamp, interval)
// uniqueness constraint.
const (
	IntervalMinute = "1m"
	IntervalHourly = "1h"
	IntervalDaily  = "1d"
	IntervalWeekly = "1wk"
)

// Price represents a single OHLCV record for a security at a specific
// instant and sampling granularity. Rows are immutable once written.
type Price struct {
	SecurityID uint      // Owning security
	Timestamp  time.Time // Start of the sampling period, always UTC
	Open       float64   // Opening price
	High       float64   // Highest price during the period
	Low        float64   // Lowest price during the period
	Close      float64   // Closing price
	Volume     int64     // Trading volume, never negative
	Interval   string    // One of the Interval* constants
}
