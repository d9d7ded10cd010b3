package entity

import "time"

// SeriesRow is one raw row of an OHLCV series as returned by the market
// data provider. Fields the provider omitted are nil; rows with any nil
// field are dropped during parsing, never partially stored.
type SeriesRow struct {
	Time   time.Time
	Open   *float64
	High   *float64
	Low    *float64
	Close  *float64
	Volume *int64
}

// Series is a raw, untyped price series for one symbol as fetched from
// the provider. It carries no security identity; parsing attaches one.
type Series struct {
	Symbol   string
	Interval string
	Rows     []SeriesRow
}
