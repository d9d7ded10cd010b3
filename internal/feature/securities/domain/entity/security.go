// Package entity defines the domain models for the securities feature.
package entity

import "time"

// Security represents a tradable instrument tracked by the system.
// The ticker symbol is the natural key and is always stored uppercase.
type Security struct {
	ID           uint       // Opaque identifier assigned by the store
	Symbol       string     // Ticker symbol, unique, case-normalized upper (e.g., "AAPL")
	Name         string     // Display name (e.g., "Apple Inc.")
	Exchange     string     // Listing exchange (e.g., "NASDAQ")
	Currency     string     // Trading currency code (e.g., "USD")
	SecurityType string     // Instrument type (e.g., "EQUITY", "ETF")
	Sector       string     // Business sector
	Industry     string     // Industry classification
	MarketCap    int64      // Market capitalization, 0 when unknown
	IsSyncing    bool       // True only while a sync is actively running
	SyncingSince *time.Time // When the current sync acquired the guard, nil when idle
	LastSyncedAt *time.Time // Last successful sync completion (UTC), nil if never synced
}

// ApplyMeta は外部プロバイダから取得したメタデータのうち、
// 存在するフィールドのみを上書きします。
func (s *Security) ApplyMeta(m SecurityMeta) {
	if m.Name != nil {
		s.Name = *m.Name
	}
	if m.Exchange != nil {
		s.Exchange = *m.Exchange
	}
	if m.Currency != nil {
		s.Currency = *m.Currency
	}
	if m.SecurityType != nil {
		s.SecurityType = *m.SecurityType
	}
	if m.Sector != nil {
		s.Sector = *m.Sector
	}
	if m.Industry != nil {
		s.Industry = *m.Industry
	}
	if m.MarketCap != nil {
		s.MarketCap = *m.MarketCap
	}
}

// SecurityMeta holds provider-supplied metadata for a symbol.
// Any field may be absent upstream, so all fields are optional.
type SecurityMeta struct {
	Name         *string
	Exchange     *string
	Currency     *string
	SecurityType *string
	Sector       *string
	Industry     *string
	MarketCap    *int64
}
