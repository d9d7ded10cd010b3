// Package api はHTTPトランスポート共通のリクエスト/レスポンス型を定義します。
package api

// ErrorResponse はエラー時の共通レスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// SecurityResponse は証券メタデータのレスポンスです。
type SecurityResponse struct {
	ID           uint    `json:"id"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Exchange     string  `json:"exchange,omitempty"`
	Currency     string  `json:"currency,omitempty"`
	SecurityType string  `json:"security_type,omitempty"`
	Sector       string  `json:"sector,omitempty"`
	Industry     string  `json:"industry,omitempty"`
	MarketCap    int64   `json:"market_cap,omitempty"`
	IsSyncing    bool    `json:"is_syncing"`
	LastSyncedAt *string `json:"last_synced_at,omitempty"`
}

// SyncResponse は同期操作の結果レスポンスです。
type SyncResponse struct {
	Security     SecurityResponse `json:"security"`
	PricesSynced int64            `json:"prices_synced"`
	Daily        int64            `json:"daily"`
	Intraday     int64            `json:"intraday"`
	Warnings     []string         `json:"warnings,omitempty"`
}

// PriceResponse は個別の価格データ点のレスポンスです。
type PriceResponse struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// PriceRangeResponse は価格範囲照会のレスポンスです。
// データの完全性ラベルと期待/実測のデータ点数を含みます。
type PriceRangeResponse struct {
	Symbol       string          `json:"symbol"`
	Interval     string          `json:"interval"`
	Start        string          `json:"start"`
	End          string          `json:"end"`
	Completeness string          `json:"completeness"`
	Expected     int             `json:"expected_samples"`
	Actual       int             `json:"actual_samples"`
	Widened      bool            `json:"widened_search"`
	Prices       []PriceResponse `json:"prices"`
}

// CurrencyResponse は通貨のレスポンスです。
type CurrencyResponse struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

// RateResponse は為替レートのレスポンスです。
// レートは精度を保つため10進文字列で返します。
type RateResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
	Rate string `json:"rate"`
	Date string `json:"date"`
}

// RateSyncResponse は為替レート同期の結果レスポンスです。
type RateSyncResponse struct {
	Base   string `json:"base"`
	Synced int    `json:"synced"`
	Failed int    `json:"failed"`
}
