// Package dto はYahoo Finance APIレスポンスのデータ転送オブジェクトを定義します。
package dto

// ChartResponse はv8 chartエンドポイントからのJSONレスポンスを表します。
// 値配列の要素は欠損時にnullとなるためポインタで受け取ります。
type ChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol   string `json:"symbol"`
				Currency string `json:"currency"`
				Timezone string `json:"timezone"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *APIError `json:"error"`
	} `json:"chart"`
}

// QuoteSummaryResponse はv10 quoteSummaryエンドポイントからのJSONレスポンスを表します。
type QuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				ShortName    *string   `json:"shortName"`
				LongName     *string   `json:"longName"`
				ExchangeName *string   `json:"exchangeName"`
				Currency     *string   `json:"currency"`
				QuoteType    *string   `json:"quoteType"`
				MarketCap    *RawValue `json:"marketCap"`
			} `json:"price"`
			AssetProfile struct {
				Sector   *string `json:"sector"`
				Industry *string `json:"industry"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *APIError `json:"error"`
	} `json:"quoteSummary"`
}

// RawValue は数値を {"raw": 123, "fmt": "123"} 形式で包むYahooの表現です。
type RawValue struct {
	Raw int64 `json:"raw"`
}

// APIError はYahoo APIが返すエラーオブジェクトです。
type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
