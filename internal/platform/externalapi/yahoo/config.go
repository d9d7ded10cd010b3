// Package yahoo はYahoo Finance市場データAPIのクライアントを提供します。
package yahoo

import (
	"os"
	"time"
)

// DefaultBaseURL は環境変数未設定時に使用するAPIのベースURLです。
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Config はYahoo Finance APIクライアントの設定を保持します。
type Config struct {
	BaseURL   string        // APIのベースURL
	UserAgent string        // リクエストに付与するUser-Agentヘッダ
	Timeout   time.Duration // HTTPリクエストタイムアウト
}

// LoadConfig は環境変数からYahoo Financeの設定を読み込みます。
func LoadConfig() Config {
	base := os.Getenv("MARKET_DATA_BASE_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	return Config{
		BaseURL:   base,
		UserAgent: "Mozilla/5.0 (compatible; wealth-backend/1.0)",
		Timeout:   10 * time.Second,
	}
}
