// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"

	"wealth_backend/internal/feature/securities/usecase"
	"wealth_backend/internal/platform/cache"
	"wealth_backend/internal/platform/externalapi/yahoo"
	infrahttp "wealth_backend/internal/platform/http"
)

// NewYahooMarket creates a fully configured YahooMarket with HTTP client.
func NewYahooMarket() *yahoo.YahooMarket {
	cfg := yahoo.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return yahoo.NewYahooMarket(cfg, httpClient)
}

// NewMarket creates the market data source used by the sync engine.
// If Redis is available, provider responses are cached to spare the
// rate limited external API. Otherwise the provider is used directly.
func NewMarket(rdb *redis.Client) usecase.MarketRepository {
	market := NewYahooMarket()
	if rdb == nil {
		return market
	}
	// 日足系列は翌営業時間の開始まで変わらないため、そこまでキャッシュする
	dailyTTL := cache.TimeUntilNextMarketOpen()
	return cache.NewCachingMarketRepository(rdb, market, "market", 0, dailyTTL, 0)
}
