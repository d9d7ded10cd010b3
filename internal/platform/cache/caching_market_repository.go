// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"wealth_backend/internal/feature/securities/domain/entity"
	"wealth_backend/internal/feature/securities/usecase"
)

// CachingMarketRepository decorates a MarketRepository with Redis caching.
// The external provider is both slow and rate limited, so repeated fetches
// for the same symbol are served from cache. Errors are never cached.
type CachingMarketRepository struct {
	inner       usecase.MarketRepository
	rdb         *redis.Client
	namespace   string
	metadataTTL time.Duration
	dailyTTL    time.Duration
	intradayTTL time.Duration
}

// NewCachingMarketRepository decorates a MarketRepository with Redis caching.
// Zero TTLs fall back to defaults: 6h for metadata, 24h for daily series,
// 15m for intraday series. If namespace is empty, it uses "market".
func NewCachingMarketRepository(rdb *redis.Client, inner usecase.MarketRepository, namespace string, metadataTTL, dailyTTL, intradayTTL time.Duration) *CachingMarketRepository {
	if metadataTTL <= 0 {
		metadataTTL = 6 * time.Hour
	}
	if dailyTTL <= 0 {
		dailyTTL = 24 * time.Hour
	}
	if intradayTTL <= 0 {
		intradayTTL = 15 * time.Minute
	}
	if namespace == "" {
		namespace = "market"
	}
	return &CachingMarketRepository{
		inner:       inner,
		rdb:         rdb,
		namespace:   namespace,
		metadataTTL: metadataTTL,
		dailyTTL:    dailyTTL,
		intradayTTL: intradayTTL,
	}
}

var _ usecase.MarketRepository = (*CachingMarketRepository)(nil)

// FetchMetadata retrieves symbol metadata, checking cache first then falling
// back to the provider.
func (c *CachingMarketRepository) FetchMetadata(ctx context.Context, symbol string) (entity.SecurityMeta, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FetchMetadata(ctx, symbol)
	}

	key := fmt.Sprintf("%s:meta:%s", c.namespace, safe(symbol))

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.SecurityMeta
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.FetchMetadata(ctx, symbol)
	if err != nil {
		return entity.SecurityMeta{}, err
	}

	// Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.metadataTTL).Err()
	}
	return out, nil
}

// FetchSeries retrieves a price series, checking cache first then falling
// back to the provider. Intraday series expire much faster than daily ones.
func (c *CachingMarketRepository) FetchSeries(ctx context.Context, symbol, period, interval string) (entity.Series, error) {
	if c.rdb == nil {
		return c.inner.FetchSeries(ctx, symbol, period, interval)
	}

	key := fmt.Sprintf("%s:series:%s:%s:%s", c.namespace, safe(symbol), safe(period), safe(interval))

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.Series
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.FetchSeries(ctx, symbol, period, interval)
	if err != nil {
		return entity.Series{}, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.seriesTTL(interval)).Err()
	}
	return out, nil
}

func (c *CachingMarketRepository) seriesTTL(interval string) time.Duration {
	switch interval {
	case entity.IntervalMinute, entity.IntervalHourly:
		return c.intradayTTL
	default:
		return c.dailyTTL
	}
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
