package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	curadapters "wealth_backend/internal/feature/currencies/adapters"
	curusecase "wealth_backend/internal/feature/currencies/usecase"
	secadapters "wealth_backend/internal/feature/securities/adapters"
	"wealth_backend/internal/feature/securities/domain"
	"wealth_backend/internal/feature/securities/usecase"
	"wealth_backend/internal/shared/ratelimiter"
)

// 外部プロバイダの呼び出し上限。無償利用の目安に合わせています。
const (
	providerCallsPerMinute = 60
	batchWorkers           = 4
)

// NewSyncEngine creates the security sync engine with all its dependencies.
func NewSyncEngine(db *gorm.DB, rdb *redis.Client) *usecase.SyncUsecase {
	return usecase.NewSyncUsecase(
		NewMarket(rdb),
		secadapters.NewSecurityRepository(db),
		secadapters.NewPriceRepository(db),
	)
}

// NewPricesUsecase creates the price read path with the default policy.
func NewPricesUsecase(db *gorm.DB) *usecase.PricesUsecase {
	return usecase.NewPricesUsecase(
		secadapters.NewSecurityRepository(db),
		secadapters.NewPriceRepository(db),
		domain.DefaultPolicy(),
	)
}

// NewBatchEngine creates the batch sync engine with a shared rate limiter.
func NewBatchEngine(db *gorm.DB, rdb *redis.Client) *usecase.BatchUsecase {
	limiter := ratelimiter.NewRateLimiter(providerCallsPerMinute, time.Minute)
	return usecase.NewBatchUsecase(NewSyncEngine(db, rdb), limiter, batchWorkers)
}

// NewRateSyncEngine creates the currency rate sync engine.
// FX quotes bypass the market cache: rates are persisted on every sync
// and read back from MySQL, so caching the provider response buys nothing.
func NewRateSyncEngine(db *gorm.DB) *curusecase.RateSyncUsecase {
	return curusecase.NewRateSyncUsecase(
		NewYahooMarket(),
		curadapters.NewCurrencyRepository(db),
		curadapters.NewRateRepository(db),
	)
}

// NewRatesUsecase creates the currency rate read path.
func NewRatesUsecase(db *gorm.DB) *curusecase.RatesUsecase {
	return curusecase.NewRatesUsecase(
		curadapters.NewCurrencyRepository(db),
		curadapters.NewRateRepository(db),
	)
}
