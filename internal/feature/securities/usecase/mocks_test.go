package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"wealth_backend/internal/feature/securities/domain"
	"wealth_backend/internal/feature/securities/domain/entity"
)

var ErrDB = errors.New("database error")

// mockMarketRepository is a mock implementation of the MarketRepository interface.
// Counters are mutex-protected because the sync usecase fetches series concurrently.
type mockMarketRepository struct {
	FetchMetadataFunc func(ctx context.Context, symbol string) (entity.SecurityMeta, error)
	FetchSeriesFunc   func(ctx context.Context, symbol, period, interval string) (entity.Series, error)

	mu                 sync.Mutex
	FetchMetadataCalls int
	FetchSeriesCalls   int
}

func (m *mockMarketRepository) FetchMetadata(ctx context.Context, symbol string) (entity.SecurityMeta, error) {
	m.mu.Lock()
	m.FetchMetadataCalls++
	m.mu.Unlock()
	if m.FetchMetadataFunc != nil {
		return m.FetchMetadataFunc(ctx, symbol)
	}
	return entity.SecurityMeta{}, errors.New("FetchMetadataFunc is not implemented")
}

func (m *mockMarketRepository) FetchSeries(ctx context.Context, symbol, period, interval string) (entity.Series, error) {
	m.mu.Lock()
	m.FetchSeriesCalls++
	m.mu.Unlock()
	if m.FetchSeriesFunc != nil {
		return m.FetchSeriesFunc(ctx, symbol, period, interval)
	}
	return entity.Series{}, errors.New("FetchSeriesFunc is not implemented")
}

func (m *mockMarketRepository) calls() (metadata, series int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FetchMetadataCalls, m.FetchSeriesCalls
}

// mockSecurityRepository is a mock implementation of the SecurityRepository interface.
type mockSecurityRepository struct {
	GetBySymbolFunc  func(ctx context.Context, symbol string) (entity.Security, error)
	ResolveFunc      func(ctx context.Context, ref domain.SecurityRef) (entity.Security, error)
	CreateFunc       func(ctx context.Context, s *entity.Security) error
	UpdateFunc       func(ctx context.Context, s entity.Security) error
	FinishSyncFunc   func(ctx context.Context, id uint, at time.Time) error
	ReleaseStaleFunc func(ctx context.Context, olderThan time.Time) (int64, error)
	ListSymbolsFunc  func(ctx context.Context) ([]string, error)

	mu              sync.Mutex
	FinishSyncCalls int
}

func (m *mockSecurityRepository) GetBySymbol(ctx context.Context, symbol string) (entity.Security, error) {
	if m.GetBySymbolFunc != nil {
		return m.GetBySymbolFunc(ctx, symbol)
	}
	return entity.Security{}, domain.ErrSecurityNotFound
}

func (m *mockSecurityRepository) Resolve(ctx context.Context, ref domain.SecurityRef) (entity.Security, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, ref)
	}
	return entity.Security{}, domain.ErrSecurityNotFound
}

func (m *mockSecurityRepository) Create(ctx context.Context, s *entity.Security) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	s.ID = 1
	return nil
}

func (m *mockSecurityRepository) Update(ctx context.Context, s entity.Security) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, s)
	}
	return nil
}

func (m *mockSecurityRepository) FinishSync(ctx context.Context, id uint, at time.Time) error {
	m.mu.Lock()
	m.FinishSyncCalls++
	m.mu.Unlock()
	if m.FinishSyncFunc != nil {
		return m.FinishSyncFunc(ctx, id, at)
	}
	return nil
}

func (m *mockSecurityRepository) ReleaseStale(ctx context.Context, olderThan time.Time) (int64, error) {
	if m.ReleaseStaleFunc != nil {
		return m.ReleaseStaleFunc(ctx, olderThan)
	}
	return 0, nil
}

func (m *mockSecurityRepository) ListSymbols(ctx context.Context) ([]string, error) {
	if m.ListSymbolsFunc != nil {
		return m.ListSymbolsFunc(ctx)
	}
	return nil, nil
}

// mockPriceRepository is a mock implementation of the PriceRepository interface.
type mockPriceRepository struct {
	InsertBatchFunc      func(ctx context.Context, prices []entity.Price) (int64, error)
	FindRangeFunc        func(ctx context.Context, securityID uint, interval string, start, end time.Time) ([]entity.Price, error)
	CountRangeFunc       func(ctx context.Context, securityID uint, interval string, start, end time.Time) (int64, error)
	DeleteBySecurityFunc func(ctx context.Context, securityID uint, interval string) error

	mu               sync.Mutex
	InsertBatchCalls int
}

func (m *mockPriceRepository) InsertBatch(ctx context.Context, prices []entity.Price) (int64, error) {
	m.mu.Lock()
	m.InsertBatchCalls++
	m.mu.Unlock()
	if m.InsertBatchFunc != nil {
		return m.InsertBatchFunc(ctx, prices)
	}
	return int64(len(prices)), nil
}

func (m *mockPriceRepository) FindRange(ctx context.Context, securityID uint, interval string, start, end time.Time) ([]entity.Price, error) {
	if m.FindRangeFunc != nil {
		return m.FindRangeFunc(ctx, securityID, interval, start, end)
	}
	return nil, nil
}

func (m *mockPriceRepository) CountRange(ctx context.Context, securityID uint, interval string, start, end time.Time) (int64, error) {
	if m.CountRangeFunc != nil {
		return m.CountRangeFunc(ctx, securityID, interval, start, end)
	}
	return 0, nil
}

func (m *mockPriceRepository) DeleteBySecurity(ctx context.Context, securityID uint, interval string) error {
	if m.DeleteBySecurityFunc != nil {
		return m.DeleteBySecurityFunc(ctx, securityID, interval)
	}
	return nil
}

// mockRateLimiter is a mock implementation of the RateLimiterInterface.
type mockRateLimiter struct {
	mu                sync.Mutex
	WaitIfNeededCalls int
}

func (m *mockRateLimiter) WaitIfNeeded() {
	m.mu.Lock()
	m.WaitIfNeededCalls++
	m.mu.Unlock()
	// For testing purposes, return immediately without waiting
}
