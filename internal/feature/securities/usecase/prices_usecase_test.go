package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"wealth_backend/internal/feature/securities/domain"
	"wealth_backend/internal/feature/securities/domain/entity"
)

func dailyPrices(securityID uint, start time.Time, n int) []entity.Price {
	ps := make([]entity.Price, n)
	for i := range ps {
		ps[i] = entity.Price{
			SecurityID: securityID,
			Timestamp:  start.AddDate(0, 0, i),
			Open:       100, High: 110, Low: 90, Close: 105,
			Volume:   1000,
			Interval: entity.IntervalDaily,
		}
	}
	return ps
}

func TestPricesUsecase_GetPrices(t *testing.T) {
	ctx := context.Background()
	sec := entity.Security{ID: 5, Symbol: "AAPL"}
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	// 14 days of daily data: expected = 14 * 5 / 7 = 10 samples

	testCases := []struct {
		name             string
		rowsInRange      int
		nearbyCount      int64
		wantCompleteness domain.Completeness
		wantWidened      bool
	}{
		{
			name:             "complete: enough samples in range",
			rowsInRange:      10,
			wantCompleteness: domain.CompletenessComplete,
		},
		{
			name:             "partial: some samples missing",
			rowsInRange:      5,
			wantCompleteness: domain.CompletenessPartial,
		},
		{
			name:             "sparse: almost nothing in range",
			rowsInRange:      1,
			wantCompleteness: domain.CompletenessSparse,
		},
		{
			name:             "partial: empty range but data just outside",
			rowsInRange:      0,
			nearbyCount:      3,
			wantCompleteness: domain.CompletenessPartial,
			wantWidened:      true,
		},
		{
			name:             "empty: no data anywhere near the range",
			rowsInRange:      0,
			nearbyCount:      0,
			wantCompleteness: domain.CompletenessEmpty,
			wantWidened:      true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			secRepo := &mockSecurityRepository{
				ResolveFunc: func(ctx context.Context, ref domain.SecurityRef) (entity.Security, error) {
					return sec, nil
				},
			}
			var countedStart, countedEnd time.Time
			priceRepo := &mockPriceRepository{
				FindRangeFunc: func(ctx context.Context, securityID uint, interval string, s, e time.Time) ([]entity.Price, error) {
					if securityID != sec.ID {
						t.Errorf("FindRange securityID = %d, want %d", securityID, sec.ID)
					}
					return dailyPrices(sec.ID, s, tc.rowsInRange), nil
				},
				CountRangeFunc: func(ctx context.Context, securityID uint, interval string, s, e time.Time) (int64, error) {
					countedStart, countedEnd = s, e
					return tc.nearbyCount, nil
				},
			}

			uc := NewPricesUsecase(secRepo, priceRepo, domain.DefaultPolicy())
			res, err := uc.GetPrices(ctx, domain.ByID(sec.ID), &start, &end, entity.IntervalDaily)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if res.Completeness != tc.wantCompleteness {
				t.Errorf("completeness = %s, want %s", res.Completeness, tc.wantCompleteness)
			}
			if res.Widened != tc.wantWidened {
				t.Errorf("widened = %v, want %v", res.Widened, tc.wantWidened)
			}
			if res.Actual != tc.rowsInRange {
				t.Errorf("actual = %d, want %d", res.Actual, tc.rowsInRange)
			}
			if res.Expected != 10 {
				t.Errorf("expected samples = %d, want 10", res.Expected)
			}

			if tc.wantWidened {
				// The probe must cover the requested range plus the search buffer.
				if !countedStart.Equal(start.AddDate(0, 0, -7)) || !countedEnd.Equal(end.AddDate(0, 0, 7)) {
					t.Errorf("widened probe = [%v, %v], want [%v, %v]",
						countedStart, countedEnd, start.AddDate(0, 0, -7), end.AddDate(0, 0, 7))
				}
			}
		})
	}
}

func TestPricesUsecase_GetPrices_DefaultsAndValidation(t *testing.T) {
	ctx := context.Background()
	secRepo := &mockSecurityRepository{
		ResolveFunc: func(ctx context.Context, ref domain.SecurityRef) (entity.Security, error) {
			return entity.Security{ID: 1, Symbol: "AAPL"}, nil
		},
	}

	t.Run("empty interval falls back to daily", func(t *testing.T) {
		var gotInterval string
		priceRepo := &mockPriceRepository{
			FindRangeFunc: func(ctx context.Context, securityID uint, interval string, s, e time.Time) ([]entity.Price, error) {
				gotInterval = interval
				return dailyPrices(1, s, 25), nil
			},
		}
		uc := NewPricesUsecase(secRepo, priceRepo, domain.DefaultPolicy())
		res, err := uc.GetPrices(ctx, domain.BySymbol("AAPL"), nil, nil, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotInterval != entity.IntervalDaily {
			t.Errorf("interval = %q, want %q", gotInterval, entity.IntervalDaily)
		}
		// Default daily range is 30 days back from now.
		if span := res.End.Sub(res.Start); span != 30*24*time.Hour {
			t.Errorf("default span = %v, want 720h", span)
		}
	})

	t.Run("unsupported interval is rejected", func(t *testing.T) {
		uc := NewPricesUsecase(secRepo, &mockPriceRepository{}, domain.DefaultPolicy())
		if _, err := uc.GetPrices(ctx, domain.BySymbol("AAPL"), nil, nil, "5m"); err == nil {
			t.Fatal("expected an error for an unsupported interval")
		}
	})

	t.Run("unknown security propagates not found", func(t *testing.T) {
		missing := &mockSecurityRepository{
			ResolveFunc: func(ctx context.Context, ref domain.SecurityRef) (entity.Security, error) {
				return entity.Security{}, domain.ErrSecurityNotFound
			},
		}
		uc := NewPricesUsecase(missing, &mockPriceRepository{}, domain.DefaultPolicy())
		_, err := uc.GetPrices(ctx, domain.BySymbol("NOPE"), nil, nil, entity.IntervalDaily)
		if !errors.Is(err, domain.ErrSecurityNotFound) {
			t.Fatalf("expected ErrSecurityNotFound, got %v", err)
		}
	})
}
