package usecase

import (
	"context"
	"fmt"
	"time"

	"wealth_backend/internal/feature/securities/domain"
	"wealth_backend/internal/feature/securities/domain/entity"
)

// PriceRangeResult は価格読み取りの結果と、その完全性の評価です。
type PriceRangeResult struct {
	Security     entity.Security
	Prices       []entity.Price
	Interval     string
	Start        time.Time
	End          time.Time
	Expected     int                 // 取引カレンダーから見積もった期待データ点数
	Actual       int                 // 実際に取得できたデータ点数
	Completeness domain.Completeness // complete / partial / sparse / empty
	Widened      bool                // バッファ拡張による再検索を行ったか
}

// PricesUsecase は永続化済みの価格履歴を読み取り、
// 完全性の評価を付けて返すユースケースです。
type PricesUsecase struct {
	securities SecurityRepository
	prices     PriceRepository
	policy     domain.Policy
}

// NewPricesUsecase はPricesUsecaseの新しいインスタンスを生成します。
func NewPricesUsecase(securities SecurityRepository, prices PriceRepository, policy domain.Policy) *PricesUsecase {
	return &PricesUsecase{securities: securities, prices: prices, policy: policy}
}

var validIntervals = map[string]bool{
	entity.IntervalMinute: true,
	entity.IntervalHourly: true,
	entity.IntervalDaily:  true,
	entity.IntervalWeekly: true,
}

// GetPrices は指定範囲の価格をタイムスタンプ昇順で返します。
//
// 範囲未指定時はポリシーのデフォルトを適用します。要求範囲に
// データが1件もない場合は、範囲を前後に広げて再検索し、
// 「範囲のすぐ外にある」のか「全く存在しない」のかを区別します。
func (u *PricesUsecase) GetPrices(ctx context.Context, ref domain.SecurityRef, start, end *time.Time, interval string) (PriceRangeResult, error) {
	if interval == "" {
		interval = entity.IntervalDaily
	}
	if !validIntervals[interval] {
		return PriceRangeResult{}, fmt.Errorf("unsupported interval %q", interval)
	}

	sec, err := u.securities.Resolve(ctx, ref)
	if err != nil {
		return PriceRangeResult{}, err
	}

	rangeStart, rangeEnd := u.policy.DateRange(start, end, interval)

	rows, err := u.prices.FindRange(ctx, sec.ID, interval, rangeStart, rangeEnd)
	if err != nil {
		return PriceRangeResult{}, fmt.Errorf("find prices for %s: %w", sec.Symbol, err)
	}

	result := PriceRangeResult{
		Security: sec,
		Prices:   rows,
		Interval: interval,
		Start:    rangeStart,
		End:      rangeEnd,
		Actual:   len(rows),
		Expected: u.policy.ExpectedSamples(rangeStart, rangeEnd, interval),
	}

	if len(rows) > 0 {
		result.Completeness = u.policy.Classify(result.Actual, result.Expected, true)
		return result, nil
	}

	// 要求範囲が空でも、週末や休場日でデータが境界のすぐ外に
	// あるだけかもしれません。広げた範囲で有無だけ確認します。
	wideStart, wideEnd := u.policy.Widen(rangeStart, rangeEnd)
	nearby, err := u.prices.CountRange(ctx, sec.ID, interval, wideStart, wideEnd)
	if err != nil {
		return PriceRangeResult{}, fmt.Errorf("probe widened range for %s: %w", sec.Symbol, err)
	}

	result.Widened = true
	if nearby > 0 {
		result.Completeness = u.policy.Classify(0, result.Expected, false)
	} else {
		result.Completeness = domain.CompletenessEmpty
	}
	return result, nil
}
