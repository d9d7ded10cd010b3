// Package usecase は為替レート同期と参照のビジネスロジックを実装します。
package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"wealth_backend/internal/feature/currencies/domain/entity"
	secentity "wealth_backend/internal/feature/securities/domain/entity"
)

// プロバイダへ照会する主要通貨。基軸通貨との組でペアシンボルを構成します。
var majorCurrencies = []string{
	"USD", "EUR", "GBP", "JPY", "CHF", "CAD", "AUD", "NZD",
	"CNY", "HKD", "SGD", "SEK", "NOK", "INR", "MXN", "BRL",
}

// 指定日の前後に建値を探す日数。週末や祝日で当日の建値が
// 存在しないことがあるためです。
const rateSearchBufferDays = 7

// FxRepository は外部の為替レートプロバイダを抽象化します。
type FxRepository interface {
	// FetchFxSeries は "USDEUR=X" 形式のペアシンボルの日足時系列を取得します。
	FetchFxSeries(ctx context.Context, pair string, start, end time.Time) (secentity.Series, error)
}

// CurrencyRepository は通貨マスタの永続化レイヤーを抽象化します。
type CurrencyRepository interface {
	GetByCode(ctx context.Context, code string) (entity.Currency, error)
	ListActive(ctx context.Context) ([]entity.Currency, error)
}

// RateRepository は為替レートの永続化レイヤーを抽象化します。
type RateRepository interface {
	// UpsertBatch は単一トランザクションでレートを一括保存します。
	// 既存の (from, to, date) は上書きします。
	UpsertBatch(ctx context.Context, rates []entity.CurrencyRate) error
	GetRate(ctx context.Context, from, to string, date time.Time) (entity.CurrencyRate, error)
}

// RateSyncUsecase は基軸通貨に対する主要通貨の為替レートを取得し、
// 逆方向のレートとともに永続化するユースケースです。
type RateSyncUsecase struct {
	fx         FxRepository
	currencies CurrencyRepository
	rates      RateRepository
}

// NewRateSyncUsecase はRateSyncUsecaseの新しいインスタンスを生成します。
func NewRateSyncUsecase(fx FxRepository, currencies CurrencyRepository, rates RateRepository) *RateSyncUsecase {
	return &RateSyncUsecase{fx: fx, currencies: currencies, rates: rates}
}

// SyncRates は基軸通貨に対する各主要通貨のレートを同期し、
// (同期した件数, 失敗した件数) を返します。
//
// この操作はエラーを返しません。データが得られない状況は失敗では
// なく(0, 0)であり、個別の検証失敗はfailedに計上し、永続化の失敗は
// (0, failed)として報告します。全ての異常はログに残します。
//
// 各レートは双方向で保存します。順方向 base→target とともに
// 逆数 1/rate の target→base も同じ日付で保存するため、
// 成功1ペアにつき2件が計上されます。
func (u *RateSyncUsecase) SyncRates(ctx context.Context, base string, asOf *time.Time) (synced, failed int) {
	base = strings.ToUpper(strings.TrimSpace(base))

	if _, err := u.currencies.GetByCode(ctx, base); err != nil {
		slog.Warn("rate sync: unknown base currency", "base", base, "error", err)
		return 0, 0
	}

	known, err := u.currencies.ListActive(ctx)
	if err != nil {
		slog.Error("rate sync: could not list currencies", "error", err)
		return 0, 0
	}
	knownCodes := make(map[string]bool, len(known))
	for _, c := range known {
		knownCodes[c.Code] = true
	}

	// 基準日。未指定なら今日（UTC）の建値を同期します。
	day := time.Now().UTC()
	if asOf != nil {
		day = asOf.UTC()
	}
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	start := date.AddDate(0, 0, -rateSearchBufferDays)
	end := date.AddDate(0, 0, rateSearchBufferDays)

	var batch []entity.CurrencyRate
	for _, target := range majorCurrencies {
		if target == base || !knownCodes[target] {
			continue
		}

		pair := base + target + "=X"
		series, err := u.fx.FetchFxSeries(ctx, pair, start, end)
		if err != nil {
			failed++
			slog.Warn("rate sync: pair fetch failed", "pair", pair, "error", err)
			continue
		}

		quote, ok := closestQuote(series, date)
		if !ok {
			// 建値なしは失敗ではなく単なる欠落です。
			continue
		}
		if quote.rate <= 0 {
			failed++
			slog.Warn("rate sync: rejected non-positive rate", "pair", pair, "rate", quote.rate)
			continue
		}

		rate := decimal.NewFromFloat(quote.rate)
		batch = append(batch,
			entity.CurrencyRate{FromCode: base, ToCode: target, Rate: rate, Date: date},
			entity.CurrencyRate{FromCode: target, ToCode: base, Rate: decimal.NewFromInt(1).Div(rate), Date: date},
		)
		synced += 2
	}

	if len(batch) == 0 {
		slog.Info("rate sync: nothing to persist", "base", base, "failed", failed)
		return 0, failed
	}

	// 一括保存は単一トランザクションです。失敗時は何も
	// コミットされていないため、同期件数は0件として報告します。
	if err := u.rates.UpsertBatch(ctx, batch); err != nil {
		slog.Error("rate sync: persist failed", "base", base, "error", err)
		return 0, failed
	}

	slog.Info("rate sync finished", "base", base, "synced", synced, "failed", failed, "date", date.Format("2006-01-02"))
	return synced, failed
}

type fxQuote struct {
	rate float64
	at   time.Time
}

// closestQuote は時系列の中から指定日に最も近い終値を選びます。
func closestQuote(series secentity.Series, date time.Time) (fxQuote, bool) {
	var best fxQuote
	found := false
	for _, row := range series.Rows {
		if row.Close == nil {
			continue
		}
		t := row.Time.UTC()
		if !found || absDuration(t.Sub(date)) < absDuration(best.at.Sub(date)) {
			best = fxQuote{rate: *row.Close, at: t}
			found = true
		}
	}
	return best, found
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
