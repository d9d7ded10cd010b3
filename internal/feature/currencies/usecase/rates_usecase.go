package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"wealth_backend/internal/feature/currencies/domain"
	"wealth_backend/internal/feature/currencies/domain/entity"
)

// RatesUsecase は保存済み為替レートの参照ユースケースです。
type RatesUsecase struct {
	currencies CurrencyRepository
	rates      RateRepository
}

// NewRatesUsecase はRatesUsecaseの新しいインスタンスを生成します。
func NewRatesUsecase(currencies CurrencyRepository, rates RateRepository) *RatesUsecase {
	return &RatesUsecase{currencies: currencies, rates: rates}
}

// ListCurrencies は利用可能な通貨の一覧を返します。
func (u *RatesUsecase) ListCurrencies(ctx context.Context) ([]entity.Currency, error) {
	return u.currencies.ListActive(ctx)
}

// GetRate は指定日時点の為替レートを返します。日付未指定時は本日の
// レートを参照します。指定日当日の建値がない場合、永続化レイヤーは
// 指定日以前で最も新しい建値へフォールバックします。
func (u *RatesUsecase) GetRate(ctx context.Context, from, to string, date *time.Time) (entity.CurrencyRate, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	day := time.Now().UTC()
	if date != nil {
		day = date.UTC()
	}
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	// 同一通貨の変換は常に1です。
	if from == to {
		if _, err := u.currencies.GetByCode(ctx, from); err != nil {
			return entity.CurrencyRate{}, err
		}
		return entity.CurrencyRate{
			FromCode: from,
			ToCode:   to,
			Rate:     decimal.NewFromInt(1),
			Date:     day,
		}, nil
	}

	if _, err := u.currencies.GetByCode(ctx, from); err != nil {
		return entity.CurrencyRate{}, fmt.Errorf("%s: %w", from, domain.ErrCurrencyNotFound)
	}
	if _, err := u.currencies.GetByCode(ctx, to); err != nil {
		return entity.CurrencyRate{}, fmt.Errorf("%s: %w", to, domain.ErrCurrencyNotFound)
	}

	return u.rates.GetRate(ctx, from, to, day)
}
