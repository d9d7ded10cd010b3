package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wealth_backend/internal/feature/currencies/domain"
	"wealth_backend/internal/feature/currencies/domain/entity"
	"wealth_backend/internal/feature/currencies/usecase"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// rateMySQL はRateRepositoryインターフェースのMySQL実装です。
type rateMySQL struct {
	db *gorm.DB
}

var _ usecase.RateRepository = (*rateMySQL)(nil)

// NewRateRepository は指定されたDB接続でrateMySQLリポジトリの新しいインスタンスを生成します。
func NewRateRepository(db *gorm.DB) *rateMySQL {
	return &rateMySQL{db: db}
}

// UpsertBatch は単一トランザクションでレートを一括保存します。
// (from_code, to_code, date) が一致する既存行はレートを上書きします。
// いずれかの行が失敗した場合は全体がロールバックされます。
func (r *rateMySQL) UpsertBatch(ctx context.Context, rates []entity.CurrencyRate) error {
	if len(rates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "from_code"},
				{Name: "to_code"},
				{Name: "date"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"rate"}),
		}).Create(&rates).Error
	})
}

// GetRate は指定日以前で最も新しいレートを1件返します。
// 当日の建値がない週末や祝日のためのフォールバックです。
func (r *rateMySQL) GetRate(ctx context.Context, from, to string, date time.Time) (entity.CurrencyRate, error) {
	var rate entity.CurrencyRate
	err := r.db.WithContext(ctx).
		Where("from_code = ? AND to_code = ? AND date <= ?", from, to, date).
		Order("date DESC").
		First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.CurrencyRate{}, fmt.Errorf("%s/%s: %w", from, to, domain.ErrRateNotFound)
	}
	if err != nil {
		return entity.CurrencyRate{}, err
	}
	return rate, nil
}
