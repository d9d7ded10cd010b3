// Package adapters はcurrenciesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"wealth_backend/internal/feature/currencies/domain"
	"wealth_backend/internal/feature/currencies/domain/entity"
	"wealth_backend/internal/feature/currencies/usecase"

	"gorm.io/gorm"
)

// currencyMySQL はCurrencyRepositoryインターフェースのMySQL実装です。
type currencyMySQL struct {
	db *gorm.DB
}

var _ usecase.CurrencyRepository = (*currencyMySQL)(nil)

// NewCurrencyRepository は指定されたDB接続でcurrencyMySQLリポジトリの新しいインスタンスを生成します。
func NewCurrencyRepository(db *gorm.DB) *currencyMySQL {
	return &currencyMySQL{db: db}
}

// GetByCode はISOコードで通貨を1件取得します。
func (r *currencyMySQL) GetByCode(ctx context.Context, code string) (entity.Currency, error) {
	var c entity.Currency
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.Currency{}, fmt.Errorf("%s: %w", code, domain.ErrCurrencyNotFound)
	}
	if err != nil {
		return entity.Currency{}, err
	}
	return c, nil
}

// ListActive はコード順にすべてのアクティブな通貨を返します。
func (r *currencyMySQL) ListActive(ctx context.Context) ([]entity.Currency, error) {
	var currencies []entity.Currency
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("code ASC").
		Find(&currencies).Error; err != nil {
		return nil, err
	}
	return currencies, nil
}
