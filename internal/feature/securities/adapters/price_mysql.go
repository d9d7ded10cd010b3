package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wealth_backend/internal/feature/securities/domain/entity"
	"wealth_backend/internal/feature/securities/usecase"
)

type priceMySQL struct {
	db *gorm.DB
}

var _ usecase.PriceRepository = (*priceMySQL)(nil)

// NewPriceRepository は指定されたDB接続でpriceMySQLリポジトリの新しいインスタンスを生成します。
func NewPriceRepository(db *gorm.DB) *priceMySQL {
	return &priceMySQL{db: db}
}

// PriceModel は価格テーブルの永続化モデルです。
// (security_id, interval, timestamp) の一意制約により、再同期で
// 同一時点・同一粒度の行が重複することはありません。
type PriceModel struct {
	ID         uint      `gorm:"primaryKey"`
	SecurityID uint      `gorm:"not null;uniqueIndex:price_sec_int_time,priority:1"`
	Interval   string    `gorm:"size:8;not null;uniqueIndex:price_sec_int_time,priority:2"`
	Timestamp  time.Time `gorm:"not null;uniqueIndex:price_sec_int_time,priority:3"`

	Open   float64 `gorm:"not null"`
	High   float64 `gorm:"not null"`
	Low    float64 `gorm:"not null"`
	Close  float64 `gorm:"not null"`
	Volume int64   `gorm:"not null;default:0"`
}

// TableName はGORMのデフォルトテーブル名を上書きします。
func (PriceModel) TableName() string {
	return "security_prices"
}

func toPriceModel(e entity.Price) PriceModel {
	return PriceModel{
		SecurityID: e.SecurityID,
		Interval:   e.Interval,
		Timestamp:  e.Timestamp,
		Open:       e.Open,
		High:       e.High,
		Low:        e.Low,
		Close:      e.Close,
		Volume:     e.Volume,
	}
}

func toPriceEntity(m PriceModel) entity.Price {
	return entity.Price{
		SecurityID: m.SecurityID,
		Interval:   m.Interval,
		Timestamp:  m.Timestamp.UTC(),
		Open:       m.Open,
		High:       m.High,
		Low:        m.Low,
		Close:      m.Close,
		Volume:     m.Volume,
	}
}

// InsertBatch は価格レコードを一括挿入します。既存行と重複するものは
// 一意制約によりスキップし、実際に挿入された行数を返します。
// 書き込み済みの価格行は不変であり、上書きは行いません。
func (r *priceMySQL) InsertBatch(ctx context.Context, prices []entity.Price) (int64, error) {
	if len(prices) == 0 {
		return 0, nil
	}
	ms := make([]PriceModel, 0, len(prices))
	for _, e := range prices {
		ms = append(ms, toPriceModel(e))
	}

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "security_id"}, {Name: "interval"}, {Name: "timestamp"}},
		DoNothing: true,
	}).CreateInBatches(&ms, 500)
	return res.RowsAffected, res.Error
}

// FindRange は指定範囲 [start, end] 内の価格を時刻昇順で返します。
func (r *priceMySQL) FindRange(ctx context.Context, securityID uint, interval string, start, end time.Time) ([]entity.Price, error) {
	var ms []PriceModel
	err := r.db.WithContext(ctx).
		Where("security_id = ? AND `interval` = ? AND timestamp BETWEEN ? AND ?", securityID, interval, start, end).
		Order("timestamp ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	out := make([]entity.Price, 0, len(ms))
	for _, m := range ms {
		out = append(out, toPriceEntity(m))
	}
	return out, nil
}

// CountRange は指定範囲内の価格行数を返します。
func (r *priceMySQL) CountRange(ctx context.Context, securityID uint, interval string, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&PriceModel{}).
		Where("security_id = ? AND `interval` = ? AND timestamp BETWEEN ? AND ?", securityID, interval, start, end).
		Count(&count).Error
	return count, err
}

// DeleteBySecurity は明示的な再同期リセット操作です。指定された証券と
// 時間足の価格履歴を全て削除します。通常の同期はこの操作を行いません。
func (r *priceMySQL) DeleteBySecurity(ctx context.Context, securityID uint, interval string) error {
	return r.db.WithContext(ctx).
		Where("security_id = ? AND `interval` = ?", securityID, interval).
		Delete(&PriceModel{}).Error
}
