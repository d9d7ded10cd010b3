// Package adapters はsecuritiesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"wealth_backend/internal/feature/securities/domain"
	"wealth_backend/internal/feature/securities/domain/entity"
	"wealth_backend/internal/feature/securities/usecase"
)

type securityMySQL struct {
	db *gorm.DB
}

var _ usecase.SecurityRepository = (*securityMySQL)(nil)

// NewSecurityRepository は指定されたDB接続でsecurityMySQLリポジトリの新しいインスタンスを生成します。
func NewSecurityRepository(db *gorm.DB) *securityMySQL {
	return &securityMySQL{db: db}
}

// SecurityModel は証券テーブルの永続化モデルです。
// シンボルは一意制約付きで、同期ガードのフラグも行に保持します。
type SecurityModel struct {
	ID           uint   `gorm:"primaryKey"`
	Symbol       string `gorm:"size:32;not null;uniqueIndex"`
	Name         string `gorm:"size:255;not null;default:''"`
	Exchange     string `gorm:"size:100;not null;default:''"`
	Currency     string `gorm:"size:3;not null;default:''"`
	SecurityType string `gorm:"size:32;not null;default:''"`
	Sector       string `gorm:"size:100;not null;default:''"`
	Industry     string `gorm:"size:100;not null;default:''"`
	MarketCap    int64  `gorm:"not null;default:0"`
	IsSyncing    bool   `gorm:"not null;default:false"`
	SyncingSince *time.Time
	LastSyncedAt *time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// TableName はGORMのデフォルトテーブル名を上書きします。
func (SecurityModel) TableName() string {
	return "securities"
}

func toSecurityModel(e entity.Security) SecurityModel {
	return SecurityModel{
		ID:           e.ID,
		Symbol:       e.Symbol,
		Name:         e.Name,
		Exchange:     e.Exchange,
		Currency:     e.Currency,
		SecurityType: e.SecurityType,
		Sector:       e.Sector,
		Industry:     e.Industry,
		MarketCap:    e.MarketCap,
		IsSyncing:    e.IsSyncing,
		SyncingSince: e.SyncingSince,
		LastSyncedAt: e.LastSyncedAt,
	}
}

func toSecurityEntity(m SecurityModel) entity.Security {
	return entity.Security{
		ID:           m.ID,
		Symbol:       m.Symbol,
		Name:         m.Name,
		Exchange:     m.Exchange,
		Currency:     m.Currency,
		SecurityType: m.SecurityType,
		Sector:       m.Sector,
		Industry:     m.Industry,
		MarketCap:    m.MarketCap,
		IsSyncing:    m.IsSyncing,
		SyncingSince: m.SyncingSince,
		LastSyncedAt: m.LastSyncedAt,
	}
}

// GetBySymbol はシンボルで証券を検索します。
// 見つからない場合は domain.ErrSecurityNotFound を返します。
func (r *securityMySQL) GetBySymbol(ctx context.Context, symbol string) (entity.Security, error) {
	var m SecurityModel
	err := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.Security{}, domain.ErrSecurityNotFound
	}
	if err != nil {
		return entity.Security{}, err
	}
	return toSecurityEntity(m), nil
}

// Resolve はSecurityRef（IDまたはシンボル）を証券レコードに解決します。
func (r *securityMySQL) Resolve(ctx context.Context, ref domain.SecurityRef) (entity.Security, error) {
	if id, ok := ref.ID(); ok {
		var m SecurityModel
		err := r.db.WithContext(ctx).First(&m, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.Security{}, domain.ErrSecurityNotFound
		}
		if err != nil {
			return entity.Security{}, err
		}
		return toSecurityEntity(m), nil
	}
	if symbol, ok := ref.Symbol(); ok {
		return r.GetBySymbol(ctx, symbol)
	}
	return entity.Security{}, domain.ErrSecurityNotFound
}

// Create は新しい証券レコードを作成し、採番されたIDをエンティティに書き戻します。
func (r *securityMySQL) Create(ctx context.Context, s *entity.Security) error {
	m := toSecurityModel(*s)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	s.ID = m.ID
	return nil
}

// Update はメタデータと同期フラグを含む全フィールドを保存します。
// 同期ガードの取得はこの書き込みで永続化されるため、
// 価格取得の開始前に必ず呼び出されます。
func (r *securityMySQL) Update(ctx context.Context, s entity.Security) error {
	m := toSecurityModel(s)
	// ゼロ値（フラグのfalse等）も確実に書き込むためSelect(*)を使用
	return r.db.WithContext(ctx).Model(&SecurityModel{ID: s.ID}).
		Select("*").Omit("id", "created_at").Updates(&m).Error
}

// FinishSync は同期ガードを解放し、最終同期時刻を記録します。
// あらゆる終了経路から呼ばれる後始末であり、途中の失敗に関わらず
// フラグを必ずクリアします。
func (r *securityMySQL) FinishSync(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&SecurityModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_syncing":     false,
			"syncing_since":  nil,
			"last_synced_at": at,
		}).Error
}

// ReleaseStale は指定時刻より前に取得されたまま残っている同期ガードを
// 一括で解放し、解放した件数を返します。プロセスがクラッシュした場合の
// 明示的な復旧経路です。
func (r *securityMySQL) ReleaseStale(ctx context.Context, olderThan time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&SecurityModel{}).
		Where("is_syncing = ? AND syncing_since < ?", true, olderThan).
		Updates(map[string]any{
			"is_syncing":    false,
			"syncing_since": nil,
		})
	return res.RowsAffected, res.Error
}

// ListSymbols は登録済みの全シンボルを返します。
func (r *securityMySQL) ListSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	if err := r.db.WithContext(ctx).
		Model(&SecurityModel{}).
		Order("symbol ASC").
		Pluck("symbol", &symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}
