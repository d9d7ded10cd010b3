// Package usecase は証券データ同期のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"wealth_backend/internal/feature/securities/domain"
	"wealth_backend/internal/feature/securities/domain/entity"
)

// 外部プロバイダへ要求する期間。日足は長期履歴、分足はプロバイダが
// 直近の短い期間しか提供しないため7日間です。
const (
	dailyPeriod    = "10y"
	intradayPeriod = "7d"
)

// MarketRepository は外部市場データプロバイダを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MarketRepository interface {
	// FetchMetadata は銘柄のメタデータを取得します。
	FetchMetadata(ctx context.Context, symbol string) (entity.SecurityMeta, error)
	// FetchSeries は指定された期間・時間足の生の時系列を取得します。
	FetchSeries(ctx context.Context, symbol, period, interval string) (entity.Series, error)
}

// SecurityRepository は証券レコードの永続化レイヤーを抽象化します。
type SecurityRepository interface {
	GetBySymbol(ctx context.Context, symbol string) (entity.Security, error)
	Resolve(ctx context.Context, ref domain.SecurityRef) (entity.Security, error)
	Create(ctx context.Context, s *entity.Security) error
	Update(ctx context.Context, s entity.Security) error
	// FinishSync は同期ガードを解放し最終同期時刻を記録します。
	FinishSync(ctx context.Context, id uint, at time.Time) error
	ReleaseStale(ctx context.Context, olderThan time.Time) (int64, error)
	ListSymbols(ctx context.Context) ([]string, error)
}

// PriceRepository は価格レコードの永続化レイヤーを抽象化します。
type PriceRepository interface {
	// InsertBatch は価格を一括挿入し、重複をスキップして
	// 実際に挿入された行数を返します。
	InsertBatch(ctx context.Context, prices []entity.Price) (int64, error)
	FindRange(ctx context.Context, securityID uint, interval string, start, end time.Time) ([]entity.Price, error)
	CountRange(ctx context.Context, securityID uint, interval string, start, end time.Time) (int64, error)
	DeleteBySecurity(ctx context.Context, securityID uint, interval string) error
}

// SyncOutcome は1回の同期の結果です。日足と分足の取得は独立しており、
// 片方の失敗は全体の失敗ではないため、系列ごとの結果を個別に保持します。
type SyncOutcome struct {
	Security       entity.Security
	DailySynced    int64 // 挿入された日足の行数
	IntradaySynced int64 // 挿入された分足の行数
	DailyErr       error // 日足取得の失敗（あれば）。全体の成否には影響しない
	IntradayErr    error // 分足取得の失敗（あれば）。同上
}

// Total は挿入された価格行数の合計を返します。
func (o SyncOutcome) Total() int64 {
	return o.DailySynced + o.IntradaySynced
}

// SyncUsecase は外部プロバイダから証券メタデータと価格履歴を取得し、
// ローカルストアへ同期するユースケースです。
//
// 同一銘柄の同期は永続化された同期フラグ（アドバイザリガード）で
// 直列化されます。フラグはプロセスを跨いで可視であり、このエンジンの
// 唯一のプロセス間協調機構です。
type SyncUsecase struct {
	market     MarketRepository
	securities SecurityRepository
	prices     PriceRepository
}

// NewSyncUsecase はSyncUsecaseの新しいインスタンスを生成します。
func NewSyncUsecase(market MarketRepository, securities SecurityRepository, prices PriceRepository) *SyncUsecase {
	return &SyncUsecase{market: market, securities: securities, prices: prices}
}

// Sync は指定された銘柄のメタデータと価格履歴を同期します。
//
// checkConcurrent が真で既存レコードの同期フラグが立っている場合、
// 外部呼び出しを一切行わずに domain.ErrSyncInProgress を返します。
//
// フラグを立てた後に発生したあらゆるエラーは、フラグを解放してから
// 伝播します。解放漏れは以後の checkConcurrent 呼び出しを永久に
// ブロックするため、後始末はdeferで保証します。
func (u *SyncUsecase) Sync(ctx context.Context, symbol string, checkConcurrent bool) (SyncOutcome, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	existing, err := u.securities.GetBySymbol(ctx, symbol)
	found := err == nil
	if err != nil && !errors.Is(err, domain.ErrSecurityNotFound) {
		return SyncOutcome{}, err
	}
	if checkConcurrent && found && existing.IsSyncing {
		return SyncOutcome{}, fmt.Errorf("%s: %w", symbol, domain.ErrSyncInProgress)
	}

	// メタデータ取得。ここまでは状態を一切変更していないため、
	// 銘柄未存在・プロバイダ障害はそのまま伝播します。
	meta, err := u.market.FetchMetadata(ctx, symbol)
	if err != nil {
		return SyncOutcome{}, err
	}

	// 証券レコードを作成または更新し、同期ガードを永続化します。
	// 価格取得の開始前にこの遷移がコミットされることで、並行する
	// 呼び出し側から「同期中」が観測できます。
	now := time.Now().UTC()
	sec := existing
	if !found {
		sec = entity.Security{Symbol: symbol}
	}
	sec.ApplyMeta(meta)
	sec.IsSyncing = true
	sec.SyncingSince = &now

	if found {
		err = u.securities.Update(ctx, sec)
	} else {
		err = u.securities.Create(ctx, &sec)
	}
	if err != nil {
		return SyncOutcome{}, fmt.Errorf("persist security %s: %w", symbol, err)
	}

	outcome := SyncOutcome{Security: sec}

	// ガードの解放は全ての終了経路で必ず実行します。呼び出し元の
	// コンテキストが途中でキャンセルされても解放だけは完了させます。
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)
		finishedAt := time.Now().UTC()
		if err := u.securities.FinishSync(cleanupCtx, sec.ID, finishedAt); err != nil {
			slog.Error("failed to release sync guard", "symbol", symbol, "error", err)
			return
		}
		outcome.Security.IsSyncing = false
		outcome.Security.SyncingSince = nil
		outcome.Security.LastSyncedAt = &finishedAt
	}()

	u.syncPriceHistory(ctx, sec, &outcome)

	slog.Info("security sync finished",
		"symbol", symbol,
		"daily", outcome.DailySynced,
		"intraday", outcome.IntradaySynced,
	)
	return outcome, nil
}

// syncPriceHistory は日足と分足の時系列を独立して取得し、永続化します。
// 2つの取得は独立した読み取りのため並行して発行しますが、書き込みは
// 部分的なコミットの交錯を避けるため証券ごとに直列化します。
func (u *SyncUsecase) syncPriceHistory(ctx context.Context, sec entity.Security, outcome *SyncOutcome) {
	var daily, intraday entity.Series

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		daily, err = u.market.FetchSeries(gctx, sec.Symbol, dailyPeriod, entity.IntervalDaily)
		outcome.DailyErr = err
		return nil // 片方の失敗でもう片方を中断しない
	})
	g.Go(func() error {
		var err error
		intraday, err = u.market.FetchSeries(gctx, sec.Symbol, intradayPeriod, entity.IntervalMinute)
		outcome.IntradayErr = err
		return nil
	})
	_ = g.Wait()

	if outcome.DailyErr != nil {
		slog.Warn("could not fetch daily series", "symbol", sec.Symbol, "error", outcome.DailyErr)
	} else {
		prices := domain.ParseSeries(daily, sec.ID, entity.IntervalDaily)
		n, err := u.prices.InsertBatch(ctx, prices)
		if err != nil {
			outcome.DailyErr = err
			slog.Warn("could not persist daily series", "symbol", sec.Symbol, "error", err)
		} else {
			outcome.DailySynced = n
		}
	}

	if outcome.IntradayErr != nil {
		slog.Warn("could not fetch intraday series", "symbol", sec.Symbol, "error", outcome.IntradayErr)
	} else {
		prices := domain.ParseSeries(intraday, sec.ID, entity.IntervalMinute)
		n, err := u.prices.InsertBatch(ctx, prices)
		if err != nil {
			outcome.IntradayErr = err
			slog.Warn("could not persist intraday series", "symbol", sec.Symbol, "error", err)
		} else {
			outcome.IntradaySynced = n
		}
	}
}

// ResetPrices は明示的な再同期リセット操作です。指定された証券の
// 指定時間足の価格履歴を削除します。
func (u *SyncUsecase) ResetPrices(ctx context.Context, ref domain.SecurityRef, interval string) error {
	sec, err := u.securities.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	return u.prices.DeleteBySecurity(ctx, sec.ID, interval)
}

// ReleaseStaleGuards はクラッシュ等で残留した同期ガードを解放します。
// ガードはリースではなくタイムアウトを持たないため、これは運用上の
// 明示的な復旧経路です。
func (u *SyncUsecase) ReleaseStaleGuards(ctx context.Context, ttl time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-ttl)
	n, err := u.securities.ReleaseStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Warn("released stale sync guards", "count", n, "older_than", cutoff)
	}
	return n, nil
}
