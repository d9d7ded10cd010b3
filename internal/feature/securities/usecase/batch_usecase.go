package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"wealth_backend/internal/feature/securities/domain"
	"wealth_backend/internal/shared/ratelimiter"
)

// BatchResult は一括同期の集計結果です。
type BatchResult struct {
	Synced  int              // 同期に成功した銘柄数
	Prices  int64            // 挿入された価格行数の合計
	Failed  map[string]error // 銘柄ごとの失敗理由
	Skipped int              // 同期中ガードによりスキップされた銘柄数
}

// BatchUsecase は複数銘柄の一括同期を実行するユースケースです。
// 外部プロバイダへの負荷を抑えるため、並行数は固定のワーカープールで
// 制限し、呼び出し頻度はレートリミッタで制御します。
type BatchUsecase struct {
	sync    *SyncUsecase
	limiter ratelimiter.RateLimiterInterface
	workers int
}

// NewBatchUsecase はBatchUsecaseの新しいインスタンスを生成します。
func NewBatchUsecase(sync *SyncUsecase, limiter ratelimiter.RateLimiterInterface, workers int) *BatchUsecase {
	if workers < 1 {
		workers = 1
	}
	return &BatchUsecase{sync: sync, limiter: limiter, workers: workers}
}

// SyncAll は指定された全銘柄を同期します。1銘柄の失敗は他の銘柄の
// 同期を止めず、結果に集約されます。コンテキストのキャンセルのみが
// 全体を中断します。
func (u *BatchUsecase) SyncAll(ctx context.Context, symbols []string) BatchResult {
	result := BatchResult{Failed: make(map[string]error)}
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(u.workers)

	for _, symbol := range symbols {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				mu.Lock()
				result.Failed[symbol] = err
				mu.Unlock()
				return nil
			}

			u.limiter.WaitIfNeeded()

			outcome, err := u.sync.Sync(ctx, symbol, true)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, domain.ErrSyncInProgress):
				result.Skipped++
				return nil
			case err != nil:
				result.Failed[symbol] = err
				slog.Warn("batch sync: symbol failed", "symbol", symbol, "error", err)
				return nil
			}
			result.Synced++
			result.Prices += outcome.Total()
			return nil
		})
	}
	_ = g.Wait()

	slog.Info("batch sync finished",
		"synced", result.Synced,
		"failed", len(result.Failed),
		"prices", result.Prices,
	)
	return result
}

// SyncKnown は登録済みの全銘柄を同期します。定期実行ジョブの入口です。
func (u *BatchUsecase) SyncKnown(ctx context.Context) (BatchResult, error) {
	symbols, err := u.sync.securities.ListSymbols(ctx)
	if err != nil {
		return BatchResult{}, err
	}
	return u.SyncAll(ctx, symbols), nil
}
