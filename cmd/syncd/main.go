// syncd は定期同期デーモンです。登録済み銘柄の価格同期、為替レートの
// 日次同期、放置された同期フラグの解放をcronスケジュールで実行します。
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"wealth_backend/internal/app/di"
	infradb "wealth_backend/internal/platform/db"
	infraredis "wealth_backend/internal/platform/redis"
)

const (
	// 1サイクルの上限。プロバイダ側のレート制限を考慮した余裕値です。
	batchTimeout = 30 * time.Minute
	// これより古い同期フラグはクラッシュ残骸とみなして解放します。
	guardTTL = time.Hour
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	db := infradb.OpenDB()

	rdb, err := infraredis.NewRedisClient()
	if err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	}

	batchUC := di.NewBatchEngine(db, rdb)
	syncUC := di.NewSyncEngine(db, rdb)
	rateSyncUC := di.NewRateSyncEngine(db)

	baseCurrency := os.Getenv("BASE_CURRENCY")
	if baseCurrency == "" {
		baseCurrency = "USD"
	}

	c := cron.New()

	// 平日の取引終了後に全銘柄を同期
	if _, err := c.AddFunc("30 22 * * 1-5", func() {
		ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
		defer cancel()

		result, err := batchUC.SyncKnown(ctx)
		if err != nil {
			slog.Error("batch sync failed", "error", err)
			return
		}
		slog.Info("batch sync finished",
			"synced", result.Synced,
			"prices", result.Prices,
			"skipped", result.Skipped,
			"failed", len(result.Failed))
	}); err != nil {
		log.Fatal(err)
	}

	// 為替レートの日次同期
	if _, err := c.AddFunc("0 23 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
		defer cancel()

		synced, failed := rateSyncUC.SyncRates(ctx, baseCurrency, nil)
		slog.Info("rate sync finished", "base", baseCurrency, "synced", synced, "failed", failed)
	}); err != nil {
		log.Fatal(err)
	}

	// クラッシュで残った同期フラグの回収
	if _, err := c.AddFunc("@every 15m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		released, err := syncUC.ReleaseStaleGuards(ctx, guardTTL)
		if err != nil {
			slog.Error("stale guard release failed", "error", err)
			return
		}
		if released > 0 {
			slog.Warn("released stale sync guards", "count", released)
		}
	}); err != nil {
		log.Fatal(err)
	}

	c.Start()
	slog.Info("syncd started", "base_currency", baseCurrency)

	// SIGINT/SIGTERMで実行中ジョブの完了を待って終了
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("syncd stopping")
	<-c.Stop().Done()

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Println("[ERROR] Failed to close Redis client:", err)
		}
	}
}
