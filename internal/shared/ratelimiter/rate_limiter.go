package ratelimiter

import (
	"log/slog"
	"sync"
	"time"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded()
}

// RateLimiterは、外部プロバイダへの呼び出し頻度を制限します。
// 複数のワーカーゴルーチンから共有されるため、並行呼び出しに安全です。
type RateLimiter struct {
	limit    int           // interval あたりの上限
	interval time.Duration // どの単位でリセットするか

	mu        sync.Mutex
	count     int
	lastReset time.Time
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
	}
}

// WaitIfNeededはレートリミットの上限に達しているかを確認し、必要であれば待機します。
func (rl *RateLimiter) WaitIfNeeded() {
	rl.mu.Lock()

	now := time.Now()
	// interval を過ぎたらカウントリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count <= rl.limit {
		rl.mu.Unlock()
		return
	}

	sleep := rl.interval - now.Sub(rl.lastReset)
	// リセット
	rl.count = 1
	rl.lastReset = now.Add(sleep)
	rl.mu.Unlock()

	if sleep > 0 {
		slog.Info("rate limit reached, waiting", "limit", rl.limit, "sleep", sleep)
		time.Sleep(sleep)
	}
}
