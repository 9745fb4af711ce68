// Package ratelimiter は外部API呼び出しの頻度を制限するユーティリティを提供します。
package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Limiter は呼び出し前に必要なだけ待機するレートリミッタです。
type Limiter interface {
	Wait(ctx context.Context) error
}

// RateLimiter は固定ウィンドウ方式で interval あたり limit 回まで呼び出しを許可します。
// 複数のゴルーチンから同時に呼び出しても安全です。待機中はロックを保持するため、
// 後続の呼び出し元も順番に待たされます。
type RateLimiter struct {
	mu          sync.Mutex
	limit       int
	interval    time.Duration
	used        int
	windowStart time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

var _ Limiter = (*RateLimiter)(nil)

// NewRateLimiter は新しい RateLimiter を生成します。limit が 1 未満の場合は 1 として扱います。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:       max(limit, 1),
		interval:    interval,
		windowStart: time.Now(),
		now:         time.Now,
		sleep:       sleepContext,
	}
}

// Wait は現在のウィンドウに空きがあれば即座に戻り、なければ次のウィンドウまで待機します。
// 待機中にコンテキストが終了した場合はそのエラーを返し、枠は消費しません。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	now := rl.now()
	if now.Sub(rl.windowStart) >= rl.interval {
		rl.used = 0
		rl.windowStart = now
	}

	if rl.used >= rl.limit {
		d := rl.interval - now.Sub(rl.windowStart)
		if d > 0 {
			slog.Warn("rate limit reached, waiting", "limit", rl.limit, "interval", rl.interval, "wait", d)
			if err := rl.sleep(ctx, d); err != nil {
				return err
			}
		}
		rl.used = 0
		rl.windowStart = rl.now()
	}

	rl.used++
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
