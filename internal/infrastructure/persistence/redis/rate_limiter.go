package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter 固定窗口计数限流
// Key: ratelimit:{scope}:{client}:{windowStart}
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter 创建限流器,每个窗口最多limit次请求
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window, now: time.Now}
}

// Decision 限流结果
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Duration // 距离窗口结束的时间
}

// Allow 计数并判断是否放行
// Redis出错时返回err,由调用方决定放行
func (l *RateLimiter) Allow(ctx context.Context, scope, clientID string) (Decision, error) {
	now := l.now()
	windowStart := now.Truncate(l.window)
	reset := windowStart.Add(l.window).Sub(now)
	key := fmt.Sprintf("ratelimit:%s:%s:%d", scope, clientID, windowStart.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit}, err
	}

	count := int(incr.Val())
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		Reset:     reset,
	}, nil
}
