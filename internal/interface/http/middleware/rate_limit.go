package middleware

import (
	"context"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/response"
)

// Limiter 限流器接口,由Redis固定窗口实现
type Limiter interface {
	Allow(ctx context.Context, scope, clientID string) (redis.Decision, error)
}

// RateLimit 按客户端IP限流,scope区分不同接口的计数
// 设置RateLimit-Limit/Remaining/Reset响应头;Redis不可用时放行
func RateLimit(limiter Limiter, scope string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := limiter.Allow(c.Request.Context(), scope, c.ClientIP())
		if err != nil {
			logger.Warn("限流器不可用,放行请求", zap.String("scope", scope), zap.Error(err))
			c.Next()
			return
		}

		c.Header("RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("RateLimit-Reset", strconv.Itoa(int(math.Ceil(d.Reset.Seconds()))))

		if !d.Allowed {
			metrics.IncCounterVec(metrics.RateLimitedTotal, map[string]string{"path": c.FullPath()})
			response.Error(c, apperrors.ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
