package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ListCache 带版本号的列表缓存
//
// Key: {ns}:v{version}:{key},版本号存放在 {ns}:version
// 失效时INCR版本号,旧版本的key不再被访问,等TTL自然过期,
// 不需要SCAN/KEYS遍历删除
//
// 所有Redis调用都经过熔断器,错误一律降级:Get视为未命中,Set/Invalidate只记日志
type ListCache struct {
	client  *redis.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

// ListCacheOptions 熔断参数
type ListCacheOptions struct {
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// NewListCache 创建列表缓存
func NewListCache(client *redis.Client, opts ListCacheOptions, logger *zap.Logger) *ListCache {
	breaker := circuitbreaker.New("redis-cache", circuitbreaker.Settings{
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: circuitbreaker.ConsecutiveFailures(opts.BreakerFailures),
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
			logger.Warn("缓存熔断器状态变化",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &ListCache{client: client, breaker: breaker, logger: logger}
}

// Get 读取缓存,任何错误都视为未命中
// 返回的版本号是本次读取所用的版本,未命中回填时原样交给Set
func (c *ListCache) Get(ctx context.Context, ns port.Namespace, key string, dest interface{}) (port.Version, bool) {
	version := port.NoVersion
	var data []byte
	err := c.breaker.Execute(func() error {
		v, err := c.currentVersion(ctx, ns)
		if err != nil {
			return err
		}
		version = v
		data, err = c.client.Get(ctx, entryKey(ns, v, key)).Bytes()
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, redis.Nil):
		c.observe(ns, "miss")
		return version, false
	default:
		c.degrade("读取缓存失败", ns, err)
		c.observe(ns, "error")
		return port.NoVersion, false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.degrade("缓存内容无法解析", ns, err)
		c.observe(ns, "error")
		return version, false
	}

	c.observe(ns, "hit")
	return version, true
}

// Set 在version下写入缓存
// version早于当前版本时写入的key不会再被读到,等TTL过期
func (c *ListCache) Set(ctx context.Context, ns port.Namespace, key string, version port.Version, value interface{}, ttl time.Duration) {
	if version == port.NoVersion {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.degrade("序列化缓存失败", ns, err)
		return
	}

	err = c.breaker.Execute(func() error {
		return c.client.Set(ctx, entryKey(ns, version, key), data, ttl).Err()
	})
	if err != nil {
		c.degrade("写入缓存失败", ns, err)
	}
}

// Invalidate 递增命名空间版本号,整个命名空间失效
func (c *ListCache) Invalidate(ctx context.Context, ns port.Namespace) {
	err := c.breaker.Execute(func() error {
		return c.client.Incr(ctx, versionKey(ns)).Err()
	})
	if err != nil {
		c.degrade("缓存失效失败", ns, err)
		return
	}
	metrics.IncCounterVec(metrics.CacheInvalidationsTotal, map[string]string{"namespace": string(ns)})
}

// currentVersion 版本号不存在时视为0
func (c *ListCache) currentVersion(ctx context.Context, ns port.Namespace) (port.Version, error) {
	version, err := c.client.Get(ctx, versionKey(ns)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return port.NoVersion, err
	}
	return port.Version(version), nil
}

func (c *ListCache) observe(ns port.Namespace, result string) {
	metrics.IncCounterVec(metrics.CacheRequestsTotal, map[string]string{"namespace": string(ns), "result": result})
}

func (c *ListCache) degrade(msg string, ns port.Namespace, err error) {
	c.logger.Warn(msg, zap.String("namespace", string(ns)), zap.Error(err))
}

func entryKey(ns port.Namespace, version port.Version, key string) string {
	return fmt.Sprintf("%s:v%d:%s", ns, version, key)
}

func versionKey(ns port.Namespace) string {
	return string(ns) + ":version"
}
