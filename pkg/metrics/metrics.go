// Package metrics Prometheus指标
//
// 指标在包初始化时创建,InitMetrics只负责注册到Registry,
// 因此未注册时(如单元测试)调用也是安全的。
//
// 命名规范:
//   - Counter以_total结尾
//   - Histogram以单位结尾(_seconds)
//   - 标签只使用有限取值(method、result、namespace),不要用ID做标签
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "library"

var (
	// HTTP请求

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板）、status
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP请求耗时（秒）",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_progress",
			Help:      "正在处理的HTTP请求数",
		},
	)

	// 借阅业务

	// CheckoutsTotal 借出次数
	// 标签：result（success/rejected/error）
	CheckoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "借出请求总数",
		},
		[]string{"result"},
	)

	// ReturnsTotal 归还次数
	ReturnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "returns_total",
			Help:      "归还请求总数",
		},
		[]string{"result"},
	)

	// OpenBorrows 当前未归还的借阅数(进程内增量,启动时从数据库初始化)
	OpenBorrows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_borrows",
			Help:      "当前未归还的借阅数",
		},
	)

	// BorrowTxDuration 借出/归还事务耗时(含锁等待)
	BorrowTxDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "borrow_tx_duration_seconds",
			Help:      "借出/归还事务耗时（秒）",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"operation"},
	)

	// 缓存

	// CacheRequestsTotal 缓存读取
	// 标签：namespace（books/borrowers）、result（hit/miss/error）
	CacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "列表缓存读取总数",
		},
		[]string{"namespace", "result"},
	)

	// CacheInvalidationsTotal 缓存失效
	CacheInvalidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_invalidations_total",
			Help:      "列表缓存失效总数",
		},
		[]string{"namespace"},
	)

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	// RateLimitedTotal 被限流的请求数
	RateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "被限流拒绝的请求总数",
		},
		[]string{"path"},
	)

	// 报表

	// ReportsGeneratedTotal 导出报表次数
	// 标签：report（borrows_by_period/overdue_last_month/borrows_last_month）、result（saved/empty/error）
	ReportsGeneratedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_generated_total",
			Help:      "CSV报表导出总数",
		},
		[]string{"report", "result"},
	)

	// 消息队列

	// MessagesPublishedTotal 消息发布
	MessagesPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_published_total",
			Help:      "消息发布总数",
		},
		[]string{"routing_key", "result"},
	)

	// MessagesConsumedTotal 消息消费
	MessagesConsumedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "消息消费总数",
		},
		[]string{"queue", "result"},
	)
)

var registerOnce sync.Once

// InitMetrics 注册所有指标到默认Registry,可重复调用
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			HTTPRequestsInProgress,
			CheckoutsTotal,
			ReturnsTotal,
			OpenBorrows,
			BorrowTxDuration,
			CacheRequestsTotal,
			CacheInvalidationsTotal,
			CircuitBreakerState,
			RateLimitedTotal,
			ReportsGeneratedTotal,
			MessagesPublishedTotal,
			MessagesConsumedTotal,
		)
	})
}

// Handler /metrics端点
func Handler() http.Handler {
	return promhttp.Handler()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	gauge.Set(value)
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}

// Result 把业务结果归类为指标标签
// rejected表示业务规则拒绝(4xx),error表示系统错误
func Result(err error, isRejection func(error) bool) string {
	switch {
	case err == nil:
		return "success"
	case isRejection != nil && isRejection(err):
		return "rejected"
	default:
		return "error"
	}
}
