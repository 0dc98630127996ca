// Package port 应用层依赖的基础设施接口
// 由infrastructure层实现,用例只依赖这里的抽象
package port

import (
	"context"
	"time"
)

// TxManager 事务管理器
// fn内通过ctx执行的所有仓储操作在同一事务中,fn返回error时回滚
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Clock 当前时间,测试中可替换
type Clock func() time.Time

// SystemClock 返回UTC时间
func SystemClock() time.Time {
	return time.Now().UTC()
}

// Namespace 缓存命名空间
type Namespace string

const (
	NamespaceBooks     Namespace = "books"
	NamespaceBorrowers Namespace = "borrowers"
)

// Version 命名空间版本号
// Get未命中时返回读取时的版本,回填必须带着它调用Set:
// 读库期间发生的Invalidate会让这次回填落在旧版本上,不会被后续读取命中
type Version int64

// NoVersion 版本号不可用,Set遇到它直接放弃写入
const NoVersion Version = -1

// ListCache 列表查询缓存
// 缓存只是性能优化:实现必须吞掉后端错误,Get失败视为未命中,Set/Invalidate失败只记日志
type ListCache interface {
	// Get 命中时把缓存内容反序列化到dest并返回true
	Get(ctx context.Context, ns Namespace, key string, dest interface{}) (Version, bool)

	// Set 在version下写入缓存
	Set(ctx context.Context, ns Namespace, key string, version Version, value interface{}, ttl time.Duration)

	// Invalidate 使整个命名空间失效
	Invalidate(ctx context.Context, ns Namespace)
}

// NopCache 不缓存(缓存未启用时使用)
type NopCache struct{}

func (NopCache) Get(context.Context, Namespace, string, interface{}) (Version, bool) {
	return NoVersion, false
}

func (NopCache) Set(context.Context, Namespace, string, Version, interface{}, time.Duration) {}

func (NopCache) Invalidate(context.Context, Namespace) {}

// EventPublisher 事件发布
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// NopPublisher 未配置消息队列时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// 借阅事件routing key
const (
	RoutingKeyCheckedOut = "borrow.checked_out"
	RoutingKeyReturned   = "borrow.returned"
)

// BorrowEvent 借出/归还事件
type BorrowEvent struct {
	BorrowID   uint       `json:"borrow_id"`
	BookID     uint       `json:"book_id"`
	BorrowerID uint       `json:"borrower_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// ReportWriter 报表落盘
// 返回写入文件的路径
type ReportWriter interface {
	Write(ctx context.Context, kind, prefix string, header []string, rows [][]string) (string, error)
}

// TokenBlacklist 已注销的Token,按jti记录
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
