package borrow

import (
	"context"
	"time"
)

// Repository 借阅记录仓储接口
type Repository interface {
	// Create 创建借阅记录
	Create(ctx context.Context, borrow *Borrow) error

	// LockByID 悲观锁查询(SELECT ... FOR UPDATE)
	LockByID(ctx context.Context, id uint) (*Borrow, error)

	// FindOpenByBorrower 查询借阅者全部未归还记录
	FindOpenByBorrower(ctx context.Context, borrowerID uint) ([]*Borrow, error)

	// LockFirstOpenByBorrower 锁定借阅者的任意一条未归还记录,没有时返回nil
	LockFirstOpenByBorrower(ctx context.Context, borrowerID uint) (*Borrow, error)

	// MarkReturned 设置归还时间,仅对未归还记录生效
	MarkReturned(ctx context.Context, id uint, returnDate time.Time) error

	// CountOpenByBook 统计某本书未归还的借阅数
	CountOpenByBook(ctx context.Context, bookID uint) (int64, error)

	// List 按条件查询并关联图书、借阅者信息,按借阅日期倒序
	// Limit<=0时不分页
	List(ctx context.Context, filter Filter) ([]*Detail, int64, error)
}

// TimeRange 时间范围 [From, Until)
// 任一端为nil表示不限
type TimeRange struct {
	From  *time.Time
	Until *time.Time
}

// IsZero 两端均未设置
func (r TimeRange) IsZero() bool {
	return r.From == nil && r.Until == nil
}

// Filter 借阅记录查询条件(各条件之间为AND)
type Filter struct {
	BorrowerID *uint
	BookID     *uint
	Returned   *bool // true: 已归还, false: 未归还
	Overdue    bool  // 未归还且DueDate早于Now
	Now        time.Time

	BorrowDate TimeRange
	DueDate    TimeRange
	ReturnDate TimeRange

	Offset int
	Limit  int
}
