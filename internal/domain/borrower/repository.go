package borrower

import (
	"context"
)

// Repository 借阅者仓储接口
type Repository interface {
	// Create 创建借阅者
	Create(ctx context.Context, borrower *Borrower) error

	// FindByID 查询借阅者(预加载User)
	FindByID(ctx context.Context, id uint) (*Borrower, error)

	// LockByID 悲观锁查询(不预加载User)
	LockByID(ctx context.Context, id uint) (*Borrower, error)

	// Delete 删除借阅者记录
	Delete(ctx context.Context, id uint) error

	// List 按ID升序分页查询(预加载User)
	List(ctx context.Context, offset, limit int) ([]*Borrower, int64, error)
}
