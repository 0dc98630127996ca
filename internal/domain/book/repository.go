package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 由domain层定义接口,infrastructure层实现
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByTitle 根据书名精确查找
	FindByTitle(ctx context.Context, title string) (*Book, error)

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// Update 更新图书信息
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书
	Delete(ctx context.Context, id uint) error

	// List 按条件分页查询
	List(ctx context.Context, filter ListFilter) ([]*Book, int64, error)

	// LockByID 悲观锁查询图书(SELECT ... FOR UPDATE)
	// 必须在事务中调用，锁持有到事务结束
	LockByID(ctx context.Context, id uint) (*Book, error)

	// UpdateQuantity 原子更新可借数量
	// delta为正数表示归还,负数表示借出;结果为负时返回ErrOutOfStock
	UpdateQuantity(ctx context.Context, id uint, delta int) error
}

// ListFilter 列表查询条件
type ListFilter struct {
	Title     string // 模糊匹配
	Author    string // 模糊匹配
	ISBN      string // 前缀匹配
	Available *bool  // true: quantity>0, false: quantity=0
	Offset    int
	Limit     int
}
