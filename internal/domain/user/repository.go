package user

import (
	"context"
)

// Repository 用户仓储接口
type Repository interface {
	// Create 创建用户,邮箱重复时返回ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 根据邮箱查找用户
	FindByEmail(ctx context.Context, email string) (*User, error)

	// LockByID 悲观锁查询(SELECT ... FOR UPDATE)
	LockByID(ctx context.Context, id uint) (*User, error)

	// Update 更新姓名和邮箱
	Update(ctx context.Context, user *User) error

	// Delete 删除用户
	Delete(ctx context.Context, id uint) error
}

// LibrarianRepository 馆员仓储接口
type LibrarianRepository interface {
	// Create 为已存在的用户创建馆员记录
	Create(ctx context.Context, librarian *Librarian) error

	// FindByEmail 按关联用户的邮箱查找馆员(预加载User)
	FindByEmail(ctx context.Context, email string) (*Librarian, error)

	// FindByUserID 按用户ID查找
	FindByUserID(ctx context.Context, userID uint) (*Librarian, error)
}
