package rdb

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// userRepository 用户仓储实现
// 邮箱唯一性最终由数据库UNIQUE索引保证,冲突时转换为ErrEmailDuplicate
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
// 注意：返回的是domain层的接口类型，不是具体类型（依赖倒置）
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := &UserModel{
		Email: u.Email,
		Name:  u.Name,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return user.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "创建用户失败")
	}

	// 回填自增ID（GORM自动填充）
	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, userQueryError(err)
	}
	return toUserEntity(&model), nil
}

// FindByEmail 根据邮箱查找用户
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	if err := getDB(ctx, r.db).Where("email = ?", email).First(&model).Error; err != nil {
		return nil, userQueryError(err)
	}
	return toUserEntity(&model), nil
}

// LockByID 悲观锁查询
func (r *userRepository) LockByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	err := getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		return nil, userQueryError(err)
	}
	return toUserEntity(&model), nil
}

// Update 更新姓名和邮箱
func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	result := getDB(ctx, r.db).Model(&UserModel{ID: u.ID}).Updates(map[string]interface{}{
		"name":  u.Name,
		"email": u.Email,
	})
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return user.ErrEmailDuplicate
		}
		return apperrors.Wrap(result.Error, "更新用户失败")
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// Delete 删除用户
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&UserModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除用户失败")
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// librarianRepository 馆员仓储实现
type librarianRepository struct {
	db *gorm.DB
}

// NewLibrarianRepository 创建馆员仓储
func NewLibrarianRepository(db *gorm.DB) user.LibrarianRepository {
	return &librarianRepository{db: db}
}

// Create 为已存在的用户创建馆员记录
func (r *librarianRepository) Create(ctx context.Context, l *user.Librarian) error {
	model := &LibrarianModel{
		UserID:   l.UserID,
		Password: l.PasswordHash,
	}
	if err := getDB(ctx, r.db).Omit("User").Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建馆员失败")
	}
	l.ID = model.ID
	return nil
}

// FindByEmail 按邮箱查找馆员
// JOIN users 一次查出馆员和用户信息
func (r *librarianRepository) FindByEmail(ctx context.Context, email string) (*user.Librarian, error) {
	var model LibrarianModel
	err := getDB(ctx, r.db).
		Joins("User").
		Where("User.email = ?", email).
		First(&model).Error
	if err != nil {
		return nil, librarianQueryError(err)
	}
	return toLibrarianEntity(&model), nil
}

// FindByUserID 按用户ID查找
func (r *librarianRepository) FindByUserID(ctx context.Context, userID uint) (*user.Librarian, error) {
	var model LibrarianModel
	err := getDB(ctx, r.db).
		Joins("User").
		Where("librarians.user_id = ?", userID).
		First(&model).Error
	if err != nil {
		return nil, librarianQueryError(err)
	}
	return toLibrarianEntity(&model), nil
}

// =========================================
// 辅助函数：模型转换
// =========================================

func userQueryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user.ErrUserNotFound
	}
	return apperrors.Wrap(err, "查询用户失败")
}

func librarianQueryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user.ErrLibrarianNotFound
	}
	return apperrors.Wrap(err, "查询馆员失败")
}

// toUserEntity GORM模型 → 领域实体
func toUserEntity(model *UserModel) *user.User {
	return &user.User{
		ID:        model.ID,
		Email:     model.Email,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toLibrarianEntity(model *LibrarianModel) *user.Librarian {
	return &user.Librarian{
		ID:           model.ID,
		UserID:       model.UserID,
		PasswordHash: model.Password,
		User:         toUserEntity(&model.User),
	}
}
