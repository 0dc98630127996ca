package rdb

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/borrower"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// borrowerRepository 借阅者仓储实现
type borrowerRepository struct {
	db *gorm.DB
}

// NewBorrowerRepository 创建借阅者仓储
func NewBorrowerRepository(db *gorm.DB) borrower.Repository {
	return &borrowerRepository{db: db}
}

// Create 创建借阅者,User必须已持久化
func (r *borrowerRepository) Create(ctx context.Context, b *borrower.Borrower) error {
	model := &BorrowerModel{
		UserID:         b.UserID,
		RegisteredDate: b.RegisteredDate,
	}
	if err := getDB(ctx, r.db).Omit("User").Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建借阅者失败")
	}
	b.ID = model.ID
	return nil
}

// FindByID 查询借阅者,预加载User
func (r *borrowerRepository) FindByID(ctx context.Context, id uint) (*borrower.Borrower, error) {
	var model BorrowerModel
	if err := getDB(ctx, r.db).Joins("User").First(&model, "borrowers.id = ?", id).Error; err != nil {
		return nil, borrowerQueryError(err)
	}
	return toBorrowerEntity(&model, true), nil
}

// LockByID 悲观锁查询
// 只锁borrowers行,User由调用方单独锁定
func (r *borrowerRepository) LockByID(ctx context.Context, id uint) (*borrower.Borrower, error) {
	var model BorrowerModel
	err := getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		return nil, borrowerQueryError(err)
	}
	return toBorrowerEntity(&model, false), nil
}

// Delete 删除借阅者
func (r *borrowerRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&BorrowerModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除借阅者失败")
	}
	if result.RowsAffected == 0 {
		return borrower.ErrBorrowerNotFound
	}
	return nil
}

// List 按ID升序分页查询
func (r *borrowerRepository) List(ctx context.Context, offset, limit int) ([]*borrower.Borrower, int64, error) {
	var models []BorrowerModel
	var total int64

	db := getDB(ctx, r.db)
	if err := db.Model(&BorrowerModel{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅者总数失败")
	}

	err := db.Joins("User").
		Order("borrowers.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅者列表失败")
	}

	borrowers := make([]*borrower.Borrower, len(models))
	for i := range models {
		borrowers[i] = toBorrowerEntity(&models[i], true)
	}
	return borrowers, total, nil
}

func borrowerQueryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return borrower.ErrBorrowerNotFound
	}
	return apperrors.Wrap(err, "查询借阅者失败")
}

func toBorrowerEntity(model *BorrowerModel, withUser bool) *borrower.Borrower {
	b := &borrower.Borrower{
		ID:             model.ID,
		UserID:         model.UserID,
		RegisteredDate: model.RegisteredDate,
	}
	if withUser {
		b.User = toUserEntity(&model.User)
	}
	return b
}
