package rdb

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// bookRepository 图书仓储实现
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(如唯一索引冲突),转换为业务错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return bookDuplicateError(err)
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, bookQueryError(err)
	}
	return toBookEntity(&model), nil
}

// FindByTitle 根据书名精确查找
func (r *bookRepository) FindByTitle(ctx context.Context, title string) (*book.Book, error) {
	var model BookModel
	if err := getDB(ctx, r.db).Where("title = ?", title).First(&model).Error; err != nil {
		return nil, bookQueryError(err)
	}
	return toBookEntity(&model), nil
}

// FindByISBN 根据ISBN查找图书
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	var model BookModel
	if err := getDB(ctx, r.db).Where("isbn = ?", isbn).First(&model).Error; err != nil {
		return nil, bookQueryError(err)
	}
	return toBookEntity(&model), nil
}

// Update 更新图书信息
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	result := getDB(ctx, r.db).Model(&BookModel{ID: b.ID}).Updates(map[string]interface{}{
		"title":          b.Title,
		"author":         b.Author,
		"isbn":           b.ISBN,
		"quantity":       b.Quantity,
		"shelf_location": b.ShelfLocation,
	})
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return bookDuplicateError(result.Error)
		}
		return apperrors.Wrap(result.Error, "更新图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// Delete 删除图书
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// List 按条件分页查询,按ID升序
func (r *bookRepository) List(ctx context.Context, filter book.ListFilter) ([]*book.Book, int64, error) {
	var models []BookModel
	var total int64

	query := getDB(ctx, r.db).Model(&BookModel{})

	if filter.Title != "" {
		query = query.Where("title LIKE ?", "%"+filter.Title+"%")
	}
	if filter.Author != "" {
		query = query.Where("author LIKE ?", "%"+filter.Author+"%")
	}
	if filter.ISBN != "" {
		query = query.Where("isbn LIKE ?", filter.ISBN+"%")
	}
	if filter.Available != nil {
		if *filter.Available {
			query = query.Where("quantity > 0")
		} else {
			query = query.Where("quantity = 0")
		}
	}

	// 查询总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Order("id ASC").Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, total, nil
}

// LockByID 悲观锁查询图书
// 必须使用getDB(ctx)从context获取事务DB,否则锁在语句结束时就释放了
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		return nil, bookQueryError(err)
	}
	return toBookEntity(&model), nil
}

// UpdateQuantity 原子更新可借数量
// UPDATE books SET quantity = quantity + delta WHERE id = ? AND quantity + delta >= 0
func (r *bookRepository) UpdateQuantity(ctx context.Context, id uint, delta int) error {
	db := getDB(ctx, r.db)
	result := db.Model(&BookModel{}).
		Where("id = ?", id).
		Where("quantity + ? >= 0", delta). // 防止数量为负
		Update("quantity", gorm.Expr("quantity + ?", delta))

	if result.Error != nil {
		return apperrors.Wrapf(result.Error, "更新图书%d可借数量失败", id)
	}

	if result.RowsAffected == 0 {
		// 可能是图书不存在,或者数量不足,再查一次确定原因
		var model BookModel
		if err := db.First(&model, id).Error; err != nil {
			return bookQueryError(err)
		}
		return book.ErrOutOfStock
	}
	return nil
}

// =========================================
// 辅助函数
// =========================================

func bookQueryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return book.ErrBookNotFound
	}
	return apperrors.Wrap(err, "查询图书失败")
}

// bookDuplicateError 区分书名和ISBN冲突
func bookDuplicateError(err error) error {
	if duplicateField(err, "isbn", "title") == "isbn" {
		return book.ErrISBNDuplicate
	}
	return book.ErrTitleDuplicate
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		Quantity:      b.Quantity,
		ShelfLocation: b.ShelfLocation,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:            model.ID,
		Title:         model.Title,
		Author:        model.Author,
		ISBN:          model.ISBN,
		Quantity:      model.Quantity,
		ShelfLocation: model.ShelfLocation,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
