package rdb

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/borrow"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// borrowRepository 借阅记录仓储实现
// 借阅记录只增不删,归还只修改return_date
type borrowRepository struct {
	db *gorm.DB
}

// NewBorrowRepository 创建借阅记录仓储
func NewBorrowRepository(db *gorm.DB) borrow.Repository {
	return &borrowRepository{db: db}
}

// Create 创建借阅记录
func (r *borrowRepository) Create(ctx context.Context, b *borrow.Borrow) error {
	model := &BorrowModel{
		BookID:     b.BookID,
		BorrowerID: b.BorrowerID,
		BorrowDate: b.BorrowDate,
		DueDate:    b.DueDate,
		ReturnDate: b.ReturnDate,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建借阅记录失败")
	}
	b.ID = model.ID
	return nil
}

// LockByID 悲观锁查询借阅记录
func (r *borrowRepository) LockByID(ctx context.Context, id uint) (*borrow.Borrow, error) {
	var model BorrowModel
	err := getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, borrow.ErrBorrowNotFound
		}
		return nil, apperrors.Wrapf(err, "锁定借阅记录%d失败", id)
	}
	return toBorrowEntity(&model), nil
}

// FindOpenByBorrower 查询借阅者全部未归还记录
func (r *borrowRepository) FindOpenByBorrower(ctx context.Context, borrowerID uint) ([]*borrow.Borrow, error) {
	var models []BorrowModel
	err := getDB(ctx, r.db).
		Where("borrower_id = ? AND return_date IS NULL", borrowerID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询未归还记录失败")
	}

	borrows := make([]*borrow.Borrow, len(models))
	for i := range models {
		borrows[i] = toBorrowEntity(&models[i])
	}
	return borrows, nil
}

// LockFirstOpenByBorrower 锁定任意一条未归还记录
// 与归还流程(先锁borrow行)互斥,删除借阅者期间不会有记录被归还
func (r *borrowRepository) LockFirstOpenByBorrower(ctx context.Context, borrowerID uint) (*borrow.Borrow, error) {
	var model BorrowModel
	err := getDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("borrower_id = ? AND return_date IS NULL", borrowerID).
		Order("id ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "查询未归还记录失败")
	}
	return toBorrowEntity(&model), nil
}

// MarkReturned 设置归还时间
// WHERE return_date IS NULL 保证只设置一次
func (r *borrowRepository) MarkReturned(ctx context.Context, id uint, returnDate time.Time) error {
	result := getDB(ctx, r.db).Model(&BorrowModel{}).
		Where("id = ? AND return_date IS NULL", id).
		Update("return_date", returnDate)
	if result.Error != nil {
		return apperrors.Wrapf(result.Error, "更新借阅记录%d失败", id)
	}
	if result.RowsAffected == 0 {
		return borrow.ErrAlreadyReturned
	}
	return nil
}

// CountOpenByBook 统计某本书未归还的借阅数
func (r *borrowRepository) CountOpenByBook(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&BorrowModel{}).
		Where("book_id = ? AND return_date IS NULL", bookID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计借阅记录失败")
	}
	return count, nil
}

// borrowDetailRow 借阅记录联表查询结果
// LEFT JOIN:借阅者被删除后历史记录仍然可以查出
type borrowDetailRow struct {
	ID            uint
	BookID        uint
	BorrowerID    uint
	BorrowDate    time.Time
	DueDate       time.Time
	ReturnDate    *time.Time
	BookTitle     *string
	BookAuthor    *string
	BookISBN      *string
	BorrowerName  *string
	BorrowerEmail *string
}

const borrowDetailColumns = "borrows.id, borrows.book_id, borrows.borrower_id, borrows.borrow_date, borrows.due_date, borrows.return_date, " +
	"books.title AS book_title, books.author AS book_author, books.isbn AS book_isbn, " +
	"users.name AS borrower_name, users.email AS borrower_email"

// List 按条件查询借阅记录,按借阅时间倒序
func (r *borrowRepository) List(ctx context.Context, filter borrow.Filter) ([]*borrow.Detail, int64, error) {
	db := getDB(ctx, r.db)

	var total int64
	if err := applyBorrowFilter(db.Model(&BorrowModel{}), filter).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅记录总数失败")
	}

	query := applyBorrowFilter(db.Model(&BorrowModel{}), filter).
		Select(borrowDetailColumns).
		Joins("LEFT JOIN books ON books.id = borrows.book_id").
		Joins("LEFT JOIN borrowers ON borrowers.id = borrows.borrower_id").
		Joins("LEFT JOIN users ON users.id = borrowers.user_id").
		Order("borrows.borrow_date DESC").
		Order("borrows.id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var rows []borrowDetailRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅记录失败")
	}

	details := make([]*borrow.Detail, len(rows))
	for i := range rows {
		details[i] = toBorrowDetail(&rows[i])
	}
	return details, total, nil
}

// applyBorrowFilter 条件只引用borrows表的列,计数时无需联表
func applyBorrowFilter(query *gorm.DB, f borrow.Filter) *gorm.DB {
	if f.BorrowerID != nil {
		query = query.Where("borrows.borrower_id = ?", *f.BorrowerID)
	}
	if f.BookID != nil {
		query = query.Where("borrows.book_id = ?", *f.BookID)
	}
	if f.Returned != nil {
		if *f.Returned {
			query = query.Where("borrows.return_date IS NOT NULL")
		} else {
			query = query.Where("borrows.return_date IS NULL")
		}
	}
	if f.Overdue {
		query = query.Where("borrows.return_date IS NULL AND borrows.due_date < ?", f.Now)
	}
	query = applyRange(query, "borrows.borrow_date", f.BorrowDate)
	query = applyRange(query, "borrows.due_date", f.DueDate)
	query = applyRange(query, "borrows.return_date", f.ReturnDate)
	return query
}

// applyRange [From, Until)
func applyRange(query *gorm.DB, column string, r borrow.TimeRange) *gorm.DB {
	if r.IsZero() {
		return query
	}
	if r.From != nil {
		query = query.Where(column+" >= ?", *r.From)
	}
	if r.Until != nil {
		query = query.Where(column+" < ?", *r.Until)
	}
	return query
}

func toBorrowEntity(model *BorrowModel) *borrow.Borrow {
	return &borrow.Borrow{
		ID:         model.ID,
		BookID:     model.BookID,
		BorrowerID: model.BorrowerID,
		BorrowDate: model.BorrowDate,
		DueDate:    model.DueDate,
		ReturnDate: model.ReturnDate,
	}
}

func toBorrowDetail(row *borrowDetailRow) *borrow.Detail {
	return &borrow.Detail{
		Borrow: borrow.Borrow{
			ID:         row.ID,
			BookID:     row.BookID,
			BorrowerID: row.BorrowerID,
			BorrowDate: row.BorrowDate,
			DueDate:    row.DueDate,
			ReturnDate: row.ReturnDate,
		},
		BookTitle:     deref(row.BookTitle),
		BookAuthor:    deref(row.BookAuthor),
		BookISBN:      deref(row.BookISBN),
		BorrowerName:  deref(row.BorrowerName),
		BorrowerEmail: deref(row.BorrowerEmail),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
