package borrower

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/borrow"
)

// CurrentBorrowsUseCase 借阅者当前未归还的借阅
type CurrentBorrowsUseCase struct {
	borrowRepo borrow.Repository
}

// NewCurrentBorrowsUseCase 创建查询用例
func NewCurrentBorrowsUseCase(borrowRepo borrow.Repository) *CurrentBorrowsUseCase {
	return &CurrentBorrowsUseCase{borrowRepo: borrowRepo}
}

// CurrentBook 借阅的图书
type CurrentBook struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

// CurrentBorrow 未归还的借阅
type CurrentBorrow struct {
	ID         uint        `json:"id"`
	BorrowDate time.Time   `json:"borrowDate"`
	DueDate    time.Time   `json:"dueDate"`
	ReturnDate *time.Time  `json:"returnDate"`
	BookID     uint        `json:"bookId"`
	BorrowerID uint        `json:"borrowerId"`
	Book       CurrentBook `json:"book"`
}

// Execute 按借阅时间倒序返回,借阅者不存在时返回空列表
func (uc *CurrentBorrowsUseCase) Execute(ctx context.Context, borrowerID uint) ([]CurrentBorrow, error) {
	open := false
	details, _, err := uc.borrowRepo.List(ctx, borrow.Filter{
		BorrowerID: &borrowerID,
		Returned:   &open,
	})
	if err != nil {
		return nil, err
	}

	list := make([]CurrentBorrow, len(details))
	for i, d := range details {
		list[i] = CurrentBorrow{
			ID:         d.ID,
			BorrowDate: d.BorrowDate,
			DueDate:    d.DueDate,
			ReturnDate: d.ReturnDate,
			BookID:     d.BookID,
			BorrowerID: d.BorrowerID,
			Book:       CurrentBook{Title: d.BookTitle, Author: d.BookAuthor, ISBN: d.BookISBN},
		}
	}
	return list, nil
}
