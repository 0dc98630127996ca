package borrow

import (
	"time"
)

// Borrow 借阅记录
// 借出时创建,归还时设置ReturnDate(仅一次),永不删除
type Borrow struct {
	ID         uint
	BookID     uint
	BorrowerID uint
	BorrowDate time.Time
	DueDate    time.Time
	ReturnDate *time.Time // nil表示尚未归还
}

// NewBorrow 创建借阅记录
func NewBorrow(borrowerID, bookID uint, borrowDate, dueDate time.Time) *Borrow {
	return &Borrow{
		BookID:     bookID,
		BorrowerID: borrowerID,
		BorrowDate: borrowDate,
		DueDate:    dueDate,
	}
}

// IsOpen 是否未归还
func (b *Borrow) IsOpen() bool {
	return b.ReturnDate == nil
}

// IsOverdue 未归还且已过应还日期
func (b *Borrow) IsOverdue(now time.Time) bool {
	return b.IsOpen() && b.DueDate.Before(now)
}

// MarkReturned 标记归还
func (b *Borrow) MarkReturned(now time.Time) error {
	if !b.IsOpen() {
		return ErrAlreadyReturned
	}
	b.ReturnDate = &now
	return nil
}

// Detail 借阅记录及其关联的图书、借阅者信息(只读视图)
type Detail struct {
	Borrow
	BookTitle     string
	BookAuthor    string
	BookISBN      string
	BorrowerName  string
	BorrowerEmail string
}
