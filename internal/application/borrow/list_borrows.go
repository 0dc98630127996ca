package borrow

import (
	"context"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/pkg/pagination"
)

// ListBorrowsUseCase 借阅记录查询(只读,不走缓存)
type ListBorrowsUseCase struct {
	borrowRepo borrow.Repository
	now        port.Clock
}

// NewListBorrowsUseCase 创建查询用例
func NewListBorrowsUseCase(borrowRepo borrow.Repository) *ListBorrowsUseCase {
	return &ListBorrowsUseCase{borrowRepo: borrowRepo, now: port.SystemClock}
}

// WithClock 替换时钟
func (uc *ListBorrowsUseCase) WithClock(clock port.Clock) *ListBorrowsUseCase {
	uc.now = clock
	return uc
}

// ListBorrowsRequest 查询条件,各条件之间为AND
type ListBorrowsRequest struct {
	BorrowerID *uint
	BookID     *uint
	Returned   *bool
	Overdue    bool
	BorrowDate borrow.TimeRange
	ReturnDate borrow.TimeRange
	Page       pagination.Params
}

// BorrowBookInfo 关联的图书信息
type BorrowBookInfo struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// BorrowUserInfo 借阅者的用户信息
type BorrowUserInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BorrowBorrowerInfo 关联的借阅者信息
type BorrowBorrowerInfo struct {
	User BorrowUserInfo `json:"user"`
}

// BorrowListItem 列表项
type BorrowListItem struct {
	BorrowResponse
	Book     BorrowBookInfo     `json:"book"`
	Borrower BorrowBorrowerInfo `json:"borrower"`
}

// ListBorrowsResponse 查询结果
type ListBorrowsResponse struct {
	Borrows    []BorrowListItem `json:"borrows"`
	Pagination *pagination.Meta `json:"pagination"`
}

// Execute 执行查询,按借阅时间倒序
func (uc *ListBorrowsUseCase) Execute(ctx context.Context, req ListBorrowsRequest) (*ListBorrowsResponse, error) {
	filter := borrow.Filter{
		BorrowerID: req.BorrowerID,
		BookID:     req.BookID,
		Returned:   req.Returned,
		Overdue:    req.Overdue,
		Now:        uc.now(),
		BorrowDate: req.BorrowDate,
		ReturnDate: req.ReturnDate,
		Offset:     req.Page.Offset,
		Limit:      req.Page.Limit,
	}

	details, total, err := uc.borrowRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]BorrowListItem, len(details))
	for i, d := range details {
		items[i] = BorrowListItem{
			BorrowResponse: toBorrowResponse(&d.Borrow),
			Book:           BorrowBookInfo{Title: d.BookTitle, Author: d.BookAuthor},
			Borrower:       BorrowBorrowerInfo{User: BorrowUserInfo{Name: d.BorrowerName, Email: d.BorrowerEmail}},
		}
	}

	return &ListBorrowsResponse{
		Borrows:    items,
		Pagination: pagination.GetMeta(req.Page, total),
	}, nil
}

// CountOpen 当前未归还的借阅数,启动时用于初始化指标
func (uc *ListBorrowsUseCase) CountOpen(ctx context.Context) (int64, error) {
	open := false
	_, total, err := uc.borrowRepo.List(ctx, borrow.Filter{Returned: &open, Limit: 1})
	return total, err
}
