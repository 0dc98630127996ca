package dto

import (
	"github.com/xiebiao/library/internal/domain/borrow"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	ErrInvalidBorrowerID = apperrors.Validation("Invalid borrower ID")
	ErrBookIDRequired    = apperrors.Validation("Book ID is required")
	ErrInvalidBookID     = apperrors.Validation("Book ID must be a positive integer")
	ErrInvalidBorrowID   = apperrors.Validation("Invalid borrow ID")
	ErrInvalidBookParam  = apperrors.Validation("Invalid book ID")
	ErrInvalidDate       = apperrors.Validation("Invalid date, expected YYYY-MM-DD or RFC3339")
)

// CheckOutRequest 借书
type CheckOutRequest struct {
	BorrowerID *int `json:"borrowerId" example:"1"`
	BookID     *int `json:"bookId" example:"2"`
	Days       *int `json:"days,omitempty" example:"14"` // 可选,默认14天
}

// Validate 校验ID和借期
func (r *CheckOutRequest) Validate() error {
	switch {
	case r.BorrowerID == nil || *r.BorrowerID < 1:
		return ErrInvalidBorrowerID
	case r.BookID == nil:
		return ErrBookIDRequired
	case *r.BookID < 1:
		return ErrInvalidBookID
	case r.Days != nil && *r.Days < 1:
		return borrow.ErrInvalidLoanDays
	}
	return nil
}

// LoanDays 未提供时返回0,由借阅策略使用默认借期
func (r *CheckOutRequest) LoanDays() int {
	if r.Days == nil {
		return 0
	}
	return *r.Days
}

// ListBorrowsQuery 借阅记录查询条件
// 日期接受 YYYY-MM-DD 或 RFC3339,纯日期的To包含当天
type ListBorrowsQuery struct {
	BorrowerID     string `form:"borrowerId"`
	BookID         string `form:"bookId"`
	Returned       string `form:"returned" enums:"true,false"`
	Overdue        string `form:"overdue" enums:"true"`
	BorrowDateFrom string `form:"borrowDateFrom"`
	BorrowDateTo   string `form:"borrowDateTo"`
	ReturnDateFrom string `form:"returnDateFrom"`
	ReturnDateTo   string `form:"returnDateTo"`
	Page           string `form:"page"`
	Limit          string `form:"limit"`
}

// PeriodQuery 区间报表
type PeriodQuery struct {
	From string `form:"from" example:"2024-01-01"`
	To   string `form:"to" example:"2024-01-31"`
}
