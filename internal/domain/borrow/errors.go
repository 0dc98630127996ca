package borrow

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	// ErrBookUnavailable 图书不存在或已无可借副本
	ErrBookUnavailable = apperrors.Validation("Book is not available")

	// ErrOverdueBlock 有逾期未还的图书
	ErrOverdueBlock = apperrors.Conflict("You have overdue books. Return them before borrowing more.")

	// ErrDuplicateBorrow 同一本书已借出未还
	ErrDuplicateBorrow = apperrors.Conflict("You have already borrowed this book .")

	// ErrBorrowLimitExceeded 超出同时借阅上限
	ErrBorrowLimitExceeded = apperrors.Conflict("You cannot borrow more than 3 books at a time.")

	// ErrBorrowNotFound 借阅记录不存在
	ErrBorrowNotFound = apperrors.NotFound("Borrow record not found")

	// ErrAlreadyReturned 重复归还
	ErrAlreadyReturned = apperrors.Validation("Book already returned")

	// ErrBookRecordMissing 归还时关联图书不存在(数据完整性问题)
	ErrBookRecordMissing = apperrors.NotFound("Book record not found")

	// ErrInvalidLoanDays 借阅天数非法
	ErrInvalidLoanDays = apperrors.Validation("Days must be a positive integer if provided")
)
