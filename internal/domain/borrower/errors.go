package borrower

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	// ErrBorrowerNotFound 借阅者不存在
	ErrBorrowerNotFound = apperrors.NotFound("Borrower not found")

	// ErrBorrowerRecordNotFound 删除时借阅者不存在
	ErrBorrowerRecordNotFound = apperrors.NotFound("Borrower record not found")

	// ErrActiveBorrows 仍有未归还的借阅
	ErrActiveBorrows = apperrors.Conflict("Cannot delete borrower with active borrows")

	// ErrEmptyPatch 更新时没有提供任何字段
	ErrEmptyPatch = apperrors.Validation("No fields provided for update")
)
