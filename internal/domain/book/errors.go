package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.NotFound("Book not found")

	// 唯一性冲突
	ErrTitleDuplicate = apperrors.Conflict("Book title must be unique")
	ErrISBNDuplicate  = apperrors.Conflict("Book ISBN must be unique")

	// ErrHasActiveBorrows 还有副本未归还
	ErrHasActiveBorrows = apperrors.Conflict("Cannot delete book with active borrows")

	// ErrOutOfStock 可借数量不足
	ErrOutOfStock = apperrors.Validation("Book is not available")

	// 更新时新值与旧值相同
	ErrTitleUnchanged         = apperrors.Validation("New title must be different from the current one")
	ErrISBNUnchanged          = apperrors.Validation("New isbn must be different from the current one")
	ErrAuthorUnchanged        = apperrors.Validation("New author must be different from the current one")
	ErrQuantityUnchanged      = apperrors.Validation("New quantity must be different from the current one")
	ErrShelfLocationUnchanged = apperrors.Validation("New shelf location must be different from the current one")

	// 字段校验
	ErrTitleRequired         = apperrors.Validation("Title is required")
	ErrAuthorRequired        = apperrors.Validation("Author is required")
	ErrISBNRequired          = apperrors.Validation("ISBN is required")
	ErrShelfLocationRequired = apperrors.Validation("Shelf location is required")
	ErrInvalidQuantity       = apperrors.Validation("quantity must be greater than 0")
	ErrEmptyPatch            = apperrors.Validation("No fields provided for update")
)
