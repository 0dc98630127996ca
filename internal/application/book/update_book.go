package book

import (
	"context"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/domain/book"
)

// UpdateBookUseCase 图书部分更新用例
type UpdateBookUseCase struct {
	bookService book.Service
	txManager   port.TxManager
	cache       port.ListCache
}

// NewUpdateBookUseCase 创建更新用例
func NewUpdateBookUseCase(bookService book.Service, txManager port.TxManager, cache port.ListCache) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookService: bookService,
		txManager:   txManager,
		cache:       cache,
	}
}

// Execute 执行更新,patch中为nil的字段保持不变
func (uc *UpdateBookUseCase) Execute(ctx context.Context, id uint, patch book.Patch) (*BookResponse, error) {
	var updated *book.Book
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		b, err := uc.bookService.EditBook(txCtx, id, patch)
		if err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, port.NamespaceBooks)
	return toBookResponse(updated), nil
}
