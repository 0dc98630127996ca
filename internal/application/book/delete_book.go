package book

import (
	"context"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
)

// DeleteBookUseCase 删除图书用例
// 还有未归还借阅的图书不能删除,已归还的历史记录保留
type DeleteBookUseCase struct {
	bookService book.Service
	borrowRepo  borrow.Repository
	txManager   port.TxManager
	cache       port.ListCache
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(bookService book.Service, borrowRepo borrow.Repository, txManager port.TxManager, cache port.ListCache) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
		borrowRepo:  borrowRepo,
		txManager:   txManager,
		cache:       cache,
	}
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) error {
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if _, err := uc.bookService.GetBook(txCtx, id); err != nil {
			return err
		}

		count, err := uc.borrowRepo.CountOpenByBook(txCtx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return book.ErrHasActiveBorrows
		}

		return uc.bookService.RemoveBook(txCtx, id)
	})
	if err != nil {
		return err
	}

	uc.cache.Invalidate(ctx, port.NamespaceBooks)
	return nil
}
