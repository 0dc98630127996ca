package book

import (
	"context"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/domain/book"
)

// CreateBookUseCase 图书上架用例
// 唯一性检查和写入在同一事务内,提交后使图书列表缓存失效
type CreateBookUseCase struct {
	bookService book.Service
	txManager   port.TxManager
	cache       port.ListCache
}

// NewCreateBookUseCase 创建上架用例
func NewCreateBookUseCase(bookService book.Service, txManager port.TxManager, cache port.ListCache) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
		txManager:   txManager,
		cache:       cache,
	}
}

// CreateBookRequest 上架请求DTO
type CreateBookRequest struct {
	Title         string
	Author        string
	ISBN          string
	Quantity      int
	ShelfLocation string
}

// Execute 执行上架
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*BookResponse, error) {
	var created *book.Book
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		b, err := uc.bookService.CreateBook(txCtx, req.Title, req.Author, req.ISBN, req.Quantity, req.ShelfLocation)
		if err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, port.NamespaceBooks)
	return toBookResponse(created), nil
}
