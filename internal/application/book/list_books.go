package book

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/pagination"
)

// ListBooksUseCase 图书列表查询用例
// 读穿缓存:命中直接返回,未命中查库后回填
type ListBooksUseCase struct {
	bookService book.Service
	cache       port.ListCache
	ttl         time.Duration
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service, cache port.ListCache, ttl time.Duration) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
		cache:       cache,
		ttl:         ttl,
	}
}

// ListBooksRequest 列表查询条件
// 字段顺序决定缓存key,不要随意调整
type ListBooksRequest struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	ISBN      string `json:"isbn"`
	Available *bool  `json:"available"`
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
}

// ListBooksResponse 列表查询响应
type ListBooksResponse struct {
	Books      []*BookResponse  `json:"books"`
	Pagination *pagination.Meta `json:"pagination"`
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	params := pagination.New(req.Page, req.Limit)
	req.Page, req.Limit = params.Page, params.Limit

	key, err := cacheKey(req)
	if err != nil {
		return nil, err
	}

	var cached ListBooksResponse
	version, hit := uc.cache.Get(ctx, port.NamespaceBooks, key, &cached)
	if hit {
		return &cached, nil
	}

	books, total, err := uc.bookService.ListBooks(ctx, book.ListFilter{
		Title:     req.Title,
		Author:    req.Author,
		ISBN:      req.ISBN,
		Available: req.Available,
		Offset:    params.Offset,
		Limit:     params.Limit,
	})
	if err != nil {
		return nil, err
	}

	list := make([]*BookResponse, len(books))
	for i, b := range books {
		list[i] = toBookResponse(b)
	}

	resp := &ListBooksResponse{
		Books:      list,
		Pagination: pagination.GetMeta(params, total),
	}
	uc.cache.Set(ctx, port.NamespaceBooks, key, version, resp, uc.ttl)
	return resp, nil
}

// cacheKey 规范化后的查询条件序列化
func cacheKey(req ListBooksRequest) (string, error) {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(req)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
