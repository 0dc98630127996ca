package borrower

import (
	"context"
	"fmt"
	"time"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/domain/borrower"
	"github.com/xiebiao/library/pkg/pagination"
)

// ListBorrowersUseCase 借阅者列表(读穿缓存)
type ListBorrowersUseCase struct {
	borrowerRepo borrower.Repository
	cache        port.ListCache
	ttl          time.Duration
}

// NewListBorrowersUseCase 创建列表用例
func NewListBorrowersUseCase(borrowerRepo borrower.Repository, cache port.ListCache, ttl time.Duration) *ListBorrowersUseCase {
	return &ListBorrowersUseCase{
		borrowerRepo: borrowerRepo,
		cache:        cache,
		ttl:          ttl,
	}
}

// ListBorrowersResponse 列表响应
type ListBorrowersResponse struct {
	Borrowers  []*BorrowerResponse `json:"borrowers"`
	Pagination *pagination.Meta    `json:"pagination"`
}

// Execute 按ID升序分页查询
func (uc *ListBorrowersUseCase) Execute(ctx context.Context, params pagination.Params) (*ListBorrowersResponse, error) {
	key := fmt.Sprintf("page=%d&limit=%d", params.Page, params.Limit)

	var cached ListBorrowersResponse
	version, hit := uc.cache.Get(ctx, port.NamespaceBorrowers, key, &cached)
	if hit {
		return &cached, nil
	}

	borrowers, total, err := uc.borrowerRepo.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	list := make([]*BorrowerResponse, len(borrowers))
	for i, b := range borrowers {
		list[i] = toBorrowerResponse(b)
	}

	resp := &ListBorrowersResponse{
		Borrowers:  list,
		Pagination: pagination.GetMeta(params, total),
	}
	uc.cache.Set(ctx, port.NamespaceBorrowers, key, version, resp, uc.ttl)
	return resp, nil
}
