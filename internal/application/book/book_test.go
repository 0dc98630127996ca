package book

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
)

// memoryCache 内存版ListCache,按命名空间版本号隔离,记录失效次数
type memoryCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	versions    map[port.Namespace]port.Version
	invalidated map[port.Namespace]int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		entries:     map[string][]byte{},
		versions:    map[port.Namespace]port.Version{},
		invalidated: map[port.Namespace]int{},
	}
}

func (c *memoryCache) key(ns port.Namespace, version port.Version, key string) string {
	return fmt.Sprintf("%s:v%d:%s", ns, version, key)
}

func (c *memoryCache) Get(_ context.Context, ns port.Namespace, key string, dest interface{}) (port.Version, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	version := c.versions[ns]
	data, ok := c.entries[c.key(ns, version, key)]
	if !ok {
		return version, false
	}
	return version, jsoniter.Unmarshal(data, dest) == nil
}

func (c *memoryCache) Set(_ context.Context, ns port.Namespace, key string, version port.Version, value interface{}, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, _ := jsoniter.Marshal(value)
	c.entries[c.key(ns, version, key)] = data
}

func (c *memoryCache) Invalidate(_ context.Context, ns port.Namespace) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[ns]++
	c.invalidated[ns]++
}

// live 当前版本下的缓存条目数
func (c *memoryCache) live(ns port.Namespace) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := fmt.Sprintf("%s:v%d:", ns, c.versions[ns])
	n := 0
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n
}

// countingService 统计ListBooks实际查库次数
type countingService struct {
	book.Service
	mu    sync.Mutex
	lists int
}

func (s *countingService) ListBooks(ctx context.Context, filter book.ListFilter) ([]*book.Book, int64, error) {
	s.mu.Lock()
	s.lists++
	s.mu.Unlock()
	return s.Service.ListBooks(ctx, filter)
}

func (s *countingService) listCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists
}

type catalog struct {
	cache   *memoryCache
	svc     *countingService
	borrows borrow.Repository
	create  *CreateBookUseCase
	update  *UpdateBookUseCase
	remove  *DeleteBookUseCase
	list    *ListBooksUseCase
}

func newCatalog(t *testing.T) *catalog {
	t.Helper()
	db, err := rdb.NewDB(&config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close(db) })

	svc := &countingService{Service: book.NewService(rdb.NewBookRepository(db))}
	tx := rdb.NewTxManager(db)
	cache := newMemoryCache()
	borrows := rdb.NewBorrowRepository(db)

	return &catalog{
		cache:   cache,
		svc:     svc,
		borrows: borrows,
		create:  NewCreateBookUseCase(svc, tx, cache),
		update:  NewUpdateBookUseCase(svc, tx, cache),
		remove:  NewDeleteBookUseCase(svc, borrows, tx, cache),
		list:    NewListBooksUseCase(svc, cache, time.Minute),
	}
}

func strPtr(s string) *string { return &s }

func TestCreateBook(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()

	resp, err := c.create.Execute(ctx, CreateBookRequest{Title: "Dune", Author: "Herbert", ISBN: "978-1", Quantity: 3, ShelfLocation: "A-1"})
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, 3, resp.Quantity)
	assert.Equal(t, 1, c.cache.invalidated[port.NamespaceBooks])

	_, err = c.create.Execute(ctx, CreateBookRequest{Title: "Dune", Author: "X", ISBN: "978-2", Quantity: 1, ShelfLocation: "A-1"})
	assert.ErrorIs(t, err, book.ErrTitleDuplicate)
	assert.Equal(t, 1, c.cache.invalidated[port.NamespaceBooks], "失败时不失效缓存")
}

func TestListBooks_ReadThrough(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()

	_, err := c.create.Execute(ctx, CreateBookRequest{Title: "Dune", Author: "Herbert", ISBN: "978-1", Quantity: 3, ShelfLocation: "A-1"})
	require.NoError(t, err)

	first, err := c.list.Execute(ctx, ListBooksRequest{})
	require.NoError(t, err)
	require.Len(t, first.Books, 1)
	assert.Equal(t, 1, c.svc.listCalls())
	assert.Equal(t, 1, c.cache.live(port.NamespaceBooks))

	// 未失效前命中缓存,不查库,序列化结果逐字节一致
	second, err := c.list.Execute(ctx, ListBooksRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, c.svc.listCalls(), "命中缓存时不应查库")
	assert.Equal(t, 1, c.cache.live(port.NamespaceBooks), "规范化后的分页参数使用同一个key")

	firstJSON, err := jsoniter.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := jsoniter.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))

	// 修改后失效,下一次查询重新查库得到新值
	_, err = c.update.Execute(ctx, first.Books[0].ID, book.Patch{Title: strPtr("Dune Messiah")})
	require.NoError(t, err)
	assert.Zero(t, c.cache.live(port.NamespaceBooks))

	third, err := c.list.Execute(ctx, ListBooksRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, c.svc.listCalls())
	assert.Equal(t, "Dune Messiah", third.Books[0].Title)
}

func TestListBooks_Filters(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()

	for _, req := range []CreateBookRequest{
		{Title: "Dune", Author: "Frank Herbert", ISBN: "978-1", Quantity: 1, ShelfLocation: "A"},
		{Title: "Emma", Author: "Jane Austen", ISBN: "979-1", Quantity: 0, ShelfLocation: "B"},
		{Title: "Persuasion", Author: "Jane Austen", ISBN: "979-2", Quantity: 2, ShelfLocation: "B"},
	} {
		_, err := c.create.Execute(ctx, req)
		require.NoError(t, err)
	}

	available := true
	resp, err := c.list.Execute(ctx, ListBooksRequest{Author: "austen", Available: &available})
	require.NoError(t, err)
	require.Len(t, resp.Books, 1)
	assert.Equal(t, "Persuasion", resp.Books[0].Title)

	resp, err = c.list.Execute(ctx, ListBooksRequest{ISBN: "979"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.Pagination.TotalItems)
}

func TestUpdateBook_Errors(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()

	_, err := c.update.Execute(ctx, 42, book.Patch{Title: strPtr("x")})
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	b, err := c.create.Execute(ctx, CreateBookRequest{Title: "Dune", Author: "Herbert", ISBN: "978-1", Quantity: 3, ShelfLocation: "A-1"})
	require.NoError(t, err)

	_, err = c.update.Execute(ctx, b.ID, book.Patch{ShelfLocation: strPtr("A-1")})
	assert.ErrorIs(t, err, book.ErrShelfLocationUnchanged)
}

func TestDeleteBook(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()

	assert.ErrorIs(t, c.remove.Execute(ctx, 42), book.ErrBookNotFound)

	free, err := c.create.Execute(ctx, CreateBookRequest{Title: "Dune", Author: "Herbert", ISBN: "978-1", Quantity: 1, ShelfLocation: "A-1"})
	require.NoError(t, err)
	require.NoError(t, c.remove.Execute(ctx, free.ID))

	used, err := c.create.Execute(ctx, CreateBookRequest{Title: "Emma", Author: "Austen", ISBN: "979-1", Quantity: 1, ShelfLocation: "B"})
	require.NoError(t, err)
	now := time.Now().UTC()
	loan := borrow.NewBorrow(1, used.ID, now, now.AddDate(0, 0, 14))
	require.NoError(t, c.borrows.Create(ctx, loan))

	assert.ErrorIs(t, c.remove.Execute(ctx, used.ID), book.ErrHasActiveBorrows)

	// 全部归还后可以删除,借阅历史仍能查到
	require.NoError(t, c.borrows.MarkReturned(ctx, loan.ID, now.Add(time.Hour)))
	require.NoError(t, c.remove.Execute(ctx, used.ID))

	details, total, err := c.borrows.List(ctx, borrow.Filter{BookID: &used.ID, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, details, 1)
	assert.Empty(t, details[0].BookTitle)
}
