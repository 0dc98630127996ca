package borrower

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/domain/borrower"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/pkg/pagination"
)

// countingCache 只统计调用次数,Get总是未命中
type countingCache struct {
	port.NopCache
	sets        int
	invalidated int
}

func (c *countingCache) Set(context.Context, port.Namespace, string, port.Version, interface{}, time.Duration) {
	c.sets++
}

func (c *countingCache) Invalidate(_ context.Context, ns port.Namespace) {
	if ns == port.NamespaceBorrowers {
		c.invalidated++
	}
}

type fixture struct {
	cache      *countingCache
	users      user.Repository
	librarians user.LibrarianRepository
	books      book.Repository
	borrows    borrow.Repository

	register *RegisterBorrowerUseCase
	list     *ListBorrowersUseCase
	update   *UpdateBorrowerUseCase
	remove   *DeleteBorrowerUseCase
	current  *CurrentBorrowsUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := rdb.NewDB(&config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close(db) })

	f := &fixture{
		cache:      &countingCache{},
		users:      rdb.NewUserRepository(db),
		librarians: rdb.NewLibrarianRepository(db),
		books:      rdb.NewBookRepository(db),
		borrows:    rdb.NewBorrowRepository(db),
	}
	borrowers := rdb.NewBorrowerRepository(db)
	userSvc := user.NewService(f.users, f.librarians)
	tx := rdb.NewTxManager(db)

	f.register = NewRegisterBorrowerUseCase(userSvc, f.users, borrowers, tx, f.cache)
	f.list = NewListBorrowersUseCase(borrowers, f.cache, time.Minute)
	f.update = NewUpdateBorrowerUseCase(userSvc, f.users, borrowers, tx, f.cache)
	f.remove = NewDeleteBorrowerUseCase(f.users, f.librarians, borrowers, f.borrows, tx, f.cache)
	f.current = NewCurrentBorrowsUseCase(f.borrows)
	return f
}

func strPtr(s string) *string { return &s }

func TestRegisterBorrower(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.register.Execute(ctx, RegisterBorrowerRequest{Name: "Ada", Email: "Ada@Example.com"})
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, 1, f.cache.invalidated)

	_, err = f.register.Execute(ctx, RegisterBorrowerRequest{Name: "Other", Email: "ada@example.com"})
	assert.ErrorIs(t, err, user.ErrEmailDuplicate)

	_, err = f.register.Execute(ctx, RegisterBorrowerRequest{Name: " ", Email: "x@example.com"})
	assert.ErrorIs(t, err, user.ErrNameRequired)

	_, err = f.register.Execute(ctx, RegisterBorrowerRequest{Name: "X", Email: "not-an-email"})
	assert.ErrorIs(t, err, user.ErrInvalidEmail)
	assert.Equal(t, 1, f.cache.invalidated)
}

func TestListBorrowers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := f.register.Execute(ctx, RegisterBorrowerRequest{Name: "Reader", Email: email})
		require.NoError(t, err)
	}

	resp, err := f.list.Execute(ctx, pagination.New(2, 2))
	require.NoError(t, err)
	require.Len(t, resp.Borrowers, 1)
	assert.Equal(t, "c@example.com", resp.Borrowers[0].User.Email)
	assert.EqualValues(t, 3, resp.Pagination.TotalItems)
	assert.Equal(t, 1, f.cache.sets)
}

func TestUpdateBorrower(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.register.Execute(ctx, RegisterBorrowerRequest{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	_, err = f.register.Execute(ctx, RegisterBorrowerRequest{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  UpdateBorrowerRequest
		want error
	}{
		{"空更新", UpdateBorrowerRequest{}, borrower.ErrEmptyPatch},
		{"空姓名", UpdateBorrowerRequest{Name: strPtr("")}, ErrEmptyName},
		{"邮箱格式", UpdateBorrowerRequest{Email: strPtr("bad")}, ErrInvalidEmail},
		{"邮箱冲突", UpdateBorrowerRequest{Email: strPtr("bob@example.com")}, user.ErrEmailDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.update.Execute(ctx, a.ID, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err = f.update.Execute(ctx, 999, UpdateBorrowerRequest{Name: strPtr("Ghost")})
	assert.ErrorIs(t, err, borrower.ErrBorrowerNotFound)

	resp, err := f.update.Execute(ctx, a.ID, UpdateBorrowerRequest{Name: strPtr("Ada Lovelace"), Email: strPtr("ada@example.com")})
	require.NoError(t, err)
	assert.Equal(t, a.ID, resp.ID)
	assert.Equal(t, "Ada Lovelace", resp.Name)
	assert.Equal(t, "ada@example.com", resp.Email)
}

func TestUpdateBorrower_AddressedByBorrowerID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 先占用一个用户ID,使借阅者ID与用户ID错开
	require.NoError(t, f.users.Create(ctx, user.NewUser("Staff", "staff@example.com")))

	r, err := f.register.Execute(ctx, RegisterBorrowerRequest{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	u, err := f.users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotEqual(t, r.ID, u.ID)

	_, err = f.update.Execute(ctx, u.ID, UpdateBorrowerRequest{Name: strPtr("Wrong")})
	assert.ErrorIs(t, err, borrower.ErrBorrowerNotFound, "按用户ID访问视为借阅者不存在")

	resp, err := f.update.Execute(ctx, r.ID, UpdateBorrowerRequest{Name: strPtr("Ada Lovelace")})
	require.NoError(t, err)
	assert.Equal(t, r.ID, resp.ID)
	assert.Equal(t, "Ada Lovelace", resp.Name)
}

func TestDeleteBorrower(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.remove.Execute(ctx, 999)
	assert.ErrorIs(t, err, borrower.ErrBorrowerRecordNotFound)

	r, err := f.register.Execute(ctx, RegisterBorrowerRequest{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	b, err := book.NewBook("Dune", "Herbert", "978-1", 1, "A-1")
	require.NoError(t, err)
	require.NoError(t, f.books.Create(ctx, b))

	now := time.Now().UTC()
	loan := borrow.NewBorrow(r.ID, b.ID, now, now.AddDate(0, 0, 14))
	require.NoError(t, f.borrows.Create(ctx, loan))

	_, err = f.remove.Execute(ctx, r.ID)
	assert.ErrorIs(t, err, borrower.ErrActiveBorrows)

	current, err := f.current.Execute(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, "978-1", current[0].Book.ISBN)

	require.NoError(t, f.borrows.MarkReturned(ctx, loan.ID, now.Add(time.Hour)))

	resp, err := f.remove.Execute(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Borrower deleted successfully", resp.Message)

	_, err = f.users.FindByEmail(ctx, "ada@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound, "User随借阅者一起删除")

	current, err = f.current.Execute(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, current)
}
