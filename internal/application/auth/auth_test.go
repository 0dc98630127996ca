package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
)

type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (b *memoryBlacklist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[tokenID] = ttl
	return nil
}

func (b *memoryBlacklist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.revoked[tokenID]
	return ok, nil
}

type authFixture struct {
	blacklist *memoryBlacklist
	authn     *Authenticator
	login     *LoginUseCase
	refresh   *RefreshUseCase
	logout    *LogoutUseCase
	seed      *SeedLibrarianUseCase
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db, err := rdb.NewDB(&config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close(db) })

	svc := user.NewService(rdb.NewUserRepository(db), rdb.NewLibrarianRepository(db))
	manager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	blacklist := &memoryBlacklist{revoked: map[string]time.Duration{}}
	logger := zap.NewNop()

	f := &authFixture{
		blacklist: blacklist,
		authn:     NewAuthenticator(svc, manager, blacklist),
		login:     NewLoginUseCase(svc, manager, logger),
		refresh:   NewRefreshUseCase(manager, blacklist),
		logout:    NewLogoutUseCase(manager, blacklist),
		seed:      NewSeedLibrarianUseCase(svc, rdb.NewTxManager(db), logger),
	}

	_, created, err := f.seed.Execute(context.Background(), SeedLibrarianRequest{Name: "Admin", Email: "admin@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.True(t, created)
	return f
}

func TestSeedLibrarian_Idempotent(t *testing.T) {
	f := newAuthFixture(t)

	info, created, err := f.seed.Execute(context.Background(), SeedLibrarianRequest{Name: "Admin", Email: "admin@example.com", Password: "other-pass1"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "admin@example.com", info.Email)
}

func TestAuthenticator_Basic(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	p, err := f.authn.Basic(ctx, "admin@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Admin", p.Name)
	assert.Empty(t, p.TokenID)

	_, err = f.authn.Basic(ctx, "admin@example.com", "wrong-pass1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.authn.Basic(ctx, "reader@example.com", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestLoginRefreshLogout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.login.Execute(ctx, LoginRequest{Email: "admin@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	p, err := f.authn.Bearer(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.Librarian.ID, p.LibrarianID)
	assert.NotEmpty(t, p.TokenID)

	_, err = f.authn.Bearer(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken, "Refresh Token不能用于访问接口")

	refreshed, err := f.refresh.Execute(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	require.NoError(t, f.logout.Execute(ctx, p, resp.RefreshToken))
	assert.Len(t, f.blacklist.revoked, 2)

	_, err = f.authn.Bearer(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = f.refresh.Execute(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestLogout_RequiresBearer(t *testing.T) {
	f := newAuthFixture(t)
	err := f.logout.Execute(context.Background(), &Principal{UserID: 1}, "")
	assert.Error(t, err)
	assert.Empty(t, f.blacklist.revoked)
}
