package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

var admin = Identity{UserID: 1, LibrarianID: 7, Email: "admin@example.com", Name: "Admin"}

func TestManager_GenerateAndParse(t *testing.T) {
	m := NewManager("secret", time.Hour, 24*time.Hour)

	pair, err := m.GenerateToken(admin)
	require.NoError(t, err)
	assert.EqualValues(t, 3600, pair.ExpiresIn)

	claims, err := m.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.LibrarianID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, time.Hour.Seconds(), claims.RemainingTTL(time.Now()).Seconds(), 5)
}

func TestManager_TokenTypes(t *testing.T) {
	m := NewManager("secret", time.Hour, 24*time.Hour)
	pair, err := m.GenerateToken(admin)
	require.NoError(t, err)

	_, err = m.ParseAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = m.ParseRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	access, claims, err := m.RefreshAccessToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, admin.UserID, claims.UserID)
	_, err = m.ParseAccessToken(access)
	assert.NoError(t, err)
}

func TestManager_Rejects(t *testing.T) {
	m := NewManager("secret", -time.Minute, time.Hour)
	pair, err := m.GenerateToken(admin)
	require.NoError(t, err)

	_, err = m.ParseAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

	other := NewManager("other", time.Hour, time.Hour)
	valid, err := other.GenerateToken(admin)
	require.NoError(t, err)
	_, err = m.ParseToken(valid.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = m.ParseToken("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
