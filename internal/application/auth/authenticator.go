// Package auth 馆员认证
// 支持两种凭证:Basic(email:password)和登录后签发的Bearer JWT
package auth

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
)

// Principal 已认证的馆员
type Principal struct {
	UserID      uint
	LibrarianID uint
	Email       string
	Name        string

	// 以下字段只有Bearer认证时才有值
	TokenID   string
	ExpiresAt time.Time
}

// Authenticator 校验请求凭证
type Authenticator struct {
	userService user.Service
	jwtManager  *jwt.Manager
	blacklist   port.TokenBlacklist
}

// NewAuthenticator 创建认证器
func NewAuthenticator(userService user.Service, jwtManager *jwt.Manager, blacklist port.TokenBlacklist) *Authenticator {
	return &Authenticator{
		userService: userService,
		jwtManager:  jwtManager,
		blacklist:   blacklist,
	}
}

// Basic 校验邮箱密码
func (a *Authenticator) Basic(ctx context.Context, email, password string) (*Principal, error) {
	librarian, err := a.userService.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return principalOf(librarian), nil
}

// Bearer 校验Access Token,已注销的Token视为无效
func (a *Authenticator) Bearer(ctx context.Context, token string) (*Principal, error) {
	claims, err := a.jwtManager.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := a.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, "检查Token黑名单失败")
	}
	if revoked {
		return nil, apperrors.ErrInvalidToken
	}

	return &Principal{
		UserID:      claims.UserID,
		LibrarianID: claims.LibrarianID,
		Email:       claims.Email,
		Name:        claims.Name,
		TokenID:     claims.ID,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

func principalOf(l *user.Librarian) *Principal {
	p := &Principal{UserID: l.UserID, LibrarianID: l.ID}
	if l.User != nil {
		p.Email = l.User.Email
		p.Name = l.User.Name
	}
	return p
}
