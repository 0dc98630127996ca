package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
)

// LoginUseCase 馆员登录,签发Token对
type LoginUseCase struct {
	userService user.Service
	jwtManager  *jwt.Manager
	logger      *zap.Logger
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(userService user.Service, jwtManager *jwt.Manager, logger *zap.Logger) *LoginUseCase {
	return &LoginUseCase{
		userService: userService,
		jwtManager:  jwtManager,
		logger:      logger,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
}

// LibrarianInfo 馆员信息
type LibrarianInfo struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Librarian    LibrarianInfo `json:"librarian"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"` // Access Token过期时间（秒）
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	librarian, err := uc.userService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	p := principalOf(librarian)
	pair, err := uc.jwtManager.GenerateToken(jwt.Identity{
		UserID:      p.UserID,
		LibrarianID: p.LibrarianID,
		Email:       p.Email,
		Name:        p.Name,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("馆员登录", zap.Uint("librarian_id", p.LibrarianID))

	return &LoginResponse{
		Librarian:    LibrarianInfo{ID: p.LibrarianID, Name: p.Name, Email: p.Email},
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// RefreshUseCase 用Refresh Token换取新的Access Token
type RefreshUseCase struct {
	jwtManager *jwt.Manager
	blacklist  port.TokenBlacklist
}

// NewRefreshUseCase 创建刷新用例
func NewRefreshUseCase(jwtManager *jwt.Manager, blacklist port.TokenBlacklist) *RefreshUseCase {
	return &RefreshUseCase{jwtManager: jwtManager, blacklist: blacklist}
}

// RefreshResponse 刷新结果
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// Execute 执行刷新,已注销的Refresh Token不能再用
func (uc *RefreshUseCase) Execute(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	claims, err := uc.jwtManager.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	revoked, err := uc.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, "检查Token黑名单失败")
	}
	if revoked {
		return nil, apperrors.ErrInvalidToken
	}

	access, _, err := uc.jwtManager.RefreshAccessToken(refreshToken)
	if err != nil {
		return nil, err
	}
	return &RefreshResponse{AccessToken: access}, nil
}

// LogoutUseCase 注销Token
// Token本身无状态,注销即把jti加入黑名单,过期时间等于Token剩余有效期
type LogoutUseCase struct {
	jwtManager *jwt.Manager
	blacklist  port.TokenBlacklist
	now        port.Clock
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(jwtManager *jwt.Manager, blacklist port.TokenBlacklist) *LogoutUseCase {
	return &LogoutUseCase{jwtManager: jwtManager, blacklist: blacklist, now: port.SystemClock}
}

// Execute 注销当前Access Token,提供了Refresh Token时一并注销
func (uc *LogoutUseCase) Execute(ctx context.Context, principal *Principal, refreshToken string) error {
	if principal == nil || principal.TokenID == "" {
		return apperrors.Validation("Logout requires a bearer token")
	}

	now := uc.now()
	if err := uc.revoke(ctx, principal.TokenID, principal.ExpiresAt.Sub(now)); err != nil {
		return err
	}

	if refreshToken == "" {
		return nil
	}
	claims, err := uc.jwtManager.ParseRefreshToken(refreshToken)
	if err != nil {
		return err
	}
	return uc.revoke(ctx, claims.ID, claims.RemainingTTL(now))
}

func (uc *LogoutUseCase) revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := uc.blacklist.Revoke(ctx, tokenID, ttl); err != nil {
		return apperrors.Wrap(err, "注销Token失败")
	}
	return nil
}
