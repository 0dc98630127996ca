package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application/auth"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

const principalKey = "principal"

// AuthMiddleware 馆员认证中间件
// 接受两种凭证:
//
//	Authorization: Basic base64(email:password)
//	Authorization: Bearer <access token>
type AuthMiddleware struct {
	authenticator *auth.Authenticator
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(authenticator *auth.Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// RequireLibrarian 要求馆员身份
// 缺少或格式错误的凭证401,邮箱不属于馆员403,密码错误401
func (m *AuthMiddleware) RequireLibrarian() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")

		var (
			principal *auth.Principal
			err       error
		)
		switch {
		case strings.HasPrefix(header, "Bearer "):
			principal, err = m.authenticator.Bearer(c.Request.Context(), strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		default:
			email, password, ok := c.Request.BasicAuth()
			if !ok || email == "" || password == "" {
				err = apperrors.ErrUnauthorized
				break
			}
			principal, err = m.authenticator.Basic(c.Request.Context(), email, password)
		}

		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// GetPrincipal 从Context获取当前馆员,未认证时返回nil
func GetPrincipal(c *gin.Context) *auth.Principal {
	if v, exists := c.Get(principalKey); exists {
		if p, ok := v.(*auth.Principal); ok {
			return p
		}
	}
	return nil
}
