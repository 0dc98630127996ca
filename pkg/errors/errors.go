package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code是5位业务错误码，前3位即HTTP状态码（如40900 → 409）
// 2. Message是返回给客户端的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码和消息比较，使预定义错误在被Wrap后仍可用errors.Is判断
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// HTTPStatus 从业务错误码推导HTTP状态码
// 非法错误码统一视为500
func (e *AppError) HTTPStatus() int {
	status := e.Code / 100
	if status < 400 || status > 599 || http.StatusText(status) == "" {
		return http.StatusInternalServerError
	}
	return status
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：前3位是HTTP状态码，后2位区分同一状态下的具体错误

const (
	// 参数/业务校验错误（400xx）
	ErrCodeValidation = 40000 // 参数错误(通用)
	ErrCodeBindError  = 40001 // 参数绑定失败

	// 认证授权错误（401xx/403xx）
	ErrCodeUnauthorized = 40100 // 未认证
	ErrCodeInvalidToken = 40101 // Token无效
	ErrCodeTokenExpired = 40102 // Token过期
	ErrCodeForbidden    = 40300 // 无权限

	// 资源错误（404xx）
	ErrCodeNotFound      = 40400 // 资源不存在(通用)
	ErrCodeRouteNotFound = 40401 // 路由不存在

	// 冲突错误（409xx）
	ErrCodeConflict = 40900 // 状态冲突/唯一性冲突

	// 限流（429xx）
	ErrCodeTooManyRequests = 42900

	// 系统级错误码（500xx）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "Internal server error")
	ErrDatabaseError = New(ErrCodeDatabaseError, "Database error")
	ErrRedisError    = New(ErrCodeRedisError, "Cache service error")

	// 认证授权
	ErrUnauthorized       = New(ErrCodeUnauthorized, "Missing or invalid Authorization header")
	ErrInvalidCredentials = New(ErrCodeUnauthorized, "Invalid credentials")
	ErrInvalidToken       = New(ErrCodeInvalidToken, "Invalid token")
	ErrTokenExpired       = New(ErrCodeTokenExpired, "Token expired")
	ErrForbidden          = New(ErrCodeForbidden, "Access denied: librarian only")

	// 参数错误
	ErrInvalidParams = New(ErrCodeValidation, "Invalid parameters")
	ErrBindError     = New(ErrCodeBindError, "Malformed request body")
	ErrBindQuery     = New(ErrCodeBindError, "Malformed query parameters")

	// 限流
	ErrTooManyRequests = New(ErrCodeTooManyRequests, "Too many requests. Please try again after a minute.")
)

// =========================================
// 辅助函数
// =========================================

// Validation 创建400错误
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// NotFound 创建404错误
func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message)
}

// Conflict 创建409错误
func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message)
}

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "Internal server error")
}
