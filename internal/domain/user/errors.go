package user

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = apperrors.NotFound("User not found")

	// ErrLibrarianNotFound 馆员不存在
	ErrLibrarianNotFound = apperrors.NotFound("Librarian not found")

	// ErrEmailDuplicate 邮箱已被注册
	ErrEmailDuplicate = apperrors.Conflict("Email is already registered")

	// ErrNotLibrarian 用户存在但不是馆员（或邮箱不存在）
	ErrNotLibrarian = apperrors.ErrForbidden

	// ErrInvalidCredentials 密码错误
	ErrInvalidCredentials = apperrors.ErrInvalidCredentials

	// ErrWeakPassword 密码强度不足
	ErrWeakPassword = apperrors.Validation("Password must be 8-64 characters and contain letters and digits")

	// ErrInvalidEmail 邮箱格式不正确
	ErrInvalidEmail = apperrors.Validation("Must be a valid email")

	// ErrNameRequired 姓名必填
	ErrNameRequired = apperrors.Validation("Name is required")
)
