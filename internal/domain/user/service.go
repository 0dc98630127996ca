package user

import (
	"context"
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Service 用户领域服务接口
type Service interface {
	// Authenticate 校验馆员凭证
	// 业务规则：
	// 1. 邮箱必须属于某个馆员,否则ErrNotLibrarian(403)
	// 2. 密码必须匹配,否则ErrInvalidCredentials(401)
	Authenticate(ctx context.Context, email, password string) (*Librarian, error)

	// RegisterLibrarian 创建馆员(用户不存在时一并创建)
	// 已是馆员时直接返回,便于重复执行种子脚本
	RegisterLibrarian(ctx context.Context, name, email, password string) (*Librarian, bool, error)

	// EnsureEmailAvailable 邮箱未被其他用户占用
	EnsureEmailAvailable(ctx context.Context, email string) error
}

type service struct {
	users      Repository
	librarians LibrarianRepository
	cost       int
}

// NewService 创建用户领域服务
func NewService(users Repository, librarians LibrarianRepository) Service {
	return &service{
		users:      users,
		librarians: librarians,
		cost:       bcrypt.DefaultCost,
	}
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*Librarian, error) {
	librarian, err := s.librarians.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrLibrarianNotFound) {
			return nil, ErrNotLibrarian
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(librarian.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(err, "密码验证失败")
	}

	return librarian, nil
}

func (s *service) RegisterLibrarian(ctx context.Context, name, email, password string) (*Librarian, bool, error) {
	if name == "" {
		return nil, false, ErrNameRequired
	}
	if !IsValidEmail(email) {
		return nil, false, ErrInvalidEmail
	}

	if existing, err := s.librarians.FindByEmail(ctx, normalizeEmail(email)); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, ErrLibrarianNotFound) {
		return nil, false, err
	}

	if err := validatePasswordStrength(password); err != nil {
		return nil, false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, false, apperrors.Wrap(err, "密码加密失败")
	}

	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		u = NewUser(name, email)
		err = s.users.Create(ctx, u)
	}
	if err != nil {
		return nil, false, err
	}

	librarian := &Librarian{UserID: u.ID, PasswordHash: string(hashed), User: u}
	if err := s.librarians.Create(ctx, librarian); err != nil {
		return nil, false, err
	}
	return librarian, true, nil
}

func (s *service) EnsureEmailAvailable(ctx context.Context, email string) error {
	_, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return ErrEmailDuplicate
	}
	if errors.Is(err, ErrUserNotFound) {
		return nil
	}
	return err
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	hasLetter    = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit     = regexp.MustCompile(`[0-9]`)
)

// IsValidEmail 邮箱格式校验
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(normalizeEmail(email))
}

// validatePasswordStrength 8-64位,必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 64 {
		return ErrWeakPassword
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return ErrWeakPassword
	}
	return nil
}
