package user

import (
	"strings"
	"time"
)

// User 身份实体
// Borrower与Librarian通过一对一关系共享User
type User struct {
	ID        uint
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建用户（工厂方法）
func NewUser(name, email string) *User {
	now := time.Now()
	return &User{
		Name:      strings.TrimSpace(name),
		Email:     normalizeEmail(email),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Rename 修改姓名
func (u *User) Rename(name string) {
	u.Name = strings.TrimSpace(name)
	u.UpdatedAt = time.Now()
}

// ChangeEmail 修改邮箱（唯一性由Service校验）
func (u *User) ChangeEmail(email string) {
	u.Email = normalizeEmail(email)
	u.UpdatedAt = time.Now()
}

// Librarian 馆员,仅用于认证
// 密码已加密存储（bcrypt），不暴露明文
type Librarian struct {
	ID           uint
	UserID       uint
	PasswordHash string
	User         *User
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
