package borrower

import (
	"time"

	"github.com/xiebiao/library/internal/domain/user"
)

// Borrower 借阅者
// 与User一对一,删除时一并删除User
type Borrower struct {
	ID             uint
	UserID         uint
	RegisteredDate time.Time
	User           *user.User
}

// NewBorrower 为已持久化的用户创建借阅者
func NewBorrower(u *user.User, registeredAt time.Time) *Borrower {
	return &Borrower{
		UserID:         u.ID,
		RegisteredDate: registeredAt,
		User:           u,
	}
}
