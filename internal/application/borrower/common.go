package borrower

import (
	"time"

	"github.com/xiebiao/library/internal/domain/borrower"
)

// UserInfo 借阅者关联的用户信息
type UserInfo struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BorrowerResponse 借阅者响应DTO
type BorrowerResponse struct {
	ID             uint      `json:"id"`
	RegisteredDate time.Time `json:"registeredDate"`
	User           UserInfo  `json:"user"`
}

func toBorrowerResponse(b *borrower.Borrower) *BorrowerResponse {
	resp := &BorrowerResponse{
		ID:             b.ID,
		RegisteredDate: b.RegisteredDate,
	}
	if b.User != nil {
		resp.User = UserInfo{ID: b.User.ID, Name: b.User.Name, Email: b.User.Email}
	}
	return resp
}
