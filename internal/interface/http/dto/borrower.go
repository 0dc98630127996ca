package dto

import (
	"strings"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// CreateBorrowerRequest 登记借阅者
type CreateBorrowerRequest struct {
	Name  string `json:"name" example:"Ada Lovelace"`
	Email string `json:"email" example:"ada@example.com"`
}

// Validate 校验必填和邮箱格式
func (r *CreateBorrowerRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return user.ErrNameRequired
	case strings.TrimSpace(r.Email) == "":
		return apperrors.Validation("email is required")
	case !user.IsValidEmail(r.Email):
		return user.ErrInvalidEmail
	}
	return nil
}

// UpdateBorrowerRequest 修改借阅者,未提供的字段不修改
type UpdateBorrowerRequest struct {
	Name  *string `json:"name,omitempty" example:"Ada King"`
	Email *string `json:"email,omitempty" example:"ada.king@example.com"`
}
