package borrower

import (
	"context"
	"strings"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/domain/borrower"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	// ErrEmptyName 提供了name但为空
	ErrEmptyName = apperrors.Validation("updated name cannot be empty")

	// ErrInvalidEmail 提供了email但格式不正确
	ErrInvalidEmail = apperrors.Validation("Invalid email")
)

// UpdateBorrowerUseCase 修改借阅者姓名和邮箱
type UpdateBorrowerUseCase struct {
	userService  user.Service
	userRepo     user.Repository
	borrowerRepo borrower.Repository
	txManager    port.TxManager
	cache        port.ListCache
}

// NewUpdateBorrowerUseCase 创建更新用例
func NewUpdateBorrowerUseCase(
	userService user.Service,
	userRepo user.Repository,
	borrowerRepo borrower.Repository,
	txManager port.TxManager,
	cache port.ListCache,
) *UpdateBorrowerUseCase {
	return &UpdateBorrowerUseCase{
		userService:  userService,
		userRepo:     userRepo,
		borrowerRepo: borrowerRepo,
		txManager:    txManager,
		cache:        cache,
	}
}

// UpdateBorrowerRequest nil表示不修改
type UpdateBorrowerRequest struct {
	Name  *string
	Email *string
}

// UpdateBorrowerResponse 更新结果
type UpdateBorrowerResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Execute 执行更新
func (uc *UpdateBorrowerUseCase) Execute(ctx context.Context, id uint, req UpdateBorrowerRequest) (*UpdateBorrowerResponse, error) {
	if req.Name == nil && req.Email == nil {
		return nil, borrower.ErrEmptyPatch
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, ErrEmptyName
	}
	if req.Email != nil && !user.IsValidEmail(*req.Email) {
		return nil, ErrInvalidEmail
	}

	var resp *UpdateBorrowerResponse
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		b, err := uc.borrowerRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		u, err := uc.userRepo.LockByID(txCtx, b.UserID)
		if err != nil {
			return err
		}

		if req.Email != nil && !strings.EqualFold(strings.TrimSpace(*req.Email), u.Email) {
			if err := uc.userService.EnsureEmailAvailable(txCtx, *req.Email); err != nil {
				return err
			}
			u.ChangeEmail(*req.Email)
		}
		if req.Name != nil {
			u.Rename(*req.Name)
		}

		if err := uc.userRepo.Update(txCtx, u); err != nil {
			return err
		}

		resp = &UpdateBorrowerResponse{ID: b.ID, Name: u.Name, Email: u.Email}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, port.NamespaceBorrowers)
	return resp, nil
}
