package borrower

import (
	"context"
	"strings"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/domain/borrower"
	"github.com/xiebiao/library/internal/domain/user"
)

// RegisterBorrowerUseCase 登记借阅者用例
// 同一事务内先创建User再创建Borrower
type RegisterBorrowerUseCase struct {
	userService  user.Service
	userRepo     user.Repository
	borrowerRepo borrower.Repository
	txManager    port.TxManager
	cache        port.ListCache
	now          port.Clock
}

// NewRegisterBorrowerUseCase 创建登记用例
func NewRegisterBorrowerUseCase(
	userService user.Service,
	userRepo user.Repository,
	borrowerRepo borrower.Repository,
	txManager port.TxManager,
	cache port.ListCache,
) *RegisterBorrowerUseCase {
	return &RegisterBorrowerUseCase{
		userService:  userService,
		userRepo:     userRepo,
		borrowerRepo: borrowerRepo,
		txManager:    txManager,
		cache:        cache,
		now:          port.SystemClock,
	}
}

// RegisterBorrowerRequest 登记请求
type RegisterBorrowerRequest struct {
	Name  string
	Email string
}

// Execute 执行登记
func (uc *RegisterBorrowerUseCase) Execute(ctx context.Context, req RegisterBorrowerRequest) (*BorrowerResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, user.ErrNameRequired
	}
	if !user.IsValidEmail(req.Email) {
		return nil, user.ErrInvalidEmail
	}

	var created *borrower.Borrower
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.userService.EnsureEmailAvailable(txCtx, req.Email); err != nil {
			return err
		}

		u := user.NewUser(req.Name, req.Email)
		if err := uc.userRepo.Create(txCtx, u); err != nil {
			return err
		}

		b := borrower.NewBorrower(u, uc.now())
		if err := uc.borrowerRepo.Create(txCtx, b); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, port.NamespaceBorrowers)
	return toBorrowerResponse(created), nil
}
