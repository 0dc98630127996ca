package borrower

import (
	"context"
	"errors"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/domain/borrower"
	"github.com/xiebiao/library/internal/domain/user"
)

// DeleteBorrowerUseCase 删除借阅者
// 锁顺序:Borrower → User → 未归还的Borrow,与借出/归还不构成环
type DeleteBorrowerUseCase struct {
	userRepo      user.Repository
	librarianRepo user.LibrarianRepository
	borrowerRepo  borrower.Repository
	borrowRepo    borrow.Repository
	txManager     port.TxManager
	cache         port.ListCache
}

// NewDeleteBorrowerUseCase 创建删除用例
func NewDeleteBorrowerUseCase(
	userRepo user.Repository,
	librarianRepo user.LibrarianRepository,
	borrowerRepo borrower.Repository,
	borrowRepo borrow.Repository,
	txManager port.TxManager,
	cache port.ListCache,
) *DeleteBorrowerUseCase {
	return &DeleteBorrowerUseCase{
		userRepo:      userRepo,
		librarianRepo: librarianRepo,
		borrowerRepo:  borrowerRepo,
		borrowRepo:    borrowRepo,
		txManager:     txManager,
		cache:         cache,
	}
}

// DeleteBorrowerResponse 删除结果
type DeleteBorrowerResponse struct {
	Message string `json:"message"`
}

// Execute 执行删除
func (uc *DeleteBorrowerUseCase) Execute(ctx context.Context, id uint) (*DeleteBorrowerResponse, error) {
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		b, err := uc.borrowerRepo.LockByID(txCtx, id)
		if err != nil {
			if errors.Is(err, borrower.ErrBorrowerNotFound) {
				return borrower.ErrBorrowerRecordNotFound
			}
			return err
		}

		u, err := uc.userRepo.LockByID(txCtx, b.UserID)
		if err != nil && !errors.Is(err, user.ErrUserNotFound) {
			return err
		}

		open, err := uc.borrowRepo.LockFirstOpenByBorrower(txCtx, b.ID)
		if err != nil {
			return err
		}
		if open != nil {
			return borrower.ErrActiveBorrows
		}

		if err := uc.borrowerRepo.Delete(txCtx, b.ID); err != nil {
			return err
		}
		if u == nil {
			return nil
		}

		// 同一个User也可能是馆员,此时保留User
		if _, err := uc.librarianRepo.FindByUserID(txCtx, u.ID); err == nil {
			return nil
		} else if !errors.Is(err, user.ErrLibrarianNotFound) {
			return err
		}
		return uc.userRepo.Delete(txCtx, u.ID)
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, port.NamespaceBorrowers)
	return &DeleteBorrowerResponse{Message: "Borrower deleted successfully"}, nil
}
