package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/domain/user"
)

// SeedLibrarianUseCase 创建馆员账号(已存在时跳过)
// 启动时的管理员种子和libraryctl seed-librarian共用
type SeedLibrarianUseCase struct {
	userService user.Service
	txManager   port.TxManager
	logger      *zap.Logger
}

// NewSeedLibrarianUseCase 创建种子用例
func NewSeedLibrarianUseCase(userService user.Service, txManager port.TxManager, logger *zap.Logger) *SeedLibrarianUseCase {
	return &SeedLibrarianUseCase{
		userService: userService,
		txManager:   txManager,
		logger:      logger,
	}
}

// SeedLibrarianRequest 馆员信息
type SeedLibrarianRequest struct {
	Name     string
	Email    string
	Password string
}

// Execute 返回馆员以及是否新建
func (uc *SeedLibrarianUseCase) Execute(ctx context.Context, req SeedLibrarianRequest) (*LibrarianInfo, bool, error) {
	var (
		librarian *user.Librarian
		created   bool
	)
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		var err error
		librarian, created, err = uc.userService.RegisterLibrarian(txCtx, req.Name, req.Email, req.Password)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	p := principalOf(librarian)
	if created {
		uc.logger.Info("已创建馆员账号", zap.String("email", p.Email))
	} else {
		uc.logger.Info("馆员账号已存在,跳过", zap.String("email", p.Email))
	}
	return &LibrarianInfo{ID: p.LibrarianID, Name: p.Name, Email: p.Email}, created, nil
}
