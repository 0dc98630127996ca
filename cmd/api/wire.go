//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application/auth"
	appbook "github.com/xiebiao/library/internal/application/book"
	appborrow "github.com/xiebiao/library/internal/application/borrow"
	appborrower "github.com/xiebiao/library/internal/application/borrower"
	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/application/report"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
)

// infrastructureSet 数据库、Redis、消息队列等外部依赖
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	provideListCache,
	provideRateLimiter,
	provideJWTManager,
	provideEventPublisher,
	provideReportWriter,
	provideHealthServer,
	provideScheduler,
	redis.NewTokenBlacklist,
	wire.Bind(new(port.TokenBlacklist), new(*redis.TokenBlacklist)),
)

// repositorySet 仓储与事务管理器
var repositorySet = wire.NewSet(
	rdb.NewUserRepository,
	rdb.NewLibrarianRepository,
	rdb.NewBookRepository,
	rdb.NewBorrowerRepository,
	rdb.NewBorrowRepository,
	rdb.NewTxManager,
	wire.Bind(new(port.TxManager), new(*rdb.TxManager)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
	provideLoanPolicy,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appbook.NewCreateBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	provideListBooksUseCase,

	appborrower.NewRegisterBorrowerUseCase,
	appborrower.NewUpdateBorrowerUseCase,
	appborrower.NewDeleteBorrowerUseCase,
	appborrower.NewCurrentBorrowsUseCase,
	provideListBorrowersUseCase,

	appborrow.NewCheckOutUseCase,
	appborrow.NewReturnBookUseCase,
	appborrow.NewListBorrowsUseCase,

	auth.NewAuthenticator,
	auth.NewLoginUseCase,
	auth.NewRefreshUseCase,
	auth.NewLogoutUseCase,
	auth.NewSeedLibrarianUseCase,

	report.NewGenerator,
)

// interfaceSet 处理器、中间件与路由
var interfaceSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewBorrowerHandler,
	handler.NewBorrowHandler,
	handler.NewReportHandler,
	handler.NewAuthHandler,
	middleware.NewAuthMiddleware,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 初始化整个应用
// cleanup按创建的逆序关闭数据库、Redis和消息队列连接
func InitializeApp(cfg *config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
