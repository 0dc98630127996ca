package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/application/auth"
	appbook "github.com/xiebiao/library/internal/application/book"
	appborrow "github.com/xiebiao/library/internal/application/borrow"
	appborrower "github.com/xiebiao/library/internal/application/borrower"
	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/application/report"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/domain/borrower"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/export"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/infrastructure/scheduler"
	"github.com/xiebiao/library/internal/interface/grpcserver"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/mq"
)

// App 组装完成的应用
type App struct {
	Engine    *gin.Engine
	Health    *grpcserver.HealthServer
	Scheduler *scheduler.Scheduler

	SeedLibrarian *auth.SeedLibrarianUseCase
	Reports       *report.Generator
	Borrows       *appborrow.ListBorrowsUseCase
}

// provideDB 数据库连接,cleanup关闭连接池
func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := rdb.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if err := rdb.Close(db); err != nil {
			zap.L().Warn("关闭数据库失败", zap.Error(err))
		}
	}, nil
}

// provideRedis Redis客户端,连接失败不阻止启动
func provideRedis(cfg *config.Config) (*goredis.Client, func()) {
	client := redis.NewClient(cfg)
	return client, func() {
		if err := redis.Close(client); err != nil {
			zap.L().Warn("关闭Redis失败", zap.Error(err))
		}
	}
}

// provideListCache cache.enabled=false时不使用缓存
func provideListCache(cfg *config.Config, client *goredis.Client, logger *zap.Logger) port.ListCache {
	if !cfg.Cache.Enabled {
		return port.NopCache{}
	}
	return redis.NewListCache(client, redis.ListCacheOptions{
		BreakerFailures: cfg.Cache.BreakerFailures,
		BreakerTimeout:  cfg.Cache.BreakerTimeout,
	}, logger)
}

func provideRateLimiter(cfg *config.Config, client *goredis.Client) middleware.Limiter {
	return redis.NewRateLimiter(client, cfg.RateLimit.Requests, cfg.RateLimit.Window)
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideEventPublisher 未配置mq.url或连接失败时事件丢弃
func provideEventPublisher(cfg *config.Config, logger *zap.Logger) (port.EventPublisher, func()) {
	if cfg.MQ.URL == "" {
		return port.NopPublisher{}, func() {}
	}
	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
	if err != nil {
		logger.Warn("连接消息队列失败,借阅事件将不会发布", zap.Error(err))
		return port.NopPublisher{}, func() {}
	}
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("关闭消息发布者失败", zap.Error(err))
		}
	}
}

func provideLoanPolicy(cfg *config.Config) borrow.Policy {
	return borrow.Policy{MaxOpen: cfg.Loan.MaxOpen, DefaultDays: cfg.Loan.DefaultDays}
}

func provideReportWriter(cfg *config.Config) port.ReportWriter {
	return export.NewCSVWriter(cfg.Report.ExportDir)
}

func provideListBooksUseCase(cfg *config.Config, bookService book.Service, cache port.ListCache) *appbook.ListBooksUseCase {
	return appbook.NewListBooksUseCase(bookService, cache, cfg.Cache.BooksTTL)
}

func provideListBorrowersUseCase(cfg *config.Config, repo borrower.Repository, cache port.ListCache) *appborrower.ListBorrowersUseCase {
	return appborrower.NewListBorrowersUseCase(repo, cache, cfg.Cache.BorrowersTTL)
}

// provideHealthServer gRPC健康检查,只探测数据库
// Redis不可用时服务降级运行,不影响探活
func provideHealthServer(cfg *config.Config, db *gorm.DB, logger *zap.Logger) *grpcserver.HealthServer {
	return grpcserver.NewHealthServer(map[string]grpcserver.Pinger{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}, 10*time.Second, cfg.Server.Mode != "release", logger)
}

func provideScheduler(logger *zap.Logger) *scheduler.Scheduler {
	return scheduler.New(logger, 5*time.Minute)
}
