package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	_ "github.com/xiebiao/library/docs"
	"github.com/xiebiao/library/internal/application/auth"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// @title                       Library API
// @version                     1.0
// @description                 图书馆借阅管理服务:图书目录、借阅者、借还书和CSV报表
// @BasePath                    /
// @securityDefinitions.basic   BasicAuth
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 日志
	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	zlog.Info("配置加载成功",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("redis", cfg.Redis.Addr()),
	)

	// 3. 指标与链路追踪
	if cfg.Metrics.Enabled {
		metrics.InitMetrics()
	}
	shutdownTracer := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		shutdownTracer, err = tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorURL)
		if err != nil {
			zlog.Fatal("初始化链路追踪失败", zap.Error(err))
		}
	}

	// 4. 依赖注入
	app, cleanup, err := InitializeApp(cfg, zlog)
	if err != nil {
		zlog.Fatal("初始化应用失败", zap.Error(err))
	}
	defer cleanup()

	ctx := context.Background()

	// 5. 管理员账号与启动时状态
	if cfg.Admin.Seed {
		seedAdmin(ctx, app, cfg, zlog)
	}
	if open, err := app.Borrows.CountOpen(ctx); err != nil {
		zlog.Warn("统计未归还借阅失败", zap.Error(err))
	} else {
		metrics.SetGauge(metrics.OpenBorrows, float64(open))
	}

	// 6. 定时导出报表
	if cfg.Report.Schedule != "" {
		scheduleReports(app, cfg, zlog)
		app.Scheduler.Start()
	}

	// 7. 启动HTTP服务
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		zlog.Info("HTTP服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("HTTP服务异常退出", zap.Error(err))
		}
	}()

	// 8. gRPC健康检查
	if cfg.Server.GRPCPort > 0 {
		go func() {
			zlog.Info("gRPC健康检查启动", zap.Int("port", cfg.Server.GRPCPort))
			if err := app.Health.ListenAndServe(cfg.Server.GRPCPort); err != nil {
				zlog.Error("gRPC服务异常退出", zap.Error(err))
			}
		}()
	}

	// 9. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("正在优雅关闭服务...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("HTTP服务强制关闭", zap.Error(err))
	}
	if cfg.Server.GRPCPort > 0 {
		app.Health.Stop()
	}
	if cfg.Report.Schedule != "" {
		app.Scheduler.Stop(shutdownCtx)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		zlog.Warn("关闭链路追踪失败", zap.Error(err))
	}

	zlog.Info("服务已完全关闭")
}

// seedAdmin 创建配置中的管理员,已存在时跳过
func seedAdmin(ctx context.Context, app *App, cfg *config.Config, zlog *zap.Logger) {
	info, created, err := app.SeedLibrarian.Execute(ctx, auth.SeedLibrarianRequest{
		Name:     cfg.Admin.Name,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	})
	if err != nil {
		zlog.Error("创建管理员失败", zap.Error(err))
		return
	}
	if created {
		zlog.Info("管理员已创建", zap.String("email", info.Email))
	}
}

// scheduleReports 每月导出上月借阅和逾期报表
func scheduleReports(app *App, cfg *config.Config, zlog *zap.Logger) {
	jobs := map[string]func(context.Context) error{
		"overdue-last-month": func(ctx context.Context) error {
			_, err := app.Reports.OverdueLastMonth(ctx)
			return err
		},
		"borrows-last-month": func(ctx context.Context) error {
			_, err := app.Reports.BorrowsLastMonth(ctx)
			return err
		},
	}
	for name, job := range jobs {
		if err := app.Scheduler.Add(cfg.Report.Schedule, name, job); err != nil {
			zlog.Fatal("注册定时任务失败", zap.String("job", name), zap.Error(err))
		}
	}
}
