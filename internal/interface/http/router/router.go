// Package router 注册HTTP路由
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/metrics"
)

// Handlers 全部HTTP处理器
type Handlers struct {
	Book     *handler.BookHandler
	Borrower *handler.BorrowerHandler
	Borrow   *handler.BorrowHandler
	Report   *handler.ReportHandler
	Auth     *handler.AuthHandler
}

// New 创建Gin引擎并注册全部路由
//
// 公开接口: GET /api/books、GET /api/borrowers/:id/currentBorrows、/api/auth/login|refresh
// 限流接口: GET /api/borrowers、GET /api/reports/borrows-by-period
// 其余/api接口需要馆员认证(Basic或Bearer)
func New(
	cfg *config.Config,
	logger *zap.Logger,
	h Handlers,
	authMiddleware *middleware.AuthMiddleware,
	limiter middleware.Limiter,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.Logger(logger),
		middleware.Tracing(),
	)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	r.GET("/", index)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	if cfg.Server.Mode != "release" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireLibrarian := authMiddleware.RequireLibrarian()
	rateLimit := func(scope string) gin.HandlerFunc {
		return middleware.RateLimit(limiter, scope, logger)
	}

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", h.Auth.Login)
			authGroup.POST("/refresh", h.Auth.Refresh)
			authGroup.POST("/logout", requireLibrarian, h.Auth.Logout)
		}

		books := api.Group("/books")
		{
			books.GET("", h.Book.ListBooks)
			books.POST("", requireLibrarian, h.Book.CreateBook)
			books.PATCH("/:id", requireLibrarian, h.Book.UpdateBook)
			books.DELETE("/:id", requireLibrarian, h.Book.DeleteBook)
		}

		borrowers := api.Group("/borrowers")
		{
			borrowers.GET("/:id/currentBorrows", h.Borrower.CurrentBorrows)
			borrowers.GET("", rateLimit("borrowers"), requireLibrarian, h.Borrower.ListBorrowers)
			borrowers.POST("", requireLibrarian, h.Borrower.CreateBorrower)
			borrowers.PATCH("/:id", requireLibrarian, h.Borrower.UpdateBorrower)
			borrowers.DELETE("/:id", requireLibrarian, h.Borrower.DeleteBorrower)
		}

		borrows := api.Group("/borrows")
		borrows.Use(requireLibrarian)
		{
			borrows.POST("", h.Borrow.CheckOut)
			borrows.PATCH("/:borrowId", h.Borrow.ReturnBook)
			borrows.GET("", h.Borrow.ListBorrows)
		}

		reports := api.Group("/reports")
		{
			reports.GET("/borrows-by-period", rateLimit("borrows-by-period"), requireLibrarian, h.Report.BorrowsByPeriod)
			reports.GET("/overdue-last-month", requireLibrarian, h.Report.OverdueLastMonth)
			reports.GET("/borrows-last-month", requireLibrarian, h.Report.BorrowsLastMonth)
		}
	}

	r.NoRoute(notFound)
	return r
}

func index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Library API is running",
		"endpoints": gin.H{
			"borrowers": "/api/borrowers",
			"books":     "/api/books",
			"borrows":   "/api/borrows",
			"reports":   "/api/reports",
		},
	})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"message": fmt.Sprintf("Route %s not found", c.Request.URL.Path),
		"error": gin.H{
			"code":   "ROUTE_NOT_FOUND",
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		},
	})
}

