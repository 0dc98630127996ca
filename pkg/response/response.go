package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/pagination"
)

// Response 统一响应结构
// 设计说明：
// 1. Success区分成功/失败，HTTP状态码由错误码推导
// 2. Message在失败时必有，成功时可选（如删除、归还等只返回提示的接口）
// 3. Data是业务数据，失败时省略
type Response struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message,omitempty"`
	Data       interface{}      `json:"data,omitempty"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
}

// Success 成功响应（200）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// Created 创建成功响应（201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// Message 只返回提示信息的成功响应
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
	})
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, data interface{}, meta *pagination.Meta) {
	c.JSON(http.StatusOK, Response{
		Success:    true,
		Data:       data,
		Pagination: meta,
	})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	err := borrowerUseCase.Execute(...)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := appErr.HTTPStatus()

	message := appErr.Message
	if status >= http.StatusInternalServerError {
		// 5xx只记录日志，不把内部细节返回给客户端
		zap.L().Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString("request_id")),
			zap.Int("code", appErr.Code),
			zap.String("message", appErr.Message),
			zap.Error(appErr.Err),
		)
		message = apperrors.ErrInternal.Message
	}

	c.JSON(status, Response{
		Success: false,
		Message: message,
	})
}
