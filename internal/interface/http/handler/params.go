package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// pathID 解析路径中的正整数ID,非法时返回invalid
func pathID(c *gin.Context, name string, invalid error) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, invalid
	}
	return uint(id), nil
}

// optionalID 解析可选的查询ID,空字符串返回nil
func optionalID(s string, invalid error) (*uint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return nil, invalid
	}
	v := uint(id)
	return &v, nil
}

// optionalBool 只识别true/false,其他值视为未提供
func optionalBool(s string) *bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

// bindJSON 绑定请求体,格式错误统一返回40001
func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return &apperrors.AppError{
			Code:    apperrors.ErrBindError.Code,
			Message: apperrors.ErrBindError.Message,
			Err:     err,
		}
	}
	return nil
}

// bindQuery 查询参数绑定失败统一返回400
func bindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		return &apperrors.AppError{
			Code:    apperrors.ErrBindQuery.Code,
			Message: apperrors.ErrBindQuery.Message,
			Err:     err,
		}
	}
	return nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
