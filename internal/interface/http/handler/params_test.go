package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/interface/http/dto"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

func newContext(method, target string, body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c
}

func TestBindQuery(t *testing.T) {
	t.Run("字符串字段原样绑定", func(t *testing.T) {
		c := newContext(http.MethodGet, "/api/borrows?borrowerId=3&returned=false&page=2", "")

		var q dto.ListBorrowsQuery
		require.NoError(t, bindQuery(c, &q))
		assert.Equal(t, "3", q.BorrowerID)
		assert.Equal(t, "false", q.Returned)
		assert.Equal(t, "2", q.Page)
	})

	t.Run("类型不匹配返回400", func(t *testing.T) {
		c := newContext(http.MethodGet, "/api/books?page=abc", "")

		var q struct {
			Page int `form:"page"`
		}
		err := bindQuery(c, &q)
		require.Error(t, err)

		appErr := apperrors.GetAppError(err)
		assert.Equal(t, apperrors.ErrCodeBindError, appErr.Code)
		assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus())
		assert.Equal(t, "Malformed query parameters", appErr.Message)
		assert.Error(t, appErr.Err, "保留底层绑定错误用于日志")
	})
}

func TestBindJSON_Malformed(t *testing.T) {
	c := newContext(http.MethodPost, "/api/borrows", `{"bookId":`)

	var req dto.CheckOutRequest
	err := bindJSON(c, &req)
	require.Error(t, err)
	assert.Equal(t, "Malformed request body", apperrors.GetAppError(err).Message)
}

func TestPathIDAndOptionals(t *testing.T) {
	c := newContext(http.MethodGet, "/api/books/0", "")
	c.Params = gin.Params{{Key: "id", Value: "0"}}
	_, err := pathID(c, "id", dto.ErrInvalidBookParam)
	assert.ErrorIs(t, err, dto.ErrInvalidBookParam)

	c.Params = gin.Params{{Key: "id", Value: "12"}}
	id, err := pathID(c, "id", dto.ErrInvalidBookParam)
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)

	assert.Nil(t, optionalBool(""))
	require.NotNil(t, optionalBool("true"))
	assert.True(t, *optionalBool("true"))
}
