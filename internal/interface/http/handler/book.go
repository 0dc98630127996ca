package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	createUseCase *appbook.CreateBookUseCase
	updateUseCase *appbook.UpdateBookUseCase
	deleteUseCase *appbook.DeleteBookUseCase
	listUseCase   *appbook.ListBooksUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createUseCase *appbook.CreateBookUseCase,
	updateUseCase *appbook.UpdateBookUseCase,
	deleteUseCase *appbook.DeleteBookUseCase,
	listUseCase *appbook.ListBooksUseCase,
) *BookHandler {
	return &BookHandler{
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
		listUseCase:   listUseCase,
	}
}

// CreateBook 新增图书
// @Summary      新增图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      201 {object} response.Response{data=appbook.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未认证"
// @Failure      409 {object} response.Response "书名或ISBN已存在"
// @Router       /api/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Title:         *req.Title,
		Author:        *req.Author,
		ISBN:          *req.ISBN,
		Quantity:      *req.Quantity,
		ShelfLocation: *req.ShelfLocation,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateBook 修改图书
// @Summary      修改图书
// @Description  只修改请求中提供的字段,新值必须与当前值不同
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "要修改的字段"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Failure      400 {object} response.Response "参数错误或未发生变化"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "书名或ISBN已存在"
// @Router       /api/books/{id} [patch]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, err := pathID(c, "id", dto.ErrInvalidBookParam)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateBookRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), id, req.Patch())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  存在借阅记录的图书不能删除
// @Tags         图书
// @Produce      json
// @Security     BasicAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "存在未归还的借阅"
// @Router       /api/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := pathID(c, "id", dto.ErrInvalidBookParam)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Book deleted")
}

// ListBooks 搜索图书
// @Summary      搜索图书
// @Description  title/author/isbn为包含匹配,available=true只返回有库存的图书
// @Tags         图书
// @Produce      json
// @Param        title     query string false "书名"
// @Param        author    query string false "作者"
// @Param        isbn      query string false "ISBN"
// @Param        available query bool   false "是否有库存"
// @Param        page      query int    false "页码" default(1)
// @Param        limit     query int    false "每页数量" default(10)
// @Success      200 {object} response.Response{data=[]appbook.BookResponse}
// @Router       /api/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var q dto.ListBooksQuery
	if err := bindQuery(c, &q); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Title:     q.Title,
		Author:    q.Author,
		ISBN:      q.ISBN,
		Available: optionalBool(q.Available),
		Page:      atoi(q.Page),
		Limit:     atoi(q.Limit),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, result.Books, result.Pagination)
}
