package handler

import (
	"github.com/gin-gonic/gin"

	appborrower "github.com/xiebiao/library/internal/application/borrower"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/pagination"
	"github.com/xiebiao/library/pkg/response"
)

// BorrowerHandler 借阅者HTTP处理器
type BorrowerHandler struct {
	registerUseCase       *appborrower.RegisterBorrowerUseCase
	listUseCase           *appborrower.ListBorrowersUseCase
	updateUseCase         *appborrower.UpdateBorrowerUseCase
	deleteUseCase         *appborrower.DeleteBorrowerUseCase
	currentBorrowsUseCase *appborrower.CurrentBorrowsUseCase
}

// NewBorrowerHandler 创建借阅者处理器
func NewBorrowerHandler(
	registerUseCase *appborrower.RegisterBorrowerUseCase,
	listUseCase *appborrower.ListBorrowersUseCase,
	updateUseCase *appborrower.UpdateBorrowerUseCase,
	deleteUseCase *appborrower.DeleteBorrowerUseCase,
	currentBorrowsUseCase *appborrower.CurrentBorrowsUseCase,
) *BorrowerHandler {
	return &BorrowerHandler{
		registerUseCase:       registerUseCase,
		listUseCase:           listUseCase,
		updateUseCase:         updateUseCase,
		deleteUseCase:         deleteUseCase,
		currentBorrowsUseCase: currentBorrowsUseCase,
	}
}

// CreateBorrower 登记借阅者
// @Summary      登记借阅者
// @Tags         借阅者
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        request body dto.CreateBorrowerRequest true "借阅者信息"
// @Success      201 {object} response.Response{data=appborrower.BorrowerResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "邮箱已被使用"
// @Router       /api/borrowers [post]
func (h *BorrowerHandler) CreateBorrower(c *gin.Context) {
	var req dto.CreateBorrowerRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appborrower.RegisterBorrowerRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListBorrowers 借阅者列表
// @Summary      借阅者列表
// @Description  按登记时间倒序,每个客户端每分钟最多5次
// @Tags         借阅者
// @Produce      json
// @Security     BasicAuth
// @Param        page  query int false "页码" default(1)
// @Param        limit query int false "每页数量" default(10)
// @Success      200 {object} response.Response{data=appborrower.ListBorrowersResponse}
// @Failure      429 {object} response.Response "请求过于频繁"
// @Router       /api/borrowers [get]
func (h *BorrowerHandler) ListBorrowers(c *gin.Context) {
	params := pagination.Parse(c.Query("page"), c.Query("limit"))

	result, err := h.listUseCase.Execute(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateBorrower 修改借阅者姓名或邮箱
// @Summary      修改借阅者
// @Tags         借阅者
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        id path int true "借阅者ID"
// @Param        request body dto.UpdateBorrowerRequest true "要修改的字段"
// @Success      200 {object} response.Response{data=appborrower.UpdateBorrowerResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "借阅者不存在"
// @Failure      409 {object} response.Response "邮箱已被使用"
// @Router       /api/borrowers/{id} [patch]
func (h *BorrowerHandler) UpdateBorrower(c *gin.Context) {
	id, err := pathID(c, "id", dto.ErrInvalidBorrowerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateBorrowerRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), id, appborrower.UpdateBorrowerRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteBorrower 删除借阅者
// @Summary      删除借阅者
// @Description  有未归还借阅时不能删除,借阅历史保留
// @Tags         借阅者
// @Produce      json
// @Security     BasicAuth
// @Param        id path int true "借阅者ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "借阅者不存在"
// @Failure      409 {object} response.Response "存在未归还借阅"
// @Router       /api/borrowers/{id} [delete]
func (h *BorrowerHandler) DeleteBorrower(c *gin.Context) {
	id, err := pathID(c, "id", dto.ErrInvalidBorrowerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.deleteUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, result.Message)
}

// CurrentBorrows 借阅者当前未归还的借阅
// @Summary      当前借阅
// @Tags         借阅者
// @Produce      json
// @Param        id path int true "借阅者ID"
// @Success      200 {object} response.Response{data=[]appborrower.CurrentBorrow}
// @Failure      400 {object} response.Response "ID非法"
// @Router       /api/borrowers/{id}/currentBorrows [get]
func (h *BorrowerHandler) CurrentBorrows(c *gin.Context) {
	id, err := pathID(c, "id", dto.ErrInvalidBorrowerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.currentBorrowsUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
