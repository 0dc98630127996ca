package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	appborrow "github.com/xiebiao/library/internal/application/borrow"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/daterange"
	"github.com/xiebiao/library/pkg/pagination"
	"github.com/xiebiao/library/pkg/response"
)

// BorrowHandler 借还HTTP处理器
type BorrowHandler struct {
	checkOutUseCase *appborrow.CheckOutUseCase
	returnUseCase   *appborrow.ReturnBookUseCase
	listUseCase     *appborrow.ListBorrowsUseCase
}

// NewBorrowHandler 创建借还处理器
func NewBorrowHandler(
	checkOutUseCase *appborrow.CheckOutUseCase,
	returnUseCase *appborrow.ReturnBookUseCase,
	listUseCase *appborrow.ListBorrowsUseCase,
) *BorrowHandler {
	return &BorrowHandler{
		checkOutUseCase: checkOutUseCase,
		returnUseCase:   returnUseCase,
		listUseCase:     listUseCase,
	}
}

// CheckOut 借书
// @Summary      借书
// @Description  有逾期未还、重复借阅或超过3本时拒绝;days默认14
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        request body dto.CheckOutRequest true "借阅信息"
// @Success      201 {object} response.Response{data=appborrow.BorrowResponse}
// @Failure      400 {object} response.Response "参数错误或图书无库存"
// @Failure      404 {object} response.Response "借阅者不存在"
// @Failure      409 {object} response.Response "不满足借阅条件"
// @Router       /api/borrows [post]
func (h *BorrowHandler) CheckOut(c *gin.Context) {
	var req dto.CheckOutRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.checkOutUseCase.Execute(c.Request.Context(), appborrow.CheckOutRequest{
		BorrowerID: uint(*req.BorrowerID),
		BookID:     uint(*req.BookID),
		Days:       req.LoanDays(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ReturnBook 还书
// @Summary      还书
// @Tags         借阅
// @Produce      json
// @Security     BasicAuth
// @Param        borrowId path int true "借阅记录ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "已归还"
// @Failure      404 {object} response.Response "借阅记录不存在"
// @Router       /api/borrows/{borrowId} [patch]
func (h *BorrowHandler) ReturnBook(c *gin.Context) {
	id, err := pathID(c, "borrowId", dto.ErrInvalidBorrowID)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.returnUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, result.Message)
}

// ListBorrows 借阅记录查询
// @Summary      借阅记录查询
// @Description  日期支持YYYY-MM-DD或RFC3339;overdue=true只返回逾期未还的记录
// @Tags         借阅
// @Produce      json
// @Security     BasicAuth
// @Param        borrowerId     query int    false "借阅者ID"
// @Param        bookId         query int    false "图书ID"
// @Param        returned       query bool   false "是否已归还"
// @Param        overdue        query bool   false "是否逾期"
// @Param        borrowDateFrom query string false "借阅日期起"
// @Param        borrowDateTo   query string false "借阅日期止(含当天)"
// @Param        returnDateFrom query string false "归还日期起"
// @Param        returnDateTo   query string false "归还日期止(含当天)"
// @Param        page           query int    false "页码" default(1)
// @Param        limit          query int    false "每页数量" default(10)
// @Success      200 {object} response.Response{data=appborrow.ListBorrowsResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/borrows [get]
func (h *BorrowHandler) ListBorrows(c *gin.Context) {
	var q dto.ListBorrowsQuery
	if err := bindQuery(c, &q); err != nil {
		response.Error(c, err)
		return
	}

	req, err := toListBorrowsRequest(q)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func toListBorrowsRequest(q dto.ListBorrowsQuery) (appborrow.ListBorrowsRequest, error) {
	req := appborrow.ListBorrowsRequest{
		Returned: optionalBool(q.Returned),
		Overdue:  strings.EqualFold(strings.TrimSpace(q.Overdue), "true"),
		Page:     pagination.Parse(q.Page, q.Limit),
	}

	var err error
	if req.BorrowerID, err = optionalID(q.BorrowerID, dto.ErrInvalidBorrowerID); err != nil {
		return req, err
	}
	if req.BookID, err = optionalID(q.BookID, dto.ErrInvalidBookParam); err != nil {
		return req, err
	}
	if req.BorrowDate, err = parseRange(q.BorrowDateFrom, q.BorrowDateTo); err != nil {
		return req, err
	}
	if req.ReturnDate, err = parseRange(q.ReturnDateFrom, q.ReturnDateTo); err != nil {
		return req, err
	}
	return req, nil
}

// parseRange 解析查询区间,结束日期包含当天
func parseRange(from, to string) (borrow.TimeRange, error) {
	f, err := daterange.ParseFrom(from)
	if err != nil {
		return borrow.TimeRange{}, dto.ErrInvalidDate
	}
	u, err := daterange.ParseUntil(to)
	if err != nil {
		return borrow.TimeRange{}, dto.ErrInvalidDate
	}
	return borrow.TimeRange{From: f, Until: u}, nil
}
