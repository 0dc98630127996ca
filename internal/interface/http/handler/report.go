package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application/report"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/daterange"
	"github.com/xiebiao/library/pkg/response"
)

// ReportHandler 报表导出处理器
// 报表写入服务器本地目录,响应中返回文件路径
type ReportHandler struct {
	generator *report.Generator
}

// NewReportHandler 创建报表处理器
func NewReportHandler(generator *report.Generator) *ReportHandler {
	return &ReportHandler{generator: generator}
}

// BorrowsByPeriod 区间借阅报表
// @Summary      区间借阅报表
// @Description  导出借阅日期在[from, to]内的借阅记录,每个客户端每分钟最多5次
// @Tags         报表
// @Produce      json
// @Security     BasicAuth
// @Param        from query string true "开始日期" example(2024-01-01)
// @Param        to   query string true "结束日期(含当天)" example(2024-01-31)
// @Success      200 {object} dto.ReportResponse
// @Failure      400 {object} response.Response "缺少日期或日期非法"
// @Failure      429 {object} response.Response "请求过于频繁"
// @Router       /api/reports/borrows-by-period [get]
func (h *ReportHandler) BorrowsByPeriod(c *gin.Context) {
	var q dto.PeriodQuery
	_ = c.ShouldBindQuery(&q)

	if strings.TrimSpace(q.From) == "" || strings.TrimSpace(q.To) == "" {
		response.Error(c, report.ErrMissingRange)
		return
	}
	from, err := daterange.ParseFrom(q.From)
	if err != nil {
		response.Error(c, dto.ErrInvalidDate)
		return
	}
	until, err := daterange.ParseUntil(q.To)
	if err != nil {
		response.Error(c, dto.ErrInvalidDate)
		return
	}

	result, err := h.generator.BorrowsByPeriod(c.Request.Context(), from, until)
	writeReport(c, result, err)
}

// OverdueLastMonth 上月逾期报表
// @Summary      上月逾期报表
// @Tags         报表
// @Produce      json
// @Security     BasicAuth
// @Success      200 {object} dto.ReportResponse
// @Router       /api/reports/overdue-last-month [get]
func (h *ReportHandler) OverdueLastMonth(c *gin.Context) {
	result, err := h.generator.OverdueLastMonth(c.Request.Context())
	writeReport(c, result, err)
}

// BorrowsLastMonth 上月借阅报表
// @Summary      上月借阅报表
// @Tags         报表
// @Produce      json
// @Security     BasicAuth
// @Success      200 {object} dto.ReportResponse
// @Router       /api/reports/borrows-last-month [get]
func (h *ReportHandler) BorrowsLastMonth(c *gin.Context) {
	result, err := h.generator.BorrowsLastMonth(c.Request.Context())
	writeReport(c, result, err)
}

func writeReport(c *gin.Context, result *report.Result, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Path == "" {
		response.Message(c, result.Message)
		return
	}
	c.JSON(http.StatusOK, dto.ReportResponse{
		Success: true,
		Message: result.Message,
		Path:    result.Path,
	})
}
