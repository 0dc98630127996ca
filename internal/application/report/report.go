// Package report 借阅报表导出
// 只读取借阅查询接口,不做任何写操作
package report

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/domain/borrow"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
)

// Kind 报表类型,同时作为导出子目录名
type Kind string

const (
	KindBorrowsByPeriod  Kind = "borrows-by-period"
	KindOverdueLastMonth Kind = "overdue-last-month"
	KindBorrowsLastMonth Kind = "borrows-last-month"
)

// MessageNoData 区间内没有数据
const MessageNoData = "No data to export in this period."

const notReturned = "Not returned"

var (
	// ErrMissingRange from或to缺失
	ErrMissingRange = apperrors.Validation("Missing from or to date")

	// ErrInvalidRange 日期格式错误或from晚于to
	ErrInvalidRange = apperrors.Validation("Invalid from or to date")
)

var (
	periodHeader = []string{"Borrower Name", "Borrower Email", "Book Title", "Book Author", "Borrow Date", "Due Date", "Return Date"}
	monthHeader  = []string{"Borrower Name", "Borrower Email", "Book Title", "Borrow Date", "Due Date", "Return Date"}
)

type layout struct {
	prefix  string
	message string
	header  []string
	row     func(d *borrow.Detail) []string
}

var layouts = map[Kind]layout{
	KindBorrowsByPeriod: {
		prefix:  "borrows_report",
		message: "Report generated and saved successfully.",
		header:  periodHeader,
		row: func(d *borrow.Detail) []string {
			return []string{d.BorrowerName, d.BorrowerEmail, d.BookTitle, d.BookAuthor,
				formatTime(d.BorrowDate), formatTime(d.DueDate), formatReturn(d.ReturnDate)}
		},
	},
	KindOverdueLastMonth: {
		prefix:  "overdue_last_month",
		message: "Overdue report saved successfully.",
		header:  monthHeader,
		row:     monthRow,
	},
	KindBorrowsLastMonth: {
		prefix:  "borrows_last_month",
		message: "All borrows last month report saved successfully.",
		header:  monthHeader,
		row:     monthRow,
	},
}

// Result 导出结果,Path为空表示没有数据
type Result struct {
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// Generator 报表生成器
type Generator struct {
	borrowRepo borrow.Repository
	writer     port.ReportWriter
	logger     *zap.Logger
	now        port.Clock
}

// NewGenerator 创建报表生成器
func NewGenerator(borrowRepo borrow.Repository, writer port.ReportWriter, logger *zap.Logger) *Generator {
	return &Generator{
		borrowRepo: borrowRepo,
		writer:     writer,
		logger:     logger,
		now:        port.SystemClock,
	}
}

// WithClock 替换时钟
func (g *Generator) WithClock(clock port.Clock) *Generator {
	g.now = clock
	return g
}

// BorrowsByPeriod 借阅日期落在[from, until)内的全部借阅
func (g *Generator) BorrowsByPeriod(ctx context.Context, from, until *time.Time) (*Result, error) {
	if from == nil || until == nil {
		return nil, ErrMissingRange
	}
	if !from.Before(*until) {
		return nil, ErrInvalidRange
	}
	return g.generate(ctx, KindBorrowsByPeriod, borrow.Filter{
		BorrowDate: borrow.TimeRange{From: from, Until: until},
	})
}

// OverdueLastMonth 到期日在最近一个月内且仍未归还的借阅
func (g *Generator) OverdueLastMonth(ctx context.Context) (*Result, error) {
	now := g.now()
	lastMonth := now.AddDate(0, -1, 0)
	open := false
	return g.generate(ctx, KindOverdueLastMonth, borrow.Filter{
		Returned: &open,
		DueDate:  borrow.TimeRange{From: &lastMonth, Until: &now},
	})
}

// BorrowsLastMonth 最近一个月内的全部借阅
func (g *Generator) BorrowsLastMonth(ctx context.Context) (*Result, error) {
	now := g.now()
	lastMonth := now.AddDate(0, -1, 0)
	until := now.Add(time.Second)
	return g.generate(ctx, KindBorrowsLastMonth, borrow.Filter{
		BorrowDate: borrow.TimeRange{From: &lastMonth, Until: &until},
	})
}

func (g *Generator) generate(ctx context.Context, kind Kind, filter borrow.Filter) (res *Result, err error) {
	defer func() {
		result := "success"
		switch {
		case err != nil:
			result = "error"
		case res != nil && res.Path == "":
			result = "empty"
		}
		metrics.IncCounterVec(metrics.ReportsGeneratedTotal, map[string]string{"report": string(kind), "result": result})
	}()

	s := layouts[kind]
	details, _, err := g.borrowRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return &Result{Message: MessageNoData}, nil
	}

	rows := make([][]string, len(details))
	for i, d := range details {
		rows[i] = s.row(d)
	}

	path, err := g.writer.Write(ctx, string(kind), s.prefix, s.header, rows)
	if err != nil {
		return nil, err
	}

	g.logger.Info("报表已导出",
		zap.String("report", string(kind)),
		zap.Int("rows", len(rows)),
		zap.String("path", path),
	)
	return &Result{Message: s.message, Path: path}, nil
}

func monthRow(d *borrow.Detail) []string {
	return []string{d.BorrowerName, d.BorrowerEmail, d.BookTitle,
		formatTime(d.BorrowDate), formatTime(d.DueDate), formatReturn(d.ReturnDate)}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatReturn(t *time.Time) string {
	if t == nil {
		return notReturned
	}
	return formatTime(*t)
}
