package borrow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/domain/borrow"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

const tracerName = "application/borrow"

// BorrowResponse 借阅记录
type BorrowResponse struct {
	ID         uint       `json:"id"`
	BorrowDate time.Time  `json:"borrowDate"`
	DueDate    time.Time  `json:"dueDate"`
	ReturnDate *time.Time `json:"returnDate"`
	BookID     uint       `json:"bookId"`
	BorrowerID uint       `json:"borrowerId"`
}

func toBorrowResponse(b *borrow.Borrow) BorrowResponse {
	return BorrowResponse{
		ID:         b.ID,
		BorrowDate: b.BorrowDate,
		DueDate:    b.DueDate,
		ReturnDate: b.ReturnDate,
		BookID:     b.BookID,
		BorrowerID: b.BorrowerID,
	}
}

// isRejection 业务规则拒绝(4xx),用于区分指标中的rejected和error
func isRejection(err error) bool {
	return apperrors.IsAppError(err) && apperrors.GetAppError(err).HTTPStatus() < 500
}

// publish 事务提交后发布事件,失败只记录日志
func publish(ctx context.Context, publisher port.EventPublisher, logger *zap.Logger, routingKey string, b *borrow.Borrow, now time.Time) {
	event := port.BorrowEvent{
		BorrowID:   b.ID,
		BookID:     b.BookID,
		BorrowerID: b.BorrowerID,
		BorrowDate: b.BorrowDate,
		DueDate:    b.DueDate,
		ReturnDate: b.ReturnDate,
		OccurredAt: now,
	}
	if err := publisher.Publish(ctx, routingKey, event); err != nil {
		logger.Warn("发布借阅事件失败",
			zap.String("routing_key", routingKey),
			zap.Uint("borrow_id", b.ID),
			zap.Error(err),
		)
	}
}
