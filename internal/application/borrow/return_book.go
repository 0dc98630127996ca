package borrow

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// ReturnBookUseCase 归还用例
// 先锁借阅记录再锁图书,保证同一条记录只能归还一次
type ReturnBookUseCase struct {
	bookRepo   book.Repository
	borrowRepo borrow.Repository
	txManager  port.TxManager
	publisher  port.EventPublisher
	logger     *zap.Logger
	now        port.Clock
}

// NewReturnBookUseCase 创建归还用例
func NewReturnBookUseCase(
	bookRepo book.Repository,
	borrowRepo borrow.Repository,
	txManager port.TxManager,
	publisher port.EventPublisher,
	logger *zap.Logger,
) *ReturnBookUseCase {
	return &ReturnBookUseCase{
		bookRepo:   bookRepo,
		borrowRepo: borrowRepo,
		txManager:  txManager,
		publisher:  publisher,
		logger:     logger,
		now:        port.SystemClock,
	}
}

// WithClock 替换时钟
func (uc *ReturnBookUseCase) WithClock(clock port.Clock) *ReturnBookUseCase {
	uc.now = clock
	return uc
}

// ReturnBookResponse 归还响应
type ReturnBookResponse struct {
	Message string `json:"message"`
}

// Execute 执行归还
func (uc *ReturnBookUseCase) Execute(ctx context.Context, borrowID uint) (resp *ReturnBookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ReturnBook")
	start := time.Now()
	defer func() {
		tracing.EndSpan(span, err)
		metrics.IncCounterVec(metrics.ReturnsTotal, map[string]string{"result": metrics.Result(err, isRejection)})
		metrics.ObserveHistogramVec(metrics.BorrowTxDuration, map[string]string{"operation": "return"}, time.Since(start).Seconds())
	}()

	now := uc.now()
	var record *borrow.Borrow

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 锁定借阅记录
		r, err := uc.borrowRepo.LockByID(txCtx, borrowID)
		if err != nil {
			return err
		}
		if err := r.MarkReturned(now); err != nil {
			return err
		}

		// 2. 锁定图书
		if _, err := uc.bookRepo.LockByID(txCtx, r.BookID); err != nil {
			if errors.Is(err, book.ErrBookNotFound) {
				return borrow.ErrBookRecordMissing
			}
			return err
		}

		// 3. 设置归还时间并增加可借数量
		if err := uc.borrowRepo.MarkReturned(txCtx, r.ID, now); err != nil {
			return err
		}
		if err := uc.bookRepo.UpdateQuantity(txCtx, r.BookID, 1); err != nil {
			return err
		}

		record = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DecGauge(metrics.OpenBorrows)
	publish(ctx, uc.publisher, uc.logger, port.RoutingKeyReturned, record, now)

	uc.logger.Info("图书归还",
		zap.Uint("borrow_id", record.ID),
		zap.Uint("book_id", record.BookID),
		zap.Bool("overdue", record.DueDate.Before(now)),
	)

	return &ReturnBookResponse{Message: "Book returned successfully"}, nil
}
