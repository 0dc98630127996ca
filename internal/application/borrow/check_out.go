package borrow

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/domain/borrower"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// CheckOutUseCase 借出用例
//
// 核心问题:同一本书只剩1册时多人同时借
// 错误实现:先查quantity再扣减,两个请求都看到quantity=1,都借出成功,quantity变成-1
// 正确实现:
//  1. SELECT ... FOR UPDATE 锁定books行
//  2. 在锁内判断quantity和借阅资格
//  3. UPDATE quantity = quantity - 1 WHERE quantity - 1 >= 0
//  4. 插入借阅记录
//  5. COMMIT释放锁
type CheckOutUseCase struct {
	bookRepo     book.Repository
	borrowerRepo borrower.Repository
	borrowRepo   borrow.Repository
	txManager    port.TxManager
	policy       borrow.Policy
	publisher    port.EventPublisher
	logger       *zap.Logger
	now          port.Clock
}

// NewCheckOutUseCase 创建借出用例
func NewCheckOutUseCase(
	bookRepo book.Repository,
	borrowerRepo borrower.Repository,
	borrowRepo borrow.Repository,
	txManager port.TxManager,
	policy borrow.Policy,
	publisher port.EventPublisher,
	logger *zap.Logger,
) *CheckOutUseCase {
	return &CheckOutUseCase{
		bookRepo:     bookRepo,
		borrowerRepo: borrowerRepo,
		borrowRepo:   borrowRepo,
		txManager:    txManager,
		policy:       policy,
		publisher:    publisher,
		logger:       logger,
		now:          port.SystemClock,
	}
}

// WithClock 替换时钟
func (uc *CheckOutUseCase) WithClock(clock port.Clock) *CheckOutUseCase {
	uc.now = clock
	return uc
}

// CheckOutRequest 借出请求
type CheckOutRequest struct {
	BorrowerID uint
	BookID     uint
	Days       int // 0表示使用默认借期
}

// Execute 执行借出
func (uc *CheckOutUseCase) Execute(ctx context.Context, req CheckOutRequest) (resp *BorrowResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CheckOut")
	start := time.Now()
	defer func() {
		tracing.EndSpan(span, err)
		metrics.IncCounterVec(metrics.CheckoutsTotal, map[string]string{"result": metrics.Result(err, isRejection)})
		metrics.ObserveHistogramVec(metrics.BorrowTxDuration, map[string]string{"operation": "checkout"}, time.Since(start).Seconds())
	}()

	if req.Days < 0 {
		return nil, borrow.ErrInvalidLoanDays
	}

	now := uc.now()
	var record *borrow.Borrow

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 锁定图书,后续判断都在锁内进行
		b, err := uc.bookRepo.LockByID(txCtx, req.BookID)
		if err != nil {
			if errors.Is(err, book.ErrBookNotFound) {
				return borrow.ErrBookUnavailable
			}
			return err
		}
		if !b.IsAvailable() {
			return borrow.ErrBookUnavailable
		}

		// 2. 借阅者必须存在
		if _, err := uc.borrowerRepo.FindByID(txCtx, req.BorrowerID); err != nil {
			return err
		}

		// 3. 借阅资格:逾期 → 重复 → 上限
		open, err := uc.borrowRepo.FindOpenByBorrower(txCtx, req.BorrowerID)
		if err != nil {
			return err
		}
		if err := uc.policy.CheckEligibility(open, req.BookID, now); err != nil {
			return err
		}

		// 4. 扣减可借数量(条件更新兜底,不会变成负数)
		if err := uc.bookRepo.UpdateQuantity(txCtx, req.BookID, -1); err != nil {
			if errors.Is(err, book.ErrOutOfStock) {
				return borrow.ErrBookUnavailable
			}
			return err
		}

		// 5. 创建借阅记录
		dueDate, err := uc.policy.DueDate(now, req.Days)
		if err != nil {
			return err
		}
		record = borrow.NewBorrow(req.BorrowerID, req.BookID, now, dueDate)
		return uc.borrowRepo.Create(txCtx, record)
	})
	if err != nil {
		return nil, err
	}

	metrics.IncGauge(metrics.OpenBorrows)
	publish(ctx, uc.publisher, uc.logger, port.RoutingKeyCheckedOut, record, now)

	uc.logger.Info("图书借出",
		zap.Uint("borrow_id", record.ID),
		zap.Uint("book_id", record.BookID),
		zap.Uint("borrower_id", record.BorrowerID),
		zap.Time("due_date", record.DueDate),
	)

	resp = new(BorrowResponse)
	*resp = toBorrowResponse(record)
	return resp, nil
}
