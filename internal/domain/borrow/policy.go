package borrow

import (
	"fmt"
	"time"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

const (
	// DefaultMaxOpen 同时借阅上限
	DefaultMaxOpen = 3

	// DefaultLoanDays 默认借阅天数
	DefaultLoanDays = 14
)

// Policy 借阅资格规则
type Policy struct {
	MaxOpen     int
	DefaultDays int
}

// DefaultPolicy 默认规则:最多3本,借期14天
func DefaultPolicy() Policy {
	return Policy{MaxOpen: DefaultMaxOpen, DefaultDays: DefaultLoanDays}
}

// CheckEligibility 判断借阅者能否再借bookID
// open必须是该借阅者全部未归还的记录
// 检查顺序固定:逾期 → 重复 → 上限
func (p Policy) CheckEligibility(open []*Borrow, bookID uint, now time.Time) error {
	for _, b := range open {
		if b.IsOverdue(now) {
			return ErrOverdueBlock
		}
	}

	for _, b := range open {
		if b.BookID == bookID {
			return ErrDuplicateBorrow
		}
	}

	if len(open) >= p.MaxOpen {
		return p.limitError()
	}

	return nil
}

func (p Policy) limitError() error {
	if p.MaxOpen == DefaultMaxOpen {
		return ErrBorrowLimitExceeded
	}
	return apperrors.Conflict(fmt.Sprintf("You cannot borrow more than %d books at a time.", p.MaxOpen))
}

// DueDate 计算应还日期
// days为0时使用默认借期,负数非法
func (p Policy) DueDate(borrowDate time.Time, days int) (time.Time, error) {
	if days == 0 {
		days = p.DefaultDays
	}
	if days < 0 {
		return time.Time{}, ErrInvalidLoanDays
	}
	return borrowDate.AddDate(0, 0, days), nil
}
