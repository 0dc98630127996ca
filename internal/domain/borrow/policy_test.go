package borrow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBorrow(bookID uint, due time.Time) *Borrow {
	return &Borrow{BookID: bookID, DueDate: due}
}

func TestPolicy_CheckEligibility(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	future := now.Add(72 * time.Hour)
	past := now.Add(-time.Hour)
	p := DefaultPolicy()

	tests := []struct {
		name   string
		open   []*Borrow
		bookID uint
		want   error
	}{
		{"无借阅", nil, 1, nil},
		{"两本未到期", []*Borrow{openBorrow(2, future), openBorrow(3, future)}, 1, nil},
		{"逾期阻止借任何书", []*Borrow{openBorrow(2, past)}, 9, ErrOverdueBlock},
		{"重复借阅", []*Borrow{openBorrow(1, future)}, 1, ErrDuplicateBorrow},
		{"达到上限", []*Borrow{openBorrow(2, future), openBorrow(3, future), openBorrow(4, future)}, 1, ErrBorrowLimitExceeded},
		{"逾期优先于重复", []*Borrow{openBorrow(1, past)}, 1, ErrOverdueBlock},
		{"重复优先于上限", []*Borrow{openBorrow(1, future), openBorrow(3, future), openBorrow(4, future)}, 1, ErrDuplicateBorrow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.CheckEligibility(tt.open, tt.bookID, now)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPolicy_CustomLimitMessage(t *testing.T) {
	p := Policy{MaxOpen: 1, DefaultDays: 7}
	now := time.Now()

	err := p.CheckEligibility([]*Borrow{openBorrow(2, now.Add(time.Hour))}, 1, now)
	assert.EqualError(t, err, "[40900] You cannot borrow more than 1 books at a time.")
}

func TestPolicy_DueDate(t *testing.T) {
	p := DefaultPolicy()
	start := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)

	due, err := p.DueDate(start, 0)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 14, 9, 0, 0, 0, time.UTC), due)

	due, err = p.DueDate(start, 1)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC), due)

	_, err = p.DueDate(start, -3)
	assert.ErrorIs(t, err, ErrInvalidLoanDays)
}

func TestBorrow_MarkReturned(t *testing.T) {
	now := time.Now()
	b := NewBorrow(1, 2, now, now.Add(time.Hour))
	assert.True(t, b.IsOpen())

	require.NoError(t, b.MarkReturned(now))
	assert.False(t, b.IsOpen())
	assert.False(t, b.IsOverdue(now.Add(2*time.Hour)), "已归还的记录不算逾期")

	assert.ErrorIs(t, b.MarkReturned(now), ErrAlreadyReturned)
}
