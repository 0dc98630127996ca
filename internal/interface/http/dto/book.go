package dto

import (
	"strings"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// CreateBookRequest 新增图书
// 字段用指针区分"未提供"和"零值"
type CreateBookRequest struct {
	Title         *string `json:"title" example:"Dune"`
	Author        *string `json:"author" example:"Frank Herbert"`
	ISBN          *string `json:"isbn" example:"9780441013593"`
	Quantity      *int    `json:"quantity" example:"3"`
	ShelfLocation *string `json:"shelfLocation" example:"A-12"`
}

// Validate 按字段顺序返回第一个错误
func (r *CreateBookRequest) Validate() error {
	switch {
	case blank(r.Title):
		return book.ErrTitleRequired
	case blank(r.Author):
		return book.ErrAuthorRequired
	case blank(r.ISBN):
		return book.ErrISBNRequired
	case r.Quantity == nil:
		return apperrors.Validation("quantity is required")
	case *r.Quantity < 0:
		return book.ErrInvalidQuantity
	case blank(r.ShelfLocation):
		return book.ErrShelfLocationRequired
	}
	return nil
}

// UpdateBookRequest 部分更新,未提供的字段不修改
type UpdateBookRequest struct {
	Title         *string `json:"title,omitempty" example:"Dune Messiah"`
	Author        *string `json:"author,omitempty"`
	ISBN          *string `json:"isbn,omitempty"`
	Quantity      *int    `json:"quantity,omitempty" example:"5"`
	ShelfLocation *string `json:"shelfLocation,omitempty"`
}

// Validate 数量不能为负
func (r *UpdateBookRequest) Validate() error {
	if r.Quantity != nil && *r.Quantity < 0 {
		return book.ErrInvalidQuantity
	}
	return nil
}

// Patch 转换为领域层的部分更新
func (r *UpdateBookRequest) Patch() book.Patch {
	return book.Patch{
		Title:         trimmed(r.Title),
		Author:        trimmed(r.Author),
		ISBN:          trimmed(r.ISBN),
		Quantity:      r.Quantity,
		ShelfLocation: trimmed(r.ShelfLocation),
	}
}

// ListBooksQuery 图书搜索条件
type ListBooksQuery struct {
	Title     string `form:"title"`
	Author    string `form:"author"`
	ISBN      string `form:"isbn"`
	Available string `form:"available" enums:"true,false"`
	Page      string `form:"page"`
	Limit     string `form:"limit"`
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
