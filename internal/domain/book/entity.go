package book

import (
	"strings"
	"time"
)

// Book 图书实体（聚合根）
// Quantity是当前可借册数：借出-1，归还+1，任何时候都不能为负
type Book struct {
	ID            uint
	Title         string
	Author        string
	ISBN          string
	Quantity      int
	ShelfLocation string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBook 创建图书（工厂方法）
// 业务规则:
// - 书名、作者、ISBN、书架位置必填
// - 库存不能为负数
func NewBook(title, author, isbn string, quantity int, shelfLocation string) (*Book, error) {
	b := &Book{
		Title:         strings.TrimSpace(title),
		Author:        strings.TrimSpace(author),
		ISBN:          strings.TrimSpace(isbn),
		Quantity:      quantity,
		ShelfLocation: strings.TrimSpace(shelfLocation),
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Book) validate() error {
	switch {
	case b.Title == "":
		return ErrTitleRequired
	case b.Author == "":
		return ErrAuthorRequired
	case b.ISBN == "":
		return ErrISBNRequired
	case b.ShelfLocation == "":
		return ErrShelfLocationRequired
	case b.Quantity < 0:
		return ErrInvalidQuantity
	}
	return nil
}

// IsAvailable 是否还有可借副本
func (b *Book) IsAvailable() bool {
	return b.Quantity > 0
}

// Patch 图书部分更新
// nil表示未提供该字段
type Patch struct {
	Title         *string
	Author        *string
	ISBN          *string
	Quantity      *int
	ShelfLocation *string
}

// IsEmpty 是否没有任何字段
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.ISBN == nil && p.Quantity == nil && p.ShelfLocation == nil
}

// checkChanges 逐字段拒绝"新值等于旧值"的更新
// 字段顺序固定：title → isbn → author → quantity → shelfLocation
func (b *Book) checkChanges(p Patch) error {
	if p.Title != nil && *p.Title == b.Title {
		return ErrTitleUnchanged
	}
	if p.ISBN != nil && *p.ISBN == b.ISBN {
		return ErrISBNUnchanged
	}
	if p.Author != nil && *p.Author == b.Author {
		return ErrAuthorUnchanged
	}
	if p.Quantity != nil && *p.Quantity == b.Quantity {
		return ErrQuantityUnchanged
	}
	if p.ShelfLocation != nil && *p.ShelfLocation == b.ShelfLocation {
		return ErrShelfLocationUnchanged
	}
	return nil
}

// apply 应用更新（调用前必须已通过checkChanges）
func (b *Book) apply(p Patch) error {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.ISBN != nil {
		b.ISBN = *p.ISBN
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Quantity != nil {
		b.Quantity = *p.Quantity
	}
	if p.ShelfLocation != nil {
		b.ShelfLocation = *p.ShelfLocation
	}
	b.UpdatedAt = time.Now()
	return b.validate()
}
