package book

import (
	"time"

	"github.com/xiebiao/library/internal/domain/book"
)

// BookResponse 图书响应DTO
type BookResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	ISBN          string    `json:"isbn"`
	Quantity      int       `json:"quantity"`
	ShelfLocation string    `json:"shelfLocation"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toBookResponse(b *book.Book) *BookResponse {
	return &BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		Quantity:      b.Quantity,
		ShelfLocation: b.ShelfLocation,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
