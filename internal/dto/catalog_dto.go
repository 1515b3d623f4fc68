package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookResponse struct {
	ISBN          string     `json:"isbn"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	PublishedDate string     `json:"published_date"`
	CategoryId    uuid.UUID  `json:"category_id"`
	CategoryName  string     `json:"category_name,omitempty"`
	ImageURL      *string    `json:"image_url,omitempty"`
	Status        string     `json:"status"`
	BorrowedBy    *string    `json:"borrowed_by"`
	DueDate       *time.Time `json:"due_date"`
	FinePerDay    string     `json:"fine_per_day"`
}

// CreateBookRequest dates use YYYY-MM-DD.
type CreateBookRequest struct {
	ISBN          string           `json:"isbn" validate:"required,isbn"`
	Title         string           `json:"title" validate:"required,max=255"`
	Author        string           `json:"author" validate:"required,max=255"`
	PublishedDate string           `json:"published_date" validate:"required,datetime=2006-01-02"`
	CategoryId    uuid.UUID        `json:"category_id" validate:"required"`
	ImageURL      *string          `json:"image_url" validate:"omitempty,url"`
	FinePerDay    *decimal.Decimal `json:"fine_per_day"`
}

type UpdateBookRequest struct {
	Title         *string          `json:"title" validate:"omitempty,min=1,max=255"`
	Author        *string          `json:"author" validate:"omitempty,min=1,max=255"`
	PublishedDate *string          `json:"published_date" validate:"omitempty,datetime=2006-01-02"`
	CategoryId    *uuid.UUID       `json:"category_id"`
	ImageURL      *string          `json:"image_url" validate:"omitempty,url"`
	FinePerDay    *decimal.Decimal `json:"fine_per_day"`
}

type BookListQuery struct {
	CategoryId *uuid.UUID
	Status     string `validate:"omitempty,oneof=available borrowed"`
	Limit      int    `validate:"min=1,max=100"`
	Offset     int    `validate:"min=0"`
}

type BookListResponse struct {
	Items []*BookResponse `json:"items"`
	Total int64           `json:"total"`
}

type CategoryResponse struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type DeleteCategoryOptions struct {
	Force      bool
	ReassignTo *uuid.UUID
}

type DeleteCategoryResponse struct {
	CategoryId    uuid.UUID  `json:"category_id"`
	BooksDeleted  int64      `json:"books_deleted"`
	BooksMoved    int64      `json:"books_moved"`
	ReassignedTo  *uuid.UUID `json:"reassigned_to,omitempty"`
	LoansReleased int64      `json:"loans_released"`
}
