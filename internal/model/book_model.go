package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Category) TableName() string {
	return "categories"
}

// Book rows cascade with their category. Borrowed books pin their borrower.
type Book struct {
	ISBN          string          `gorm:"column:isbn;type:varchar(13);primaryKey"`
	Title         string          `gorm:"type:varchar(255);not null"`
	Author        string          `gorm:"type:varchar(255);not null"`
	PublishedDate time.Time       `gorm:"type:date;not null"`
	CategoryId    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Category      Category        `gorm:"foreignKey:CategoryId;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	ImageURL      *string         `gorm:"type:text"`
	BorrowedBy    *uuid.UUID      `gorm:"type:uuid;index;check:chk_books_loan_state,(borrowed_by IS NULL) = (due_date IS NULL)"`
	Borrower      *User           `gorm:"foreignKey:BorrowedBy;constraint:OnDelete:RESTRICT"`
	DueDate       *time.Time      `gorm:"index"`
	FinePerDay    decimal.Decimal `gorm:"type:numeric(10,2);not null;check:chk_books_fine_non_negative,fine_per_day >= 0"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime"`
}

func (Book) TableName() string {
	return "books"
}

// FeePayment has no foreign key to books so the ledger outlives catalog deletes.
type FeePayment struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ISBN           string          `gorm:"column:isbn;type:varchar(13);not null;index"`
	UserId         uuid.UUID       `gorm:"type:uuid;not null;index"`
	AmountOwed     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	AmountTendered decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	OverdueDays    int64           `gorm:"not null"`
	DueDate        time.Time       `gorm:"not null"`
	PaidAt         time.Time       `gorm:"not null;index"`
}

func (FeePayment) TableName() string {
	return "fee_payments"
}
