package entity

import (
	"time"

	"library-management-be/pkg/circulation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Book struct {
	ISBN          string
	Title         string
	Author        string
	PublishedDate time.Time
	CategoryId    uuid.UUID
	CategoryName  string
	ImageURL      *string
	BorrowedBy    *uuid.UUID
	BorrowerEmail string
	DueDate       *time.Time
	FinePerDay    decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (b *Book) Loan() circulation.Loan {
	return circulation.Loan{BorrowedBy: b.BorrowedBy, DueDate: b.DueDate}
}

func (b *Book) IsAvailable() bool {
	return b.BorrowedBy == nil
}

type Category struct {
	Id        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FeePayment is the ledger row written when an overdue fee is settled.
type FeePayment struct {
	Id             uuid.UUID
	ISBN           string
	UserId         uuid.UUID
	AmountOwed     decimal.Decimal
	AmountTendered decimal.Decimal
	OverdueDays    int64
	DueDate        time.Time
	PaidAt         time.Time
}
