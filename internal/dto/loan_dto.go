package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type BorrowResponse struct {
	ISBN    string    `json:"isbn"`
	Title   string    `json:"title"`
	DueDate time.Time `json:"due_date"`
}

type ReturnResponse struct {
	ISBN       string    `json:"isbn"`
	ReturnedAt time.Time `json:"returned_at"`
}

type PayFeeRequest struct {
	Amount *decimal.Decimal `json:"amount" validate:"required"`
}

type PayFeeResponse struct {
	ISBN        string `json:"isbn"`
	AmountOwed  string `json:"amount_owed"`
	AmountPaid  string `json:"amount_paid"`
	OverdueDays int64  `json:"overdue_days"`
	Returned    bool   `json:"returned"`
}

type FeeQuoteResponse struct {
	ISBN        string    `json:"isbn"`
	DueDate     time.Time `json:"due_date"`
	OverdueDays int64     `json:"overdue_days"`
	FinePerDay  string    `json:"fine_per_day"`
	Amount      string    `json:"amount"`
}

type LoanResponse struct {
	ISBN        string    `json:"isbn"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	DueDate     time.Time `json:"due_date"`
	OverdueDays int64     `json:"overdue_days"`
	FeeOwed     string    `json:"fee_owed"`
}
