package circulation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Loan is the lending state of one book. Both fields are set or both are nil.
type Loan struct {
	BorrowedBy *uuid.UUID
	DueDate    *time.Time
}

func (l Loan) Borrowed() bool {
	return l.BorrowedBy != nil
}

func (l Loan) HeldBy(userID uuid.UUID) bool {
	return l.BorrowedBy != nil && *l.BorrowedBy == userID
}

// DecideBorrow moves an available book to borrowed by userID.
func DecideBorrow(current Loan, userID uuid.UUID, now time.Time, period time.Duration) (Loan, error) {
	if current.Borrowed() {
		return current, ErrAlreadyBorrowed
	}
	borrower := userID
	due := now.Add(period)
	return Loan{BorrowedBy: &borrower, DueDate: &due}, nil
}

// DecideReturn releases the loan when nothing is owed. With an outstanding
// fee the current loan is returned unchanged together with a FeeOwedError.
func DecideReturn(current Loan, userID uuid.UUID, finePerDay decimal.Decimal, now time.Time) (Loan, error) {
	if !current.HeldBy(userID) {
		return current, ErrNotOwner
	}
	if fee := OverdueFee(current.DueDate, finePerDay, now); fee.IsPositive() {
		return current, &FeeOwedError{Amount: fee}
	}
	return Loan{}, nil
}

// Settlement is the outcome of paying an overdue fee.
type Settlement struct {
	Released    Loan
	Owed        decimal.Decimal
	Tendered    decimal.Decimal
	OverdueDays int64
	DueDate     time.Time
}

// SettleFeeAndRelease takes payment for the overdue fee and, on success,
// also returns the book. This is the only path where paying clears a loan.
// When nothing is owed any non-negative amount is accepted.
func SettleFeeAndRelease(current Loan, userID uuid.UUID, finePerDay, tendered decimal.Decimal, now time.Time) (Settlement, error) {
	if !current.HeldBy(userID) {
		return Settlement{}, ErrNotOwner
	}
	if tendered.IsNegative() {
		return Settlement{}, ErrNegativePayment
	}

	owed := OverdueFee(current.DueDate, finePerDay, now)
	if owed.IsPositive() && tendered.LessThan(owed) {
		return Settlement{}, &InsufficientPaymentError{Required: owed, Offered: tendered}
	}

	s := Settlement{
		Released:    Loan{},
		Owed:        owed,
		Tendered:    tendered,
		OverdueDays: OverdueDays(current.DueDate, now),
	}
	if current.DueDate != nil {
		s.DueDate = *current.DueDate
	}
	return s, nil
}
