package circulation

import (
	"errors"
	"fmt"

	"library-management-be/pkg/apperror"

	"github.com/shopspring/decimal"
)

type loanError struct {
	kind apperror.Kind
	msg  string
}

func (e *loanError) Error() string { return e.msg }

func (e *loanError) Kind() apperror.Kind { return e.kind }

var (
	ErrBookNotFound    error = &loanError{apperror.KindNotFound, "book not found"}
	ErrAlreadyBorrowed error = &loanError{apperror.KindConflict, "book is already borrowed"}
	ErrNotOwner        error = &loanError{apperror.KindForbidden, "book is not borrowed by you"}
	ErrNegativePayment error = &loanError{apperror.KindValidation, "payment amount must not be negative"}
)

// FeeOwedError blocks a return until the overdue fee is settled.
type FeeOwedError struct {
	Amount decimal.Decimal
}

func (e *FeeOwedError) Error() string {
	return fmt.Sprintf("overdue fee of %s must be paid before returning", e.Amount.StringFixed(2))
}

func (e *FeeOwedError) Kind() apperror.Kind { return apperror.KindPaymentRequired }

func (e *FeeOwedError) Details() map[string]interface{} {
	return map[string]interface{}{"amount": e.Amount.StringFixed(2)}
}

type InsufficientPaymentError struct {
	Required decimal.Decimal
	Offered  decimal.Decimal
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("payment of %s is less than the %s owed", e.Offered.StringFixed(2), e.Required.StringFixed(2))
}

func (e *InsufficientPaymentError) Kind() apperror.Kind { return apperror.KindPaymentRequired }

func (e *InsufficientPaymentError) Details() map[string]interface{} {
	return map[string]interface{}{
		"required": e.Required.StringFixed(2),
		"offered":  e.Offered.StringFixed(2),
	}
}

func IsFeeOwed(err error) (*FeeOwedError, bool) {
	var fe *FeeOwedError
	ok := errors.As(err, &fe)
	return fe, ok
}
