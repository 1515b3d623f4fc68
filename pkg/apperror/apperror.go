package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindForbidden
	KindUnauthenticated
	KindPaymentRequired
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindPaymentRequired:
		return "payment_required"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// Kinded is implemented by any error that knows its category.
type Kinded interface {
	error
	Kind() Kind
}

// Detailed errors expose extra response fields (e.g. an owed amount).
type Detailed interface {
	Details() map[string]interface{}
}

// Error is the generic categorized error used by services.
type Error struct {
	kind    Kind
	message string
	cause   error
	details map[string]interface{}
}

func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{kind: kind, message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *Error) Message() string { return e.message }
func (e *Error) Kind() Kind      { return e.kind }
func (e *Error) Unwrap() error   { return e.cause }

func (e *Error) Details() map[string]interface{} { return e.details }

// WithDetails attaches response fields and returns e.
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.details = details
	return e
}

// KindOf walks the chain and returns the first category found.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var k Kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindInternal
}

// DetailsOf returns the first non-empty details found along the chain.
func DetailsOf(err error) map[string]interface{} {
	for err != nil {
		if d, ok := err.(Detailed); ok {
			if details := d.Details(); details != nil {
				return details
			}
		}
		err = errors.Unwrap(err)
	}
	return nil
}

func NotFound(what string) *Error {
	return Newf(KindNotFound, "%s not found", what)
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, message)
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}
