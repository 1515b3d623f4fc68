package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(nil))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("book")))

	wrapped := fmt.Errorf("borrow: %w", Conflict("already borrowed"))
	assert.Equal(t, KindConflict, KindOf(wrapped))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Wrap(KindConflict, "isbn already exists", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "isbn already exists: duplicate key", err.Error())
	assert.Equal(t, "isbn already exists", err.Message())
}

type owedErr struct{}

func (owedErr) Error() string { return "fee owed" }
func (owedErr) Kind() Kind    { return KindPaymentRequired }
func (owedErr) Details() map[string]interface{} {
	return map[string]interface{}{"amount": "15.00"}
}

func TestDetailsOf(t *testing.T) {
	err := fmt.Errorf("return: %w", owedErr{})
	assert.Equal(t, KindPaymentRequired, KindOf(err))
	assert.Equal(t, "15.00", DetailsOf(err)["amount"])
	assert.Nil(t, DetailsOf(errors.New("plain")))
}

func TestDetailsSkipsEmptyWrappers(t *testing.T) {
	err := Wrap(KindPaymentRequired, "settle", owedErr{})
	assert.Equal(t, "15.00", DetailsOf(err)["amount"])

	conflict := Conflict("category has borrowed books").WithDetails(map[string]interface{}{"borrowed_books": 2})
	assert.Equal(t, 2, DetailsOf(conflict)["borrowed_books"])
}
