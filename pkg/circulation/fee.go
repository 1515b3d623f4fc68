package circulation

import (
	"time"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// OverdueDays counts whole 24h periods elapsed since due. Partial days are
// dropped and a loan that is not yet due counts as zero.
func OverdueDays(due *time.Time, now time.Time) int64 {
	if due == nil {
		return 0
	}
	elapsed := now.Sub(*due)
	if elapsed <= 0 {
		return 0
	}
	return int64(elapsed / day)
}

// OverdueFee is OverdueDays multiplied by the book's daily fine. The result
// is never negative.
func OverdueFee(due *time.Time, finePerDay decimal.Decimal, now time.Time) decimal.Decimal {
	days := OverdueDays(due, now)
	if days <= 0 || !finePerDay.IsPositive() {
		return decimal.Zero
	}
	return finePerDay.Mul(decimal.NewFromInt(days))
}
