package specification

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForUpdate takes a row lock held until the surrounding transaction ends.
// Outside a transaction the lock is released immediately, so callers must
// only use it inside a unit of work.
type ForUpdate struct{}

func (s ForUpdate) Apply(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}
