package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByISBN struct {
	ISBN string
}

func (s ByISBN) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("books.isbn = ?", s.ISBN)
}

type InCategory struct {
	CategoryID uuid.UUID
}

func (s InCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("books.category_id = ?", s.CategoryID)
}

type Available struct{}

func (s Available) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("books.borrowed_by IS NULL")
}

type Borrowed struct{}

func (s Borrowed) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("books.borrowed_by IS NOT NULL")
}

type BorrowedByUser struct {
	UserID uuid.UUID
}

func (s BorrowedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("books.borrowed_by = ?", s.UserID)
}

// DueBefore selects loans whose due date has passed at the given instant.
type DueBefore struct {
	At time.Time
}

func (s DueBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("books.due_date < ?", s.At)
}

type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}
