package readmodel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const dialectPostgres = "postgres"

var ErrBuildingQueryFailed = errors.New("building overdue query failed")

// OverdueLoanRow is one book whose loan is past its due date.
type OverdueLoanRow struct {
	ISBN          string          `db:"isbn"`
	Title         string          `db:"title"`
	BorrowerId    uuid.UUID       `db:"borrowed_by"`
	BorrowerEmail string          `db:"email"`
	DueDate       time.Time       `db:"due_date"`
	FinePerDay    decimal.Decimal `db:"fine_per_day"`
}

// OverdueLoans reads loans straight from the shared pool without going
// through gorm models.
type OverdueLoans struct {
	db *sqlx.DB
}

func NewOverdueLoans(db *sqlx.DB) *OverdueLoans {
	return &OverdueLoans{db: db}
}

func buildOverdueQuery(now time.Time) (string, []interface{}, error) {
	stmt := goqu.Dialect(dialectPostgres).
		From(goqu.T("books").As("b")).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("b.borrowed_by")))).
		Select(
			goqu.I("b.isbn"),
			goqu.I("b.title"),
			goqu.I("b.borrowed_by"),
			goqu.I("u.email"),
			goqu.I("b.due_date"),
			goqu.I("b.fine_per_day"),
		).
		Where(
			goqu.I("b.borrowed_by").IsNotNull(),
			goqu.I("b.due_date").Lt(now),
		).
		Order(goqu.I("b.due_date").Asc(), goqu.I("b.isbn").Asc()).
		Prepared(true)

	query, args, err := stmt.ToSQL()
	if err != nil {
		return "", nil, errors.Join(ErrBuildingQueryFailed, err)
	}
	return query, args, nil
}

func (q *OverdueLoans) List(ctx context.Context, now time.Time) ([]OverdueLoanRow, error) {
	query, args, err := buildOverdueQuery(now)
	if err != nil {
		return nil, err
	}

	rows := make([]OverdueLoanRow, 0)
	if err := q.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select overdue loans: %w", err)
	}
	return rows, nil
}
