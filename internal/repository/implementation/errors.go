package implementation

import (
	"errors"

	"library-management-be/internal/repository/specification"
	"library-management-be/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// translate turns constraint violations into categorized errors. Anything
// else is passed through untouched.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.Wrap(apperror.KindConflict, what+" already exists", err)
		case pgForeignKeyViolation:
			return apperror.Wrap(apperror.KindConflict, what+" is still referenced or references a missing row", err)
		case pgCheckViolation:
			return apperror.Wrap(apperror.KindValidation, what+" violates "+pgErr.ConstraintName, err)
		}
	}
	return err
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}
