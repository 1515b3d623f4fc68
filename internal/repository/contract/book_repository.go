package contract

import (
	"context"

	"library-management-be/internal/entity"
	"library-management-be/internal/repository/specification"
	"library-management-be/pkg/circulation"

	"github.com/google/uuid"
)

type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	// UpdateDetails writes catalog metadata only. Loan columns are untouched.
	UpdateDetails(ctx context.Context, book *entity.Book) error
	// UpdateLoanState is the only writer of borrowed_by and due_date.
	UpdateLoanState(ctx context.Context, isbn string, loan circulation.Loan) error
	Delete(ctx context.Context, isbn string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Book, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Book, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	ReassignCategory(ctx context.Context, from, to uuid.UUID) (int64, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	Rename(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Category, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Category, error)
}

type FeePaymentRepository interface {
	Create(ctx context.Context, payment *entity.FeePayment) error
}
