package unitofwork

import (
	"context"

	"library-management-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	BookRepository() contract.BookRepository
	CategoryRepository() contract.CategoryRepository
	NotificationRepository() contract.NotificationRepository
	FeePaymentRepository() contract.FeePaymentRepository
}
