package service

import (
	"context"

	"library-management-be/internal/entity"
	"library-management-be/internal/repository/specification"
	"library-management-be/internal/repository/unitofwork"
	"library-management-be/pkg/apperror"
	"library-management-be/pkg/circulation"
)

// requireActive reloads the caller inside the unit of work. The stored role
// wins over whatever the token claimed.
func requireActive(ctx context.Context, uow unitofwork.UnitOfWork, actor entity.Actor) (*entity.User, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: actor.UserID})
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.Unauthenticated("account is missing or inactive")
	}
	return user, nil
}

// pathISBN treats anything that cannot be an ISBN as an unknown book.
func pathISBN(raw string) (string, error) {
	isbn, ok := circulation.NormalizeISBN(raw)
	if !ok {
		return "", circulation.ErrBookNotFound
	}
	return isbn, nil
}
