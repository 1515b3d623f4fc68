package contract

import (
	"context"
	"time"

	"library-management-be/internal/entity"
	"library-management-be/internal/repository/specification"
	"library-management-be/pkg/access"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName string, pictureURL *string) error
	UpdateAccess(ctx context.Context, id uuid.UUID, role access.Role, isActive bool) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error
}
