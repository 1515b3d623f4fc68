// FILE: internal/service/user_service.go
package service

import (
	"context"
	"strings"

	"library-management-be/internal/dto"
	"library-management-be/internal/entity"
	"library-management-be/internal/pkg/logger"
	"library-management-be/internal/repository/specification"
	"library-management-be/internal/repository/unitofwork"
	"library-management-be/pkg/access"
	"library-management-be/pkg/apperror"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IUserService interface {
	GetProfile(ctx context.Context, actor entity.Actor) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, actor entity.Actor, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)

	AdminCreateUser(ctx context.Context, actor entity.Actor, req *dto.AdminCreateUserRequest) (*dto.UserProfileResponse, error)
	AdminUpdateUser(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.AdminUpdateUserRequest) (*dto.UserProfileResponse, error)
	AdminListUsers(ctx context.Context, actor entity.Actor, role string, page, limit int) (*dto.UserListResponse, error)

	// Operator paths used by libctl; they bypass the actor check.
	ProvisionUser(ctx context.Context, req *dto.AdminCreateUserRequest) (*dto.UserProfileResponse, error)
	SetRole(ctx context.Context, email string, role access.Role) (*dto.UserProfileResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) IUserService {
	return &userService{
		uowFactory: uowFactory,
		logger:     logger,
	}
}

func toProfile(u *entity.User) *dto.UserProfileResponse {
	res := &dto.UserProfileResponse{
		Id:         u.Id,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       string(u.Role),
		IsActive:   u.IsActive,
		DateJoined: u.CreatedAt,
		LastLogin:  u.LastLogin,
	}
	if u.ProfilePictureURL != nil {
		res.ProfilePictureURL = *u.ProfilePictureURL
	}
	return res
}

type newAccount struct {
	Email             string
	Password          *string
	FirstName         string
	LastName          string
	Role              access.Role
	ProfilePictureURL *string
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// createUser hashes the password and inserts an active account. A nil
// password leaves the account usable only through an external provider.
func createUser(ctx context.Context, uow unitofwork.UnitOfWork, acc newAccount) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(acc.Email))

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("email already registered")
	}

	user := &entity.User{
		Id:        uuid.New(),
		Email:     email,
		FirstName:         acc.FirstName,
		LastName:          acc.LastName,
		Role:              acc.Role,
		IsActive:          true,
		ProfilePictureURL: acc.ProfilePictureURL,
	}
	if acc.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*acc.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashStr := string(hash)
		user.PasswordHash = &hashStr
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, actor entity.Actor) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := requireActive(ctx, uow, actor)
	if err != nil {
		return nil, err
	}
	return toProfile(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor entity.Actor, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := requireActive(ctx, uow, actor)
	if err != nil {
		return nil, err
	}

	if err := uow.UserRepository().UpdateProfile(ctx, user.Id, req.FirstName, req.LastName, req.ProfilePicture); err != nil {
		return nil, err
	}
	user.FirstName, user.LastName = req.FirstName, req.LastName
	if req.ProfilePicture != nil {
		user.ProfilePictureURL = nilIfEmpty(*req.ProfilePicture)
	}
	return toProfile(user), nil
}

func (s *userService) requireAdmin(ctx context.Context, uow unitofwork.UnitOfWork, actor entity.Actor) (*entity.User, error) {
	user, err := requireActive(ctx, uow, actor)
	if err != nil {
		return nil, err
	}
	if !access.CanManageUsers(user.Role) {
		return nil, apperror.Forbidden("only admins can manage users")
	}
	return user, nil
}

func (s *userService) AdminCreateUser(ctx context.Context, actor entity.Actor, req *dto.AdminCreateUserRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	defer uow.Rollback()

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if _, err := s.requireAdmin(ctx, uow, actor); err != nil {
		return nil, err
	}

	res, err := s.provision(ctx, uow, req)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("ADMIN", "User created", map[string]interface{}{"user_id": res.Id.String(), "role": res.Role, "by": actor.UserID.String()})
	return res, nil
}

func (s *userService) provision(ctx context.Context, uow unitofwork.UnitOfWork, req *dto.AdminCreateUserRequest) (*dto.UserProfileResponse, error) {
	role, ok := access.ParseRole(req.Role)
	if !ok {
		return nil, apperror.Validation("role must be regular, librarian or admin")
	}
	password := req.Password
	user, err := createUser(ctx, uow, newAccount{
		Email:     req.Email,
		Password:  &password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
	})
	if err != nil {
		return nil, err
	}
	return toProfile(user), nil
}

func (s *userService) AdminUpdateUser(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.AdminUpdateUserRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	defer uow.Rollback()

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if _, err := s.requireAdmin(ctx, uow, actor); err != nil {
		return nil, err
	}
	if id == actor.UserID {
		return nil, apperror.Validation("admins cannot change their own role or status")
	}

	target, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperror.NotFound("user")
	}

	if req.Role != nil {
		role, ok := access.ParseRole(*req.Role)
		if !ok {
			return nil, apperror.Validation("role must be regular, librarian or admin")
		}
		target.Role = role
	}
	if req.IsActive != nil {
		target.IsActive = *req.IsActive
	}

	if err := uow.UserRepository().UpdateAccess(ctx, target.Id, target.Role, target.IsActive); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("ADMIN", "User access changed", map[string]interface{}{
		"user_id":   target.Id.String(),
		"role":      string(target.Role),
		"is_active": target.IsActive,
		"by":        actor.UserID.String(),
	})
	return toProfile(target), nil
}

func (s *userService) AdminListUsers(ctx context.Context, actor entity.Actor, role string, page, limit int) (*dto.UserListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.requireAdmin(ctx, uow, actor); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var filters []specification.Specification
	if role != "" {
		r, ok := access.ParseRole(role)
		if !ok {
			return nil, apperror.Validation("unknown role filter")
		}
		filters = append(filters, specification.ByRole{Role: string(r)})
	}

	total, err := uow.UserRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}
	users, err := uow.UserRepository().FindAll(ctx, append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)...)
	if err != nil {
		return nil, err
	}

	res := &dto.UserListResponse{Items: make([]*dto.UserProfileResponse, 0, len(users)), Total: total}
	for _, u := range users {
		res.Items = append(res.Items, toProfile(u))
	}
	return res, nil
}

func (s *userService) ProvisionUser(ctx context.Context, req *dto.AdminCreateUserRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	defer uow.Rollback()

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	res, err := s.provision(ctx, uow, req)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	s.logger.Info("ADMIN", "User provisioned from the command line", map[string]interface{}{"user_id": res.Id.String(), "role": res.Role})
	return res, nil
}

func (s *userService) SetRole(ctx context.Context, email string, role access.Role) (*dto.UserProfileResponse, error) {
	if !role.Valid() {
		return nil, apperror.Validation("role must be regular, librarian or admin")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	defer uow.Rollback()

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user")
	}
	if err := uow.UserRepository().UpdateAccess(ctx, user.Id, role, user.IsActive); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	user.Role = role
	s.logger.Info("ADMIN", "Role changed from the command line", map[string]interface{}{"user_id": user.Id.String(), "role": string(role)})
	return toProfile(user), nil
}
