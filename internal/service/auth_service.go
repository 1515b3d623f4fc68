// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"time"

	"library-management-be/internal/dto"
	"library-management-be/internal/entity"
	"library-management-be/internal/pkg/logger"
	"library-management-be/internal/pkg/serverutils"
	"library-management-be/internal/repository/specification"
	"library-management-be/internal/repository/unitofwork"
	"library-management-be/pkg/access"
	"library-management-be/pkg/apperror"
	"library-management-be/pkg/clock"

	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

// TokenSettings signs access tokens.
type TokenSettings struct {
	Secret string
	TTL    time.Duration
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	tokens     TokenSettings
	blocklist  serverutils.TokenBlocklist
	publisher  IPublisherService
	clock      clock.Clock
	logger     logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	tokens TokenSettings,
	blocklist serverutils.TokenBlocklist,
	publisher IPublisherService,
	clk clock.Clock,
	logger logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		tokens:     tokens,
		blocklist:  blocklist,
		publisher:  publisher,
		clock:      clk,
		logger:     logger,
	}
}

// Register always creates a regular account; elevated roles are granted by admins.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	defer uow.Rollback()

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	password := req.Password
	user, err := createUser(ctx, uow, newAccount{
		Email:     req.Email,
		Password:  &password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      access.RoleRegular,
	})
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		err := s.publisher.PublishUserRegistered(dto.UserRegisteredMessage{
			UserId:    user.Id,
			Email:     user.Email,
			FirstName: user.FirstName,
			Source:    "register",
		})
		if err != nil {
			s.logger.Warn("AUTH", "Failed to publish user.registered", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.RegisterResponse{Id: user.Id, Email: user.Email}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, apperror.Unauthenticated("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthenticated("invalid credentials")
	}
	if !user.IsActive {
		return nil, apperror.Unauthenticated("account is disabled")
	}

	return issueLogin(ctx, uow, s.tokens, s.clock.Now(), user)
}

// issueLogin signs a token for user and records the login time.
func issueLogin(ctx context.Context, uow unitofwork.UnitOfWork, tokens TokenSettings, now time.Time, user *entity.User) (*dto.LoginResponse, error) {
	signed, claims, err := serverutils.IssueToken(tokens.Secret, user.Id, user.Role, tokens.TTL, now)
	if err != nil {
		return nil, err
	}
	if err := uow.UserRepository().TouchLastLogin(ctx, user.Id, now); err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: signed,
		ExpiresAt:   claims.ExpiresAt.Time,
		User: dto.UserDTO{
			Id:        user.Id,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      string(user.Role),
		},
	}, nil
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if err := s.blocklist.Revoke(ctx, jti, expiresAt); err != nil {
		return err
	}
	s.logger.Info("AUTH", "Token revoked", map[string]interface{}{"jti": jti})
	return nil
}
