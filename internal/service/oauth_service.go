// FILE: internal/service/oauth_service.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"library-management-be/internal/dto"
	"library-management-be/internal/entity"
	"library-management-be/internal/pkg/logger"
	"library-management-be/internal/repository/specification"
	"library-management-be/internal/repository/unitofwork"
	"library-management-be/pkg/access"
	"library-management-be/pkg/apperror"
	"library-management-be/pkg/clock"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type IOAuthService interface {
	GetLoginURL(provider string) (string, error)
	HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error)
	// VerifyExternalToken signs in with an access token the client obtained
	// from the provider itself.
	VerifyExternalToken(ctx context.Context, provider string, accessToken string) (*dto.LoginResponse, error)
}

type GoogleSettings struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

type oauthService struct {
	uowFactory  unitofwork.RepositoryFactory
	googleConf  *oauth2.Config
	userInfoURL string
	tokens      TokenSettings
	publisher   IPublisherService
	clock       clock.Clock
	logger      logger.ILogger
}

func NewOAuthService(
	uowFactory unitofwork.RepositoryFactory,
	google GoogleSettings,
	tokens TokenSettings,
	publisher IPublisherService,
	clk clock.Clock,
	logger logger.ILogger,
) IOAuthService {
	return newOAuthService(uowFactory, google, tokens, publisher, clk, logger, googleUserInfoURL)
}

func newOAuthService(
	uowFactory unitofwork.RepositoryFactory,
	settings GoogleSettings,
	tokens TokenSettings,
	publisher IPublisherService,
	clk clock.Clock,
	logger logger.ILogger,
	userInfoURL string,
) *oauthService {
	conf := &oauth2.Config{
		ClientID:     settings.ClientID,
		ClientSecret: settings.ClientSecret,
		RedirectURL:  settings.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &oauthService{
		uowFactory:  uowFactory,
		googleConf:  conf,
		userInfoURL: userInfoURL,
		tokens:      tokens,
		publisher:   publisher,
		clock:       clk,
		logger:      logger,
	}
}

func checkProvider(provider string) error {
	if provider != "google" {
		return apperror.Validation("unsupported provider")
	}
	return nil
}

func (s *oauthService) GetLoginURL(provider string) (string, error) {
	if err := checkProvider(provider); err != nil {
		return "", err
	}
	if s.googleConf.ClientID == "" {
		return "", apperror.Validation("google sign-in is not configured")
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.URLEncoding.EncodeToString(b)
	return s.googleConf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error) {
	if err := checkProvider(provider); err != nil {
		return nil, err
	}

	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("OAUTH", "Code exchange failed", map[string]interface{}{"error": err.Error()})
		return nil, apperror.Unauthenticated("code exchange failed")
	}
	return s.signIn(ctx, oauth2.StaticTokenSource(token))
}

func (s *oauthService) VerifyExternalToken(ctx context.Context, provider string, accessToken string) (*dto.LoginResponse, error) {
	if err := checkProvider(provider); err != nil {
		return nil, err
	}
	return s.signIn(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
}

func (s *oauthService) fetchUser(ctx context.Context, ts oauth2.TokenSource) (*googleUser, error) {
	client := oauth2.NewClient(ctx, ts)
	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, apperror.Unauthenticated("identity provider rejected the token")
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading response: %w", err)
	}

	var gu googleUser
	if err := codec.Unmarshal(content, &gu); err != nil {
		return nil, err
	}
	if gu.ID == "" || gu.Email == "" {
		return nil, apperror.Unauthenticated("identity provider returned no account")
	}
	if !gu.VerifiedEmail {
		return nil, apperror.Unauthenticated("email is not verified with the identity provider")
	}
	return &gu, nil
}

// signIn finds or provisions the local account for the external identity
// and issues a token for it.
func (s *oauthService) signIn(ctx context.Context, ts oauth2.TokenSource) (*dto.LoginResponse, error) {
	gu, err := s.fetchUser(ctx, ts)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	defer uow.Rollback()

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	email := strings.ToLower(gu.Email)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	created := false
	if user == nil {
		user, err = createUser(ctx, uow, newAccount{
			Email:             email,
			FirstName:         gu.GivenName,
			LastName:          gu.FamilyName,
			Role:              access.RoleRegular,
			ProfilePictureURL: nilIfEmpty(gu.Picture),
		})
		if err != nil {
			return nil, err
		}
		created = true
	}
	if !user.IsActive {
		return nil, apperror.Unauthenticated("account is disabled")
	}

	provider := &entity.UserProvider{
		Id:             uuid.New(),
		UserId:         user.Id,
		ProviderName:   "google",
		ProviderUserId: gu.ID,
		AvatarURL:      gu.Picture,
		CreatedAt:      s.clock.Now(),
	}
	if err := uow.UserRepository().SaveUserProvider(ctx, provider); err != nil {
		return nil, fmt.Errorf("failed to save provider info: %w", err)
	}

	res, err := issueLogin(ctx, uow, s.tokens, s.clock.Now(), user)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if created {
		s.logger.Info("OAUTH", "Provisioned account from google", map[string]interface{}{"user_id": user.Id.String()})
		if s.publisher != nil {
			if err := s.publisher.PublishUserRegistered(dto.UserRegisteredMessage{
				UserId:    user.Id,
				Email:     user.Email,
				FirstName: user.FirstName,
				Source:    "google",
			}); err != nil {
				s.logger.Warn("OAUTH", "Failed to publish user.registered", map[string]interface{}{"error": err.Error()})
			}
		}
	}
	return res, nil
}
