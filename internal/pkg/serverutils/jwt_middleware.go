// FILE: internal/pkg/serverutils/jwt_middleware.go
package serverutils

import (
	"context"
	"errors"
	"time"

	"library-management-be/internal/entity"
	"library-management-be/pkg/access"
	"library-management-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenBlocklist remembers logged-out token ids until they expire.
type TokenBlocklist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func IssueToken(secret string, userID uuid.UUID, role access.Role, ttl time.Duration, now time.Time) (string, *Claims, error) {
	claims := &Claims{
		UserID: userID.String(),
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

func ParseToken(secret, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, apperror.Unauthenticated("invalid token")
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, apperror.Unauthenticated("invalid claims")
	}
	return claims, nil
}

func bearerToken(ctx *fiber.Ctx) (string, bool) {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return "", false
	}
	return authHeader[7:], true
}

// NewJwtMiddleware verifies the bearer token and stores user_id, role, jti
// and token_exp in Locals. blocklist may be nil.
func NewJwtMiddleware(secret string, blocklist TokenBlocklist) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr, ok := bearerToken(ctx)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Missing token"))
		}

		claims, err := ParseToken(secret, tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Invalid token"))
		}

		if blocklist != nil && claims.ID != "" {
			revoked, err := blocklist.IsRevoked(ctx.UserContext(), claims.ID)
			if err != nil {
				return err
			}
			if revoked {
				return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Token revoked"))
			}
		}

		ctx.Locals("user_id", claims.UserID)
		ctx.Locals("role", claims.Role)
		ctx.Locals("jti", claims.ID)
		ctx.Locals("token_exp", claims.ExpiresAt.Time)
		return ctx.Next()
	}
}

// CurrentActor reads the caller placed in Locals by the JWT middleware.
func CurrentActor(ctx *fiber.Ctx) (entity.Actor, error) {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return entity.Actor{}, apperror.Unauthenticated("not authenticated")
	}
	roleStr, _ := ctx.Locals("role").(string)
	role, _ := access.ParseRole(roleStr)
	return entity.Actor{UserID: userId, Role: role}, nil
}

// CurrentToken returns the jti and expiry of the request's token.
func CurrentToken(ctx *fiber.Ctx) (string, time.Time, error) {
	jti, _ := ctx.Locals("jti").(string)
	exp, _ := ctx.Locals("token_exp").(time.Time)
	if jti == "" {
		return "", time.Time{}, errors.New("token has no id")
	}
	return jti, exp, nil
}
