package entity

import (
	"time"

	"library-management-be/pkg/access"

	"github.com/google/uuid"
)

type User struct {
	Id                uuid.UUID
	Email             string
	PasswordHash      *string
	FirstName         string
	LastName          string
	Role              access.Role
	IsActive          bool
	ProfilePictureURL *string
	LastLogin         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type UserProvider struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	ProviderName   string
	ProviderUserId string
	AvatarURL      string
	CreatedAt      time.Time
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uuid.UUID
	Role   access.Role
}
