package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email             string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash      *string   `gorm:"type:varchar(255)"`
	FirstName         string    `gorm:"type:varchar(150);not null;default:''"`
	LastName          string    `gorm:"type:varchar(150);not null;default:''"`
	Role              string    `gorm:"type:varchar(20);not null;index;check:chk_users_role,role IN ('regular','librarian','admin')"`
	IsActive          bool      `gorm:"not null"`
	ProfilePictureURL *string   `gorm:"type:text"`
	LastLogin         *time.Time
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type UserProvider struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;index"`
	User           User      `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	ProviderName   string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_provider_subject,priority:1"`
	ProviderUserId string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_provider_subject,priority:2"`
	AvatarURL      string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (UserProvider) TableName() string {
	return "user_providers"
}
