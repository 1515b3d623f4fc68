package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	Id                uuid.UUID  `json:"id"`
	Email             string     `json:"email"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	Role              string     `json:"role"`
	IsActive          bool       `json:"is_active"`
	ProfilePictureURL string     `json:"profile_picture,omitempty"`
	DateJoined        time.Time  `json:"date_joined"`
	LastLogin         *time.Time `json:"last_login,omitempty"`
}

// ProfilePicture is left untouched when absent and cleared when empty.
type UpdateProfileRequest struct {
	FirstName      string  `json:"first_name" validate:"max=150"`
	LastName       string  `json:"last_name" validate:"max=150"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,url,max=500"`
}

// --- Admin ---

type AdminCreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Role      string `json:"role" validate:"required,oneof=regular librarian admin"`
}

type AdminUpdateUserRequest struct {
	Role     *string `json:"role" validate:"omitempty,oneof=regular librarian admin"`
	IsActive *bool   `json:"is_active"`
}

type UserListResponse struct {
	Items []*UserProfileResponse `json:"items"`
	Total int64                  `json:"total"`
}

type OverdueLoanResponse struct {
	ISBN          string    `json:"isbn"`
	Title         string    `json:"title"`
	BorrowerId    uuid.UUID `json:"borrower_id"`
	BorrowerEmail string    `json:"borrower_email"`
	DueDate       time.Time `json:"due_date"`
	OverdueDays   int64     `json:"overdue_days"`
	FinePerDay    string    `json:"fine_per_day"`
	FeeOwed       string    `json:"fee_owed"`
}
