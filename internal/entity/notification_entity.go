package entity

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationBookBorrowed NotificationType = "BOOK_BORROWED"
	NotificationBookReturned NotificationType = "BOOK_RETURNED"
	NotificationFeePaid      NotificationType = "FEE_PAID"
)

type Notification struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	TypeCode  NotificationType
	Title     string
	Message   string
	Metadata  map[string]interface{}
	IsRead    bool
	ReadAt    *time.Time
	CreatedAt time.Time
}
