package contract

import (
	"context"
	"time"

	"library-management-be/internal/entity"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	// ListByUser returns newest first along with the user's total.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	// MarkRead reports false when no notification with that id belongs to userID.
	MarkRead(ctx context.Context, id, userID uuid.UUID, at time.Time) (bool, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
}
