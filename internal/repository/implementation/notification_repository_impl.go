package implementation

import (
	"context"
	"time"

	"library-management-be/internal/entity"
	"library-management-be/internal/mapper"
	"library-management-be/internal/model"
	"library-management-be/internal/repository/contract"
	"library-management-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NotificationMapper
}

func NewNotificationRepository(db *gorm.DB) contract.NotificationRepository {
	return &NotificationRepositoryImpl{db: db, mapper: mapper.NewNotificationMapper()}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notification *entity.Notification) error {
	m, err := r.mapper.ToModel(notification)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Omit("User").Create(m).Error
}

func (r *NotificationRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error) {
	var notifications []*model.Notification
	var total int64

	db := applySpecifications(r.db.WithContext(ctx).Model(&model.Notification{}),
		specification.UserOwnedBy{UserID: userID})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// id breaks ties between rows created in the same instant
	err := db.Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}

	return r.mapper.ToEntities(notifications), total, nil
}

func (r *NotificationRepositoryImpl) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := applySpecifications(r.db.WithContext(ctx).Model(&model.Notification{}),
		specification.UserOwnedBy{UserID: userID},
		specification.Unread{},
	).Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) MarkRead(ctx context.Context, id, userID uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": gorm.Expr("COALESCE(read_at, ?)", at),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *NotificationRepositoryImpl) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	result := applySpecifications(r.db.WithContext(ctx).Model(&model.Notification{}),
		specification.UserOwnedBy{UserID: userID},
		specification.Unread{},
	).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": at,
	})
	return result.RowsAffected, result.Error
}
