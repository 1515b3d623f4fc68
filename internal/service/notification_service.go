package service

import (
	"context"

	"library-management-be/internal/dto"
	"library-management-be/internal/entity"
	"library-management-be/internal/repository/unitofwork"
	"library-management-be/pkg/apperror"
	"library-management-be/pkg/clock"

	"github.com/google/uuid"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

type INotificationService interface {
	List(ctx context.Context, actor entity.Actor, page, limit int) (*dto.NotificationListResponse, error)
	UnreadCount(ctx context.Context, actor entity.Actor) (int64, error)
	MarkRead(ctx context.Context, actor entity.Actor, id uuid.UUID) error
	MarkAllRead(ctx context.Context, actor entity.Actor) (int64, error)
}

type notificationService struct {
	uowFactory unitofwork.RepositoryFactory
	clock      clock.Clock
}

func NewNotificationService(uowFactory unitofwork.RepositoryFactory, clk clock.Clock) INotificationService {
	return &notificationService{uowFactory: uowFactory, clock: clk}
}

func (s *notificationService) List(ctx context.Context, actor entity.Actor, page, limit int) (*dto.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, total, err := uow.NotificationRepository().ListByUser(ctx, actor.UserID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	res := &dto.NotificationListResponse{
		Items: make([]*dto.NotificationResponse, 0, len(items)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for _, n := range items {
		res.Items = append(res.Items, &dto.NotificationResponse{
			Id:        n.Id,
			Type:      string(n.TypeCode),
			Title:     n.Title,
			Message:   n.Message,
			Metadata:  n.Metadata,
			IsRead:    n.IsRead,
			ReadAt:    n.ReadAt,
			Timestamp: n.CreatedAt,
		})
	}
	return res, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, actor entity.Actor) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().CountUnread(ctx, actor.UserID)
}

// MarkRead reports NotFound for ids owned by someone else so callers cannot
// look up other users' notifications.
func (s *notificationService) MarkRead(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	found, err := uow.NotificationRepository().MarkRead(ctx, id, actor.UserID, s.clock.Now())
	if err != nil {
		return err
	}
	if !found {
		return apperror.NotFound("notification")
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, actor entity.Actor) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkAllRead(ctx, actor.UserID, s.clock.Now())
}
