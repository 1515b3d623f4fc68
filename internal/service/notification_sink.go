package service

import (
	"context"
	"fmt"
	"time"

	"library-management-be/internal/entity"
	"library-management-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NotificationSink writes user notifications through the repository of the
// caller's unit of work so they commit or roll back with the loan change.
type NotificationSink struct{}

func NewNotificationSink() *NotificationSink {
	return &NotificationSink{}
}

func (s *NotificationSink) Emit(ctx context.Context, repo contract.NotificationRepository, userId uuid.UUID, typeCode entity.NotificationType, title, message string, metadata map[string]interface{}, now time.Time) error {
	n := &entity.Notification{
		Id:        uuid.New(),
		UserId:    userId,
		TypeCode:  typeCode,
		Title:     title,
		Message:   message,
		Metadata:  metadata,
		IsRead:    false,
		CreatedAt: now,
	}
	if err := repo.Create(ctx, n); err != nil {
		return fmt.Errorf("emit notification: %w", err)
	}
	return nil
}

func (s *NotificationSink) BookBorrowed(ctx context.Context, repo contract.NotificationRepository, userId uuid.UUID, book *entity.Book, due time.Time, now time.Time) error {
	return s.Emit(ctx, repo, userId, entity.NotificationBookBorrowed,
		"Book borrowed",
		fmt.Sprintf("You borrowed %q. Please return it by %s.", book.Title, due.Format("2006-01-02")),
		map[string]interface{}{"isbn": book.ISBN, "due_date": due.Format(time.RFC3339)},
		now)
}

func (s *NotificationSink) BookReturned(ctx context.Context, repo contract.NotificationRepository, userId uuid.UUID, book *entity.Book, now time.Time) error {
	return s.Emit(ctx, repo, userId, entity.NotificationBookReturned,
		"Book returned",
		fmt.Sprintf("You returned %q. Thank you!", book.Title),
		map[string]interface{}{"isbn": book.ISBN},
		now)
}

func (s *NotificationSink) FeePaid(ctx context.Context, repo contract.NotificationRepository, userId uuid.UUID, book *entity.Book, paid decimal.Decimal, now time.Time) error {
	return s.Emit(ctx, repo, userId, entity.NotificationFeePaid,
		"Fee paid",
		fmt.Sprintf("You paid %s for %q. The book has been returned.", paid.StringFixed(2), book.Title),
		map[string]interface{}{"isbn": book.ISBN, "amount": paid.StringFixed(2)},
		now)
}
