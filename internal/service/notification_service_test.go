package service

import (
	"context"
	"testing"
	"time"

	"library-management-be/internal/entity"
	"library-management-be/pkg/access"
	"library-management-be/pkg/apperror"
	"library-management-be/pkg/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotifications(t *testing.T, store *fakeStore, userID uuid.UUID, n int) []uuid.UUID {
	t.Helper()
	sink := NewNotificationSink()
	repo := (&fakeUoW{store: store}).NotificationRepository()
	ids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		err := sink.Emit(context.Background(), repo, userID, entity.NotificationBookBorrowed,
			"Book borrowed", "msg", nil, t0.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}
	for _, note := range store.notificationsFor(userID) {
		ids = append(ids, note.Id)
	}
	return ids
}

func TestNotificationService(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fakeStore, INotificationService, entity.Actor, entity.Actor) {
		store := newFakeStore()
		svc := NewNotificationService(&fakeFactory{store}, clock.NewFixed(t0.Add(time.Hour)))
		alice := entity.Actor{UserID: store.addUser(access.RoleRegular, true), Role: access.RoleRegular}
		bob := entity.Actor{UserID: store.addUser(access.RoleRegular, true), Role: access.RoleRegular}
		return store, svc, alice, bob
	}

	t.Run("list is newest first and paged", func(t *testing.T) {
		store, svc, alice, _ := setup(t)
		seedNotifications(t, store, alice.UserID, 3)

		res, err := svc.List(ctx, alice, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.Total)
		require.Len(t, res.Items, 2)
		assert.True(t, res.Items[0].Timestamp.After(res.Items[1].Timestamp))

		res, err = svc.List(ctx, alice, 2, 2)
		require.NoError(t, err)
		assert.Len(t, res.Items, 1)
	})

	t.Run("limit is clamped", func(t *testing.T) {
		_, svc, alice, _ := setup(t)

		res, err := svc.List(ctx, alice, 0, 1000)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Page)
		assert.Equal(t, maxNotificationLimit, res.Limit)
	})

	t.Run("mark read only touches own notifications", func(t *testing.T) {
		store, svc, alice, bob := setup(t)
		ids := seedNotifications(t, store, alice.UserID, 2)

		err := svc.MarkRead(ctx, bob, ids[0])
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
		for _, n := range store.notificationsFor(alice.UserID) {
			if n.Id == ids[0] {
				assert.False(t, n.IsRead)
				assert.Nil(t, n.ReadAt)
			}
		}

		err = svc.MarkRead(ctx, alice, uuid.New())
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

		require.NoError(t, svc.MarkRead(ctx, alice, ids[0]))
		// idempotent
		require.NoError(t, svc.MarkRead(ctx, alice, ids[0]))

		count, err := svc.UnreadCount(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("mark all read", func(t *testing.T) {
		store, svc, alice, bob := setup(t)
		seedNotifications(t, store, alice.UserID, 3)
		seedNotifications(t, store, bob.UserID, 1)

		updated, err := svc.MarkAllRead(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, int64(3), updated)

		count, _ := svc.UnreadCount(ctx, alice)
		assert.Zero(t, count)
		count, _ = svc.UnreadCount(ctx, bob)
		assert.Equal(t, int64(1), count)
	})
}
