package service

import (
	"context"
	"testing"
	"time"

	"library-management-be/internal/dto"
	"library-management-be/internal/entity"
	"library-management-be/internal/pkg/logger"
	"library-management-be/internal/repository/readmodel"
	"library-management-be/pkg/access"
	"library-management-be/pkg/apperror"
	"library-management-be/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Admin(t *testing.T) {
	ctx := context.Background()

	setup := func() (*fakeStore, IUserService, entity.Actor, entity.Actor) {
		store := newFakeStore()
		svc := NewUserService(&fakeFactory{store}, logger.NewNopLogger())
		admin := entity.Actor{UserID: store.addUser(access.RoleAdmin, true), Role: access.RoleAdmin}
		member := entity.Actor{UserID: store.addUser(access.RoleRegular, true), Role: access.RoleRegular}
		return store, svc, admin, member
	}

	t.Run("admin promotes and disables another user", func(t *testing.T) {
		_, svc, admin, member := setup()
		role := string(access.RoleLibrarian)
		inactive := false

		res, err := svc.AdminUpdateUser(ctx, admin, member.UserID, &dto.AdminUpdateUserRequest{Role: &role, IsActive: &inactive})
		require.NoError(t, err)
		assert.Equal(t, role, res.Role)
		assert.False(t, res.IsActive)
	})

	t.Run("admin cannot change their own access", func(t *testing.T) {
		_, svc, admin, _ := setup()
		role := string(access.RoleRegular)

		_, err := svc.AdminUpdateUser(ctx, admin, admin.UserID, &dto.AdminUpdateUserRequest{Role: &role})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("non admins are forbidden", func(t *testing.T) {
		_, svc, admin, member := setup()

		_, err := svc.AdminUpdateUser(ctx, member, admin.UserID, &dto.AdminUpdateUserRequest{})
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
		_, err = svc.AdminListUsers(ctx, member, "", 1, 20)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("unknown target is not found", func(t *testing.T) {
		_, svc, admin, _ := setup()
		_, err := svc.AdminUpdateUser(ctx, admin, uuid.New(), &dto.AdminUpdateUserRequest{})
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("list filters by role", func(t *testing.T) {
		_, svc, admin, _ := setup()

		res, err := svc.AdminListUsers(ctx, admin, "regular", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Total)

		_, err = svc.AdminListUsers(ctx, admin, "wizard", 1, 20)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("provision and set role by email", func(t *testing.T) {
		_, svc, _, _ := setup()

		created, err := svc.ProvisionUser(ctx, &dto.AdminCreateUserRequest{
			Email: "Desk@Library.org", Password: "long-enough", Role: "regular",
		})
		require.NoError(t, err)
		assert.Equal(t, "desk@library.org", created.Email)

		updated, err := svc.SetRole(ctx, "desk@library.org", access.RoleLibrarian)
		require.NoError(t, err)
		assert.Equal(t, string(access.RoleLibrarian), updated.Role)

		_, err = svc.SetRole(ctx, "missing@library.org", access.RoleLibrarian)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewUserService(&fakeFactory{store}, logger.NewNopLogger())
	member := entity.Actor{UserID: store.addUser(access.RoleRegular, true), Role: access.RoleRegular}

	picture := "https://cdn.library.org/avatars/ada.png"
	res, err := svc.UpdateProfile(ctx, member, &dto.UpdateProfileRequest{
		FirstName: "Ada", LastName: "Lovelace", ProfilePicture: &picture,
	})
	require.NoError(t, err)
	assert.Equal(t, picture, res.ProfilePictureURL)

	t.Run("omitted picture is kept", func(t *testing.T) {
		res, err := svc.UpdateProfile(ctx, member, &dto.UpdateProfileRequest{FirstName: "Augusta", LastName: "King"})
		require.NoError(t, err)
		assert.Equal(t, "Augusta", res.FirstName)
		assert.Equal(t, picture, res.ProfilePictureURL)

		stored, err := svc.GetProfile(ctx, member)
		require.NoError(t, err)
		assert.Equal(t, picture, stored.ProfilePictureURL)
	})

	t.Run("empty picture clears it", func(t *testing.T) {
		empty := ""
		res, err := svc.UpdateProfile(ctx, member, &dto.UpdateProfileRequest{FirstName: "Ada", ProfilePicture: &empty})
		require.NoError(t, err)
		assert.Empty(t, res.ProfilePictureURL)
		assert.Nil(t, store.users[member.UserID].ProfilePictureURL)
	})
}

type staticOverdue []readmodel.OverdueLoanRow

func (s staticOverdue) List(ctx context.Context, now time.Time) ([]readmodel.OverdueLoanRow, error) {
	return s, nil
}

func TestReportService_Overdue(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	librarian := entity.Actor{UserID: store.addUser(access.RoleLibrarian, true), Role: access.RoleLibrarian}
	member := entity.Actor{UserID: store.addUser(access.RoleRegular, true), Role: access.RoleRegular}

	rows := staticOverdue{{
		ISBN:          testISBN,
		Title:         "Clean Code",
		BorrowerId:    member.UserID,
		BorrowerEmail: "member@example.com",
		DueDate:       t0,
		FinePerDay:    decimal.RequireFromString("2.50"),
	}}
	svc := NewReportService(&fakeFactory{store}, rows, clock.NewFixed(t0.Add(4*24*time.Hour+time.Hour)))

	res, err := svc.Overdue(ctx, librarian)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, int64(4), res[0].OverdueDays)
	assert.Equal(t, "10.00", res[0].FeeOwed)
	assert.Equal(t, "2.50", res[0].FinePerDay)

	_, err = svc.Overdue(ctx, member)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}
