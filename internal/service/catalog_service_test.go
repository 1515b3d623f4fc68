package service

import (
	"context"
	"testing"
	"time"

	"library-management-be/internal/dto"
	"library-management-be/internal/entity"
	"library-management-be/internal/pkg/logger"
	"library-management-be/internal/repository/memory"
	"library-management-be/pkg/access"
	"library-management-be/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	store     *fakeStore
	svc       ICatalogService
	librarian entity.Actor
	member    entity.Actor
	software  uuid.UUID
	fiction   uuid.UUID
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	store := newFakeStore()
	return &catalogFixture{
		store: store,
		svc: NewCatalogService(&fakeFactory{store}, memory.NewCategoryCache(time.Minute),
			decimal.RequireFromString("1.50"), logger.NewNopLogger()),
		librarian: entity.Actor{UserID: store.addUser(access.RoleLibrarian, true), Role: access.RoleLibrarian},
		member:    entity.Actor{UserID: store.addUser(access.RoleRegular, true), Role: access.RoleRegular},
		software:  store.addCategory("Software"),
		fiction:   store.addCategory("Fiction"),
	}
}

func (f *catalogFixture) createReq(isbn string) *dto.CreateBookRequest {
	return &dto.CreateBookRequest{
		ISBN:          isbn,
		Title:         "Refactoring",
		Author:        "Martin Fowler",
		PublishedDate: "1999-07-08",
		CategoryId:    f.software,
	}
}

func TestCatalogService_CreateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("librarian creates with the default fine", func(t *testing.T) {
		f := newCatalogFixture(t)

		res, err := f.svc.CreateBook(ctx, f.librarian, f.createReq("0-201-48567-2"))
		require.NoError(t, err)
		assert.Equal(t, "0201485672", res.ISBN)
		assert.Equal(t, "1.50", res.FinePerDay)
		assert.Equal(t, "available", res.Status)
		assert.Equal(t, "Software", res.CategoryName)
	})

	t.Run("regular member is forbidden even with an elevated token", func(t *testing.T) {
		f := newCatalogFixture(t)
		forged := entity.Actor{UserID: f.member.UserID, Role: access.RoleAdmin}

		_, err := f.svc.CreateBook(ctx, forged, f.createReq("0201485672"))
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
		_, ok := f.store.book("0201485672")
		assert.False(t, ok)
	})

	t.Run("duplicate isbn is a conflict", func(t *testing.T) {
		f := newCatalogFixture(t)
		_, err := f.svc.CreateBook(ctx, f.librarian, f.createReq("0201485672"))
		require.NoError(t, err)

		_, err = f.svc.CreateBook(ctx, f.librarian, f.createReq("0-201-48567-2"))
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("unknown category and negative fine are invalid", func(t *testing.T) {
		f := newCatalogFixture(t)

		req := f.createReq("0201485672")
		req.CategoryId = uuid.New()
		_, err := f.svc.CreateBook(ctx, f.librarian, req)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

		req = f.createReq("0201485672")
		negative := decimal.RequireFromString("-1")
		req.FinePerDay = &negative
		_, err = f.svc.CreateBook(ctx, f.librarian, req)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})
}

func TestCatalogService_Categories(t *testing.T) {
	ctx := context.Background()

	t.Run("listing reflects writes through the cache", func(t *testing.T) {
		f := newCatalogFixture(t)

		cats, err := f.svc.ListCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, cats, 2)

		_, err = f.svc.CreateCategory(ctx, f.librarian, &dto.CategoryRequest{Name: "History"})
		require.NoError(t, err)

		cats, err = f.svc.ListCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, cats, 3)
	})

	t.Run("member cannot create categories", func(t *testing.T) {
		f := newCatalogFixture(t)
		_, err := f.svc.CreateCategory(ctx, f.member, &dto.CategoryRequest{Name: "History"})
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})
}

func TestCatalogService_DeleteCategory(t *testing.T) {
	ctx := context.Background()

	withLoan := func(t *testing.T) *catalogFixture {
		f := newCatalogFixture(t)
		due := t0.Add(loanPeriod)
		borrower := f.member.UserID
		f.store.putBook(entity.Book{ISBN: "0201485672", Title: "Refactoring", CategoryId: f.software})
		f.store.putBook(entity.Book{ISBN: "9780132350884", Title: "Clean Code", CategoryId: f.software, BorrowedBy: &borrower, DueDate: &due})
		return f
	}

	t.Run("books on loan block deletion", func(t *testing.T) {
		f := withLoan(t)

		_, err := f.svc.DeleteCategory(ctx, f.librarian, f.software, dto.DeleteCategoryOptions{})
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
		assert.Equal(t, int64(1), apperror.DetailsOf(err)["borrowed_books"])

		_, ok := f.store.book("9780132350884")
		assert.True(t, ok)
	})

	t.Run("force deletes the books with the category", func(t *testing.T) {
		f := withLoan(t)

		res, err := f.svc.DeleteCategory(ctx, f.librarian, f.software, dto.DeleteCategoryOptions{Force: true})
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.BooksDeleted)
		assert.Equal(t, int64(1), res.LoansReleased)

		_, ok := f.store.book("9780132350884")
		assert.False(t, ok)
	})

	t.Run("reassign moves books and keeps loans", func(t *testing.T) {
		f := withLoan(t)

		res, err := f.svc.DeleteCategory(ctx, f.librarian, f.software, dto.DeleteCategoryOptions{ReassignTo: &f.fiction})
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.BooksMoved)

		book, ok := f.store.book("9780132350884")
		require.True(t, ok)
		assert.Equal(t, f.fiction, book.CategoryId)
		assert.NotNil(t, book.BorrowedBy)
	})

	t.Run("reassign to itself or a missing category is invalid", func(t *testing.T) {
		f := withLoan(t)

		_, err := f.svc.DeleteCategory(ctx, f.librarian, f.software, dto.DeleteCategoryOptions{ReassignTo: &f.software})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

		missing := uuid.New()
		_, err = f.svc.DeleteCategory(ctx, f.librarian, f.software, dto.DeleteCategoryOptions{ReassignTo: &missing})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("unknown category is not found", func(t *testing.T) {
		f := newCatalogFixture(t)
		_, err := f.svc.DeleteCategory(ctx, f.librarian, uuid.New(), dto.DeleteCategoryOptions{})
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}
