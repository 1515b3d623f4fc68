package service

import (
	"context"
	"time"

	"library-management-be/internal/dto"
	"library-management-be/internal/entity"
	"library-management-be/internal/pkg/logger"
	"library-management-be/internal/repository/specification"
	"library-management-be/internal/repository/unitofwork"
	"library-management-be/pkg/access"
	"library-management-be/pkg/apperror"
	"library-management-be/pkg/circulation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// CategoryCache is satisfied by memory.CategoryCache.
type CategoryCache interface {
	Get() ([]*entity.Category, bool)
	Set(categories []*entity.Category)
	Invalidate()
}

type ICatalogService interface {
	ListBooks(ctx context.Context, query dto.BookListQuery) (*dto.BookListResponse, error)
	GetBook(ctx context.Context, isbn string) (*dto.BookResponse, error)
	CreateBook(ctx context.Context, actor entity.Actor, req *dto.CreateBookRequest) (*dto.BookResponse, error)
	UpdateBook(ctx context.Context, actor entity.Actor, isbn string, req *dto.UpdateBookRequest) (*dto.BookResponse, error)
	DeleteBook(ctx context.Context, actor entity.Actor, isbn string) error

	ListCategories(ctx context.Context) ([]*dto.CategoryResponse, error)
	CreateCategory(ctx context.Context, actor entity.Actor, req *dto.CategoryRequest) (*dto.CategoryResponse, error)
	RenameCategory(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.CategoryRequest) (*dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, actor entity.Actor, id uuid.UUID, opts dto.DeleteCategoryOptions) (*dto.DeleteCategoryResponse, error)
}

type catalogService struct {
	uowFactory        unitofwork.RepositoryFactory
	categories        CategoryCache
	defaultFinePerDay decimal.Decimal
	logger            logger.ILogger
}

func NewCatalogService(
	uowFactory unitofwork.RepositoryFactory,
	categories CategoryCache,
	defaultFinePerDay decimal.Decimal,
	logger logger.ILogger,
) ICatalogService {
	return &catalogService{
		uowFactory:        uowFactory,
		categories:        categories,
		defaultFinePerDay: defaultFinePerDay,
		logger:            logger,
	}
}

// beginElevated opens the transaction and checks the caller may change the catalog.
func (s *catalogService) beginElevated(ctx context.Context, uow unitofwork.UnitOfWork, actor entity.Actor) (*entity.User, error) {
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	user, err := requireActive(ctx, uow, actor)
	if err != nil {
		return nil, err
	}
	if !access.CanMutateCatalog(user.Role) {
		return nil, apperror.Forbidden("only librarians and admins can change the catalog")
	}
	return user, nil
}

func toBookResponse(b *entity.Book) *dto.BookResponse {
	res := &dto.BookResponse{
		ISBN:          b.ISBN,
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: b.PublishedDate.Format(dateLayout),
		CategoryId:    b.CategoryId,
		CategoryName:  b.CategoryName,
		ImageURL:      b.ImageURL,
		Status:        "available",
		DueDate:       b.DueDate,
		FinePerDay:    b.FinePerDay.StringFixed(2),
	}
	if !b.IsAvailable() {
		res.Status = "borrowed"
		email := b.BorrowerEmail
		res.BorrowedBy = &email
	}
	return res
}

func (s *catalogService) ListBooks(ctx context.Context, query dto.BookListQuery) (*dto.BookListResponse, error) {
	filters := make([]specification.Specification, 0, 2)
	if query.CategoryId != nil {
		filters = append(filters, specification.InCategory{CategoryID: *query.CategoryId})
	}
	switch query.Status {
	case "available":
		filters = append(filters, specification.Available{})
	case "borrowed":
		filters = append(filters, specification.Borrowed{})
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.BookRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	specs := append(filters,
		specification.OrderBy{Field: "books.title"},
		specification.Pagination{Limit: query.Limit, Offset: query.Offset},
	)
	books, err := uow.BookRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := &dto.BookListResponse{Items: make([]*dto.BookResponse, 0, len(books)), Total: total}
	for _, b := range books {
		res.Items = append(res.Items, toBookResponse(b))
	}
	return res, nil
}

func (s *catalogService) GetBook(ctx context.Context, rawISBN string) (*dto.BookResponse, error) {
	isbn, err := pathISBN(rawISBN)
	if err != nil {
		return nil, err
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	book, err := uow.BookRepository().FindOne(ctx, specification.ByISBN{ISBN: isbn})
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, circulation.ErrBookNotFound
	}
	return toBookResponse(book), nil
}

func (s *catalogService) CreateBook(ctx context.Context, actor entity.Actor, req *dto.CreateBookRequest) (*dto.BookResponse, error) {
	isbn, ok := circulation.NormalizeISBN(req.ISBN)
	if !ok {
		return nil, apperror.Validation("isbn must be a valid ISBN-10 or ISBN-13")
	}
	published, err := time.Parse(dateLayout, req.PublishedDate)
	if err != nil {
		return nil, apperror.Validation("published_date must use YYYY-MM-DD")
	}
	fine := s.defaultFinePerDay
	if req.FinePerDay != nil {
		fine = *req.FinePerDay
	}
	if fine.IsNegative() {
		return nil, apperror.Validation("fine_per_day must not be negative")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	defer uow.Rollback()

	if _, err := s.beginElevated(ctx, uow, actor); err != nil {
		return nil, err
	}

	category, err := uow.CategoryRepository().FindOne(ctx, specification.ByID{ID: req.CategoryId})
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.Validation("category does not exist")
	}

	existing, err := uow.BookRepository().FindOne(ctx, specification.ByISBN{ISBN: isbn})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("a book with this ISBN already exists")
	}

	book := &entity.Book{
		ISBN:          isbn,
		Title:         req.Title,
		Author:        req.Author,
		PublishedDate: published,
		CategoryId:    category.Id,
		CategoryName:  category.Name,
		ImageURL:      req.ImageURL,
		FinePerDay:    fine,
	}
	if err := uow.BookRepository().Create(ctx, book); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("CATALOG", "Book created", map[string]interface{}{"isbn": isbn, "by": actor.UserID.String()})
	return toBookResponse(book), nil
}

func (s *catalogService) UpdateBook(ctx context.Context, actor entity.Actor, rawISBN string, req *dto.UpdateBookRequest) (*dto.BookResponse, error) {
	isbn, err := pathISBN(rawISBN)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	defer uow.Rollback()

	if _, err := s.beginElevated(ctx, uow, actor); err != nil {
		return nil, err
	}

	book, err := uow.BookRepository().FindOne(ctx, specification.ByISBN{ISBN: isbn}, specification.ForUpdate{})
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, circulation.ErrBookNotFound
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.PublishedDate != nil {
		published, err := time.Parse(dateLayout, *req.PublishedDate)
		if err != nil {
			return nil, apperror.Validation("published_date must use YYYY-MM-DD")
		}
		book.PublishedDate = published
	}
	if req.ImageURL != nil {
		book.ImageURL = req.ImageURL
	}
	if req.FinePerDay != nil {
		if req.FinePerDay.IsNegative() {
			return nil, apperror.Validation("fine_per_day must not be negative")
		}
		book.FinePerDay = *req.FinePerDay
	}
	if req.CategoryId != nil && *req.CategoryId != book.CategoryId {
		category, err := uow.CategoryRepository().FindOne(ctx, specification.ByID{ID: *req.CategoryId})
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.Validation("category does not exist")
		}
		book.CategoryId = category.Id
		book.CategoryName = category.Name
	}

	if err := uow.BookRepository().UpdateDetails(ctx, book); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return toBookResponse(book), nil
}

func (s *catalogService) DeleteBook(ctx context.Context, actor entity.Actor, rawISBN string) error {
	isbn, err := pathISBN(rawISBN)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	defer uow.Rollback()

	if _, err := s.beginElevated(ctx, uow, actor); err != nil {
		return err
	}

	book, err := uow.BookRepository().FindOne(ctx, specification.ByISBN{ISBN: isbn}, specification.ForUpdate{})
	if err != nil {
		return err
	}
	if book == nil {
		return circulation.ErrBookNotFound
	}
	if err := uow.BookRepository().Delete(ctx, isbn); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if !book.IsAvailable() {
		s.logger.Warn("CATALOG", "Deleted a book that was on loan", map[string]interface{}{
			"isbn":        isbn,
			"borrowed_by": book.BorrowedBy.String(),
			"by":          actor.UserID.String(),
		})
	} else {
		s.logger.Info("CATALOG", "Book deleted", map[string]interface{}{"isbn": isbn, "by": actor.UserID.String()})
	}
	return nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*dto.CategoryResponse, error) {
	categories, ok := s.categories.Get()
	if !ok {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		var err error
		categories, err = uow.CategoryRepository().FindAll(ctx, specification.OrderBy{Field: "name"})
		if err != nil {
			return nil, err
		}
		s.categories.Set(categories)
	}

	res := make([]*dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		res = append(res, &dto.CategoryResponse{Id: c.Id, Name: c.Name})
	}
	return res, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, actor entity.Actor, req *dto.CategoryRequest) (*dto.CategoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	defer uow.Rollback()

	if _, err := s.beginElevated(ctx, uow, actor); err != nil {
		return nil, err
	}

	existing, err := uow.CategoryRepository().FindOne(ctx, specification.ByName{Name: req.Name})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("a category with this name already exists")
	}

	category := &entity.Category{Id: uuid.New(), Name: req.Name}
	if err := uow.CategoryRepository().Create(ctx, category); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	s.categories.Invalidate()

	return &dto.CategoryResponse{Id: category.Id, Name: category.Name}, nil
}

func (s *catalogService) RenameCategory(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.CategoryRequest) (*dto.CategoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	defer uow.Rollback()

	if _, err := s.beginElevated(ctx, uow, actor); err != nil {
		return nil, err
	}

	existing, err := uow.CategoryRepository().FindOne(ctx, specification.ByName{Name: req.Name})
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Id != id {
		return nil, apperror.Conflict("a category with this name already exists")
	}

	if err := uow.CategoryRepository().Rename(ctx, id, req.Name); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	s.categories.Invalidate()

	return &dto.CategoryResponse{Id: id, Name: req.Name}, nil
}

// DeleteCategory removes a category. Its books either move to opts.ReassignTo
// or are deleted with it; deleting books that are on loan needs opts.Force.
func (s *catalogService) DeleteCategory(ctx context.Context, actor entity.Actor, id uuid.UUID, opts dto.DeleteCategoryOptions) (*dto.DeleteCategoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	defer uow.Rollback()

	if _, err := s.beginElevated(ctx, uow, actor); err != nil {
		return nil, err
	}

	category, err := uow.CategoryRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NotFound("category")
	}

	// locks every book of the category so no loan starts or ends meanwhile
	books, err := uow.BookRepository().FindAll(ctx, specification.InCategory{CategoryID: id}, specification.ForUpdate{})
	if err != nil {
		return nil, err
	}
	var onLoan int64
	for _, b := range books {
		if !b.IsAvailable() {
			onLoan++
		}
	}

	res := &dto.DeleteCategoryResponse{CategoryId: id}

	if opts.ReassignTo != nil {
		if *opts.ReassignTo == id {
			return nil, apperror.Validation("reassign_to must differ from the deleted category")
		}
		target, err := uow.CategoryRepository().FindOne(ctx, specification.ByID{ID: *opts.ReassignTo})
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, apperror.Validation("reassign_to category does not exist")
		}
		moved, err := uow.BookRepository().ReassignCategory(ctx, id, target.Id)
		if err != nil {
			return nil, err
		}
		res.BooksMoved = moved
		res.ReassignedTo = &target.Id
	} else {
		if onLoan > 0 && !opts.Force {
			return nil, apperror.Conflict("category has books on loan; pass force=true or reassign_to").
				WithDetails(map[string]interface{}{"borrowed_books": onLoan, "books": len(books)})
		}
		res.BooksDeleted = int64(len(books))
		res.LoansReleased = onLoan
	}

	if err := uow.CategoryRepository().Delete(ctx, id); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	s.categories.Invalidate()

	details := map[string]interface{}{
		"category_id":    id.String(),
		"name":           category.Name,
		"books_deleted":  res.BooksDeleted,
		"books_moved":    res.BooksMoved,
		"loans_released": res.LoansReleased,
		"by":             actor.UserID.String(),
	}
	if res.BooksDeleted > 0 {
		s.logger.Warn("CATALOG", "Category deleted together with its books", details)
	} else {
		s.logger.Info("CATALOG", "Category deleted", details)
	}
	return res, nil
}
