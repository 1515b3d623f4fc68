package implementation

import (
	"context"
	"errors"

	"library-management-be/internal/entity"
	"library-management-be/internal/mapper"
	"library-management-be/internal/model"
	"library-management-be/internal/repository/contract"
	"library-management-be/internal/repository/specification"
	"library-management-be/pkg/apperror"
	"library-management-be/pkg/circulation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookMapper
}

func NewBookRepository(db *gorm.DB) contract.BookRepository {
	return &BookRepositoryImpl{
		db:     db,
		mapper: mapper.NewBookMapper(),
	}
}

func (r *BookRepositoryImpl) Create(ctx context.Context, book *entity.Book) error {
	m := r.mapper.ToModel(book)
	if err := r.db.WithContext(ctx).Omit("Category", "Borrower").Create(m).Error; err != nil {
		return translate(err, "book")
	}
	book.CreatedAt, book.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *BookRepositoryImpl) UpdateDetails(ctx context.Context, book *entity.Book) error {
	result := r.db.WithContext(ctx).Model(&model.Book{}).
		Where("isbn = ?", book.ISBN).
		Updates(map[string]interface{}{
			"title":          book.Title,
			"author":         book.Author,
			"published_date": book.PublishedDate,
			"category_id":    book.CategoryId,
			"image_url":      book.ImageURL,
			"fine_per_day":   book.FinePerDay,
		})
	if result.Error != nil {
		return translate(result.Error, "book")
	}
	if result.RowsAffected == 0 {
		return circulation.ErrBookNotFound
	}
	return nil
}

func (r *BookRepositoryImpl) UpdateLoanState(ctx context.Context, isbn string, loan circulation.Loan) error {
	var borrowedBy, dueDate interface{}
	if loan.BorrowedBy != nil {
		borrowedBy = *loan.BorrowedBy
	}
	if loan.DueDate != nil {
		dueDate = *loan.DueDate
	}

	result := r.db.WithContext(ctx).Model(&model.Book{}).
		Where("isbn = ?", isbn).
		Updates(map[string]interface{}{
			"borrowed_by": borrowedBy,
			"due_date":    dueDate,
		})
	if result.Error != nil {
		return translate(result.Error, "loan")
	}
	if result.RowsAffected == 0 {
		return circulation.ErrBookNotFound
	}
	return nil
}

func (r *BookRepositoryImpl) Delete(ctx context.Context, isbn string) error {
	result := r.db.WithContext(ctx).Where("isbn = ?", isbn).Delete(&model.Book{})
	if result.Error != nil {
		return translate(result.Error, "book")
	}
	if result.RowsAffected == 0 {
		return circulation.ErrBookNotFound
	}
	return nil
}

func (r *BookRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Book, error) {
	var m model.Book
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Book{}), specs...)

	if err := query.Preload("Category").Preload("Borrower").First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BookRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Book, error) {
	var models []*model.Book
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Book{}), specs...)

	if err := query.Preload("Category").Preload("Borrower").Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BookRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Book{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BookRepositoryImpl) ReassignCategory(ctx context.Context, from, to uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Book{}).
		Where("category_id = ?", from).
		Update("category_id", to)
	return result.RowsAffected, translate(result.Error, "category")
}

type CategoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookMapper
}

func NewCategoryRepository(db *gorm.DB) contract.CategoryRepository {
	return &CategoryRepositoryImpl{db: db, mapper: mapper.NewBookMapper()}
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *entity.Category) error {
	m := r.mapper.CategoryToModel(category)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err, "category")
	}
	*category = *r.mapper.CategoryToEntity(m)
	return nil
}

func (r *CategoryRepositoryImpl) Rename(ctx context.Context, id uuid.UUID, name string) error {
	result := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		return translate(result.Error, "category")
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("category")
	}
	return nil
}

// Delete removes the category. The database cascades to its books.
func (r *CategoryRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return translate(r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Category{}).Error, "category")
}

func (r *CategoryRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Category, error) {
	var m model.Category
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.CategoryToEntity(&m), nil
}

func (r *CategoryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Category, error) {
	var models []*model.Category
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.CategoriesToEntities(models), nil
}

type FeePaymentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookMapper
}

func NewFeePaymentRepository(db *gorm.DB) contract.FeePaymentRepository {
	return &FeePaymentRepositoryImpl{db: db, mapper: mapper.NewBookMapper()}
}

func (r *FeePaymentRepositoryImpl) Create(ctx context.Context, payment *entity.FeePayment) error {
	return r.db.WithContext(ctx).Create(r.mapper.FeePaymentToModel(payment)).Error
}
