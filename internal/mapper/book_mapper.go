package mapper

import (
	"library-management-be/internal/entity"
	"library-management-be/internal/model"
)

type BookMapper struct{}

func NewBookMapper() *BookMapper {
	return &BookMapper{}
}

func (m *BookMapper) ToEntity(b *model.Book) *entity.Book {
	if b == nil {
		return nil
	}
	e := &entity.Book{
		ISBN:          b.ISBN,
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: b.PublishedDate,
		CategoryId:    b.CategoryId,
		CategoryName:  b.Category.Name,
		ImageURL:      b.ImageURL,
		BorrowedBy:    b.BorrowedBy,
		DueDate:       b.DueDate,
		FinePerDay:    b.FinePerDay,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.Borrower != nil {
		e.BorrowerEmail = b.Borrower.Email
	}
	return e
}

// ToModel leaves the associations empty so saves never touch related rows.
func (m *BookMapper) ToModel(b *entity.Book) *model.Book {
	if b == nil {
		return nil
	}
	return &model.Book{
		ISBN:          b.ISBN,
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: b.PublishedDate,
		CategoryId:    b.CategoryId,
		ImageURL:      b.ImageURL,
		BorrowedBy:    b.BorrowedBy,
		DueDate:       b.DueDate,
		FinePerDay:    b.FinePerDay,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (m *BookMapper) ToEntities(books []*model.Book) []*entity.Book {
	entities := make([]*entity.Book, len(books))
	for i, b := range books {
		entities[i] = m.ToEntity(b)
	}
	return entities
}

func (m *BookMapper) CategoryToEntity(c *model.Category) *entity.Category {
	if c == nil {
		return nil
	}
	return &entity.Category{Id: c.Id, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func (m *BookMapper) CategoryToModel(c *entity.Category) *model.Category {
	if c == nil {
		return nil
	}
	return &model.Category{Id: c.Id, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func (m *BookMapper) CategoriesToEntities(cats []*model.Category) []*entity.Category {
	entities := make([]*entity.Category, len(cats))
	for i, c := range cats {
		entities[i] = m.CategoryToEntity(c)
	}
	return entities
}

func (m *BookMapper) FeePaymentToModel(p *entity.FeePayment) *model.FeePayment {
	if p == nil {
		return nil
	}
	return &model.FeePayment{
		Id:             p.Id,
		ISBN:           p.ISBN,
		UserId:         p.UserId,
		AmountOwed:     p.AmountOwed,
		AmountTendered: p.AmountTendered,
		OverdueDays:    p.OverdueDays,
		DueDate:        p.DueDate,
		PaidAt:         p.PaidAt,
	}
}
