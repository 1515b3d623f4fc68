package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"library-management-be/internal/entity"
	"library-management-be/internal/repository/contract"
	"library-management-be/internal/repository/specification"
	"library-management-be/internal/repository/unitofwork"
	"library-management-be/pkg/access"
	"library-management-be/pkg/apperror"
	"library-management-be/pkg/circulation"

	"github.com/google/uuid"
)

var errInjected = errors.New("injected failure")

// fakeStore is an in-memory database. Writes inside a transaction are undone
// on rollback and SELECT ... FOR UPDATE is modelled with one mutex per ISBN.
type fakeStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]entity.User
	books         map[string]entity.Book
	categories    map[uuid.UUID]entity.Category
	notifications []entity.Notification
	payments      []entity.FeePayment
	providers     []entity.UserProvider
	rowLocks      map[string]*sync.Mutex

	failNotifications bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      map[uuid.UUID]entity.User{},
		books:      map[string]entity.Book{},
		categories: map[uuid.UUID]entity.Category{},
		rowLocks:   map[string]*sync.Mutex{},
	}
}

func (s *fakeStore) rowLock(isbn string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.rowLocks[isbn]
	if !ok {
		l = &sync.Mutex{}
		s.rowLocks[isbn] = l
	}
	return l
}

func (s *fakeStore) book(isbn string) (entity.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[isbn]
	return b, ok
}

func (s *fakeStore) notificationsFor(userID uuid.UUID) []entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Notification
	for _, n := range s.notifications {
		if n.UserId == userID {
			out = append(out, n)
		}
	}
	return out
}

func (s *fakeStore) paymentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payments)
}

// seeding helpers

func (s *fakeStore) addUser(role access.Role, active bool) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.users[id] = entity.User{
		Id:        id,
		Email:     id.String()[:8] + "@example.com",
		FirstName: "Test",
		Role:      role,
		IsActive:  active,
		CreatedAt: time.Now(),
	}
	return id
}

func (s *fakeStore) addCategory(name string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.categories[id] = entity.Category{Id: id, Name: name}
	return id
}

func (s *fakeStore) putBook(b entity.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[b.ISBN] = b
}

type fakeFactory struct {
	store *fakeStore
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUoW{store: f.store}
}

type fakeUoW struct {
	store *fakeStore
	inTx  bool
	undo  []func()
	held  map[string]*sync.Mutex
}

func (u *fakeUoW) Begin(ctx context.Context) error {
	if u.inTx {
		return unitofwork.ErrTxAlreadyStarted
	}
	u.inTx = true
	u.held = map[string]*sync.Mutex{}
	return nil
}

func (u *fakeUoW) Commit() error {
	if !u.inTx {
		return unitofwork.ErrNoTransaction
	}
	u.undo = nil
	u.release()
	return nil
}

func (u *fakeUoW) Rollback() error {
	if !u.inTx {
		return nil
	}
	u.store.mu.Lock()
	for i := len(u.undo) - 1; i >= 0; i-- {
		u.undo[i]()
	}
	u.store.mu.Unlock()
	u.undo = nil
	u.release()
	return nil
}

func (u *fakeUoW) release() {
	for _, l := range u.held {
		l.Unlock()
	}
	u.held = nil
	u.inTx = false
}

// record must be called with store.mu held.
func (u *fakeUoW) record(fn func()) {
	if u.inTx {
		u.undo = append(u.undo, fn)
	}
}

func (u *fakeUoW) lock(isbn string) {
	if !u.inTx {
		return
	}
	if _, ok := u.held[isbn]; ok {
		return
	}
	l := u.store.rowLock(isbn)
	l.Lock()
	u.held[isbn] = l
}

func (u *fakeUoW) UserRepository() contract.UserRepository {
	return &fakeUserRepo{u}
}

func (u *fakeUoW) BookRepository() contract.BookRepository {
	return &fakeBookRepo{u}
}

func (u *fakeUoW) CategoryRepository() contract.CategoryRepository {
	return &fakeCategoryRepo{u}
}

func (u *fakeUoW) NotificationRepository() contract.NotificationRepository {
	return &fakeNotificationRepo{u}
}

func (u *fakeUoW) FeePaymentRepository() contract.FeePaymentRepository {
	return &fakeFeePaymentRepo{u}
}

func hasForUpdate(specs []specification.Specification) bool {
	for _, spec := range specs {
		if _, ok := spec.(specification.ForUpdate); ok {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, specs []specification.Specification) []T {
	for _, spec := range specs {
		if p, ok := spec.(specification.Pagination); ok {
			if p.Offset >= len(items) {
				return []T{}
			}
			end := p.Offset + p.Limit
			if p.Limit <= 0 || end > len(items) {
				end = len(items)
			}
			return items[p.Offset:end]
		}
	}
	return items
}

// users

type fakeUserRepo struct{ u *fakeUoW }

func userMatches(user entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByID:
			if user.Id != v.ID {
				return false
			}
		case specification.ByEmail:
			if user.Email != strings.ToLower(strings.TrimSpace(v.Email)) {
				return false
			}
		case specification.ByRole:
			if string(user.Role) != v.Role {
				return false
			}
		}
	}
	return true
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return apperror.Conflict("email already exists")
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.Id] = *user
	id := user.Id
	r.u.record(func() { delete(s.users, id) })
	return nil
}

func (r *fakeUserRepo) update(id uuid.UUID, fn func(*entity.User)) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	before, ok := s.users[id]
	if !ok {
		return nil
	}
	after := before
	fn(&after)
	s.users[id] = after
	r.u.record(func() { s.users[id] = before })
	return nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName string, pictureURL *string) error {
	return r.update(id, func(u *entity.User) {
		u.FirstName, u.LastName = firstName, lastName
		if pictureURL != nil {
			u.ProfilePictureURL = nilIfEmpty(*pictureURL)
		}
	})
}

func (r *fakeUserRepo) UpdateAccess(ctx context.Context, id uuid.UUID, role access.Role, isActive bool) error {
	return r.update(id, func(u *entity.User) { u.Role, u.IsActive = role, isActive })
}

func (r *fakeUserRepo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.update(id, func(u *entity.User) { u.LastLogin = &at })
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	users, _ := r.FindAll(ctx, specs...)
	if len(users) == 0 {
		return nil, nil
	}
	return users[0], nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.User
	for _, user := range s.users {
		if userMatches(user, specs) {
			cp := user
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return paginate(out, specs), nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	users, _ := r.FindAll(ctx, specs...)
	return int64(len(users)), nil
}

func (r *fakeUserRepo) SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.providers {
		if p.ProviderName == provider.ProviderName && p.ProviderUserId == provider.ProviderUserId {
			s.providers[i].AvatarURL = provider.AvatarURL
			return nil
		}
	}
	s.providers = append(s.providers, *provider)
	n := len(s.providers) - 1
	r.u.record(func() { s.providers = s.providers[:n] })
	return nil
}

// books

type fakeBookRepo struct{ u *fakeUoW }

func bookMatches(b entity.Book, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByISBN:
			if b.ISBN != v.ISBN {
				return false
			}
		case specification.InCategory:
			if b.CategoryId != v.CategoryID {
				return false
			}
		case specification.Available:
			if b.BorrowedBy != nil {
				return false
			}
		case specification.Borrowed:
			if b.BorrowedBy == nil {
				return false
			}
		case specification.BorrowedByUser:
			if b.BorrowedBy == nil || *b.BorrowedBy != v.UserID {
				return false
			}
		case specification.DueBefore:
			if b.DueDate == nil || !b.DueDate.Before(v.At) {
				return false
			}
		}
	}
	return true
}

// enrich mimics the Category and Borrower preloads. Requires store.mu.
func (r *fakeBookRepo) enrich(b entity.Book) *entity.Book {
	s := r.u.store
	if c, ok := s.categories[b.CategoryId]; ok {
		b.CategoryName = c.Name
	}
	b.BorrowerEmail = ""
	if b.BorrowedBy != nil {
		if u, ok := s.users[*b.BorrowedBy]; ok {
			b.BorrowerEmail = u.Email
		}
	}
	return &b
}

func (r *fakeBookRepo) matchingISBNs(specs []specification.Specification) []string {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var isbns []string
	for isbn, b := range s.books {
		if bookMatches(b, specs) {
			isbns = append(isbns, isbn)
		}
	}
	sort.Strings(isbns)
	return isbns
}

func (r *fakeBookRepo) Create(ctx context.Context, book *entity.Book) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[book.ISBN]; ok {
		return apperror.Conflict("book already exists")
	}
	book.CreatedAt = time.Now()
	book.UpdatedAt = book.CreatedAt
	s.books[book.ISBN] = *book
	isbn := book.ISBN
	r.u.record(func() { delete(s.books, isbn) })
	return nil
}

func (r *fakeBookRepo) update(isbn string, fn func(*entity.Book)) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	before, ok := s.books[isbn]
	if !ok {
		return circulation.ErrBookNotFound
	}
	after := before
	fn(&after)
	s.books[isbn] = after
	r.u.record(func() { s.books[isbn] = before })
	return nil
}

func (r *fakeBookRepo) UpdateDetails(ctx context.Context, book *entity.Book) error {
	return r.update(book.ISBN, func(b *entity.Book) {
		b.Title = book.Title
		b.Author = book.Author
		b.PublishedDate = book.PublishedDate
		b.CategoryId = book.CategoryId
		b.ImageURL = book.ImageURL
		b.FinePerDay = book.FinePerDay
	})
}

func (r *fakeBookRepo) UpdateLoanState(ctx context.Context, isbn string, loan circulation.Loan) error {
	return r.update(isbn, func(b *entity.Book) {
		b.BorrowedBy = loan.BorrowedBy
		b.DueDate = loan.DueDate
	})
}

func (r *fakeBookRepo) Delete(ctx context.Context, isbn string) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	before, ok := s.books[isbn]
	if !ok {
		return circulation.ErrBookNotFound
	}
	delete(s.books, isbn)
	r.u.record(func() { s.books[isbn] = before })
	return nil
}

func (r *fakeBookRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Book, error) {
	books, _ := r.FindAll(ctx, specs...)
	if len(books) == 0 {
		return nil, nil
	}
	return books[0], nil
}

func (r *fakeBookRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Book, error) {
	if hasForUpdate(specs) {
		for _, isbn := range r.matchingISBNs(specs) {
			r.u.lock(isbn)
		}
	}

	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Book
	for _, b := range s.books {
		if bookMatches(b, specs) {
			out = append(out, r.enrich(b))
		}
	}

	byDue := false
	for _, spec := range specs {
		if o, ok := spec.(specification.OrderBy); ok && o.Field == "books.due_date" {
			byDue = true
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if byDue && out[i].DueDate != nil && out[j].DueDate != nil && !out[i].DueDate.Equal(*out[j].DueDate) {
			return out[i].DueDate.Before(*out[j].DueDate)
		}
		return out[i].ISBN < out[j].ISBN
	})
	return paginate(out, specs), nil
}

func (r *fakeBookRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.matchingISBNs(specs))), nil
}

func (r *fakeBookRepo) ReassignCategory(ctx context.Context, from, to uuid.UUID) (int64, error) {
	var moved int64
	for _, isbn := range r.matchingISBNs([]specification.Specification{specification.InCategory{CategoryID: from}}) {
		if err := r.update(isbn, func(b *entity.Book) { b.CategoryId = to }); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

// categories

type fakeCategoryRepo struct{ u *fakeUoW }

func (r *fakeCategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.Name == category.Name {
			return apperror.Conflict("category already exists")
		}
	}
	s.categories[category.Id] = *category
	id := category.Id
	r.u.record(func() { delete(s.categories, id) })
	return nil
}

func (r *fakeCategoryRepo) Rename(ctx context.Context, id uuid.UUID, name string) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	before, ok := s.categories[id]
	if !ok {
		return apperror.NotFound("category")
	}
	after := before
	after.Name = name
	s.categories[id] = after
	r.u.record(func() { s.categories[id] = before })
	return nil
}

// Delete cascades to the category's books like the foreign key does.
func (r *fakeCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	before, ok := s.categories[id]
	if !ok {
		return nil
	}
	delete(s.categories, id)
	r.u.record(func() { s.categories[id] = before })

	for isbn, b := range s.books {
		if b.CategoryId == id {
			removed := b
			delete(s.books, isbn)
			r.u.record(func() { s.books[removed.ISBN] = removed })
		}
	}
	return nil
}

func categoryMatches(c entity.Category, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByID:
			if c.Id != v.ID {
				return false
			}
		case specification.ByName:
			if c.Name != v.Name {
				return false
			}
		}
	}
	return true
}

func (r *fakeCategoryRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Category, error) {
	cats, _ := r.FindAll(ctx, specs...)
	if len(cats) == 0 {
		return nil, nil
	}
	return cats[0], nil
}

func (r *fakeCategoryRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Category, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Category
	for _, c := range s.categories {
		if categoryMatches(c, specs) {
			cp := c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// notifications

type fakeNotificationRepo struct{ u *fakeUoW }

func (r *fakeNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNotifications {
		return errInjected
	}
	s.notifications = append(s.notifications, *n)
	id := n.Id
	r.u.record(func() {
		for i := range s.notifications {
			if s.notifications[i].Id == id {
				s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Notification
	for _, n := range s.notifications {
		if n.UserId == userID {
			cp := n
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Id.String() > out[j].Id.String()
	})
	total := int64(len(out))
	return paginate(out, []specification.Specification{specification.Pagination{Limit: limit, Offset: offset}}), total, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, n := range s.notifications {
		if n.UserId == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID, at time.Time) (bool, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		n := &s.notifications[i]
		if n.Id == id && n.UserId == userID {
			n.IsRead = true
			if n.ReadAt == nil {
				n.ReadAt = &at
			}
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for i := range s.notifications {
		n := &s.notifications[i]
		if n.UserId == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &at
			count++
		}
	}
	return count, nil
}

// fee payments

type fakeFeePaymentRepo struct{ u *fakeUoW }

func (r *fakeFeePaymentRepo) Create(ctx context.Context, p *entity.FeePayment) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, *p)
	n := len(s.payments) - 1
	r.u.record(func() { s.payments = s.payments[:n] })
	return nil
}
