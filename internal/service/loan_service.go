package service

import (
	"context"
	"time"

	"library-management-be/internal/dto"
	"library-management-be/internal/entity"
	"library-management-be/internal/pkg/logger"
	"library-management-be/internal/repository/specification"
	"library-management-be/internal/repository/unitofwork"
	"library-management-be/pkg/apperror"
	"library-management-be/pkg/circulation"
	"library-management-be/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ILoanService interface {
	Borrow(ctx context.Context, actor entity.Actor, isbn string) (*dto.BorrowResponse, error)
	Return(ctx context.Context, actor entity.Actor, isbn string) (*dto.ReturnResponse, error)
	PayFee(ctx context.Context, actor entity.Actor, isbn string, amount *decimal.Decimal) (*dto.PayFeeResponse, error)
	QuoteFee(ctx context.Context, actor entity.Actor, isbn string) (*dto.FeeQuoteResponse, error)
	ListBorrowed(ctx context.Context, actor entity.Actor) ([]*dto.LoanResponse, error)
}

type loanService struct {
	uowFactory unitofwork.RepositoryFactory
	clock      clock.Clock
	loanPeriod time.Duration
	sink       *NotificationSink
	events     IEventPublisher
	audit      logger.ILogger
}

func NewLoanService(
	uowFactory unitofwork.RepositoryFactory,
	clk clock.Clock,
	loanPeriod time.Duration,
	sink *NotificationSink,
	events IEventPublisher,
	audit logger.ILogger,
) ILoanService {
	return &loanService{
		uowFactory: uowFactory,
		clock:      clk,
		loanPeriod: loanPeriod,
		sink:       sink,
		events:     events,
		audit:      audit,
	}
}

// lockBook starts the transaction and takes the row lock that serializes
// every loan change on one book until Commit or Rollback.
func (s *loanService) lockBook(ctx context.Context, uow unitofwork.UnitOfWork, actor entity.Actor, isbn string) (*entity.Book, error) {
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if _, err := requireActive(ctx, uow, actor); err != nil {
		return nil, err
	}

	book, err := uow.BookRepository().FindOne(ctx,
		specification.ByISBN{ISBN: isbn},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, circulation.ErrBookNotFound
	}
	return book, nil
}

func (s *loanService) Borrow(ctx context.Context, actor entity.Actor, rawISBN string) (*dto.BorrowResponse, error) {
	isbn, err := pathISBN(rawISBN)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	defer uow.Rollback()

	book, err := s.lockBook(ctx, uow, actor, isbn)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	next, err := circulation.DecideBorrow(book.Loan(), actor.UserID, now, s.loanPeriod)
	if err != nil {
		return nil, err
	}

	if err := uow.BookRepository().UpdateLoanState(ctx, isbn, next); err != nil {
		return nil, err
	}
	if err := s.sink.BookBorrowed(ctx, uow.NotificationRepository(), actor.UserID, book, *next.DueDate, now); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.events.PublishBookBorrowed(ctx, isbn, actor.UserID, *next.DueDate, now)
	s.audit.Info("LOAN", "Book borrowed", map[string]interface{}{
		"isbn":     isbn,
		"user_id":  actor.UserID.String(),
		"due_date": next.DueDate.Format(time.RFC3339),
	})

	return &dto.BorrowResponse{
		ISBN:    isbn,
		Title:   book.Title,
		DueDate: *next.DueDate,
	}, nil
}

func (s *loanService) Return(ctx context.Context, actor entity.Actor, rawISBN string) (*dto.ReturnResponse, error) {
	isbn, err := pathISBN(rawISBN)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	defer uow.Rollback()

	book, err := s.lockBook(ctx, uow, actor, isbn)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	next, err := circulation.DecideReturn(book.Loan(), actor.UserID, book.FinePerDay, now)
	if err != nil {
		if fee, ok := circulation.IsFeeOwed(err); ok {
			s.audit.Info("LOAN", "Return refused, fee owed", map[string]interface{}{
				"isbn":    isbn,
				"user_id": actor.UserID.String(),
				"amount":  fee.Amount.StringFixed(2),
			})
		}
		return nil, err
	}

	if err := uow.BookRepository().UpdateLoanState(ctx, isbn, next); err != nil {
		return nil, err
	}
	if err := s.sink.BookReturned(ctx, uow.NotificationRepository(), actor.UserID, book, now); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.events.PublishBookReturned(ctx, isbn, actor.UserID, now)
	s.audit.Info("LOAN", "Book returned", map[string]interface{}{
		"isbn":    isbn,
		"user_id": actor.UserID.String(),
	})

	return &dto.ReturnResponse{ISBN: isbn, ReturnedAt: now}, nil
}

func (s *loanService) PayFee(ctx context.Context, actor entity.Actor, rawISBN string, amount *decimal.Decimal) (*dto.PayFeeResponse, error) {
	if amount == nil {
		return nil, apperror.Validation("amount is required")
	}
	isbn, err := pathISBN(rawISBN)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	defer uow.Rollback()

	book, err := s.lockBook(ctx, uow, actor, isbn)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	settlement, err := circulation.SettleFeeAndRelease(book.Loan(), actor.UserID, book.FinePerDay, *amount, now)
	if err != nil {
		return nil, err
	}

	if err := uow.BookRepository().UpdateLoanState(ctx, isbn, settlement.Released); err != nil {
		return nil, err
	}
	payment := &entity.FeePayment{
		Id:             uuid.New(),
		ISBN:           isbn,
		UserId:         actor.UserID,
		AmountOwed:     settlement.Owed,
		AmountTendered: settlement.Tendered,
		OverdueDays:    settlement.OverdueDays,
		DueDate:        settlement.DueDate,
		PaidAt:         now,
	}
	if err := uow.FeePaymentRepository().Create(ctx, payment); err != nil {
		return nil, err
	}
	if err := s.sink.FeePaid(ctx, uow.NotificationRepository(), actor.UserID, book, settlement.Tendered, now); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.events.PublishFeePaid(ctx, isbn, actor.UserID, settlement.Owed, settlement.Tendered, now)
	s.audit.Info("LOAN", "Fee paid and book released", map[string]interface{}{
		"isbn":         isbn,
		"user_id":      actor.UserID.String(),
		"owed":         settlement.Owed.StringFixed(2),
		"tendered":     settlement.Tendered.StringFixed(2),
		"overdue_days": settlement.OverdueDays,
	})

	return &dto.PayFeeResponse{
		ISBN:        isbn,
		AmountOwed:  settlement.Owed.StringFixed(2),
		AmountPaid:  settlement.Tendered.StringFixed(2),
		OverdueDays: settlement.OverdueDays,
		Returned:    true,
	}, nil
}

func (s *loanService) QuoteFee(ctx context.Context, actor entity.Actor, rawISBN string) (*dto.FeeQuoteResponse, error) {
	isbn, err := pathISBN(rawISBN)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := requireActive(ctx, uow, actor); err != nil {
		return nil, err
	}

	book, err := uow.BookRepository().FindOne(ctx, specification.ByISBN{ISBN: isbn})
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, circulation.ErrBookNotFound
	}
	if !book.Loan().HeldBy(actor.UserID) {
		return nil, circulation.ErrNotOwner
	}

	now := s.clock.Now()
	return &dto.FeeQuoteResponse{
		ISBN:        isbn,
		DueDate:     *book.DueDate,
		OverdueDays: circulation.OverdueDays(book.DueDate, now),
		FinePerDay:  book.FinePerDay.StringFixed(2),
		Amount:      circulation.OverdueFee(book.DueDate, book.FinePerDay, now).StringFixed(2),
	}, nil
}

func (s *loanService) ListBorrowed(ctx context.Context, actor entity.Actor) ([]*dto.LoanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := requireActive(ctx, uow, actor); err != nil {
		return nil, err
	}

	books, err := uow.BookRepository().FindAll(ctx,
		specification.BorrowedByUser{UserID: actor.UserID},
		specification.OrderBy{Field: "books.due_date"},
	)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	result := make([]*dto.LoanResponse, 0, len(books))
	for _, book := range books {
		if book.DueDate == nil {
			continue
		}
		result = append(result, &dto.LoanResponse{
			ISBN:        book.ISBN,
			Title:       book.Title,
			Author:      book.Author,
			DueDate:     *book.DueDate,
			OverdueDays: circulation.OverdueDays(book.DueDate, now),
			FeeOwed:     circulation.OverdueFee(book.DueDate, book.FinePerDay, now).StringFixed(2),
		})
	}
	return result, nil
}
