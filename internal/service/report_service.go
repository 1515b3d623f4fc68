package service

import (
	"context"
	"time"

	"library-management-be/internal/dto"
	"library-management-be/internal/entity"
	"library-management-be/internal/repository/readmodel"
	"library-management-be/internal/repository/unitofwork"
	"library-management-be/pkg/access"
	"library-management-be/pkg/apperror"
	"library-management-be/pkg/circulation"
	"library-management-be/pkg/clock"
)

// OverdueSource is satisfied by readmodel.OverdueLoans.
type OverdueSource interface {
	List(ctx context.Context, now time.Time) ([]readmodel.OverdueLoanRow, error)
}

type IReportService interface {
	Overdue(ctx context.Context, actor entity.Actor) ([]*dto.OverdueLoanResponse, error)
	// OverdueUnchecked skips the role check for operator tooling.
	OverdueUnchecked(ctx context.Context) ([]*dto.OverdueLoanResponse, error)
}

type reportService struct {
	uowFactory unitofwork.RepositoryFactory
	overdue    OverdueSource
	clock      clock.Clock
}

func NewReportService(uowFactory unitofwork.RepositoryFactory, overdue OverdueSource, clk clock.Clock) IReportService {
	return &reportService{uowFactory: uowFactory, overdue: overdue, clock: clk}
}

func (s *reportService) Overdue(ctx context.Context, actor entity.Actor) ([]*dto.OverdueLoanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := requireActive(ctx, uow, actor)
	if err != nil {
		return nil, err
	}
	if !access.CanViewReports(user.Role) {
		return nil, apperror.Forbidden("only librarians and admins can view reports")
	}
	return s.OverdueUnchecked(ctx)
}

func (s *reportService) OverdueUnchecked(ctx context.Context) ([]*dto.OverdueLoanResponse, error) {
	now := s.clock.Now()
	rows, err := s.overdue.List(ctx, now)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.OverdueLoanResponse, 0, len(rows))
	for _, r := range rows {
		due := r.DueDate
		res = append(res, &dto.OverdueLoanResponse{
			ISBN:          r.ISBN,
			Title:         r.Title,
			BorrowerId:    r.BorrowerId,
			BorrowerEmail: r.BorrowerEmail,
			DueDate:       due,
			OverdueDays:   circulation.OverdueDays(&due, now),
			FinePerDay:    r.FinePerDay.StringFixed(2),
			FeeOwed:       circulation.OverdueFee(&due, r.FinePerDay, now).StringFixed(2),
		})
	}
	return res, nil
}
