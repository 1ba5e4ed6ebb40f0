package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_desk_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/dto"
	"github.com/SscSPs/loan_desk_app/internal/utils/aggregation"
	"github.com/SscSPs/loan_desk_app/internal/utils/lending"
	"github.com/google/uuid"
)

type loanService struct {
	BaseService
	loanRepo     portsrepo.LoanRepositoryFacade
	employeeRepo portsrepo.EmployeeReader
	companyRepo  portsrepo.CompanyReader
}

// LoanServiceOption is a functional option for configuring the loan service
type LoanServiceOption func(*loanService)

// WithLoanEvents publishes loan decisions.
func WithLoanEvents(events portssvc.StatusEventPublisher) LoanServiceOption {
	return func(s *loanService) {
		s.Events = events
	}
}

// NewLoanService creates a new loan service with the given options
func NewLoanService(loanRepo portsrepo.LoanRepositoryFacade, employeeRepo portsrepo.EmployeeReader, companyRepo portsrepo.CompanyReader, options ...LoanServiceOption) *loanService {
	svc := &loanService{
		loanRepo:     loanRepo,
		employeeRepo: employeeRepo,
		companyRepo:  companyRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LoanSvcFacade = (*loanService)(nil)

// RequestLoan validates the request against the stored employee, not the
// session snapshot, and freezes the company's current rate for the term.
func (s *loanService) RequestLoan(ctx context.Context, actor domain.Principal, req dto.CreateLoanRequest) (*domain.Loan, error) {
	if actor.Kind != domain.PrincipalEmployee {
		return nil, apperrors.NewForbiddenError("only employees can request loans")
	}
	employee, err := s.employeeRepo.FindEmployeeByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if !employee.IsVerified() {
		return nil, apperrors.NewForbiddenError("employee is not verified")
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, employee.CompanyID)
	if err != nil {
		return nil, err
	}
	if !company.IsApproved() {
		return nil, apperrors.NewForbiddenError("company is not approved")
	}

	term, err := lending.ValidateLoanRequest(req.Amount, employee.Salary, req.Purpose, req.RepaymentTerm)
	if err != nil {
		return nil, err
	}
	rate := company.InterestRates.RateFor(term)
	if _, err := lending.ValidateLoanTerms(req.Amount, rate, int(term)); err != nil {
		return nil, err
	}
	repayment := lending.Calculate(req.Amount, rate, int(term))

	now := s.Now()
	loan := domain.Loan{
		LoanID:         uuid.NewString(),
		EmployeeID:     employee.EmployeeID,
		CompanyID:      company.CompanyID,
		EmployeeName:   employee.Name,
		CompanyName:    company.Name,
		Amount:         req.Amount,
		Purpose:        strings.TrimSpace(req.Purpose),
		InterestRate:   rate,
		RepaymentTerm:  term,
		TotalAmount:    repayment.Total,
		MonthlyPayment: repayment.Monthly,
		Status:         domain.LoanPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.loanRepo.SaveLoan(ctx, loan); err != nil {
		if !errors.Is(err, apperrors.ErrForbidden) {
			s.LogError(ctx, err, "Failed to save loan", slog.String("employee_id", employee.EmployeeID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Loan requested",
		slog.String("loan_id", loan.LoanID),
		slog.String("employee_id", loan.EmployeeID),
		slog.String("amount", loan.Amount.String()),
		slog.Int("term", int(term)))
	return &loan, nil
}

func (s *loanService) ListEmployeeLoans(ctx context.Context, actor domain.Principal) ([]domain.Loan, error) {
	if actor.Kind != domain.PrincipalEmployee {
		return nil, apperrors.NewForbiddenError("only employees have personal loans")
	}
	loans, err := s.loanRepo.ListLoansByEmployee(ctx, actor.ID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list employee loans", slog.String("employee_id", actor.ID))
		return nil, err
	}
	return aggregation.SortLoans(loans), nil
}

// participates reports whether the actor is the borrower, the borrower's company or an admin.
func participates(actor domain.Principal, loan domain.Loan) bool {
	if actor.Kind == domain.PrincipalEmployee {
		return actor.ID == loan.EmployeeID
	}
	return actor.ActsFor(loan.CompanyID)
}

func (s *loanService) loadForActor(ctx context.Context, actor domain.Principal, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find loan", slog.String("loan_id", loanID))
		}
		return nil, err
	}
	if !participates(actor, *loan) {
		return nil, apperrors.NewForbiddenError("not a participant of this loan")
	}
	return loan, nil
}

func (s *loanService) GetLoan(ctx context.Context, actor domain.Principal, loanID string) (*domain.Loan, error) {
	return s.loadForActor(ctx, actor, loanID)
}

func (s *loanService) ListCompanyLoans(ctx context.Context, actor domain.Principal, companyID string) ([]domain.Loan, error) {
	if err := s.RequireCapability(actor, companyID, nil, ""); err != nil {
		return nil, err
	}
	loans, err := s.loanRepo.ListLoansByCompany(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list company loans", slog.String("company_id", companyID))
		return nil, err
	}
	return aggregation.SortLoans(loans), nil
}

func (s *loanService) ListLoans(ctx context.Context, actor domain.Principal) ([]domain.Loan, error) {
	if err := s.RequireAdmin(actor); err != nil {
		return nil, err
	}
	loans, err := s.loanRepo.ListLoans(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list loans")
		return nil, err
	}
	return aggregation.SortLoans(loans), nil
}

func (s *loanService) ApproveLoan(ctx context.Context, actor domain.Principal, loanID, notes string) (*domain.Loan, error) {
	return s.decide(ctx, actor, loanID,
		func(p domain.Permissions) bool { return p.CanApproveLoan }, "approving loans",
		func(l domain.Loan) (domain.LoanStatusChange, error) { return l.Approve(notes, actor.ID, s.Now()) })
}

func (s *loanService) RejectLoan(ctx context.Context, actor domain.Principal, loanID, reason string) (*domain.Loan, error) {
	return s.decide(ctx, actor, loanID,
		func(p domain.Permissions) bool { return p.CanRejectLoan }, "rejecting loans",
		func(l domain.Loan) (domain.LoanStatusChange, error) { return l.Reject(reason, actor.ID, s.Now()) })
}

func (s *loanService) decide(ctx context.Context, actor domain.Principal, loanID string, capability func(domain.Permissions) bool, what string, next func(domain.Loan) (domain.LoanStatusChange, error)) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireCapability(actor, loan.CompanyID, capability, what); err != nil {
		return nil, err
	}
	change, err := next(*loan)
	if err != nil {
		return nil, err
	}
	if err := s.loanRepo.TransitionLoanStatus(ctx, loanID, change); err != nil {
		if !errors.Is(err, apperrors.ErrInvalidTransition) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to transition loan status", slog.String("loan_id", loanID))
		}
		return nil, err
	}
	loan.Apply(change)

	s.LogInfo(ctx, "Loan decided", slog.String("loan_id", loanID), slog.String("status", string(change.To)))
	s.Publish(ctx, statusEvent("loan", loanID, loan.CompanyID, change))
	return loan, nil
}

func (s *loanService) AddComment(ctx context.Context, actor domain.Principal, loanID, comment string) (*domain.LoanComment, error) {
	if _, err := s.loadForActor(ctx, actor, loanID); err != nil {
		return nil, err
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, apperrors.NewValidationFailedError("comment must not be empty")
	}
	c := domain.LoanComment{
		CommentID:  uuid.NewString(),
		LoanID:     loanID,
		AuthorID:   actor.ID,
		AuthorKind: actor.Kind,
		AuthorName: actor.Name,
		Comment:    comment,
		CreatedAt:  s.Now(),
	}
	if err := s.loanRepo.SaveLoanComment(ctx, c); err != nil {
		s.LogError(ctx, err, "Failed to save loan comment", slog.String("loan_id", loanID))
		return nil, err
	}
	return &c, nil
}

func (s *loanService) ListComments(ctx context.Context, actor domain.Principal, loanID string) ([]domain.LoanComment, error) {
	if _, err := s.loadForActor(ctx, actor, loanID); err != nil {
		return nil, err
	}
	comments, err := s.loanRepo.ListLoanComments(ctx, loanID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list loan comments", slog.String("loan_id", loanID))
		return nil, err
	}
	if comments == nil {
		return []domain.LoanComment{}, nil
	}
	return comments, nil
}
