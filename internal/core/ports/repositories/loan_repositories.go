package repositories

import (
	"context"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
)

// LoanReader defines read operations for loan data
type LoanReader interface {
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)
	ListLoans(ctx context.Context) ([]domain.Loan, error)
	ListLoansByCompany(ctx context.Context, companyID string) ([]domain.Loan, error)
	ListLoansByEmployee(ctx context.Context, employeeID string) ([]domain.Loan, error)
}

// LoanWriter defines write operations for loan data
type LoanWriter interface {
	SaveLoan(ctx context.Context, loan domain.Loan) error
	// TransitionLoanStatus applies change only if the stored status equals change.From.
	TransitionLoanStatus(ctx context.Context, loanID string, change domain.LoanStatusChange) error
}

// LoanCommentManager appends and lists comments on a loan.
type LoanCommentManager interface {
	SaveLoanComment(ctx context.Context, comment domain.LoanComment) error
	ListLoanComments(ctx context.Context, loanID string) ([]domain.LoanComment, error)
}

// LoanRepositoryFacade combines all loan-related repository interfaces
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
	LoanCommentManager
}
