package services

import (
	"context"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/SscSPs/loan_desk_app/internal/dto"
)

// LoanRequestSvc covers the borrower side.
type LoanRequestSvc interface {
	// RequestLoan validates against the re-read employee and freezes the company's current rate.
	RequestLoan(ctx context.Context, actor domain.Principal, req dto.CreateLoanRequest) (*domain.Loan, error)
	ListEmployeeLoans(ctx context.Context, actor domain.Principal) ([]domain.Loan, error)
}

// LoanReaderSvc defines read operations for loan data
type LoanReaderSvc interface {
	GetLoan(ctx context.Context, actor domain.Principal, loanID string) (*domain.Loan, error)
	ListCompanyLoans(ctx context.Context, actor domain.Principal, companyID string) ([]domain.Loan, error)
	// ListLoans is admin only.
	ListLoans(ctx context.Context, actor domain.Principal) ([]domain.Loan, error)
}

// LoanDecisionSvc defines the approve/reject lifecycle.
type LoanDecisionSvc interface {
	ApproveLoan(ctx context.Context, actor domain.Principal, loanID, notes string) (*domain.Loan, error)
	RejectLoan(ctx context.Context, actor domain.Principal, loanID, reason string) (*domain.Loan, error)
}

// LoanCommentSvc lets loan participants leave remarks.
type LoanCommentSvc interface {
	AddComment(ctx context.Context, actor domain.Principal, loanID, comment string) (*domain.LoanComment, error)
	ListComments(ctx context.Context, actor domain.Principal, loanID string) ([]domain.LoanComment, error)
}

// LoanSvcFacade combines all loan-related service interfaces
type LoanSvcFacade interface {
	LoanRequestSvc
	LoanReaderSvc
	LoanDecisionSvc
	LoanCommentSvc
}
