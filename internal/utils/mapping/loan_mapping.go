package mapping

import (
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/SscSPs/loan_desk_app/internal/models"
)

// ToModelLoan converts a domain Loan to a model Loan
func ToModelLoan(d domain.Loan) models.Loan {
	return models.Loan{
		LoanID:          d.LoanID,
		EmployeeID:      d.EmployeeID,
		CompanyID:       d.CompanyID,
		EmployeeName:    d.EmployeeName,
		CompanyName:     d.CompanyName,
		Amount:          d.Amount,
		Purpose:         d.Purpose,
		InterestRate:    d.InterestRate,
		RepaymentTerm:   int(d.RepaymentTerm),
		TotalAmount:     d.TotalAmount,
		MonthlyPayment:  d.MonthlyPayment,
		Status:          string(d.Status),
		Notes:           d.Notes,
		RejectionReason: d.RejectionReason,
		DecidedBy:       d.DecidedBy,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// ToDomainLoan converts a model Loan to a domain Loan
func ToDomainLoan(m models.Loan) (domain.Loan, error) {
	status, err := domain.ParseLoanStatus(m.Status)
	if err != nil {
		return domain.Loan{}, err
	}
	term, err := domain.ParseRepaymentTerm(m.RepaymentTerm)
	if err != nil {
		return domain.Loan{}, err
	}
	return domain.Loan{
		LoanID:          m.LoanID,
		EmployeeID:      m.EmployeeID,
		CompanyID:       m.CompanyID,
		EmployeeName:    m.EmployeeName,
		CompanyName:     m.CompanyName,
		Amount:          m.Amount,
		Purpose:         m.Purpose,
		InterestRate:    m.InterestRate,
		RepaymentTerm:   term,
		TotalAmount:     m.TotalAmount,
		MonthlyPayment:  m.MonthlyPayment,
		Status:          status,
		Notes:           m.Notes,
		RejectionReason: m.RejectionReason,
		DecidedBy:       m.DecidedBy,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}, nil
}

func ToDomainLoanSlice(ms []models.Loan) ([]domain.Loan, error) {
	ds := make([]domain.Loan, len(ms))
	for i, m := range ms {
		d, err := ToDomainLoan(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}

func ToModelLoanComment(d domain.LoanComment) models.LoanComment {
	return models.LoanComment{
		CommentID:  d.CommentID,
		LoanID:     d.LoanID,
		AuthorID:   d.AuthorID,
		AuthorKind: string(d.AuthorKind),
		AuthorName: d.AuthorName,
		Comment:    d.Comment,
		CreatedAt:  d.CreatedAt,
	}
}

func ToDomainLoanComment(m models.LoanComment) (domain.LoanComment, error) {
	kind, err := domain.ParsePrincipalKind(m.AuthorKind)
	if err != nil {
		return domain.LoanComment{}, err
	}
	return domain.LoanComment{
		CommentID:  m.CommentID,
		LoanID:     m.LoanID,
		AuthorID:   m.AuthorID,
		AuthorKind: kind,
		AuthorName: m.AuthorName,
		Comment:    m.Comment,
		CreatedAt:  m.CreatedAt,
	}, nil
}
