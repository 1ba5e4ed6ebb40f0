package dto

import (
	"time"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/SscSPs/loan_desk_app/internal/utils"
	"github.com/shopspring/decimal"
)

// displayPrecision is the rounding used for the *Display fields only.
const displayPrecision = 2

// --- Loan DTOs ---

// CreateLoanRequest defines data for a loan request by the signed-in employee.
type CreateLoanRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Purpose       string          `json:"purpose" binding:"required,max=500"`
	RepaymentTerm int             `json:"repaymentTerm" binding:"required,repayment_term"`
}

// ApproveLoanRequest carries optional approver remarks.
type ApproveLoanRequest struct {
	Notes string `json:"notes" binding:"max=1000"`
}

// AddLoanCommentRequest carries a new remark on a loan.
type AddLoanCommentRequest struct {
	Comment string `json:"comment" binding:"required,max=1000"`
}

// LoanResponse defines data returned for a loan. Stored values are returned at
// full precision; the *Display fields are rounded for rendering.
type LoanResponse struct {
	LoanID                string            `json:"loanID"`
	EmployeeID            string            `json:"employeeID"`
	CompanyID             string            `json:"companyID"`
	EmployeeName          string            `json:"employeeName"`
	CompanyName           string            `json:"companyName"`
	Amount                decimal.Decimal   `json:"amount"`
	Purpose               string            `json:"purpose"`
	InterestRate          decimal.Decimal   `json:"interestRate"`
	RepaymentTerm         int               `json:"repaymentTerm"`
	TotalAmount           decimal.Decimal   `json:"totalAmount"`
	MonthlyPayment        decimal.Decimal   `json:"monthlyPayment"`
	TotalAmountDisplay    string            `json:"totalAmountDisplay"`
	MonthlyPaymentDisplay string            `json:"monthlyPaymentDisplay"`
	Status                domain.LoanStatus `json:"status"`
	Notes                 *string           `json:"notes,omitempty"`
	RejectionReason       *string           `json:"rejectionReason,omitempty"`
	DecidedBy             *string           `json:"decidedBy,omitempty"`
	CreatedAt             time.Time         `json:"createdAt"`
	UpdatedAt             time.Time         `json:"updatedAt"`
}

// ToLoanResponse converts domain.Loan to DTO.
func ToLoanResponse(l *domain.Loan) LoanResponse {
	return LoanResponse{
		LoanID:                l.LoanID,
		EmployeeID:            l.EmployeeID,
		CompanyID:             l.CompanyID,
		EmployeeName:          l.EmployeeName,
		CompanyName:           l.CompanyName,
		Amount:                l.Amount,
		Purpose:               l.Purpose,
		InterestRate:          l.InterestRate,
		RepaymentTerm:         int(l.RepaymentTerm),
		TotalAmount:           l.TotalAmount,
		MonthlyPayment:        l.MonthlyPayment,
		TotalAmountDisplay:    utils.FormatWithPrecision(l.TotalAmount, displayPrecision),
		MonthlyPaymentDisplay: utils.FormatWithPrecision(l.MonthlyPayment, displayPrecision),
		Status:                l.Status,
		Notes:                 l.Notes,
		RejectionReason:       l.RejectionReason,
		DecidedBy:             l.DecidedBy,
		CreatedAt:             l.CreatedAt,
		UpdatedAt:             l.UpdatedAt,
	}
}

// ListLoansResponse wraps a list of loans.
type ListLoansResponse struct {
	Loans []LoanResponse `json:"loans"`
}

func ToListLoansResponse(loans []domain.Loan) ListLoansResponse {
	out := make([]LoanResponse, len(loans))
	for i := range loans {
		out[i] = ToLoanResponse(&loans[i])
	}
	return ListLoansResponse{Loans: out}
}

// ListLoanCommentsResponse wraps the comments of one loan.
type ListLoanCommentsResponse struct {
	Comments []domain.LoanComment `json:"comments"`
}
