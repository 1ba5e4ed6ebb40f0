package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is the loans row. Names are copied from the employee and company at request time.
type Loan struct {
	LoanID          string          `db:"loan_id"`
	EmployeeID      string          `db:"employee_id"`
	CompanyID       string          `db:"company_id"`
	EmployeeName    string          `db:"employee_name"`
	CompanyName     string          `db:"company_name"`
	Amount          decimal.Decimal `db:"amount"`
	Purpose         string          `db:"purpose"`
	InterestRate    decimal.Decimal `db:"interest_rate"`
	RepaymentTerm   int             `db:"repayment_term"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	MonthlyPayment  decimal.Decimal `db:"monthly_payment"`
	Status          string          `db:"status"`
	Notes           *string         `db:"notes"`
	RejectionReason *string         `db:"rejection_reason"`
	DecidedBy       *string         `db:"decided_by"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// LoanComment is the loan_comments row.
type LoanComment struct {
	CommentID  string    `db:"comment_id"`
	LoanID     string    `db:"loan_id"`
	AuthorID   string    `db:"author_id"`
	AuthorKind string    `db:"author_kind"`
	AuthorName string    `db:"author_name"`
	Comment    string    `db:"comment"`
	CreatedAt  time.Time `db:"created_at"`
}
