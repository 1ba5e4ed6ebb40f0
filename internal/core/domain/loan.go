package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Loan is a salary-linked loan request. Rate, term and the derived amounts are
// captured at request time and never recomputed.
type Loan struct {
	LoanID          string          `json:"loanID"`
	EmployeeID      string          `json:"employeeID"`
	CompanyID       string          `json:"companyID"`
	EmployeeName    string          `json:"employeeName"`
	CompanyName     string          `json:"companyName"`
	Amount          decimal.Decimal `json:"amount"`
	Purpose         string          `json:"purpose"`
	InterestRate    decimal.Decimal `json:"interestRate"`
	RepaymentTerm   RepaymentTerm   `json:"repaymentTerm"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	MonthlyPayment  decimal.Decimal `json:"monthlyPayment"`
	Status          LoanStatus      `json:"status"`
	Notes           *string         `json:"notes,omitempty"`
	RejectionReason *string         `json:"rejectionReason,omitempty"`
	DecidedBy       *string         `json:"decidedBy,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Approve moves a pending loan to approved with optional approver notes.
func (l Loan) Approve(notes, by string, at time.Time) (LoanStatusChange, error) {
	change, err := transition("loan", l.Status, LoanPending, LoanApproved, "", by, at)
	if err != nil {
		return LoanStatusChange{}, err
	}
	change.Notes = strings.TrimSpace(notes)
	return change, nil
}

// Reject moves a pending loan to rejected. The reason must not be blank.
func (l Loan) Reject(reason, by string, at time.Time) (LoanStatusChange, error) {
	reason, err := requireReason(reason)
	if err != nil {
		return LoanStatusChange{}, err
	}
	return transition("loan", l.Status, LoanPending, LoanRejected, reason, by, at)
}

func (l *Loan) Apply(change LoanStatusChange) {
	l.Status = change.To
	l.UpdatedAt = change.At
	by := change.By
	l.DecidedBy = &by
	switch change.To {
	case LoanApproved:
		if change.Notes != "" {
			notes := change.Notes
			l.Notes = &notes
		}
	case LoanRejected:
		reason := change.Reason
		l.RejectionReason = &reason
	}
}

// LoanComment is an append-only remark on a loan by one of its participants.
type LoanComment struct {
	CommentID  string        `json:"commentID"`
	LoanID     string        `json:"loanID"`
	AuthorID   string        `json:"authorID"`
	AuthorKind PrincipalKind `json:"authorKind"`
	AuthorName string        `json:"authorName"`
	Comment    string        `json:"comment"`
	CreatedAt  time.Time     `json:"createdAt"`
}
