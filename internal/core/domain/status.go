package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
)

// CompanyStatus is the approval lifecycle of a company.
type CompanyStatus string

const (
	CompanyPending  CompanyStatus = "pending"
	CompanyApproved CompanyStatus = "approved"
	CompanyRejected CompanyStatus = "rejected"
)

// EmployeeStatus is the verification lifecycle of an employee.
type EmployeeStatus string

const (
	EmployeePending  EmployeeStatus = "pending"
	EmployeeVerified EmployeeStatus = "verified"
	EmployeeRejected EmployeeStatus = "rejected"
)

// LoanStatus is the decision lifecycle of a loan request.
type LoanStatus string

const (
	LoanPending  LoanStatus = "pending"
	LoanApproved LoanStatus = "approved"
	LoanRejected LoanStatus = "rejected"
)

// ParseCompanyStatus decodes a stored status. Unknown values are rejected.
func ParseCompanyStatus(s string) (CompanyStatus, error) {
	switch CompanyStatus(s) {
	case CompanyPending, CompanyApproved, CompanyRejected:
		return CompanyStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown company status %q", apperrors.ErrValidation, s)
}

// ParseEmployeeStatus decodes a stored status. Unknown values are rejected.
func ParseEmployeeStatus(s string) (EmployeeStatus, error) {
	switch EmployeeStatus(s) {
	case EmployeePending, EmployeeVerified, EmployeeRejected:
		return EmployeeStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown employee status %q", apperrors.ErrValidation, s)
}

// ParseLoanStatus decodes a stored status. Unknown values are rejected.
func ParseLoanStatus(s string) (LoanStatus, error) {
	switch LoanStatus(s) {
	case LoanPending, LoanApproved, LoanRejected:
		return LoanStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown loan status %q", apperrors.ErrValidation, s)
}

// StatusChange is the set of fields written by a single transition. Repositories
// apply it only when the stored status still equals From.
type StatusChange[S ~string] struct {
	From   S
	To     S
	At     time.Time
	Reason string // rejection reason, empty on approval
	Notes  string // approver remarks, loans only
	By     string // acting principal id
}

// IsRejection reports whether the change moves into a rejected state.
func (c StatusChange[S]) IsRejection() bool {
	return c.Reason != ""
}

type (
	CompanyStatusChange  = StatusChange[CompanyStatus]
	EmployeeStatusChange = StatusChange[EmployeeStatus]
	LoanStatusChange     = StatusChange[LoanStatus]
)

// transition guards the shared shape of all three lifecycles: only pending moves.
func transition[S ~string](entity string, current, pending, next S, reason, by string, at time.Time) (StatusChange[S], error) {
	if current != pending {
		return StatusChange[S]{}, apperrors.NewInvalidTransitionError(entity, string(current), string(next))
	}
	return StatusChange[S]{From: current, To: next, At: at, Reason: reason, By: by}, nil
}

func requireReason(reason string) (string, error) {
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return "", apperrors.NewValidationFailedError("a rejection reason is required")
	}
	return trimmed, nil
}
