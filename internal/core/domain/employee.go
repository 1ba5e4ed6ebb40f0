package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmployeeCodePrefix prefixes every generated employee code.
const EmployeeCodePrefix = "EMP"

// Employee belongs to exactly one company for its whole life.
type Employee struct {
	EmployeeID      string          `json:"employeeID"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	EmployeeCode    *string         `json:"employeeCode,omitempty"`
	Salary          decimal.Decimal `json:"salary"`
	CompanyID       string          `json:"companyID"`
	Status          EmployeeStatus  `json:"status"`
	RejectionReason *string         `json:"rejectionReason,omitempty"`
	VerifiedAt      *time.Time      `json:"verifiedAt,omitempty"`
	RejectedAt      *time.Time      `json:"rejectedAt,omitempty"`
	PasswordHash    string          `json:"-"`
	TokenVersion    int             `json:"-"`
	AuditFields
}

func (e Employee) Code() string {
	if e.EmployeeCode == nil {
		return ""
	}
	return *e.EmployeeCode
}

func (e Employee) IsVerified() bool {
	return e.Status == EmployeeVerified
}

// Verify moves a pending employee to verified.
func (e Employee) Verify(by string, at time.Time) (EmployeeStatusChange, error) {
	return transition("employee", e.Status, EmployeePending, EmployeeVerified, "", by, at)
}

// Reject moves a pending employee to rejected. The reason must not be blank.
func (e Employee) Reject(reason, by string, at time.Time) (EmployeeStatusChange, error) {
	reason, err := requireReason(reason)
	if err != nil {
		return EmployeeStatusChange{}, err
	}
	return transition("employee", e.Status, EmployeePending, EmployeeRejected, reason, by, at)
}

func (e *Employee) Apply(change EmployeeStatusChange) {
	e.Status = change.To
	e.LastUpdatedAt = change.At
	at := change.At
	switch change.To {
	case EmployeeVerified:
		e.VerifiedAt = &at
	case EmployeeRejected:
		reason := change.Reason
		e.RejectedAt = &at
		e.RejectionReason = &reason
	}
}
