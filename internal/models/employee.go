package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the employees row.
type Employee struct {
	EmployeeID      string          `db:"employee_id"`
	Name            string          `db:"name"`
	Email           string          `db:"email"`
	EmployeeCode    *string         `db:"employee_code"`
	Salary          decimal.Decimal `db:"salary"`
	CompanyID       string          `db:"company_id"`
	Status          *string         `db:"status"`
	RejectionReason *string         `db:"rejection_reason"`
	VerifiedAt      *time.Time      `db:"verified_at"`
	RejectedAt      *time.Time      `db:"rejected_at"`
	PasswordHash    string          `db:"password_hash"`
	TokenVersion    int             `db:"token_version"`
	AuditFields
}
