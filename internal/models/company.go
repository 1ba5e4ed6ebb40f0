package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Company is the companies row. Status may be NULL on rows written before the
// status column existed; InterestRates is raw jsonb and may be NULL too.
type Company struct {
	CompanyID       string          `db:"company_id"`
	Name            string          `db:"name"`
	Email           string          `db:"email"`
	CompanyCode     *string         `db:"company_code"`
	Balance         decimal.Decimal `db:"balance"`
	InterestRates   []byte          `db:"interest_rates"`
	Role            string          `db:"role"`
	Status          *string         `db:"status"`
	RejectionReason *string         `db:"rejection_reason"`
	ApprovedAt      *time.Time      `db:"approved_at"`
	RejectedAt      *time.Time      `db:"rejected_at"`
	PasswordHash    string          `db:"password_hash"`
	TokenVersion    int             `db:"token_version"`
	AuditFields
}
