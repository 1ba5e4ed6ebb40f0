package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// CompanyCodePrefix prefixes every generated company code.
const CompanyCodePrefix = "COMP"

// RepaymentTerm is a loan term in months.
type RepaymentTerm int

const (
	Term3Months  RepaymentTerm = 3
	Term6Months  RepaymentTerm = 6
	Term12Months RepaymentTerm = 12
)

// RepaymentTerms lists the offered terms in ascending order.
var RepaymentTerms = []RepaymentTerm{Term3Months, Term6Months, Term12Months}

func ParseRepaymentTerm(months int) (RepaymentTerm, error) {
	for _, t := range RepaymentTerms {
		if int(t) == months {
			return t, nil
		}
	}
	return 0, apperrors.NewValidationFailedError(fmt.Sprintf("repayment term must be one of 3, 6 or 12 months, got %d", months))
}

var (
	// DefaultInterestRate applies to any term a company has not configured.
	DefaultInterestRate = decimal.NewFromInt(1)
	MaxInterestRate     = decimal.NewFromInt(50)
)

// InterestRates maps a repayment term to an annual percentage rate.
// It encodes as {"3":"1","6":"1","12":"1"}.
type InterestRates map[RepaymentTerm]decimal.Decimal

// DefaultInterestRates returns the table every new company starts with.
func DefaultInterestRates() InterestRates {
	rates := make(InterestRates, len(RepaymentTerms))
	for _, t := range RepaymentTerms {
		rates[t] = DefaultInterestRate
	}
	return rates
}

// RateFor returns the configured rate for a term, falling back to the default.
func (r InterestRates) RateFor(term RepaymentTerm) decimal.Decimal {
	if rate, ok := r[term]; ok {
		return rate
	}
	return DefaultInterestRate
}

// Validate checks that every offered term has a rate within 0..50.
func (r InterestRates) Validate() error {
	for _, t := range RepaymentTerms {
		rate, ok := r[t]
		if !ok {
			return apperrors.NewValidationFailedError(fmt.Sprintf("missing interest rate for %d months", t))
		}
		if rate.IsNegative() || rate.GreaterThan(MaxInterestRate) {
			return apperrors.NewValidationFailedError(fmt.Sprintf("interest rate for %d months must be between 0 and %s", t, MaxInterestRate))
		}
	}
	for t := range r {
		if _, err := ParseRepaymentTerm(int(t)); err != nil {
			return err
		}
	}
	return nil
}

// Normalized returns a copy with missing or out-of-range terms reset to the default
// and unknown terms dropped.
func (r InterestRates) Normalized() InterestRates {
	out := DefaultInterestRates()
	for _, t := range RepaymentTerms {
		if rate, ok := r[t]; ok && !rate.IsNegative() && !rate.GreaterThan(MaxInterestRate) {
			out[t] = rate
		}
	}
	return out
}

// Equal compares two tables term by term.
func (r InterestRates) Equal(other InterestRates) bool {
	if len(r) != len(other) {
		return false
	}
	for t, rate := range r {
		o, ok := other[t]
		if !ok || !o.Equal(rate) {
			return false
		}
	}
	return true
}

// Company is a tenant whose employees can request loans.
type Company struct {
	CompanyID       string          `json:"companyID"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	CompanyCode     *string         `json:"companyCode,omitempty"`
	Balance         decimal.Decimal `json:"balance"`
	InterestRates   InterestRates   `json:"interestRates"`
	Role            Role            `json:"role"`
	Status          CompanyStatus   `json:"status"`
	RejectionReason *string         `json:"rejectionReason,omitempty"`
	ApprovedAt      *time.Time      `json:"approvedAt,omitempty"`
	RejectedAt      *time.Time      `json:"rejectedAt,omitempty"`
	PasswordHash    string          `json:"-"`
	TokenVersion    int             `json:"-"`
	AuditFields
}

// Code returns the company code or an empty string when none was generated yet.
func (c Company) Code() string {
	if c.CompanyCode == nil {
		return ""
	}
	return *c.CompanyCode
}

func (c Company) IsApproved() bool {
	return c.Status == CompanyApproved
}

// Approve moves a pending company to approved.
func (c Company) Approve(by string, at time.Time) (CompanyStatusChange, error) {
	return transition("company", c.Status, CompanyPending, CompanyApproved, "", by, at)
}

// Reject moves a pending company to rejected. The reason must not be blank.
func (c Company) Reject(reason, by string, at time.Time) (CompanyStatusChange, error) {
	reason, err := requireReason(reason)
	if err != nil {
		return CompanyStatusChange{}, err
	}
	return transition("company", c.Status, CompanyPending, CompanyRejected, reason, by, at)
}

// Apply copies the fields written by a transition onto the company.
func (c *Company) Apply(change CompanyStatusChange) {
	c.Status = change.To
	c.LastUpdatedAt = change.At
	at := change.At
	switch change.To {
	case CompanyApproved:
		c.ApprovedAt = &at
	case CompanyRejected:
		reason := change.Reason
		c.RejectedAt = &at
		c.RejectionReason = &reason
	}
}
