package lending

import (
	"strings"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

var monthsPerYearPercent = decimal.NewFromInt(1200)

// Repayment holds the derived amounts of a loan at full precision.
// Rounding is left to presentation.
type Repayment struct {
	Interest decimal.Decimal `json:"interest"`
	Total    decimal.Decimal `json:"total"`
	Monthly  decimal.Decimal `json:"monthly"`
}

// Calculate applies simple, non-compounding interest: the annual rate is
// pro-rated over the term in months. Inputs are not checked here; callers
// validate with ValidateLoanRequest first. A non-positive term yields a zero
// monthly installment instead of a division by zero.
func Calculate(principal, annualRatePercent decimal.Decimal, termMonths int) Repayment {
	term := decimal.NewFromInt(int64(termMonths))
	interest := principal.Mul(annualRatePercent).Mul(term).Div(monthsPerYearPercent)
	total := principal.Add(interest)

	monthly := decimal.Zero
	if termMonths > 0 {
		monthly = total.Div(term)
	}
	return Repayment{Interest: interest, Total: total, Monthly: monthly}
}

// ValidateLoanRequest rejects anything Calculate must not be invoked with and
// enforces the salary cap.
func ValidateLoanRequest(amount, salary decimal.Decimal, purpose string, termMonths int) (domain.RepaymentTerm, error) {
	if !amount.IsPositive() {
		return 0, apperrors.NewValidationFailedError("loan amount must be greater than zero")
	}
	if amount.GreaterThan(salary) {
		return 0, apperrors.NewValidationFailedError("loan amount exceeds salary")
	}
	if strings.TrimSpace(purpose) == "" {
		return 0, apperrors.NewValidationFailedError("loan purpose is required")
	}
	return domain.ParseRepaymentTerm(termMonths)
}

// ValidateLoanTerms checks the calculator inputs: a positive principal, a
// non-negative rate and an offered term.
func ValidateLoanTerms(principal, annualRatePercent decimal.Decimal, termMonths int) (domain.RepaymentTerm, error) {
	if !principal.IsPositive() {
		return 0, apperrors.NewValidationFailedError("loan amount must be greater than zero")
	}
	if annualRatePercent.IsNegative() {
		return 0, apperrors.NewValidationFailedError("interest rate must not be negative")
	}
	return domain.ParseRepaymentTerm(termMonths)
}
