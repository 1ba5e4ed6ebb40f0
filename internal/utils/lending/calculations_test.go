package lending_test

import (
	"testing"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/SscSPs/loan_desk_app/internal/utils/lending"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_SixMonthsAtSevenPercent(t *testing.T) {
	got := lending.Calculate(decimal.NewFromInt(1000), decimal.NewFromInt(7), 6)

	assert.True(t, got.Interest.Equal(decimal.NewFromInt(35)), "interest = %s", got.Interest)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(1035)), "total = %s", got.Total)
	assert.True(t, got.Monthly.Equal(decimal.RequireFromString("172.5")), "monthly = %s", got.Monthly)
}

func TestCalculate_Properties(t *testing.T) {
	epsilon := decimal.New(1, -9)
	principals := []string{"1", "99.99", "1000", "1234.56", "50000"}
	rates := []string{"0", "1", "2.5", "7", "12.75", "50"}

	for _, p := range principals {
		for _, r := range rates {
			for _, term := range domain.RepaymentTerms {
				principal := decimal.RequireFromString(p)
				rate := decimal.RequireFromString(r)
				months := decimal.NewFromInt(int64(term))

				got := lending.Calculate(principal, rate, int(term))

				wantInterest := principal.Mul(rate).Mul(months).Div(decimal.NewFromInt(1200))
				assert.True(t, got.Interest.Equal(wantInterest), "interest for %s@%s/%d", p, r, term)
				assert.True(t, got.Total.Equal(principal.Add(got.Interest)), "total for %s@%s/%d", p, r, term)
				drift := got.Monthly.Mul(months).Sub(got.Total).Abs()
				assert.True(t, drift.LessThan(epsilon), "monthly*term drift %s for %s@%s/%d", drift, p, r, term)
			}
		}
	}
}

func TestCalculate_ZeroTermDoesNotPanic(t *testing.T) {
	got := lending.Calculate(decimal.NewFromInt(100), decimal.NewFromInt(5), 0)
	assert.True(t, got.Monthly.IsZero())
}

func TestValidateLoanRequest(t *testing.T) {
	salary := decimal.NewFromInt(1000)

	tests := []struct {
		name    string
		amount  decimal.Decimal
		purpose string
		term    int
		wantErr error
		want    domain.RepaymentTerm
	}{
		{name: "exceeds salary", amount: decimal.NewFromInt(1200), purpose: "rent", term: 6, wantErr: apperrors.ErrValidation},
		{name: "equals salary", amount: decimal.NewFromInt(1000), purpose: "rent", term: 6, want: domain.Term6Months},
		{name: "zero amount", amount: decimal.Zero, purpose: "rent", term: 6, wantErr: apperrors.ErrValidation},
		{name: "negative amount", amount: decimal.NewFromInt(-5), purpose: "rent", term: 3, wantErr: apperrors.ErrValidation},
		{name: "blank purpose", amount: decimal.NewFromInt(10), purpose: "  ", term: 3, wantErr: apperrors.ErrValidation},
		{name: "unsupported term", amount: decimal.NewFromInt(10), purpose: "rent", term: 9, wantErr: apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, err := lending.ValidateLoanRequest(tt.amount, salary, tt.purpose, tt.term)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, term)
		})
	}
}

func TestValidateLoanTerms(t *testing.T) {
	_, err := lending.ValidateLoanTerms(decimal.Zero, decimal.NewFromInt(1), 3)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = lending.ValidateLoanTerms(decimal.NewFromInt(10), decimal.NewFromInt(-1), 3)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = lending.ValidateLoanTerms(decimal.NewFromInt(10), decimal.Zero, 4)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	term, err := lending.ValidateLoanTerms(decimal.NewFromInt(10), decimal.Zero, 12)
	require.NoError(t, err)
	assert.Equal(t, domain.Term12Months, term)
}
