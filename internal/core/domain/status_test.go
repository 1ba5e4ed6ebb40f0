package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decidedAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func TestCompany_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.CompanyStatus
		approve bool
		reason  string
		wantTo  domain.CompanyStatus
		wantErr error
	}{
		{name: "approve pending", status: domain.CompanyPending, approve: true, wantTo: domain.CompanyApproved},
		{name: "reject pending", status: domain.CompanyPending, reason: "incomplete documents", wantTo: domain.CompanyRejected},
		{name: "approve approved", status: domain.CompanyApproved, approve: true, wantErr: apperrors.ErrInvalidTransition},
		{name: "reject approved", status: domain.CompanyApproved, reason: "late", wantErr: apperrors.ErrInvalidTransition},
		{name: "approve rejected", status: domain.CompanyRejected, approve: true, wantErr: apperrors.ErrInvalidTransition},
		{name: "reject with blank reason", status: domain.CompanyPending, reason: "   ", wantErr: apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			company := domain.Company{CompanyID: "c1", Status: tt.status}
			var (
				change domain.CompanyStatusChange
				err    error
			)
			if tt.approve {
				change, err = company.Approve("admin-1", decidedAt)
			} else {
				change, err = company.Reject(tt.reason, "admin-1", decidedAt)
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, change.From)
			assert.Equal(t, tt.wantTo, change.To)

			company.Apply(change)
			assert.Equal(t, tt.wantTo, company.Status)
			if tt.approve {
				require.NotNil(t, company.ApprovedAt)
				assert.Equal(t, decidedAt, *company.ApprovedAt)
			} else {
				require.NotNil(t, company.RejectionReason)
				assert.Equal(t, tt.reason, *company.RejectionReason)
				assert.Equal(t, decidedAt, *company.RejectedAt)
			}
		})
	}
}

func TestEmployee_RejectTrimsReason(t *testing.T) {
	employee := domain.Employee{EmployeeID: "e1", Status: domain.EmployeePending}

	change, err := employee.Reject("  duplicate ", "company-1", decidedAt)
	require.NoError(t, err)
	employee.Apply(change)

	assert.Equal(t, domain.EmployeeRejected, employee.Status)
	assert.Equal(t, "duplicate", *employee.RejectionReason)

	_, err = employee.Verify("company-1", decidedAt)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestLoan_TerminalStatesAreGuarded(t *testing.T) {
	loan := domain.Loan{LoanID: "l1", Status: domain.LoanPending}

	change, err := loan.Approve(" paid monthly from payroll ", "manager-1", decidedAt)
	require.NoError(t, err)
	loan.Apply(change)

	assert.Equal(t, domain.LoanApproved, loan.Status)
	assert.Equal(t, "paid monthly from payroll", *loan.Notes)
	assert.Equal(t, "manager-1", *loan.DecidedBy)
	assert.Equal(t, decidedAt, loan.UpdatedAt)

	_, err = loan.Approve("", "manager-1", decidedAt)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	_, err = loan.Reject("changed my mind", "manager-1", decidedAt)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestParseStatus_RejectsUnknownValues(t *testing.T) {
	_, err := domain.ParseCompanyStatus("APPROVED")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = domain.ParseEmployeeStatus("")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = domain.ParseLoanStatus("cancelled")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	status, err := domain.ParseEmployeeStatus("verified")
	require.NoError(t, err)
	assert.Equal(t, domain.EmployeeVerified, status)
}
