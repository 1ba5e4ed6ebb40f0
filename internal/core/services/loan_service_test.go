package services_test

import (
	"testing"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/SscSPs/loan_desk_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type LoanServiceTestSuite struct {
	suite.Suite
	w        *world
	acme     *domain.Company
	borrower domain.Principal
}

func (suite *LoanServiceTestSuite) SetupTest() {
	suite.w = newWorld(suite.T())
	suite.acme = suite.w.approvedCompany("Acme", "a@acme.com", domain.RoleManager)
	rates := domain.InterestRates{
		domain.Term3Months:  decimal.NewFromInt(5),
		domain.Term6Months:  decimal.NewFromInt(7),
		domain.Term12Months: decimal.NewFromInt(9),
	}
	updated, err := suite.w.svc.Company.UpdateInterestRates(suite.w.ctx, suite.w.admin, suite.acme.CompanyID, rates)
	suite.Require().NoError(err)
	suite.acme = updated

	employee := suite.w.verifiedEmployee(suite.acme.CompanyID, "Eve", "eve@acme.com", 1000)
	suite.borrower = domain.EmployeePrincipal(*employee)
}

func TestLoanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LoanServiceTestSuite))
}

func (suite *LoanServiceTestSuite) request(amount int64, term int) (*domain.Loan, error) {
	return suite.w.svc.Loan.RequestLoan(suite.w.ctx, suite.borrower, dto.CreateLoanRequest{
		Amount:        decimal.NewFromInt(amount),
		Purpose:       "laptop",
		RepaymentTerm: term,
	})
}

func (suite *LoanServiceTestSuite) TestRequestAboveSalaryIsRejected() {
	_, err := suite.request(1200, 6)
	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "exceeds salary")

	loans, err := suite.w.svc.Loan.ListEmployeeLoans(suite.w.ctx, suite.borrower)
	suite.Require().NoError(err)
	suite.Empty(loans, "a rejected request must not be stored")
}

func (suite *LoanServiceTestSuite) TestRequestFreezesRateAndRepayment() {
	loan, err := suite.request(1000, 6)
	suite.Require().NoError(err)
	suite.Equal(domain.LoanPending, loan.Status)
	suite.True(decimal.NewFromInt(7).Equal(loan.InterestRate))
	suite.True(decimal.NewFromInt(1035).Equal(loan.TotalAmount), loan.TotalAmount.String())
	suite.True(decimal.RequireFromString("172.5").Equal(loan.MonthlyPayment), loan.MonthlyPayment.String())
	suite.Equal("Eve", loan.EmployeeName)
	suite.Equal("Acme", loan.CompanyName)

	// later rate changes do not touch existing loans
	_, err = suite.w.svc.Company.UpdateInterestRates(suite.w.ctx, suite.w.admin, suite.acme.CompanyID, domain.DefaultInterestRates())
	suite.Require().NoError(err)

	stored, err := suite.w.svc.Loan.GetLoan(suite.w.ctx, suite.borrower, loan.LoanID)
	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(7).Equal(stored.InterestRate))
	suite.True(decimal.NewFromInt(1035).Equal(stored.TotalAmount))
}

func (suite *LoanServiceTestSuite) TestInvalidTermIsRejected() {
	_, err := suite.request(500, 5)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LoanServiceTestSuite) TestOnlyVerifiedEmployeesCanRequest() {
	w := suite.w
	pending := w.registerEmployee(suite.acme.CompanyID, "Pat", "pat@acme.com", 1000)

	_, err := w.svc.Loan.RequestLoan(w.ctx, domain.EmployeePrincipal(*pending), dto.CreateLoanRequest{
		Amount: decimal.NewFromInt(100), Purpose: "rent", RepaymentTerm: 3,
	})
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, err = w.svc.Loan.RequestLoan(w.ctx, domain.CompanyPrincipal(*suite.acme), dto.CreateLoanRequest{
		Amount: decimal.NewFromInt(100), Purpose: "rent", RepaymentTerm: 3,
	})
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *LoanServiceTestSuite) TestDecisionsFollowRolePermissions() {
	w := suite.w
	loan, err := suite.request(600, 3)
	suite.Require().NoError(err)

	hr := w.approvedCompany("HR Co", "hr@co.test", domain.RoleHR)
	_, err = w.svc.Loan.ApproveLoan(w.ctx, domain.CompanyPrincipal(*hr), loan.LoanID, "")
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, err = w.svc.Loan.RejectLoan(w.ctx, domain.CompanyPrincipal(*suite.acme), loan.LoanID, "  ")
	suite.ErrorIs(err, apperrors.ErrValidation)

	approved, err := w.svc.Loan.ApproveLoan(w.ctx, domain.CompanyPrincipal(*suite.acme), loan.LoanID, "ok")
	suite.Require().NoError(err)
	suite.Equal(domain.LoanApproved, approved.Status)
	suite.Equal("ok", *approved.Notes)
	suite.Equal(suite.acme.CompanyID, *approved.DecidedBy)

	_, err = w.svc.Loan.RejectLoan(w.ctx, w.admin, loan.LoanID, "too late")
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)

	var loanEvents int
	for _, e := range w.events.Events() {
		if e.Entity == "loan" {
			loanEvents++
		}
	}
	suite.Equal(1, loanEvents)
}

func (suite *LoanServiceTestSuite) TestCommentsAreForParticipants() {
	w := suite.w
	loan, err := suite.request(300, 12)
	suite.Require().NoError(err)

	_, err = w.svc.Loan.AddComment(w.ctx, suite.borrower, loan.LoanID, "when will this be decided?")
	suite.Require().NoError(err)
	_, err = w.svc.Loan.AddComment(w.ctx, domain.CompanyPrincipal(*suite.acme), loan.LoanID, "this week")
	suite.Require().NoError(err)

	_, err = w.svc.Loan.AddComment(w.ctx, suite.borrower, loan.LoanID, "   ")
	suite.ErrorIs(err, apperrors.ErrValidation)

	other := w.verifiedEmployee(suite.acme.CompanyID, "Ben", "ben@acme.com", 1000)
	_, err = w.svc.Loan.AddComment(w.ctx, domain.EmployeePrincipal(*other), loan.LoanID, "me too")
	suite.ErrorIs(err, apperrors.ErrForbidden)

	outsider := w.approvedCompany("Other", "o@co.test", domain.RoleAdmin)
	_, err = w.svc.Loan.ListComments(w.ctx, domain.CompanyPrincipal(*outsider), loan.LoanID)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	comments, err := w.svc.Loan.ListComments(w.ctx, w.admin, loan.LoanID)
	suite.Require().NoError(err)
	suite.Require().Len(comments, 2)
	suite.Equal(domain.PrincipalEmployee, comments[0].AuthorKind)
	suite.Equal("this week", comments[1].Comment)
}

func (suite *LoanServiceTestSuite) TestListingsAreScoped() {
	w := suite.w
	_, err := suite.request(100, 3)
	suite.Require().NoError(err)
	_, err = suite.request(200, 6)
	suite.Require().NoError(err)

	mine, err := w.svc.Loan.ListEmployeeLoans(w.ctx, suite.borrower)
	suite.Require().NoError(err)
	suite.Len(mine, 2)

	companyLoans, err := w.svc.Loan.ListCompanyLoans(w.ctx, domain.CompanyPrincipal(*suite.acme), suite.acme.CompanyID)
	suite.Require().NoError(err)
	suite.Len(companyLoans, 2)

	_, err = w.svc.Loan.ListLoans(w.ctx, domain.CompanyPrincipal(*suite.acme))
	suite.ErrorIs(err, apperrors.ErrForbidden)

	all, err := w.svc.Loan.ListLoans(w.ctx, w.admin)
	suite.Require().NoError(err)
	suite.Len(all, 2)
}
