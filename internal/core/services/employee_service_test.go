package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/loan_desk_app/internal/adapters/database/memory"
	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/SscSPs/loan_desk_app/internal/core/services"
	"github.com/SscSPs/loan_desk_app/internal/dto"
	"github.com/SscSPs/loan_desk_app/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type EmployeeServiceTestSuite struct {
	suite.Suite
	w    *world
	acme *domain.Company
}

func (suite *EmployeeServiceTestSuite) SetupTest() {
	suite.w = newWorld(suite.T())
	suite.acme = suite.w.approvedCompany("Acme", "a@acme.com", domain.RoleAdmin)
}

func TestEmployeeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EmployeeServiceTestSuite))
}

func (suite *EmployeeServiceTestSuite) TestRejectedEmployeeCannotLogIn() {
	w := suite.w
	employee := w.registerEmployee(suite.acme.CompanyID, "Eve", "eve@acme.com", 1000)
	suite.Equal(domain.EmployeePending, employee.Status)
	suite.Regexp(`^EMP-[A-Z0-9]{7}$`, employee.Code())

	rejected, err := w.svc.Employee.RejectEmployee(w.ctx, domain.CompanyPrincipal(*suite.acme), employee.EmployeeID, "duplicate")
	suite.Require().NoError(err)
	suite.Equal(domain.EmployeeRejected, rejected.Status)
	suite.Equal("duplicate", *rejected.RejectionReason)

	_, err = w.svc.Auth.Login(w.ctx, domain.PrincipalEmployee, "eve@acme.com", testPassword)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Contains(err.Error(), "account not verified")
}

func (suite *EmployeeServiceTestSuite) TestVerifiedEmployeeCanLogIn() {
	w := suite.w
	w.verifiedEmployee(suite.acme.CompanyID, "Vic", "vic@acme.com", 1000)

	result, err := w.svc.Auth.Login(w.ctx, domain.PrincipalEmployee, "VIC@acme.com", testPassword)
	suite.Require().NoError(err)
	suite.Equal(domain.PrincipalEmployee, result.Principal.Kind)
	suite.Equal(suite.acme.CompanyID, result.Principal.CompanyID)
	suite.NotEmpty(result.Token)
}

func (suite *EmployeeServiceTestSuite) TestRegistrationNeedsApprovedCompany() {
	w := suite.w
	pending := w.registerCompany("Pending Co", "p@co.test", domain.RoleHR)

	_, err := w.svc.Employee.RegisterEmployee(w.ctx, dto.RegisterEmployeeRequest{
		Name: "Pat", Email: "pat@co.test", Password: testPassword, Salary: decimal.NewFromInt(500), CompanyID: pending.CompanyID,
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = w.svc.Employee.RegisterEmployee(w.ctx, dto.RegisterEmployeeRequest{
		Name: "Pat", Email: "pat@co.test", Password: testPassword, Salary: decimal.Zero, CompanyID: suite.acme.CompanyID,
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *EmployeeServiceTestSuite) TestCompanyStaffPermissions() {
	w := suite.w
	manager := w.approvedCompany("Mgr Co", "m@co.test", domain.RoleManager)
	employee := w.registerEmployee(manager.CompanyID, "Max", "max@co.test", 800)

	// managers can see but not edit employees
	listed, err := w.svc.Employee.ListCompanyEmployees(w.ctx, domain.CompanyPrincipal(*manager), manager.CompanyID)
	suite.Require().NoError(err)
	suite.Len(listed, 1)

	_, err = w.svc.Employee.VerifyEmployee(w.ctx, domain.CompanyPrincipal(*manager), employee.EmployeeID)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, err = w.svc.Employee.CreateEmployee(w.ctx, domain.CompanyPrincipal(*manager), dto.CreateEmployeeRequest{
		Name: "New", Email: "new@co.test", Password: testPassword, Salary: decimal.NewFromInt(100),
	})
	suite.ErrorIs(err, apperrors.ErrForbidden)

	// another company cannot see them at all
	_, err = w.svc.Employee.ListCompanyEmployees(w.ctx, domain.CompanyPrincipal(*suite.acme), manager.CompanyID)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	// admins can
	verified, err := w.svc.Employee.VerifyEmployee(w.ctx, w.admin, employee.EmployeeID)
	suite.Require().NoError(err)
	suite.Equal(domain.EmployeeVerified, verified.Status)
}

func (suite *EmployeeServiceTestSuite) TestCreateEmployeeByHRCompany() {
	w := suite.w
	hr := w.approvedCompany("HR Co", "hr@co.test", domain.RoleHR)

	created, err := w.svc.Employee.CreateEmployee(w.ctx, domain.CompanyPrincipal(*hr), dto.CreateEmployeeRequest{
		Name: "Hana", Email: "hana@co.test", Password: testPassword, Salary: decimal.NewFromInt(1200),
	})
	suite.Require().NoError(err)
	suite.Equal(hr.CompanyID, created.CompanyID)
	suite.Equal(domain.EmployeePending, created.Status)
}

func (suite *EmployeeServiceTestSuite) TestGetEmployeeVisibility() {
	w := suite.w
	a := w.verifiedEmployee(suite.acme.CompanyID, "Ann", "ann@acme.com", 1000)
	b := w.verifiedEmployee(suite.acme.CompanyID, "Ben", "ben@acme.com", 1000)

	_, err := w.svc.Employee.GetEmployee(w.ctx, domain.EmployeePrincipal(*a), b.EmployeeID)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	self, err := w.svc.Employee.GetEmployee(w.ctx, domain.EmployeePrincipal(*a), a.EmployeeID)
	suite.Require().NoError(err)
	suite.Equal("Ann", self.Name)
}

func TestSequentialEmployeeCodes(t *testing.T) {
	cfg := testConfig()
	cfg.EmployeeIDStrategy = config.EmployeeIDStrategySequential
	store := memory.NewStore()
	svc := services.NewServiceContainer(cfg, memory.NewRepositoryProvider(store), nil, nil)
	ctx := context.Background()

	admin, err := svc.Admin.EnsureBootstrapAdmin(ctx, "Root", "root@loandesk.test", testPassword)
	require.NoError(t, err)
	company, err := svc.Company.RegisterCompany(ctx, dto.RegisterCompanyRequest{Name: "Seq", Email: "s@seq.test", Password: testPassword, Role: domain.RoleHR})
	require.NoError(t, err)
	_, err = svc.Company.ApproveCompany(ctx, domain.AdminPrincipal(*admin), company.CompanyID)
	require.NoError(t, err)

	var codes []string
	for _, email := range []string{"one@seq.test", "two@seq.test", "three@seq.test"} {
		e, err := svc.Employee.RegisterEmployee(ctx, dto.RegisterEmployeeRequest{
			Name: email, Email: email, Password: testPassword, Salary: decimal.NewFromInt(100), CompanyID: company.CompanyID,
		})
		require.NoError(t, err)
		codes = append(codes, e.Code())
	}
	assert.Equal(t, []string{"EMP001", "EMP002", "EMP003"}, codes)
}
