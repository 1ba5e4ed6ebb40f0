package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/adapters/cache"
	"github.com/SscSPs/loan_desk_app/internal/adapters/database/memory"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/core/services"
	"github.com/SscSPs/loan_desk_app/internal/dto"
	"github.com/SscSPs/loan_desk_app/internal/handlers"
	"github.com/SscSPs/loan_desk_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const (
	adminEmail   = "root@loandesk.test"
	testPassword = "correct-horse"
)

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	services *portssvc.ServiceContainer
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		IsProduction:           true,
		JWTSecret:              "test-secret-key-that-is-long-enough",
		JWTExpiryDuration:      time.Hour,
		JWTIssuer:              "loan-desk-test",
		SessionCacheTTL:        time.Minute,
		LoginRateLimit:         "1000-M",
		BulkUpdateConcurrency:  2,
		CodeGenerationAttempts: 5,
		EmployeeIDStrategy:     config.EmployeeIDStrategyRandom,
		DashboardCacheSize:     8,
	}
	sessions, err := cache.NewMemorySessionCache(32)
	suite.Require().NoError(err)
	suite.services = services.NewServiceContainer(cfg, memory.NewRepositoryProvider(memory.NewStore()), sessions, nil)

	_, err = suite.services.Admin.EnsureBootstrapAdmin(context.Background(), "Root", adminEmail, testPassword)
	suite.Require().NoError(err)

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, suite.services, handlers.RouteDeps{})
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

// --- Helpers ---

func (suite *HandlerTestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	suite.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (suite *HandlerTestSuite) login(kind, email string) string {
	w := suite.do(http.MethodPost, "/auth/"+kind+"/login", "", dto.LoginRequest{Email: email, Password: testPassword})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.LoginResponse
	suite.decode(w, &resp)
	suite.Equal("/"+kind+"/dashboard", resp.Redirect)
	return resp.Token
}

// approvedCompany registers a company over HTTP and approves it as admin.
func (suite *HandlerTestSuite) approvedCompany(adminToken, name, email string, role domain.Role) dto.CompanyResponse {
	w := suite.do(http.MethodPost, "/api/v1/companies/register", "", map[string]any{
		"name": name, "email": email, "password": testPassword, "role": role,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var company dto.CompanyResponse
	suite.decode(w, &company)
	suite.Equal(domain.CompanyPending, company.Status)

	w = suite.do(http.MethodPost, "/api/v1/admin/companies/"+company.CompanyID+"/approve", adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.decode(w, &company)
	return company
}

func (suite *HandlerTestSuite) registerEmployee(companyID, name, email, salary string) dto.EmployeeResponse {
	w := suite.do(http.MethodPost, "/api/v1/employees/register", "", map[string]any{
		"name": name, "email": email, "password": testPassword, "salary": salary, "companyID": companyID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var employee dto.EmployeeResponse
	suite.decode(w, &employee)
	return employee
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *HandlerTestSuite) TestLoanLifecycle() {
	adminToken := suite.login("admin", adminEmail)
	company := suite.approvedCompany(adminToken, "Acme", "acme@example.com", domain.RoleManager)
	suite.Equal(domain.CompanyApproved, company.Status)
	suite.Require().NotNil(company.CompanyCode)

	employee := suite.registerEmployee(company.CompanyID, "Eve", "eve@example.com", "1000")

	// Pending employees cannot sign in yet.
	w := suite.do(http.MethodPost, "/auth/employee/login", "", dto.LoginRequest{Email: "eve@example.com", Password: testPassword})
	suite.Equal(http.StatusForbidden, w.Code)

	companyToken := suite.login("company", "acme@example.com")
	w = suite.do(http.MethodPost, "/api/v1/company/employees/"+employee.EmployeeID+"/verify", companyToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	employeeToken := suite.login("employee", "eve@example.com")

	w = suite.do(http.MethodPost, "/api/v1/employee/loans", employeeToken, map[string]any{
		"amount": "1200", "purpose": "laptop", "repaymentTerm": 6,
	})
	suite.Equal(http.StatusBadRequest, w.Code, "amount above salary")

	w = suite.do(http.MethodPost, "/api/v1/employee/loans", employeeToken, map[string]any{
		"amount": "1000", "purpose": "laptop", "repaymentTerm": 5,
	})
	suite.Equal(http.StatusBadRequest, w.Code, "unsupported term")

	w = suite.do(http.MethodPost, "/api/v1/employee/loans", employeeToken, map[string]any{
		"amount": "1000", "purpose": "laptop", "repaymentTerm": 6,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var loan dto.LoanResponse
	suite.decode(w, &loan)
	suite.Equal(domain.LoanPending, loan.Status)
	suite.Equal("Acme", loan.CompanyName)

	w = suite.do(http.MethodPost, "/api/v1/company/loans/"+loan.LoanID+"/approve", companyToken, dto.ApproveLoanRequest{Notes: "ok"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.decode(w, &loan)
	suite.Equal(domain.LoanApproved, loan.Status)

	// A second decision on a terminal loan conflicts.
	w = suite.do(http.MethodPost, "/api/v1/admin/loans/"+loan.LoanID+"/reject", adminToken, dto.RejectRequest{Reason: "late"})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/loans/"+loan.LoanID+"/comments", employeeToken, dto.AddLoanCommentRequest{Comment: "thanks"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	w = suite.do(http.MethodGet, "/api/v1/loans/"+loan.LoanID+"/comments", companyToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var comments dto.ListLoanCommentsResponse
	suite.decode(w, &comments)
	suite.Len(comments.Comments, 1)

	w = suite.do(http.MethodGet, "/api/v1/employee/loans", employeeToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var loans dto.ListLoansResponse
	suite.decode(w, &loans)
	suite.Len(loans.Loans, 1)
}

func (suite *HandlerTestSuite) TestRejectRequiresReason() {
	adminToken := suite.login("admin", adminEmail)
	w := suite.do(http.MethodPost, "/api/v1/companies/register", "", map[string]any{
		"name": "Beta", "email": "beta@example.com", "password": testPassword, "role": "hr",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	var company dto.CompanyResponse
	suite.decode(w, &company)

	w = suite.do(http.MethodPost, "/api/v1/admin/companies/"+company.CompanyID+"/reject", adminToken, map[string]any{})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/admin/companies/"+company.CompanyID+"/reject", adminToken, dto.RejectRequest{Reason: "duplicate"})
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPost, "/auth/company/login", "", dto.LoginRequest{Email: "beta@example.com", Password: testPassword})
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestGateRedirects() {
	w := suite.do(http.MethodGet, "/api/v1/company/me", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	var errResp handlers.ErrorResponse
	suite.decode(w, &errResp)
	suite.Equal("/company/login", errResp.Redirect)

	adminToken := suite.login("admin", adminEmail)
	company := suite.approvedCompany(adminToken, "Acme", "acme@example.com", domain.RoleAdmin)
	employee := suite.registerEmployee(company.CompanyID, "Eve", "eve@example.com", "500")
	w = suite.do(http.MethodPost, "/api/v1/admin/employees/"+employee.EmployeeID+"/verify", adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	employeeToken := suite.login("employee", "eve@example.com")

	w = suite.do(http.MethodGet, "/api/v1/company/me", employeeToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.decode(w, &errResp)
	suite.Equal("/employee/dashboard", errResp.Redirect)

	w = suite.do(http.MethodGet, "/api/v1/session", employeeToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var session dto.SessionResponse
	suite.decode(w, &session)
	suite.Equal(domain.GateAuthorized, session.Decision.State)
	suite.Require().NotNil(session.Decision.Principal)
	suite.Equal(employee.EmployeeID, session.Decision.Principal.ID)

	w = suite.do(http.MethodPost, "/auth/logout", employeeToken, nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/employee/me", employeeToken, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.decode(w, &errResp)
	suite.Equal("/employee/login", errResp.Redirect)
}

func (suite *HandlerTestSuite) TestCompanyRolePermissions() {
	adminToken := suite.login("admin", adminEmail)
	company := suite.approvedCompany(adminToken, "People Co", "hr@example.com", domain.RoleHR)
	employee := suite.registerEmployee(company.CompanyID, "Eve", "eve@example.com", "500")
	companyToken := suite.login("company", "hr@example.com")

	w := suite.do(http.MethodPut, "/api/v1/company/interest-rates", companyToken, map[string]any{
		"interestRates": map[string]string{"3": "2", "6": "3", "12": "4"},
	})
	suite.Equal(http.StatusForbidden, w.Code, "hr cannot manage financials")

	w = suite.do(http.MethodPost, "/api/v1/company/employees/"+employee.EmployeeID+"/verify", companyToken, nil)
	suite.Equal(http.StatusOK, w.Code, "hr can verify employees")

	w = suite.do(http.MethodGet, "/api/v1/company/loans", companyToken, nil)
	suite.Equal(http.StatusOK, w.Code, "hr can see the loan list")

	w = suite.do(http.MethodPost, "/api/v1/company/loans/missing/approve", companyToken, nil)
	suite.Equal(http.StatusForbidden, w.Code, "hr cannot approve loans")
}

func (suite *HandlerTestSuite) TestBulkInterestRates() {
	adminToken := suite.login("admin", adminEmail)
	suite.approvedCompany(adminToken, "Acme", "acme@example.com", domain.RoleAdmin)
	suite.approvedCompany(adminToken, "Beta", "beta@example.com", domain.RoleManager)

	w := suite.do(http.MethodPut, "/api/v1/admin/interest-rates", adminToken, map[string]any{
		"interestRates": map[string]string{"3": "2", "6": "3", "12": "4"},
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var result dto.BulkResultResponse
	suite.decode(w, &result)
	suite.Len(result.Updated, 2)
	suite.Empty(result.Failed)

	w = suite.do(http.MethodGet, "/api/v1/admin/companies", adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var companies dto.ListCompaniesResponse
	suite.decode(w, &companies)
	for _, c := range companies.Companies {
		assert.Equal(suite.T(), "3", c.InterestRates[domain.RepaymentTerm(6)].String())
	}
}

func (suite *HandlerTestSuite) TestInvalidJSON() {
	req, _ := http.NewRequest(http.MethodPost, "/auth/company/login", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusBadRequest, w.Code)
}
