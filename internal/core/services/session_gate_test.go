package services_test

import (
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/SscSPs/loan_desk_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SessionGateTestSuite struct {
	suite.Suite
	w    *world
	acme *domain.Company
}

func (suite *SessionGateTestSuite) SetupTest() {
	suite.w = newWorld(suite.T())
	suite.acme = suite.w.approvedCompany("Acme", "a@acme.com", domain.RoleManager)
}

func TestSessionGateTestSuite(t *testing.T) {
	suite.Run(t, new(SessionGateTestSuite))
}

func (suite *SessionGateTestSuite) login(kind domain.PrincipalKind, email string) string {
	result, err := suite.w.svc.Auth.Login(suite.w.ctx, kind, email, testPassword)
	suite.Require().NoError(err)
	return result.Token
}

func (suite *SessionGateTestSuite) TestMissingTokenIsUnauthenticated() {
	d := suite.w.svc.Gate.Resolve(suite.w.ctx, domain.PrincipalCompany, "")
	suite.Equal(domain.GateUnauthenticated, d.State)
	suite.Equal("/company/login", d.Redirect)
	suite.Nil(d.Principal)
}

func (suite *SessionGateTestSuite) TestAuthorizedSessionRefreshesCache() {
	w := suite.w
	token := suite.login(domain.PrincipalCompany, "a@acme.com")

	d := w.svc.Gate.Resolve(w.ctx, domain.PrincipalCompany, token)
	suite.Require().True(d.Authorized())
	suite.Equal(suite.acme.CompanyID, d.Principal.ID)
	suite.Equal(domain.RoleManager, d.Principal.Role)

	cached, err := w.svc.Gate.CachedSession(w.ctx, domain.PrincipalCompany, suite.acme.CompanyID)
	suite.Require().NoError(err)
	suite.Equal(string(domain.CompanyApproved), cached.Status)

	w.svc.Gate.Forget(w.ctx, domain.PrincipalCompany, suite.acme.CompanyID)
	_, err = w.svc.Gate.CachedSession(w.ctx, domain.PrincipalCompany, suite.acme.CompanyID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *SessionGateTestSuite) TestWrongKindRedirectsToOwnDashboard() {
	w := suite.w
	employee := w.verifiedEmployee(suite.acme.CompanyID, "Eve", "eve@acme.com", 1000)
	token := suite.login(domain.PrincipalEmployee, "eve@acme.com")

	d := w.svc.Gate.Resolve(w.ctx, domain.PrincipalCompany, token)
	suite.Equal(domain.GateUnauthorized, d.State)
	suite.Equal("/employee/dashboard", d.Redirect)
	suite.Require().NotNil(d.Principal)
	suite.Equal(employee.EmployeeID, d.Principal.ID)

	anyKind := w.svc.Gate.Resolve(w.ctx, "", token)
	suite.True(anyKind.Authorized())
}

func (suite *SessionGateTestSuite) TestStandingIsRereadOnEveryResolve() {
	w := suite.w
	employee := w.verifiedEmployee(suite.acme.CompanyID, "Eve", "eve@acme.com", 1000)
	token := suite.login(domain.PrincipalEmployee, "eve@acme.com")
	suite.Require().True(w.svc.Gate.Resolve(w.ctx, domain.PrincipalEmployee, token).Authorized())

	// the company falls out of good standing after the token was issued
	change := domain.CompanyStatusChange{From: domain.CompanyApproved, To: domain.CompanyRejected, Reason: "fraud", By: w.admin.ID, At: time.Now()}
	suite.Require().NoError(w.store.TransitionCompanyStatus(w.ctx, suite.acme.CompanyID, change))

	d := w.svc.Gate.Resolve(w.ctx, domain.PrincipalEmployee, token)
	suite.Equal(domain.GateUnauthorized, d.State)
	suite.Equal(services.DenialCompanyNotApproved, d.Reason)
	suite.Equal("/employee/login", d.Redirect)
	suite.Equal(employee.EmployeeID, d.Principal.ID)

	_, err := w.svc.Gate.CachedSession(w.ctx, domain.PrincipalEmployee, employee.EmployeeID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *SessionGateTestSuite) TestSignOutRevokesOutstandingTokens() {
	w := suite.w
	token := suite.login(domain.PrincipalCompany, "a@acme.com")
	suite.Require().NoError(w.svc.Auth.SignOut(w.ctx, domain.PrincipalCompany, suite.acme.CompanyID))

	d := w.svc.Gate.Resolve(w.ctx, domain.PrincipalCompany, token)
	suite.Equal(domain.GateUnauthenticated, d.State)
	suite.Equal("token has been revoked", d.Reason)

	fresh := suite.login(domain.PrincipalCompany, "a@acme.com")
	suite.True(w.svc.Gate.Resolve(w.ctx, domain.PrincipalCompany, fresh).Authorized())
}

// decisionLog collects decisions emitted by Watch.
type decisionLog struct {
	mu        sync.Mutex
	decisions []domain.Decision
}

func (l *decisionLog) add(d domain.Decision) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.decisions = append(l.decisions, d)
}

func (l *decisionLog) states() []domain.GateState {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.GateState, 0, len(l.decisions))
	for _, d := range l.decisions {
		out = append(out, d.State)
	}
	return out
}

func TestWatchFollowsSignOut(t *testing.T) {
	w := newWorld(t)
	acme := w.approvedCompany("Acme", "a@acme.com", domain.RoleHR)
	other := w.approvedCompany("Other", "o@other.com", domain.RoleHR)
	result, err := w.svc.Auth.Login(w.ctx, domain.PrincipalCompany, "a@acme.com", testPassword)
	require.NoError(t, err)

	log := &decisionLog{}
	stop := w.svc.Gate.Watch(w.ctx, domain.PrincipalCompany, result.Token, log.add)
	defer stop()

	require.Eventually(t, func() bool { return len(log.states()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []domain.GateState{domain.GateLoading, domain.GateAuthorized}, log.states())

	// events for someone else are ignored
	require.NoError(t, w.svc.Auth.SignOut(w.ctx, domain.PrincipalCompany, other.CompanyID))
	require.NoError(t, w.svc.Auth.SignOut(w.ctx, domain.PrincipalCompany, acme.CompanyID))

	require.Eventually(t, func() bool { return len(log.states()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, domain.GateUnauthenticated, log.states()[2])

	stop()
	_, err = w.svc.Auth.Login(w.ctx, domain.PrincipalCompany, "a@acme.com", testPassword)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, log.states(), 3)
}
