package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/adapters/cache"
	"github.com/SscSPs/loan_desk_app/internal/adapters/database/memory"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/core/services"
	"github.com/SscSPs/loan_desk_app/internal/dto"
	"github.com/SscSPs/loan_desk_app/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct-horse"

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:              "test-secret",
		JWTExpiryDuration:      time.Hour,
		JWTIssuer:              "loan-desk-test",
		SessionCacheTTL:        time.Minute,
		BulkUpdateConcurrency:  4,
		CodeGenerationAttempts: 5,
		EmployeeIDStrategy:     config.EmployeeIDStrategyRandom,
		DashboardCacheSize:     16,
	}
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.StatusChangedEvent
}

func (p *recordingPublisher) PublishStatusChanged(ctx context.Context, event domain.StatusChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Events() []domain.StatusChangedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.StatusChangedEvent(nil), p.events...)
}

// world is a full service container over the in-memory store.
type world struct {
	t      *testing.T
	ctx    context.Context
	store  *memory.Store
	cache  *cache.MemorySessionCache
	events *recordingPublisher
	svc    *portssvc.ServiceContainer
	admin  domain.Principal
}

func newWorld(t *testing.T) *world {
	t.Helper()
	store := memory.NewStore()
	sessions, err := cache.NewMemorySessionCache(64)
	require.NoError(t, err)
	events := &recordingPublisher{}
	svc := services.NewServiceContainer(testConfig(), memory.NewRepositoryProvider(store), sessions, events)

	ctx := context.Background()
	admin, err := svc.Admin.EnsureBootstrapAdmin(ctx, "Root", "root@loandesk.test", testPassword)
	require.NoError(t, err)

	return &world{
		t:      t,
		ctx:    ctx,
		store:  store,
		cache:  sessions,
		events: events,
		svc:    svc,
		admin:  domain.AdminPrincipal(*admin),
	}
}

func (w *world) registerCompany(name, email string, role domain.Role) *domain.Company {
	w.t.Helper()
	company, err := w.svc.Company.RegisterCompany(w.ctx, dto.RegisterCompanyRequest{
		Name:     name,
		Email:    email,
		Password: testPassword,
		Role:     role,
	})
	require.NoError(w.t, err)
	return company
}

func (w *world) approvedCompany(name, email string, role domain.Role) *domain.Company {
	w.t.Helper()
	company := w.registerCompany(name, email, role)
	approved, err := w.svc.Company.ApproveCompany(w.ctx, w.admin, company.CompanyID)
	require.NoError(w.t, err)
	return approved
}

func (w *world) registerEmployee(companyID, name, email string, salary int64) *domain.Employee {
	w.t.Helper()
	employee, err := w.svc.Employee.RegisterEmployee(w.ctx, dto.RegisterEmployeeRequest{
		Name:      name,
		Email:     email,
		Password:  testPassword,
		Salary:    decimal.NewFromInt(salary),
		CompanyID: companyID,
	})
	require.NoError(w.t, err)
	return employee
}

func (w *world) verifiedEmployee(companyID, name, email string, salary int64) *domain.Employee {
	w.t.Helper()
	employee := w.registerEmployee(companyID, name, email, salary)
	verified, err := w.svc.Employee.VerifyEmployee(w.ctx, w.admin, employee.EmployeeID)
	require.NoError(w.t, err)
	return verified
}
