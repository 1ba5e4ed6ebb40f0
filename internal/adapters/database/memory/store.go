// Package memory is an in-process implementation of every repository port. It backs
// STORE_DRIVER=memory and the service tests, and enforces the same uniqueness and
// compare-and-set rules as the Postgres repositories.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_desk_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type Store struct {
	mu        sync.RWMutex
	companies map[string]domain.Company
	employees map[string]domain.Employee
	loans     map[string]domain.Loan
	comments  map[string][]domain.LoanComment
	admins    map[string]domain.Admin
	now       func() time.Time
}

var (
	_ portsrepo.CompanyRepositoryFacade  = (*Store)(nil)
	_ portsrepo.EmployeeRepositoryFacade = (*Store)(nil)
	_ portsrepo.LoanRepositoryFacade     = (*Store)(nil)
	_ portsrepo.AdminRepositoryFacade    = (*Store)(nil)
	_ portsrepo.CredentialRepository     = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		companies: make(map[string]domain.Company),
		employees: make(map[string]domain.Employee),
		loans:     make(map[string]domain.Loan),
		comments:  make(map[string][]domain.LoanComment),
		admins:    make(map[string]domain.Admin),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// NewRepositoryProvider exposes one store through every repository port.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CompanyRepo:    store,
		EmployeeRepo:   store,
		LoanRepo:       store,
		AdminRepo:      store,
		CredentialRepo: store,
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneCompany(c domain.Company) domain.Company {
	c.CompanyCode = cloneString(c.CompanyCode)
	c.RejectionReason = cloneString(c.RejectionReason)
	c.ApprovedAt = cloneTime(c.ApprovedAt)
	c.RejectedAt = cloneTime(c.RejectedAt)
	if c.InterestRates != nil {
		rates := make(domain.InterestRates, len(c.InterestRates))
		for t, r := range c.InterestRates {
			rates[t] = r
		}
		c.InterestRates = rates
	}
	return c
}

func cloneEmployee(e domain.Employee) domain.Employee {
	e.EmployeeCode = cloneString(e.EmployeeCode)
	e.RejectionReason = cloneString(e.RejectionReason)
	e.VerifiedAt = cloneTime(e.VerifiedAt)
	e.RejectedAt = cloneTime(e.RejectedAt)
	return e
}

func cloneLoan(l domain.Loan) domain.Loan {
	l.Notes = cloneString(l.Notes)
	l.RejectionReason = cloneString(l.RejectionReason)
	l.DecidedBy = cloneString(l.DecidedBy)
	return l
}

// readCompany applies the same boundary decoding as the Postgres mapping.
func readCompany(c domain.Company) (domain.Company, error) {
	if _, err := domain.ParseCompanyStatus(string(c.Status)); err != nil {
		return domain.Company{}, err
	}
	return cloneCompany(c), nil
}

func readEmployee(e domain.Employee) (domain.Employee, error) {
	if _, err := domain.ParseEmployeeStatus(string(e.Status)); err != nil {
		return domain.Employee{}, err
	}
	return cloneEmployee(e), nil
}

func byNameThenID(nameI, idI, nameJ, idJ string) bool {
	li, lj := strings.ToLower(nameI), strings.ToLower(nameJ)
	if li != lj {
		return li < lj
	}
	return idI < idJ
}

// --- companies ---

func (s *Store) findCompany(match func(domain.Company) bool) (*domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.companies {
		if match(c) {
			out, err := readCompany(c)
			if err != nil {
				return nil, err
			}
			return &out, nil
		}
	}
	return nil, apperrors.NewNotFoundError("company not found")
}

func (s *Store) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	return s.findCompany(func(c domain.Company) bool { return c.CompanyID == companyID })
}

func (s *Store) FindCompanyByEmail(ctx context.Context, email string) (*domain.Company, error) {
	return s.findCompany(func(c domain.Company) bool { return c.Email == email })
}

func (s *Store) FindCompanyByCode(ctx context.Context, code string) (*domain.Company, error) {
	return s.findCompany(func(c domain.Company) bool { return c.Code() == code && code != "" })
}

func (s *Store) listCompanies(match func(domain.Company) bool) ([]domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Company, 0, len(s.companies))
	for _, c := range s.companies {
		if !match(c) {
			continue
		}
		read, err := readCompany(c)
		if err != nil {
			return nil, err
		}
		out = append(out, read)
	}
	sort.Slice(out, func(i, j int) bool {
		return byNameThenID(out[i].Name, out[i].CompanyID, out[j].Name, out[j].CompanyID)
	})
	return out, nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	return s.listCompanies(func(domain.Company) bool { return true })
}

func (s *Store) ListCompaniesByStatus(ctx context.Context, status domain.CompanyStatus) ([]domain.Company, error) {
	return s.listCompanies(func(c domain.Company) bool { return c.Status == status })
}

func (s *Store) CountCompaniesWithoutStatus(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, c := range s.companies {
		if c.Status == "" {
			n++
		}
	}
	return n, nil
}

// companyCodeTaken must be called with the lock held.
func (s *Store) companyCodeTaken(code, exceptID string) bool {
	if code == "" {
		return false
	}
	for id, c := range s.companies {
		if id != exceptID && c.Code() == code {
			return true
		}
	}
	return false
}

func (s *Store) SaveCompany(ctx context.Context, company domain.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[company.CompanyID]; ok {
		return apperrors.NewConflictError("company " + company.CompanyID + " already exists")
	}
	for _, c := range s.companies {
		if c.Email == company.Email {
			return apperrors.NewConflictError("email is already registered")
		}
	}
	if s.companyCodeTaken(company.Code(), "") {
		return apperrors.NewCodeTakenError(company.Code())
	}
	s.companies[company.CompanyID] = cloneCompany(company)
	return nil
}

func (s *Store) updateCompany(companyID string, fn func(c *domain.Company) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companies[companyID]
	if !ok {
		return apperrors.NewNotFoundError("company not found")
	}
	if err := fn(&c); err != nil {
		return err
	}
	c.LastUpdatedAt = s.now()
	s.companies[companyID] = c
	return nil
}

func (s *Store) UpdateCompanyInterestRates(ctx context.Context, companyID string, rates domain.InterestRates) error {
	return s.updateCompany(companyID, func(c *domain.Company) error {
		c.InterestRates = cloneCompany(domain.Company{InterestRates: rates}).InterestRates
		return nil
	})
}

func (s *Store) UpdateCompanyBalance(ctx context.Context, companyID string, balance decimal.Decimal) error {
	return s.updateCompany(companyID, func(c *domain.Company) error {
		c.Balance = balance
		return nil
	})
}

func (s *Store) UpdateCompanyCode(ctx context.Context, companyID, code string) error {
	return s.updateCompany(companyID, func(c *domain.Company) error {
		if s.companyCodeTaken(code, companyID) {
			return apperrors.NewCodeTakenError(code)
		}
		c.CompanyCode = &code
		return nil
	})
}

func (s *Store) TransitionCompanyStatus(ctx context.Context, companyID string, change domain.CompanyStatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companies[companyID]
	if !ok {
		return apperrors.NewNotFoundError("company not found")
	}
	if c.Status != change.From {
		return apperrors.NewInvalidTransitionError("company", string(c.Status), string(change.To))
	}
	c.Apply(change)
	s.companies[companyID] = c
	return nil
}

func (s *Store) BackfillCompanyStatus(ctx context.Context, status domain.CompanyStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, c := range s.companies {
		if c.Status == "" {
			c.Status = status
			c.LastUpdatedAt = s.now()
			s.companies[id] = c
			n++
		}
	}
	return n, nil
}

// --- employees ---

func (s *Store) findEmployee(match func(domain.Employee) bool) (*domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.employees {
		if match(e) {
			out, err := readEmployee(e)
			if err != nil {
				return nil, err
			}
			return &out, nil
		}
	}
	return nil, apperrors.NewNotFoundError("employee not found")
}

func (s *Store) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	return s.findEmployee(func(e domain.Employee) bool { return e.EmployeeID == employeeID })
}

func (s *Store) FindEmployeeByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	return s.findEmployee(func(e domain.Employee) bool { return e.Email == email })
}

func (s *Store) FindEmployeeByCode(ctx context.Context, code string) (*domain.Employee, error) {
	return s.findEmployee(func(e domain.Employee) bool { return e.Code() == code && code != "" })
}

func (s *Store) listEmployees(match func(domain.Employee) bool) ([]domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		if !match(e) {
			continue
		}
		read, err := readEmployee(e)
		if err != nil {
			return nil, err
		}
		out = append(out, read)
	}
	sort.Slice(out, func(i, j int) bool {
		return byNameThenID(out[i].Name, out[i].EmployeeID, out[j].Name, out[j].EmployeeID)
	})
	return out, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return s.listEmployees(func(domain.Employee) bool { return true })
}

func (s *Store) ListEmployeesByCompany(ctx context.Context, companyID string) ([]domain.Employee, error) {
	return s.listEmployees(func(e domain.Employee) bool { return e.CompanyID == companyID })
}

func (s *Store) ListEmployeeCodes(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]string, 0, len(s.employees))
	for _, e := range s.employees {
		if code := e.Code(); code != "" {
			codes = append(codes, code)
		}
	}
	return codes, nil
}

func (s *Store) CountEmployeesWithoutStatus(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, e := range s.employees {
		if e.Status == "" {
			n++
		}
	}
	return n, nil
}

func (s *Store) employeeCodeTaken(code, exceptID string) bool {
	if code == "" {
		return false
	}
	for id, e := range s.employees {
		if id != exceptID && e.Code() == code {
			return true
		}
	}
	return false
}

func (s *Store) SaveEmployee(ctx context.Context, employee domain.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[employee.EmployeeID]; ok {
		return apperrors.NewConflictError("employee " + employee.EmployeeID + " already exists")
	}
	if _, ok := s.companies[employee.CompanyID]; !ok {
		return apperrors.NewValidationFailedError("company does not exist")
	}
	for _, e := range s.employees {
		if e.Email == employee.Email {
			return apperrors.NewConflictError("email is already registered")
		}
	}
	if s.employeeCodeTaken(employee.Code(), "") {
		return apperrors.NewCodeTakenError(employee.Code())
	}
	s.employees[employee.EmployeeID] = cloneEmployee(employee)
	return nil
}

func (s *Store) UpdateEmployeeCode(ctx context.Context, employeeID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[employeeID]
	if !ok {
		return apperrors.NewNotFoundError("employee not found")
	}
	if s.employeeCodeTaken(code, employeeID) {
		return apperrors.NewCodeTakenError(code)
	}
	e.EmployeeCode = &code
	e.LastUpdatedAt = s.now()
	s.employees[employeeID] = e
	return nil
}

func (s *Store) TransitionEmployeeStatus(ctx context.Context, employeeID string, change domain.EmployeeStatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[employeeID]
	if !ok {
		return apperrors.NewNotFoundError("employee not found")
	}
	if e.Status != change.From {
		return apperrors.NewInvalidTransitionError("employee", string(e.Status), string(change.To))
	}
	e.Apply(change)
	s.employees[employeeID] = e
	return nil
}

func (s *Store) BackfillEmployeeStatus(ctx context.Context, status domain.EmployeeStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, e := range s.employees {
		if e.Status == "" {
			e.Status = status
			e.LastUpdatedAt = s.now()
			s.employees[id] = e
			n++
		}
	}
	return n, nil
}

// --- loans ---

func (s *Store) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.loans[loanID]
	if !ok {
		return nil, apperrors.NewNotFoundError("loan not found")
	}
	out := cloneLoan(l)
	return &out, nil
}

func (s *Store) listLoans(match func(domain.Loan) bool) []domain.Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Loan, 0, len(s.loans))
	for _, l := range s.loans {
		if match(l) {
			out = append(out, cloneLoan(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].LoanID < out[j].LoanID
	})
	return out
}

func (s *Store) ListLoans(ctx context.Context) ([]domain.Loan, error) {
	return s.listLoans(func(domain.Loan) bool { return true }), nil
}

func (s *Store) ListLoansByCompany(ctx context.Context, companyID string) ([]domain.Loan, error) {
	return s.listLoans(func(l domain.Loan) bool { return l.CompanyID == companyID }), nil
}

func (s *Store) ListLoansByEmployee(ctx context.Context, employeeID string) ([]domain.Loan, error) {
	return s.listLoans(func(l domain.Loan) bool { return l.EmployeeID == employeeID }), nil
}

func (s *Store) SaveLoan(ctx context.Context, loan domain.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.loans[loan.LoanID]; ok {
		return apperrors.NewConflictError("loan " + loan.LoanID + " already exists")
	}
	e, ok := s.employees[loan.EmployeeID]
	if !ok {
		return apperrors.NewNotFoundError("employee not found")
	}
	if e.Status != domain.EmployeeVerified {
		return apperrors.NewForbiddenError("employee is not verified")
	}
	s.loans[loan.LoanID] = cloneLoan(loan)
	return nil
}

func (s *Store) TransitionLoanStatus(ctx context.Context, loanID string, change domain.LoanStatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.loans[loanID]
	if !ok {
		return apperrors.NewNotFoundError("loan not found")
	}
	if l.Status != change.From {
		return apperrors.NewInvalidTransitionError("loan", string(l.Status), string(change.To))
	}
	l.Apply(change)
	s.loans[loanID] = l
	return nil
}

func (s *Store) SaveLoanComment(ctx context.Context, comment domain.LoanComment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.loans[comment.LoanID]; !ok {
		return apperrors.NewValidationFailedError("loan does not exist")
	}
	s.comments[comment.LoanID] = append(s.comments[comment.LoanID], comment)
	return nil
}

func (s *Store) ListLoanComments(ctx context.Context, loanID string) ([]domain.LoanComment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LoanComment, len(s.comments[loanID]))
	copy(out, s.comments[loanID])
	return out, nil
}

// --- admins ---

func (s *Store) FindAdminByID(ctx context.Context, adminID string) (*domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.admins[adminID]
	if !ok {
		return nil, apperrors.NewNotFoundError("admin not found")
	}
	return &a, nil
}

func (s *Store) FindAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.admins {
		if a.Email == email {
			out := a
			return &out, nil
		}
	}
	return nil, apperrors.NewNotFoundError("admin not found")
}

func (s *Store) SaveAdmin(ctx context.Context, admin domain.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[admin.AdminID]; ok {
		return apperrors.NewConflictError("admin " + admin.AdminID + " already exists")
	}
	for _, a := range s.admins {
		if a.Email == admin.Email {
			return apperrors.NewConflictError("email is already registered")
		}
	}
	s.admins[admin.AdminID] = admin
	return nil
}

// --- credentials ---

func (s *Store) credential(kind domain.PrincipalKind, match func(id, email string) bool) (*domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch kind {
	case domain.PrincipalCompany:
		for _, c := range s.companies {
			if match(c.CompanyID, c.Email) {
				return &domain.Credential{Kind: kind, PrincipalID: c.CompanyID, Email: c.Email, PasswordHash: c.PasswordHash, TokenVersion: c.TokenVersion}, nil
			}
		}
	case domain.PrincipalEmployee:
		for _, e := range s.employees {
			if match(e.EmployeeID, e.Email) {
				return &domain.Credential{Kind: kind, PrincipalID: e.EmployeeID, Email: e.Email, PasswordHash: e.PasswordHash, TokenVersion: e.TokenVersion}, nil
			}
		}
	case domain.PrincipalAdmin:
		for _, a := range s.admins {
			if match(a.AdminID, a.Email) {
				return &domain.Credential{Kind: kind, PrincipalID: a.AdminID, Email: a.Email, PasswordHash: a.PasswordHash, TokenVersion: a.TokenVersion}, nil
			}
		}
	default:
		return nil, apperrors.NewValidationFailedError("unknown principal kind " + string(kind))
	}
	return nil, apperrors.NewNotFoundError(string(kind) + " not found")
}

func (s *Store) FindCredentialByEmail(ctx context.Context, kind domain.PrincipalKind, email string) (*domain.Credential, error) {
	return s.credential(kind, func(_, e string) bool { return e == email })
}

func (s *Store) FindCredentialByID(ctx context.Context, kind domain.PrincipalKind, principalID string) (*domain.Credential, error) {
	return s.credential(kind, func(id, _ string) bool { return id == principalID })
}

func (s *Store) IncrementTokenVersion(ctx context.Context, kind domain.PrincipalKind, principalID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case domain.PrincipalCompany:
		if c, ok := s.companies[principalID]; ok {
			c.TokenVersion++
			s.companies[principalID] = c
			return c.TokenVersion, nil
		}
	case domain.PrincipalEmployee:
		if e, ok := s.employees[principalID]; ok {
			e.TokenVersion++
			s.employees[principalID] = e
			return e.TokenVersion, nil
		}
	case domain.PrincipalAdmin:
		if a, ok := s.admins[principalID]; ok {
			a.TokenVersion++
			s.admins[principalID] = a
			return a.TokenVersion, nil
		}
	default:
		return 0, apperrors.NewValidationFailedError("unknown principal kind " + string(kind))
	}
	return 0, apperrors.NewNotFoundError(string(kind) + " not found")
}
