package services

import (
	"context"
	"errors"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_desk_app/internal/core/ports/repositories"
)

// Denial reasons shown to principals that exist but are not in good standing.
const (
	DenialAccountPending     = "account pending"
	DenialAccountRejected    = "account rejected"
	DenialAccountNotVerified = "account not verified"
	DenialCompanyNotApproved = "company is not approved"
)

// principalLoader re-reads a principal from the canonical store and judges its standing.
type principalLoader struct {
	companies portsrepo.CompanyReader
	employees portsrepo.EmployeeReader
	admins    portsrepo.AdminRepositoryFacade
}

// standing is the result of loading a principal. Denial is empty when the
// principal may act.
type standing struct {
	Principal domain.Principal
	Status    string
	Denial    string
}

// load returns ErrNotFound when the principal no longer exists.
func (l principalLoader) load(ctx context.Context, kind domain.PrincipalKind, id string) (*standing, error) {
	switch kind {
	case domain.PrincipalCompany:
		company, err := l.companies.FindCompanyByID(ctx, id)
		if err != nil {
			return nil, err
		}
		st := &standing{Principal: domain.CompanyPrincipal(*company), Status: string(company.Status)}
		switch company.Status {
		case domain.CompanyPending:
			st.Denial = DenialAccountPending
		case domain.CompanyRejected:
			st.Denial = DenialAccountRejected
		}
		return st, nil

	case domain.PrincipalEmployee:
		employee, err := l.employees.FindEmployeeByID(ctx, id)
		if err != nil {
			return nil, err
		}
		st := &standing{Principal: domain.EmployeePrincipal(*employee), Status: string(employee.Status)}
		if !employee.IsVerified() {
			st.Denial = DenialAccountNotVerified
			return st, nil
		}
		company, err := l.companies.FindCompanyByID(ctx, employee.CompanyID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			st.Denial = DenialCompanyNotApproved
		case err != nil:
			return nil, err
		case !company.IsApproved():
			st.Denial = DenialCompanyNotApproved
		}
		return st, nil

	case domain.PrincipalAdmin:
		admin, err := l.admins.FindAdminByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &standing{Principal: domain.AdminPrincipal(*admin), Status: "active"}, nil
	}
	return nil, apperrors.NewValidationFailedError("unknown principal kind " + string(kind))
}
