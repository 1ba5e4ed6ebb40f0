package domain

import (
	"fmt"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
)

// PrincipalKind is the type of acting identity in a session.
type PrincipalKind string

const (
	PrincipalCompany  PrincipalKind = "company"
	PrincipalEmployee PrincipalKind = "employee"
	PrincipalAdmin    PrincipalKind = "admin"
)

func ParsePrincipalKind(s string) (PrincipalKind, error) {
	switch PrincipalKind(s) {
	case PrincipalCompany, PrincipalEmployee, PrincipalAdmin:
		return PrincipalKind(s), nil
	}
	return "", fmt.Errorf("%w: unknown principal kind %q", apperrors.ErrValidation, s)
}

// Principal is the re-validated identity attached to a request.
type Principal struct {
	Kind      PrincipalKind `json:"kind"`
	ID        string        `json:"id"`
	CompanyID string        `json:"companyID,omitempty"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Role      Role          `json:"role,omitempty"`
}

// Permissions resolves the principal's capabilities. Employees have none.
func (p Principal) Permissions() Permissions {
	if p.Kind == PrincipalEmployee {
		return Permissions{}
	}
	return ResolvePermissions(p.Role)
}

func (p Principal) IsAdmin() bool {
	return p.Kind == PrincipalAdmin
}

// ActsFor reports whether the principal may act on behalf of the given company:
// platform admins always, company principals only for themselves.
func (p Principal) ActsFor(companyID string) bool {
	if p.IsAdmin() {
		return true
	}
	return p.Kind == PrincipalCompany && p.ID == companyID
}

// CompanyPrincipal builds the principal for an approved company session.
func CompanyPrincipal(c Company) Principal {
	return Principal{Kind: PrincipalCompany, ID: c.CompanyID, CompanyID: c.CompanyID, Name: c.Name, Email: c.Email, Role: c.Role}
}

func EmployeePrincipal(e Employee) Principal {
	return Principal{Kind: PrincipalEmployee, ID: e.EmployeeID, CompanyID: e.CompanyID, Name: e.Name, Email: e.Email}
}

func AdminPrincipal(a Admin) Principal {
	return Principal{Kind: PrincipalAdmin, ID: a.AdminID, Name: a.Name, Email: a.Email, Role: RoleAdmin}
}

// Credential is what the authentication provider knows about a principal.
type Credential struct {
	Kind         PrincipalKind
	PrincipalID  string
	Email        string
	PasswordHash string
	TokenVersion int
}

// SessionClaims is the verified content of an access token.
type SessionClaims struct {
	Kind         PrincipalKind
	PrincipalID  string
	TokenVersion int
}

// AuthStateEvent is emitted by the authentication provider on sign-in and sign-out.
type AuthStateEvent struct {
	Kind        PrincipalKind
	PrincipalID string
	SignedIn    bool
}
