package domain

import (
	"fmt"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
)

// Role is the privilege level a company principal logs in with. Platform admins
// resolve as RoleAdmin.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleHR      Role = "hr"
)

// ParseRole decodes a stored company role. Unknown values are rejected.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleHR:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, s)
}

// Permissions is the capability set granted by a role.
type Permissions struct {
	CanApproveLoan      bool `json:"canApproveLoan"`
	CanRejectLoan       bool `json:"canRejectLoan"`
	CanViewAllEmployees bool `json:"canViewAllEmployees"`
	CanEditEmployees    bool `json:"canEditEmployees"`
	CanViewFinancials   bool `json:"canViewFinancials"`
	CanManageRoles      bool `json:"canManageRoles"`
}

var rolePermissions = map[Role]Permissions{
	RoleAdmin: {
		CanApproveLoan:      true,
		CanRejectLoan:       true,
		CanViewAllEmployees: true,
		CanEditEmployees:    true,
		CanViewFinancials:   true,
		CanManageRoles:      true,
	},
	RoleManager: {
		CanApproveLoan:      true,
		CanRejectLoan:       true,
		CanViewAllEmployees: true,
		CanViewFinancials:   true,
	},
	RoleHR: {
		CanViewAllEmployees: true,
		CanEditEmployees:    true,
	},
}

// ResolvePermissions maps a role to its capabilities. Any role outside the
// table, including the empty role of an employee, gets nothing.
func ResolvePermissions(role Role) Permissions {
	return rolePermissions[role]
}
