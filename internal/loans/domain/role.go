package domain

import (
	"fmt"
	"slices"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleCustomer    Role = "customer"
	RoleLoanOfficer Role = "loan_officer"
	RoleUnderwriter Role = "underwriter"
)

// Roles lists every role in a stable order.
var Roles = []Role{RoleCustomer, RoleLoanOfficer, RoleUnderwriter}

// Scope names carried in session tokens.
const (
	ScopeApplicationsRead    = "applications:read"
	ScopeApplicationsWrite   = "applications:write"
	ScopeApplicationsReview  = "applications:review"
	ScopeApplicationsApprove = "applications:approve"
	ScopeApplicationsReject  = "applications:reject"
	ScopeDocumentsRead       = "documents:read"
	ScopeDocumentsWrite      = "documents:write"
	ScopeDocumentsVerify     = "documents:verify"
	ScopeProfileRead         = "profile:read"
	ScopeProfileWrite        = "profile:write"
	ScopeUsersRead           = "users:read"
)

var roleScopes = map[Role][]string{
	RoleCustomer: {
		ScopeApplicationsRead,
		ScopeApplicationsWrite,
		ScopeDocumentsRead,
		ScopeDocumentsWrite,
		ScopeProfileRead,
		ScopeProfileWrite,
	},
	RoleLoanOfficer: {
		ScopeApplicationsRead,
		ScopeApplicationsWrite,
		ScopeApplicationsReview,
		ScopeDocumentsRead,
		ScopeDocumentsWrite,
		ScopeDocumentsVerify,
		ScopeProfileRead,
		ScopeUsersRead,
	},
	RoleUnderwriter: {
		ScopeApplicationsRead,
		ScopeApplicationsWrite,
		ScopeApplicationsApprove,
		ScopeApplicationsReject,
		ScopeDocumentsRead,
		ScopeDocumentsVerify,
		ScopeProfileRead,
		ScopeUsersRead,
	},
}

// ParseRole accepts only the known role names.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := roleScopes[r]
	return ok
}

// Scopes returns a copy of the scopes granted to r. Unknown roles get none.
func (r Role) Scopes() []string {
	return slices.Clone(roleScopes[r])
}

// IsStaff reports whether r reviews applications rather than owning them.
func (r Role) IsStaff() bool {
	return r == RoleLoanOfficer || r == RoleUnderwriter
}

func (r Role) String() string { return string(r) }
