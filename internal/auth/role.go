package auth

import "strings"

// Role is the authorization role of a profile. A profile has at most one role
// assignment; profiles without one resolve to RoleUser.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleTechnician   Role = "technician"
	RoleReceptionist Role = "receptionist"
	RoleUser         Role = "user"

	DefaultRole = RoleUser
)

// KnownRoles is the role catalog seeded into the database.
var KnownRoles = []Role{RoleAdmin, RoleTechnician, RoleReceptionist, RoleUser}

// ParseRole maps a stored role name onto a known Role.
func ParseRole(name string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range KnownRoles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// ResolveRole turns an optional role assignment into a Role. A missing or
// unrecognised assignment yields DefaultRole, never a rejection.
func ResolveRole(name *string) Role {
	if name == nil {
		return DefaultRole
	}
	if r, ok := ParseRole(*name); ok {
		return r
	}
	return DefaultRole
}

// In reports whether r is one of allowed.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
