package access

import "strings"

type Role string

const (
	RoleRegular   Role = "regular"
	RoleLibrarian Role = "librarian"
	RoleAdmin     Role = "admin"
)

// ParseRole accepts the role names used by tokens and the admin API.
// Unknown values resolve to RoleRegular with ok=false.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleRegular, "user":
		return RoleRegular, true
	case RoleLibrarian:
		return RoleLibrarian, true
	case RoleAdmin, "staff", "superuser":
		return RoleAdmin, true
	}
	return RoleRegular, false
}

// RoleFromFlags maps the legacy boolean account flags onto a Role.
func RoleFromFlags(isStaff, isSuperuser, isLibrarian bool) Role {
	switch {
	case isSuperuser || isStaff:
		return RoleAdmin
	case isLibrarian:
		return RoleLibrarian
	default:
		return RoleRegular
	}
}

func (r Role) Valid() bool {
	return r == RoleRegular || r == RoleLibrarian || r == RoleAdmin
}

// CanMutateCatalog reports whether the role may create, update or delete
// books and categories.
func CanMutateCatalog(r Role) bool {
	return r == RoleLibrarian || r == RoleAdmin
}

// CanManageUsers reports whether the role may change other accounts.
func CanManageUsers(r Role) bool {
	return r == RoleAdmin
}

func CanViewReports(r Role) bool {
	return CanMutateCatalog(r)
}
