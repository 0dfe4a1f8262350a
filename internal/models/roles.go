// filepath: internal/models/roles.go
package models

// Role is the closed set of account roles. It is fixed at account creation.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleParent Role = "parent"
	RoleKid    Role = "kid"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleParent, RoleKid:
		return true
	}
	return false
}

// CanManageBooks reports whether the role may create, update or delete books
// and categories.
func (r Role) CanManageBooks() bool {
	return r == RoleAdmin
}

// CanManageKids reports whether the role may own kid profiles and set
// category approvals.
func (r Role) CanManageKids() bool {
	return r == RoleAdmin || r == RoleParent
}

// CanManageUsers reports whether the role may administer accounts.
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}
