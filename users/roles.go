// Package users defines the closed role enumeration shared by the session
// store and the admin registration call.
package users

// Role is a BugBoard account role. The wire values are the exact strings the
// backend expects in registration payloads and login responses.
type Role string

const (
	RoleAdmin Role = "ADMIN" // Can register users and manage every issue
	RoleUser  Role = "USER"  // Regular account
)

// Roles lists every selectable role, in display order.
var Roles = []Role{RoleAdmin, RoleUser}

// Label returns the human-readable form shown in role pickers.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleUser:
		return "User"
	default:
		return string(r)
	}
}

// Valid reports whether r is one of the closed set.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}
