package model

import "strings"

// Role represents the access tier of a library member.
type Role string

const (
	// RoleOwner registered the library and manages its members.
	RoleOwner Role = "Owner"
	// RoleLibraryAdmin manages the catalog and decides issue requests.
	RoleLibraryAdmin Role = "LibraryAdmin"
	// RoleReader browses the catalog and raises issue requests.
	RoleReader Role = "Reader"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// ParseRole folds the backend's role vocabulary variants onto the
// canonical enumeration. Whitespace is ignored; "admin" means library
// admin and "user" means reader, as some endpoints report them.
func ParseRole(s string) (Role, bool) {
	switch strings.TrimSpace(s) {
	case "Owner", "owner":
		return RoleOwner, true
	case "LibraryAdmin", "libraryadmin", "admin", "Admin":
		return RoleLibraryAdmin, true
	case "Reader", "reader", "user", "User":
		return RoleReader, true
	}
	return "", false
}
