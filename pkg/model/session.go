package model

import "strings"

// Session is the client-held record of the authenticated user.
// It is created from a successful login response and persisted by the
// session store; every other component reads it, none mutate it.
type Session struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	Token         string `json:"token"`
	ContactNumber string `json:"contact_number,omitempty"`
	LibraryName   string `json:"library_name,omitempty"`
}

// Valid reports whether the session carries the minimum an authenticated
// call needs. A session without a token is treated as absent.
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}

// IsOwner reports whether the session belongs to a library owner.
func (s *Session) IsOwner() bool {
	return s != nil && s.Role == RoleOwner
}

// IsAdmin reports whether the session belongs to a library admin.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleLibraryAdmin
}

// DisplayName returns the session's name, falling back to the local part
// of the email when the login response carried no name.
func (s *Session) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	if at := strings.Index(s.Email, "@"); at > 0 {
		return s.Email[:at]
	}
	return s.Email
}
