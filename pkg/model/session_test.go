package model

import "testing"

func TestSession_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		sess Session
		want string
	}{
		{"explicit name wins", Session{Name: "Alice", Email: "alice@lib.org"}, "Alice"},
		{"derived from email", Session{Email: "alice@lib.org"}, "alice"},
		{"dotted local part", Session{Email: "a.reader@lib.org"}, "a.reader"},
		{"no at sign", Session{Email: "alice"}, "alice"},
		{"empty", Session{}, ""},
	}
	for _, tt := range tests {
		if got := tt.sess.DisplayName(); got != tt.want {
			t.Errorf("%s: DisplayName() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSession_Valid(t *testing.T) {
	var nilSess *Session
	if nilSess.Valid() {
		t.Error("nil session should not be valid")
	}
	if (&Session{Email: "x@y.z"}).Valid() {
		t.Error("session without token should not be valid")
	}
	if !(&Session{Token: "tok1"}).Valid() {
		t.Error("session with token should be valid")
	}
}

func TestSession_RoleHelpers(t *testing.T) {
	if !(&Session{Role: RoleOwner}).IsOwner() {
		t.Error("IsOwner() = false for Owner")
	}
	if (&Session{Role: RoleReader}).IsAdmin() {
		t.Error("IsAdmin() = true for Reader")
	}
	if !(&Session{Role: RoleLibraryAdmin}).IsAdmin() {
		t.Error("IsAdmin() = false for LibraryAdmin")
	}
}
