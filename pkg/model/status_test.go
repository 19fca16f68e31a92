package model

import "testing"

func TestRequestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   RequestStatus
		terminal bool
	}{
		{StatusPending, false},
		{StatusApprove, true},
		{StatusReject, true},
	}
	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.terminal {
			t.Errorf("RequestStatus(%q).IsTerminal() = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestRequestStatus_IsActive(t *testing.T) {
	tests := []struct {
		status RequestStatus
		active bool
	}{
		{StatusPending, true},
		{StatusApprove, true},
		{StatusReject, false},
	}
	for _, tt := range tests {
		if got := tt.status.IsActive(); got != tt.active {
			t.Errorf("RequestStatus(%q).IsActive() = %v, want %v", tt.status, got, tt.active)
		}
	}
}

func TestRequestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from  RequestStatus
		to    RequestStatus
		valid bool
	}{
		// Valid transitions
		{StatusPending, StatusApprove, true},
		{StatusPending, StatusReject, true},

		// Terminal states never reopen
		{StatusApprove, StatusPending, false},
		{StatusApprove, StatusReject, false},
		{StatusReject, StatusPending, false},
		{StatusReject, StatusApprove, false},
		{StatusPending, StatusPending, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.valid {
			t.Errorf("RequestStatus(%q).CanTransitionTo(%q) = %v, want %v", tt.from, tt.to, got, tt.valid)
		}
	}
}

func TestParseRequestStatus(t *testing.T) {
	tests := []struct {
		in   string
		want RequestStatus
		ok   bool
	}{
		{"Pending", StatusPending, true},
		{"pending", StatusPending, true},
		{"Approve", StatusApprove, true},
		{"approved", StatusApprove, true},
		{"Issue", StatusApprove, true},
		{"Reject", StatusReject, true},
		{"Rejected", StatusReject, true},
		{"", "", false},
		{"banana", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRequestStatus(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseRequestStatus(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"Owner", RoleOwner, true},
		{"owner", RoleOwner, true},
		{"LibraryAdmin", RoleLibraryAdmin, true},
		{"admin", RoleLibraryAdmin, true},
		{"Reader", RoleReader, true},
		{" Reader ", RoleReader, true},
		{"", "", false},
		{"superuser", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
