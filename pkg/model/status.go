package model

// RequestStatus represents the lifecycle state of an issue request.
type RequestStatus string

const (
	StatusPending RequestStatus = "Pending"
	StatusApprove RequestStatus = "Approve"
	StatusReject  RequestStatus = "Reject"
)

// String returns the string representation of the status.
func (s RequestStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the request is in a final state.
// An approved or rejected request is never reopened; a retry is a new
// request.
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case StatusApprove, StatusReject:
		return true
	}
	return false
}

// IsActive returns true if the request counts toward the reader's quota.
func (s RequestStatus) IsActive() bool {
	return s == StatusPending || s == StatusApprove
}

// ValidRequestTransitions defines the allowed status transitions.
var ValidRequestTransitions = map[RequestStatus][]RequestStatus{
	StatusPending: {StatusApprove, StatusReject},
}

// CanTransitionTo returns true if moving from the current status to next is valid.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range ValidRequestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseRequestStatus folds the backend's status vocabulary variants
// ("approved", "pending", ...) onto the canonical enumeration.
func ParseRequestStatus(s string) (RequestStatus, bool) {
	switch s {
	case "Pending", "pending":
		return StatusPending, true
	case "Approve", "Approved", "approve", "approved", "Issue", "Issued":
		return StatusApprove, true
	case "Reject", "Rejected", "reject", "rejected":
		return StatusReject, true
	}
	return "", false
}
