package model

import "time"

// LoanPeriod is the borrowing window granted on approval. The expected
// return date is the approval instant plus exactly this duration; the
// backend applies the same rule, so the two must not drift apart.
const LoanPeriod = 7 * 24 * time.Hour

// MaxActiveRequests is the per-reader quota of simultaneously active
// (Pending or Approve) issue requests.
const MaxActiveRequests = 4

// IssueRequest is one reader's request to borrow a book, as reported by
// the admin-facing issue-request listing.
type IssueRequest struct {
	ReqID              int           `json:"req_id"`
	BookID             string        `json:"book_id"` // ISBN
	BookName           string        `json:"book_name"`
	ReaderName         string        `json:"reader_name"`
	Status             RequestStatus `json:"request_type"`
	RequestDate        time.Time     `json:"request_date"`
	ApprovalDate       *time.Time    `json:"approval_date,omitempty"`
	ExpectedReturnDate *time.Time    `json:"expected_return_date,omitempty"`
	ReturnDate         *time.Time    `json:"return_date,omitempty"`
	ApproverEmail      string        `json:"issue_approver_email,omitempty"`
}

// DueDate returns the expected return date, deriving it from the
// approval date when the backend reported only the latter.
func (r *IssueRequest) DueDate() (time.Time, bool) {
	if r.ExpectedReturnDate != nil {
		return *r.ExpectedReturnDate, true
	}
	if r.ApprovalDate != nil {
		return r.ApprovalDate.Add(LoanPeriod), true
	}
	return time.Time{}, false
}

// IssueRecord is one row of a reader's issue registry (borrow history).
type IssueRecord struct {
	ISBN               string        `json:"isbn"`
	BookName           string        `json:"book_name"`
	Status             RequestStatus `json:"issue_status"`
	IssueDate          *time.Time    `json:"issue_date,omitempty"`
	ExpectedReturnDate *time.Time    `json:"expected_return_date,omitempty"`
	ReturnDate         *time.Time    `json:"return_date,omitempty"`
	ApproverEmail      string        `json:"issue_approver_email,omitempty"`
}

// Returned reports whether the borrowed copy has come back.
func (r *IssueRecord) Returned() bool {
	return r.ReturnDate != nil
}

// DaysLeft returns the whole days remaining until the expected return
// date, negative when overdue. ok is false when no due date is known.
func (r *IssueRecord) DaysLeft(now time.Time) (int, bool) {
	if r.ExpectedReturnDate == nil {
		return 0, false
	}
	return int(r.ExpectedReturnDate.Sub(now).Hours() / 24), true
}
