package libms

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/me/shelfctl/pkg/model"
)

// ListIssueRequests fetches the issue requests of the caller's library
// (admin view).
func (c *Client) ListIssueRequests(ctx context.Context) ([]model.IssueRequest, error) {
	items, err := c.doList(ctx, "list-issue-requests", "/issueRequests", true, "requests")
	if err != nil {
		return nil, err
	}
	reqs := make([]model.IssueRequest, 0, len(items))
	for _, m := range items {
		reqs = append(reqs, model.RequestFromMap(m))
	}
	return reqs, nil
}

// updateRequestPayload is the decision payload. ExpectedReturnDate is set
// only on approval; a rejection sends no return date.
type updateRequestPayload struct {
	RequestType        string `json:"request_type"`
	ExpectedReturnDate string `json:"expected_return_date,omitempty"`
}

// UpdateIssueRequest records an admin decision on a pending request.
func (c *Client) UpdateIssueRequest(ctx context.Context, reqID int, status model.RequestStatus, expectedReturn *time.Time) (string, error) {
	const op = "update-issue-request"
	if reqID <= 0 {
		return "", &ValidationError{Field: "request id", Message: "required"}
	}
	payload := updateRequestPayload{RequestType: status.String()}
	if expectedReturn != nil {
		payload.ExpectedReturnDate = expectedReturn.UTC().Format(time.RFC3339)
	}
	return c.doMessage(ctx, op, http.MethodPut, "/issueRequests/"+strconv.Itoa(reqID), payload, true)
}

// SubmitIssueRequest raises an issue request for the book with the given
// ISBN on behalf of the logged-in reader.
func (c *Client) SubmitIssueRequest(ctx context.Context, bookID string) (string, error) {
	const op = "submit-issue-request"
	if bookID == "" {
		return "", &ValidationError{Field: "bookID", Message: "required"}
	}
	return c.doMessage(ctx, op, http.MethodPost, "/requestEvents", map[string]string{"bookID": bookID}, true)
}

// UserIssueInfo fetches the issue registry of the logged-in reader: every
// request they have raised with its current status and dates.
func (c *Client) UserIssueInfo(ctx context.Context) ([]model.IssueRecord, error) {
	items, err := c.doList(ctx, "user-issue-info", "/auth/userIssueInfo", true)
	if err != nil {
		return nil, err
	}
	recs := make([]model.IssueRecord, 0, len(items))
	for _, m := range items {
		recs = append(recs, model.RecordFromMap(m))
	}
	return recs, nil
}
