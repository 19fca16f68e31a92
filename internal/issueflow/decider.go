package issueflow

import (
	"context"
	"fmt"
	"time"

	"github.com/me/shelfctl/pkg/model"
)

// Decider is the admin-side counterpart of the tracker: it records
// approve/reject decisions on pending requests. It invents no approval
// timestamp of its own; the authoritative one comes from the next listing.
type Decider struct {
	backend Backend
	now     func() time.Time
}

// NewDecider creates a decider using the wall clock.
func NewDecider(backend Backend) *Decider {
	return &Decider{backend: backend, now: time.Now}
}

// Decide records an outcome for a pending request. Approval sends an
// expected return date of exactly now plus the loan period, preserving
// the time of day across month and year boundaries; rejection sends no
// return date. The due date returned is the one that was sent, so the
// caller displays the same instant the backend stored.
func (d *Decider) Decide(ctx context.Context, reqID int, outcome model.RequestStatus) (string, *time.Time, error) {
	switch outcome {
	case model.StatusApprove:
		due := d.now().Add(model.LoanPeriod)
		msg, err := d.backend.UpdateIssueRequest(ctx, reqID, model.StatusApprove, &due)
		if err != nil {
			return "", nil, err
		}
		return msg, &due, nil
	case model.StatusReject:
		msg, err := d.backend.UpdateIssueRequest(ctx, reqID, model.StatusReject, nil)
		if err != nil {
			return "", nil, err
		}
		return msg, nil, nil
	default:
		return "", nil, fmt.Errorf("invalid outcome %q: must be %s or %s", outcome, model.StatusApprove, model.StatusReject)
	}
}
