// Package issueflow reconciles the backend's view of a reader's issue
// requests into a per-book status map and guards the submission quota.
// The map is a cache hint: it is replaced wholesale on every refresh and
// the backend's answer always wins.
package issueflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/me/shelfctl/pkg/model"
)

// Backend is the slice of the API client the view-model needs.
// *libms.Client satisfies it.
type Backend interface {
	UserIssueInfo(ctx context.Context) ([]model.IssueRecord, error)
	SubmitIssueRequest(ctx context.Context, bookID string) (string, error)
	UpdateIssueRequest(ctx context.Context, reqID int, status model.RequestStatus, expectedReturn *time.Time) (string, error)
}

// ErrQuotaExceeded is returned when the reader already has the maximum
// number of active requests. No network call is made.
var ErrQuotaExceeded = errors.New("active request quota reached")

// ErrDuplicateRequest is returned when the book already has an active
// request from this reader. No network call is made.
var ErrDuplicateRequest = errors.New("book already has an active request")

// Tracker tracks which books the logged-in reader has active requests
// for. It owns its map exclusively; concurrent refreshes and submissions
// never interleave partial state.
type Tracker struct {
	backend Backend

	mu     sync.Mutex
	active map[string]model.RequestStatus // book ISBN -> latest active status
}

// NewTracker creates a tracker with an empty map. Call Refresh before
// trusting CanSubmit for display; Submit re-checks on its own.
func NewTracker(backend Backend) *Tracker {
	return &Tracker{
		backend: backend,
		active:  make(map[string]model.RequestStatus),
	}
}

// Refresh rebuilds the per-book map from the backend's issue registry.
// The replacement is atomic: readers see either the old map or the new
// one, never a mix. A record whose copy has been returned no longer
// counts as active, whatever its status string says.
func (t *Tracker) Refresh(ctx context.Context) error {
	records, err := t.backend.UserIssueInfo(ctx)
	if err != nil {
		return fmt.Errorf("refresh issue info: %w", err)
	}

	next := make(map[string]model.RequestStatus, len(records))
	for _, rec := range records {
		if !rec.Status.IsActive() || rec.Returned() {
			continue
		}
		// Approve supersedes Pending when both appear for one book.
		if prev, ok := next[rec.ISBN]; ok && prev == model.StatusApprove {
			continue
		}
		next[rec.ISBN] = rec.Status
	}

	t.mu.Lock()
	t.active = next
	t.mu.Unlock()
	return nil
}

// Status returns the reader's active request status for a book.
func (t *Tracker) Status(bookID string) (model.RequestStatus, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	status, ok := t.active[bookID]
	return status, ok
}

// ActiveCount returns how many books currently have an active request.
func (t *Tracker) ActiveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}

// CanSubmit reports whether a request for the book would be accepted
// client-side: no active request for that book yet, and fewer than
// MaxActiveRequests active overall.
func (t *Tracker) CanSubmit(bookID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.canSubmitLocked(bookID) == nil
}

func (t *Tracker) canSubmitLocked(bookID string) error {
	if _, ok := t.active[bookID]; ok {
		return ErrDuplicateRequest
	}
	if len(t.active) >= model.MaxActiveRequests {
		return ErrQuotaExceeded
	}
	return nil
}

// Submit raises an issue request for the book. The quota is re-checked
// under the lock at call time, and the book is reserved in the map before
// the request is sent so that two rapid submissions cannot both pass the
// check. On failure the reservation is rolled back; on success the book
// stays optimistically Pending until the next Refresh.
func (t *Tracker) Submit(ctx context.Context, bookID string) (string, error) {
	if bookID == "" {
		return "", errors.New("book id required")
	}

	t.mu.Lock()
	if err := t.canSubmitLocked(bookID); err != nil {
		t.mu.Unlock()
		return "", err
	}
	t.active[bookID] = model.StatusPending
	t.mu.Unlock()

	msg, err := t.backend.SubmitIssueRequest(ctx, bookID)
	if err != nil {
		t.mu.Lock()
		// Roll back only if no refresh replaced the map meanwhile.
		if status, ok := t.active[bookID]; ok && status == model.StatusPending {
			delete(t.active, bookID)
		}
		t.mu.Unlock()
		return "", err
	}
	return msg, nil
}
