package issueflow

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/me/shelfctl/pkg/model"
)

// fakeBackend records calls and serves canned issue registries.
type fakeBackend struct {
	records   []model.IssueRecord
	infoErr   error
	submitErr error

	submitted []string
	updates   []updateCall
}

type updateCall struct {
	reqID   int
	status  model.RequestStatus
	dueDate *time.Time
}

func (f *fakeBackend) UserIssueInfo(ctx context.Context) ([]model.IssueRecord, error) {
	return f.records, f.infoErr
}

func (f *fakeBackend) SubmitIssueRequest(ctx context.Context, bookID string) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submitted = append(f.submitted, bookID)
	return "Issue request submitted", nil
}

func (f *fakeBackend) UpdateIssueRequest(ctx context.Context, reqID int, status model.RequestStatus, due *time.Time) (string, error) {
	f.updates = append(f.updates, updateCall{reqID, status, due})
	return "Request updated", nil
}

func activeRecords(n int) []model.IssueRecord {
	recs := make([]model.IssueRecord, n)
	for i := range recs {
		recs[i] = model.IssueRecord{ISBN: fmt.Sprintf("978-%d", i), Status: model.StatusPending}
	}
	return recs
}

func TestCanSubmit_QuotaBoundary(t *testing.T) {
	ctx := context.Background()

	// Four active requests: the fifth is refused for any new book.
	full := NewTracker(&fakeBackend{records: activeRecords(4)})
	if err := full.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if full.CanSubmit("978-new") {
		t.Error("CanSubmit() = true with 4 active requests")
	}

	// Three active requests: a fresh book is fine.
	below := NewTracker(&fakeBackend{records: activeRecords(3)})
	if err := below.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if !below.CanSubmit("978-new") {
		t.Error("CanSubmit() = false with 3 active requests")
	}
}

func TestSubmit_MarksPendingAndBlocksDuplicate(t *testing.T) {
	fb := &fakeBackend{}
	tr := NewTracker(fb)
	ctx := context.Background()

	msg, err := tr.Submit(ctx, "978-1")
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if msg != "Issue request submitted" {
		t.Errorf("message = %q", msg)
	}
	if status, ok := tr.Status("978-1"); !ok || status != model.StatusPending {
		t.Errorf("Status(978-1) = (%v, %v), want optimistic Pending", status, ok)
	}

	// One active request, well below quota, but the same book is blocked.
	if tr.CanSubmit("978-1") {
		t.Error("CanSubmit() = true for a book with an active request")
	}
	if _, err := tr.Submit(ctx, "978-1"); !errors.Is(err, ErrDuplicateRequest) {
		t.Errorf("second Submit error = %v, want ErrDuplicateRequest", err)
	}
	if len(fb.submitted) != 1 {
		t.Errorf("backend saw %d submissions, want 1", len(fb.submitted))
	}
}

func TestSubmit_QuotaFailsFastWithoutNetwork(t *testing.T) {
	fb := &fakeBackend{records: activeRecords(4)}
	tr := NewTracker(fb)
	if err := tr.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	_, err := tr.Submit(context.Background(), "978-new")
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("Submit() error = %v, want ErrQuotaExceeded", err)
	}
	if len(fb.submitted) != 0 {
		t.Error("quota failure still reached the backend")
	}
}

func TestSubmit_RollsBackOptimisticMarkOnFailure(t *testing.T) {
	fb := &fakeBackend{submitErr: errors.New("boom")}
	tr := NewTracker(fb)

	if _, err := tr.Submit(context.Background(), "978-1"); err == nil {
		t.Fatal("Submit() succeeded, want error")
	}
	if _, ok := tr.Status("978-1"); ok {
		t.Error("failed submission left an optimistic Pending mark")
	}
	if !tr.CanSubmit("978-1") {
		t.Error("CanSubmit() = false after rollback")
	}
}

func TestRefresh_ReplacesMapAtomically(t *testing.T) {
	fb := &fakeBackend{records: []model.IssueRecord{
		{ISBN: "978-1", Status: model.StatusPending},
		{ISBN: "978-2", Status: model.StatusApprove},
	}}
	tr := NewTracker(fb)
	ctx := context.Background()
	if err := tr.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if tr.ActiveCount() != 2 {
		t.Errorf("ActiveCount() = %d, want 2", tr.ActiveCount())
	}

	// The next refresh drops a book entirely; no stale entry survives.
	fb.records = []model.IssueRecord{{ISBN: "978-2", Status: model.StatusApprove}}
	if err := tr.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.Status("978-1"); ok {
		t.Error("stale entry survived refresh")
	}
}

func TestRefresh_IgnoresInactiveRecords(t *testing.T) {
	returned := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	fb := &fakeBackend{records: []model.IssueRecord{
		{ISBN: "978-1", Status: model.StatusReject},
		{ISBN: "978-2", Status: model.StatusApprove, ReturnDate: &returned},
		{ISBN: "978-3", Status: model.StatusApprove},
	}}
	tr := NewTracker(fb)
	if err := tr.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	if tr.ActiveCount() != 1 {
		t.Errorf("ActiveCount() = %d, want 1 (rejected and returned excluded)", tr.ActiveCount())
	}
	if _, ok := tr.Status("978-3"); !ok {
		t.Error("outstanding approved request missing from map")
	}
}

func TestRefresh_ErrorLeavesMapUntouched(t *testing.T) {
	fb := &fakeBackend{records: activeRecords(2)}
	tr := NewTracker(fb)
	ctx := context.Background()
	if err := tr.Refresh(ctx); err != nil {
		t.Fatal(err)
	}

	fb.infoErr = errors.New("network down")
	if err := tr.Refresh(ctx); err == nil {
		t.Fatal("Refresh() succeeded, want error")
	}
	if tr.ActiveCount() != 2 {
		t.Errorf("failed refresh mutated the map: ActiveCount() = %d", tr.ActiveCount())
	}
}

func TestDecide_ApproveSendsSevenDayDueDate(t *testing.T) {
	fb := &fakeBackend{}
	d := NewDecider(fb)
	// Approving on Jan 30 must land on Feb 6, same time of day.
	approvedAt := time.Date(2026, 1, 30, 14, 45, 30, 0, time.UTC)
	d.now = func() time.Time { return approvedAt }

	msg, due, err := d.Decide(context.Background(), 42, model.StatusApprove)
	if err != nil {
		t.Fatalf("Decide() error: %v", err)
	}
	if msg != "Request updated" {
		t.Errorf("message = %q", msg)
	}

	if len(fb.updates) != 1 {
		t.Fatalf("backend saw %d updates, want 1", len(fb.updates))
	}
	up := fb.updates[0]
	if up.reqID != 42 || up.status != model.StatusApprove {
		t.Errorf("unexpected update: %+v", up)
	}
	want := time.Date(2026, 2, 6, 14, 45, 30, 0, time.UTC)
	if up.dueDate == nil || !up.dueDate.Equal(want) {
		t.Errorf("due date = %v, want %v", up.dueDate, want)
	}
	// The caller sees the exact due date that went over the wire.
	if due == nil || !due.Equal(*up.dueDate) {
		t.Errorf("returned due date = %v, sent %v", due, up.dueDate)
	}
}

func TestDecide_RejectSendsNoDueDate(t *testing.T) {
	fb := &fakeBackend{}
	d := NewDecider(fb)

	_, due, err := d.Decide(context.Background(), 42, model.StatusReject)
	if err != nil {
		t.Fatalf("Decide() error: %v", err)
	}
	if due != nil {
		t.Errorf("rejection returned a due date: %v", due)
	}
	up := fb.updates[0]
	if up.status != model.StatusReject || up.dueDate != nil {
		t.Errorf("unexpected update: %+v", up)
	}
}

func TestDecide_RejectsInvalidOutcome(t *testing.T) {
	fb := &fakeBackend{}
	d := NewDecider(fb)

	if _, _, err := d.Decide(context.Background(), 42, model.StatusPending); err == nil {
		t.Error("Decide(Pending) succeeded, want error")
	}
	if len(fb.updates) != 0 {
		t.Error("invalid outcome reached the backend")
	}
}
