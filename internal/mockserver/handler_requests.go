package mockserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/me/shelfctl/internal/store"
	"github.com/me/shelfctl/pkg/model"
)

// handleRaiseRequest creates a pending issue request for the caller. The
// quota and duplicate checks here are authoritative; the client only
// pre-screens.
func (s *Server) handleRaiseRequest(w http.ResponseWriter, r *http.Request) {
	reader := s.requireRole(w, r, model.RoleReader)
	if reader == nil {
		return
	}

	var in struct {
		BookID string `json:"bookID"`
	}
	if err := decodeBody(r, &in); err != nil || in.BookID == "" {
		writeError(w, http.StatusBadRequest, "bookID is required")
		return
	}

	book, err := s.store.GetBook(r.Context(), reader.LibraryID, in.BookID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not look up book")
		return
	}
	if book == nil {
		writeError(w, http.StatusNotFound, "book not found in your library")
		return
	}
	if book.AvailableCopies <= 0 {
		writeError(w, http.StatusConflict, "no copies of this book are available")
		return
	}

	active, err := s.store.CountActiveRequests(r.Context(), reader.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not count requests")
		return
	}
	if active >= model.MaxActiveRequests {
		writeError(w, http.StatusConflict, "active request limit reached")
		return
	}

	dup, err := s.store.HasActiveRequest(r.Context(), reader.ID, in.BookID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not check requests")
		return
	}
	if dup {
		writeError(w, http.StatusConflict, "you already have an open request for this book")
		return
	}

	req := &store.Request{
		ISBN:        in.BookID,
		ReaderID:    reader.ID,
		LibraryID:   reader.LibraryID,
		Status:      model.StatusPending,
		RequestDate: s.now(),
	}
	if _, err := s.store.CreateRequest(r.Context(), req); err != nil {
		writeError(w, http.StatusInternalServerError, "could not create request")
		return
	}

	s.logger.Info("issue request raised", "reader", reader.Email, "isbn", in.BookID)
	writeMessage(w, http.StatusCreated, "issue request raised")
}

// handleListRequests returns the library's requests inside the
// {"requests":[...]} envelope (admin view).
func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	admin := s.requireRole(w, r, model.RoleLibraryAdmin)
	if admin == nil {
		return
	}

	reqs, err := s.store.ListRequests(r.Context(), admin.LibraryID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list requests")
		return
	}

	out := make([]map[string]any, 0, len(reqs))
	for _, req := range reqs {
		row := map[string]any{
			"req_id":       req.ReqID,
			"book_id":      req.ISBN,
			"book_name":    s.bookTitle(r, req.LibraryID, req.ISBN),
			"request_type": req.Status.String(),
			"request_date": req.RequestDate.UTC().Format(time.RFC3339),
		}
		if reader, err := s.store.GetUserByID(r.Context(), req.ReaderID); err == nil && reader != nil {
			row["reader_name"] = reader.Name
		}
		if req.Status == model.StatusReject {
			row["approval_date"] = "Rejected"
			row["expected_return_date"] = "Rejected"
		} else {
			row["approval_date"] = timeField(req.ApprovalDate)
			row["expected_return_date"] = timeField(req.ExpectedReturnDate)
			row["return_date"] = timeField(req.ReturnDate)
		}
		if req.ApproverID != nil {
			if approver, err := s.store.GetUserByID(r.Context(), *req.ApproverID); err == nil && approver != nil {
				row["issue_approver_email"] = approver.Email
			}
		}
		out = append(out, row)
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": out})
}

// handleUpdateRequest records an admin decision. Only pending requests can
// be decided, and a decision never changes once made.
func (s *Server) handleUpdateRequest(w http.ResponseWriter, r *http.Request) {
	admin := s.requireRole(w, r, model.RoleLibraryAdmin)
	if admin == nil {
		return
	}

	reqID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || reqID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var in struct {
		RequestType        string `json:"request_type"`
		ExpectedReturnDate string `json:"expected_return_date"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	target, ok := model.ParseRequestStatus(in.RequestType)
	if !ok || target == model.StatusPending {
		writeError(w, http.StatusBadRequest, "request_type must be Approve or Reject")
		return
	}

	req, err := s.store.GetRequest(r.Context(), reqID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not look up request")
		return
	}
	if req == nil || req.LibraryID != admin.LibraryID {
		writeError(w, http.StatusNotFound, "request not found")
		return
	}
	if !req.Status.CanTransitionTo(target) {
		writeError(w, http.StatusConflict, "request has already been decided")
		return
	}

	switch target {
	case model.StatusApprove:
		book, err := s.store.GetBook(r.Context(), req.LibraryID, req.ISBN)
		if err != nil || book == nil {
			writeError(w, http.StatusConflict, "book no longer in catalog")
			return
		}
		if book.AvailableCopies <= 0 {
			writeError(w, http.StatusConflict, "no copies available to issue")
			return
		}

		now := s.now()
		due := now.Add(model.LoanPeriod)
		if in.ExpectedReturnDate != "" {
			parsed, err := time.Parse(time.RFC3339, in.ExpectedReturnDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, "expected_return_date must be RFC 3339")
				return
			}
			due = parsed
		}
		req.Status = model.StatusApprove
		req.ApprovalDate = &now
		req.ExpectedReturnDate = &due
		req.ApproverID = &admin.ID

		if err := s.store.AdjustCopies(r.Context(), req.LibraryID, req.ISBN, 0, -1); err != nil {
			writeError(w, http.StatusConflict, "no copies available to issue")
			return
		}
	case model.StatusReject:
		req.Status = model.StatusReject
		req.ApproverID = &admin.ID
	}

	if err := s.store.UpdateRequest(r.Context(), req); err != nil {
		writeError(w, http.StatusInternalServerError, "could not update request")
		return
	}

	s.logger.Info("request decided", "req_id", reqID, "decision", target, "admin", admin.Email)
	writeMessage(w, http.StatusOK, "Request updated")
}
