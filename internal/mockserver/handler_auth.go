package mockserver

import (
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/me/shelfctl/internal/store"
	"github.com/me/shelfctl/pkg/model"
)

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// handleListLibraries returns the registered libraries as a bare JSON
// array, the one list endpoint without an envelope.
func (s *Server) handleListLibraries(w http.ResponseWriter, r *http.Request) {
	libs, err := s.store.ListLibraries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list libraries")
		return
	}
	out := make([]map[string]any, 0, len(libs))
	for _, l := range libs {
		out = append(out, map[string]any{"id": l.ID, "name": l.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), in.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not look up user")
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := s.tokens.issue(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	s.logger.Info("user logged in", "email", user.Email, "role", user.Role)
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"name":  user.Name,
		"email": user.Email,
		"role":  string(user.Role),
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name          string `json:"name"`
		Email         string `json:"email"`
		Password      string `json:"password"`
		ContactNumber string `json:"contact_number"`
		LibraryID     int64  `json:"library_id"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Email == "" || in.Password == "" || in.LibraryID <= 0 {
		writeError(w, http.StatusBadRequest, "email, password and library_id are required")
		return
	}

	existing, err := s.store.GetUserByEmail(r.Context(), in.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not look up user")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not hash password")
		return
	}
	u := &store.User{
		Name:          in.Name,
		Email:         in.Email,
		PasswordHash:  string(hash),
		ContactNumber: in.ContactNumber,
		Role:          model.RoleReader,
		LibraryID:     in.LibraryID,
	}
	if err := s.store.CreateUser(r.Context(), u); err != nil {
		writeError(w, http.StatusInternalServerError, "could not create user")
		return
	}

	s.logger.Info("reader registered", "email", in.Email, "library_id", in.LibraryID)
	writeMessage(w, http.StatusCreated, "registration successful")
}

func (s *Server) handleOwnerRegistration(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name          string `json:"name"`
		Email         string `json:"email"`
		Password      string `json:"password"`
		ContactNumber string `json:"contact_number"`
		LibraryName   string `json:"library_name"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Email == "" || in.Password == "" || in.LibraryName == "" {
		writeError(w, http.StatusBadRequest, "email, password and library_name are required")
		return
	}

	existing, err := s.store.GetUserByEmail(r.Context(), in.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not look up user")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}

	libID, err := s.store.CreateLibrary(r.Context(), in.LibraryName)
	if err != nil {
		writeError(w, http.StatusConflict, "library name already taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not hash password")
		return
	}
	u := &store.User{
		Name:          in.Name,
		Email:         in.Email,
		PasswordHash:  string(hash),
		ContactNumber: in.ContactNumber,
		Role:          model.RoleOwner,
		LibraryID:     libID,
	}
	if err := s.store.CreateUser(r.Context(), u); err != nil {
		writeError(w, http.StatusInternalServerError, "could not create owner")
		return
	}

	s.logger.Info("library registered", "library", in.LibraryName, "owner", in.Email)
	writeMessage(w, http.StatusCreated, "library and owner registered")
}

// handleUserIssueInfo returns the caller's issue registry inside the
// {"success":true,"data":[...]} envelope. Rejected rows carry the literal
// string "Rejected" in their date columns, matching the backend quirk.
func (s *Server) handleUserIssueInfo(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	reqs, err := s.store.ListRequestsByReader(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list issue records")
		return
	}

	out := make([]map[string]any, 0, len(reqs))
	for _, req := range reqs {
		rec := map[string]any{
			"isbn":         req.ISBN,
			"book_name":    s.bookTitle(r, req.LibraryID, req.ISBN),
			"issue_status": statusLabel(req.Status),
		}
		if req.Status == model.StatusReject {
			rec["issue_date"] = "Rejected"
			rec["expected_return_date"] = "Rejected"
			rec["return_date"] = "Rejected"
		} else {
			rec["issue_date"] = timeField(req.ApprovalDate)
			rec["expected_return_date"] = timeField(req.ExpectedReturnDate)
			rec["return_date"] = timeField(req.ReturnDate)
		}
		if req.ApproverID != nil {
			if approver, err := s.store.GetUserByID(r.Context(), *req.ApproverID); err == nil && approver != nil {
				rec["issue_approver_email"] = approver.Email
			}
		}
		out = append(out, rec)
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": out})
}

// statusLabel renders a request status the way the backend does: approved
// requests are reported as "Issue" on the reader-facing registry.
func statusLabel(st model.RequestStatus) string {
	if st == model.StatusApprove {
		return "Issue"
	}
	return st.String()
}

func timeField(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func (s *Server) bookTitle(r *http.Request, libraryID int64, isbn string) string {
	b, err := s.store.GetBook(r.Context(), libraryID, isbn)
	if err != nil || b == nil {
		return ""
	}
	return b.Title
}
