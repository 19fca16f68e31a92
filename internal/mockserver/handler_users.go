package mockserver

import (
	"net/http"

	"github.com/me/shelfctl/pkg/model"
)

// handleListUsers returns the members of the owner's library inside the
// {"users":[...]} envelope.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	user := s.requireRole(w, r, model.RoleOwner)
	if user == nil {
		return
	}

	users, err := s.store.ListUsers(r.Context(), user.LibraryID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list users")
		return
	}

	out := make([]map[string]any, 0, len(users))
	for _, u := range users {
		out = append(out, map[string]any{
			"id":             u.ID,
			"name":           u.Name,
			"email":          u.Email,
			"role":           string(u.Role),
			"contact_number": u.ContactNumber,
			"library_id":     u.LibraryID,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}

func (s *Server) handleAssignAdmin(w http.ResponseWriter, r *http.Request) {
	owner := s.requireRole(w, r, model.RoleOwner)
	if owner == nil {
		return
	}

	var in struct {
		Email string `json:"email"`
	}
	if err := decodeBody(r, &in); err != nil || in.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	target, err := s.store.GetUserByEmail(r.Context(), in.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not look up user")
		return
	}
	if target == nil || target.LibraryID != owner.LibraryID {
		writeError(w, http.StatusNotFound, "no such member in your library")
		return
	}
	if target.Role != model.RoleReader {
		writeError(w, http.StatusBadRequest, "only readers can be promoted")
		return
	}

	if err := s.store.SetUserRole(r.Context(), in.Email, model.RoleLibraryAdmin); err != nil {
		writeError(w, http.StatusInternalServerError, "could not update role")
		return
	}
	s.logger.Info("admin assigned", "email", in.Email)
	writeMessage(w, http.StatusOK, "promoted "+in.Email+" to admin")
}

func (s *Server) handleRevokeAdmin(w http.ResponseWriter, r *http.Request) {
	owner := s.requireRole(w, r, model.RoleOwner)
	if owner == nil {
		return
	}

	var in struct {
		Email string `json:"email"`
	}
	if err := decodeBody(r, &in); err != nil || in.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	target, err := s.store.GetUserByEmail(r.Context(), in.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not look up user")
		return
	}
	if target == nil || target.LibraryID != owner.LibraryID {
		writeError(w, http.StatusNotFound, "no such member in your library")
		return
	}
	if target.Role != model.RoleLibraryAdmin {
		writeError(w, http.StatusBadRequest, "user is not an admin")
		return
	}

	if err := s.store.SetUserRole(r.Context(), in.Email, model.RoleReader); err != nil {
		writeError(w, http.StatusInternalServerError, "could not update role")
		return
	}
	s.logger.Info("admin revoked", "email", in.Email)
	writeMessage(w, http.StatusOK, "revoked admin rights of "+in.Email)
}
