package mockserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/me/shelfctl/internal/store"
	"github.com/me/shelfctl/pkg/model"
)

// handleListBooks returns the catalog of the caller's library inside the
// {"books":[...]} envelope, with the capitalized field names this endpoint
// is known for.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	books, err := s.store.ListBooks(r.Context(), user.LibraryID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list books")
		return
	}

	out := make([]map[string]any, 0, len(books))
	for _, b := range books {
		out = append(out, map[string]any{
			"ISBN":            b.ISBN,
			"Title":           b.Title,
			"Author":          b.Author,
			"Publisher":       b.Publisher,
			"Language":        b.Language,
			"Version":         b.Version,
			"TotalCopies":     b.TotalCopies,
			"AvailableCopies": b.AvailableCopies,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"books": out})
}

func (s *Server) handleAddBook(w http.ResponseWriter, r *http.Request) {
	user := s.requireRole(w, r, model.RoleLibraryAdmin)
	if user == nil {
		return
	}

	var in struct {
		ISBN          string `json:"isbn"`
		Title         string `json:"title"`
		Author        string `json:"author"`
		Publisher     string `json:"publisher"`
		Language      string `json:"language"`
		Version       string `json:"version"`
		Copies        int    `json:"copies"`
		IncrementOnly bool   `json:"increment_only"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.ISBN == "" || in.Copies <= 0 {
		writeError(w, http.StatusBadRequest, "isbn and a positive copy count are required")
		return
	}

	existing, err := s.store.GetBook(r.Context(), user.LibraryID, in.ISBN)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not look up book")
		return
	}

	if in.IncrementOnly {
		if existing == nil {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		if err := s.store.AdjustCopies(r.Context(), user.LibraryID, in.ISBN, in.Copies, in.Copies); err != nil {
			writeError(w, http.StatusInternalServerError, "could not add copies")
			return
		}
		writeMessage(w, http.StatusOK, "copies added")
		return
	}

	if existing == nil && in.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required for a new book")
		return
	}
	b := &store.Book{
		Book: model.Book{
			ISBN:            in.ISBN,
			Title:           in.Title,
			Author:          in.Author,
			Publisher:       in.Publisher,
			Language:        in.Language,
			Version:         in.Version,
			TotalCopies:     in.Copies,
			AvailableCopies: in.Copies,
		},
		LibraryID: user.LibraryID,
	}
	if err := s.store.UpsertBook(r.Context(), b); err != nil {
		writeError(w, http.StatusInternalServerError, "could not add book")
		return
	}

	s.logger.Info("book added", "isbn", in.ISBN, "copies", in.Copies, "library_id", user.LibraryID)
	writeMessage(w, http.StatusCreated, "book added")
}

func (s *Server) handleRemoveBook(w http.ResponseWriter, r *http.Request) {
	user := s.requireRole(w, r, model.RoleLibraryAdmin)
	if user == nil {
		return
	}

	var in struct {
		ISBN   string `json:"isbn"`
		Copies int    `json:"copies"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.ISBN == "" || in.Copies <= 0 {
		writeError(w, http.StatusBadRequest, "isbn and a positive copy count are required")
		return
	}

	book, err := s.store.GetBook(r.Context(), user.LibraryID, in.ISBN)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not look up book")
		return
	}
	if book == nil {
		writeError(w, http.StatusNotFound, "book not found")
		return
	}
	// Issued copies cannot be removed.
	if in.Copies > book.AvailableCopies {
		writeError(w, http.StatusBadRequest, "cannot remove more copies than are available")
		return
	}

	if in.Copies == book.TotalCopies {
		if err := s.store.DeleteBook(r.Context(), user.LibraryID, in.ISBN); err != nil {
			writeError(w, http.StatusInternalServerError, "could not remove book")
			return
		}
		writeMessage(w, http.StatusOK, "book removed from catalog")
		return
	}

	if err := s.store.AdjustCopies(r.Context(), user.LibraryID, in.ISBN, -in.Copies, -in.Copies); err != nil {
		writeError(w, http.StatusInternalServerError, "could not remove copies")
		return
	}
	writeMessage(w, http.StatusOK, "copies removed")
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	user := s.requireRole(w, r, model.RoleLibraryAdmin)
	if user == nil {
		return
	}
	isbn := chi.URLParam(r, "isbn")

	var in struct {
		Title     string `json:"title"`
		Author    string `json:"author"`
		Publisher string `json:"publisher"`
		Language  string `json:"language"`
		Version   string `json:"version"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := map[string]string{}
	if in.Title != "" {
		fields["title"] = in.Title
	}
	if in.Author != "" {
		fields["author"] = in.Author
	}
	if in.Publisher != "" {
		fields["publisher"] = in.Publisher
	}
	if in.Language != "" {
		fields["language"] = in.Language
	}
	if in.Version != "" {
		fields["version"] = in.Version
	}
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	book, err := s.store.GetBook(r.Context(), user.LibraryID, isbn)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not look up book")
		return
	}
	if book == nil {
		writeError(w, http.StatusNotFound, "book not found")
		return
	}

	if err := s.store.UpdateBookDetails(r.Context(), user.LibraryID, isbn, fields); err != nil {
		writeError(w, http.StatusInternalServerError, "could not update book")
		return
	}
	writeMessage(w, http.StatusOK, "book updated")
}
