package libms

import (
	"context"
	"net/http"

	"github.com/me/shelfctl/pkg/model"
)

// ListBooks fetches the catalog of the caller's library.
func (c *Client) ListBooks(ctx context.Context) ([]model.Book, error) {
	items, err := c.doList(ctx, "list-books", "/books", true, "books")
	if err != nil {
		return nil, err
	}
	books := make([]model.Book, 0, len(items))
	for _, m := range items {
		books = append(books, model.BookFromMap(m))
	}
	return books, nil
}

// AddBookInput is the add-or-increment payload. With IncrementOnly set the
// backend only bumps the copy count of an existing ISBN.
type AddBookInput struct {
	ISBN          string `json:"isbn"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Publisher     string `json:"publisher"`
	Language      string `json:"language"`
	Version       string `json:"version"`
	Copies        int    `json:"copies"`
	IncrementOnly bool   `json:"increment_only"`
}

// AddBook creates a catalog entry or increments copies of an existing one.
func (c *Client) AddBook(ctx context.Context, in AddBookInput) (string, error) {
	const op = "add-book"
	if in.ISBN == "" {
		return "", &ValidationError{Field: "isbn", Message: "required"}
	}
	if in.Copies <= 0 {
		return "", &ValidationError{Field: "copies", Message: "must be positive"}
	}
	if !in.IncrementOnly && in.Title == "" {
		return "", &ValidationError{Field: "title", Message: "required for a new book"}
	}
	return c.doMessage(ctx, op, http.MethodPost, "/books", in, true)
}

// RemoveBookCopies removes copies of a book; the backend deletes the entry
// when the count reaches zero.
func (c *Client) RemoveBookCopies(ctx context.Context, isbn string, copies int) (string, error) {
	const op = "remove-book"
	if isbn == "" {
		return "", &ValidationError{Field: "isbn", Message: "required"}
	}
	if copies <= 0 {
		return "", &ValidationError{Field: "copies", Message: "must be positive"}
	}
	return c.doMessage(ctx, op, http.MethodPost, "/books/remove", map[string]any{
		"isbn":   isbn,
		"copies": copies,
	}, true)
}

// UpdateBookInput carries the partial fields of a book update; empty
// fields are left out of the request body.
type UpdateBookInput struct {
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	Language  string `json:"language,omitempty"`
	Version   string `json:"version,omitempty"`
}

// UpdateBook updates the details of an existing book.
func (c *Client) UpdateBook(ctx context.Context, isbn string, in UpdateBookInput) (string, error) {
	const op = "update-book"
	if isbn == "" {
		return "", &ValidationError{Field: "isbn", Message: "required"}
	}
	if in == (UpdateBookInput{}) {
		return "", &ValidationError{Message: "nothing to update"}
	}
	return c.doMessage(ctx, op, http.MethodPut, "/books/"+isbn, in, true)
}
