// Package store is the persistence layer of the local development
// backend. The real LibMS backend owns the authoritative data; this store
// exists so the client can be exercised end-to-end without it.
package store

import (
	"context"
	"time"

	"github.com/me/shelfctl/pkg/model"
)

// User is a stored member row. Unlike model.User it carries the password
// hash and never leaves the server side.
type User struct {
	ID            int64
	Name          string
	Email         string
	PasswordHash  string
	ContactNumber string
	Role          model.Role
	LibraryID     int64
}

// Book is a stored catalog row, scoped to a library.
type Book struct {
	model.Book
	LibraryID int64
}

// Request is a stored issue-request row.
type Request struct {
	ReqID              int64
	ISBN               string
	ReaderID           int64
	LibraryID          int64
	Status             model.RequestStatus
	RequestDate        time.Time
	ApprovalDate       *time.Time
	ExpectedReturnDate *time.Time
	ReturnDate         *time.Time
	ApproverID         *int64
}

// Store defines the persistence operations the mock backend needs.
type Store interface {
	// Libraries
	CreateLibrary(ctx context.Context, name string) (int64, error)
	ListLibraries(ctx context.Context) ([]model.Library, error)

	// Users
	CreateUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context, libraryID int64) ([]User, error)
	SetUserRole(ctx context.Context, email string, role model.Role) error

	// Books
	GetBook(ctx context.Context, libraryID int64, isbn string) (*Book, error)
	ListBooks(ctx context.Context, libraryID int64) ([]Book, error)
	UpsertBook(ctx context.Context, b *Book) error
	AdjustCopies(ctx context.Context, libraryID int64, isbn string, totalDelta, availableDelta int) error
	UpdateBookDetails(ctx context.Context, libraryID int64, isbn string, fields map[string]string) error
	DeleteBook(ctx context.Context, libraryID int64, isbn string) error

	// Issue requests
	CreateRequest(ctx context.Context, r *Request) (int64, error)
	GetRequest(ctx context.Context, reqID int64) (*Request, error)
	ListRequests(ctx context.Context, libraryID int64) ([]Request, error)
	ListRequestsByReader(ctx context.Context, readerID int64) ([]Request, error)
	CountActiveRequests(ctx context.Context, readerID int64) (int, error)
	HasActiveRequest(ctx context.Context, readerID int64, isbn string) (bool, error)
	UpdateRequest(ctx context.Context, r *Request) error

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
