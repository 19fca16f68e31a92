package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/me/shelfctl/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// --- Libraries ---

func (s *SQLiteStore) CreateLibrary(ctx context.Context, name string) (int64, error) {
	s.logger.Debug("sql", "op", "insert", "table", "libraries", "name", name)
	res, err := s.db.ExecContext(ctx, `INSERT INTO libraries (name) VALUES (?)`, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) ListLibraries(ctx context.Context) ([]model.Library, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM libraries ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var libs []model.Library
	for rows.Next() {
		var lib model.Library
		if err := rows.Scan(&lib.ID, &lib.Name); err != nil {
			return nil, err
		}
		libs = append(libs, lib)
	}
	return libs, rows.Err()
}

// --- Users ---

func (s *SQLiteStore) CreateUser(ctx context.Context, u *User) error {
	s.logger.Debug("sql", "op", "insert", "table", "users", "email", u.Email)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, contact_number, role, library_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash, u.ContactNumber, string(u.Role), u.LibraryID,
	)
	if err != nil {
		return err
	}
	u.ID, err = res.LastInsertId()
	return err
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, contact_number, role, library_id
		 FROM users WHERE email = ?`, email))
}

func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, contact_number, role, library_id
		 FROM users WHERE id = ?`, id))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*User, error) {
	var u User
	var role string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.ContactNumber, &role, &u.LibraryID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	return &u, nil
}

func (s *SQLiteStore) ListUsers(ctx context.Context, libraryID int64) ([]User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, password_hash, contact_number, role, library_id
		 FROM users WHERE library_id = ? ORDER BY id`, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		var role string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.ContactNumber, &role, &u.LibraryID); err != nil {
			return nil, err
		}
		u.Role = model.Role(role)
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLiteStore) SetUserRole(ctx context.Context, email string, role model.Role) error {
	s.logger.Debug("sql", "op", "update", "table", "users", "email", email, "role", role)
	res, err := s.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE email = ?`, string(role), email)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// --- Books ---

func (s *SQLiteStore) GetBook(ctx context.Context, libraryID int64, isbn string) (*Book, error) {
	var b Book
	err := s.db.QueryRowContext(ctx,
		`SELECT isbn, library_id, title, author, publisher, language, version, total_copies, available_copies
		 FROM books WHERE library_id = ? AND isbn = ?`, libraryID, isbn,
	).Scan(&b.ISBN, &b.LibraryID, &b.Title, &b.Author, &b.Publisher, &b.Language, &b.Version, &b.TotalCopies, &b.AvailableCopies)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *SQLiteStore) ListBooks(ctx context.Context, libraryID int64) ([]Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT isbn, library_id, title, author, publisher, language, version, total_copies, available_copies
		 FROM books WHERE library_id = ? ORDER BY title`, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ISBN, &b.LibraryID, &b.Title, &b.Author, &b.Publisher, &b.Language, &b.Version, &b.TotalCopies, &b.AvailableCopies); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (s *SQLiteStore) UpsertBook(ctx context.Context, b *Book) error {
	s.logger.Debug("sql", "op", "upsert", "table", "books", "isbn", b.ISBN)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO books (isbn, library_id, title, author, publisher, language, version, total_copies, available_copies)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (isbn, library_id) DO UPDATE SET
		   total_copies = total_copies + excluded.total_copies,
		   available_copies = available_copies + excluded.available_copies`,
		b.ISBN, b.LibraryID, b.Title, b.Author, b.Publisher, b.Language, b.Version, b.TotalCopies, b.AvailableCopies,
	)
	return err
}

func (s *SQLiteStore) AdjustCopies(ctx context.Context, libraryID int64, isbn string, totalDelta, availableDelta int) error {
	s.logger.Debug("sql", "op", "update", "table", "books", "isbn", isbn,
		"total_delta", totalDelta, "available_delta", availableDelta)
	res, err := s.db.ExecContext(ctx,
		`UPDATE books
		 SET total_copies = total_copies + ?, available_copies = available_copies + ?
		 WHERE library_id = ? AND isbn = ? AND total_copies + ? >= 0 AND available_copies + ? >= 0`,
		totalDelta, availableDelta, libraryID, isbn, totalDelta, availableDelta,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("book %s: adjustment would go negative or book missing", isbn)
	}
	return nil
}

func (s *SQLiteStore) UpdateBookDetails(ctx context.Context, libraryID int64, isbn string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	allowed := map[string]bool{"title": true, "author": true, "publisher": true, "language": true, "version": true}

	var sets []string
	var args []any
	for col, val := range fields {
		if !allowed[col] {
			return fmt.Errorf("unknown book field %q", col)
		}
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}
	args = append(args, libraryID, isbn)

	res, err := s.db.ExecContext(ctx,
		`UPDATE books SET `+strings.Join(sets, ", ")+` WHERE library_id = ? AND isbn = ?`, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *SQLiteStore) DeleteBook(ctx context.Context, libraryID int64, isbn string) error {
	s.logger.Debug("sql", "op", "delete", "table", "books", "isbn", isbn)
	_, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE library_id = ? AND isbn = ?`, libraryID, isbn)
	return err
}

// --- Issue requests ---

func (s *SQLiteStore) CreateRequest(ctx context.Context, r *Request) (int64, error) {
	s.logger.Debug("sql", "op", "insert", "table", "issue_requests", "isbn", r.ISBN, "reader", r.ReaderID)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO issue_requests (isbn, reader_id, library_id, status, request_date)
		 VALUES (?, ?, ?, ?, ?)`,
		r.ISBN, r.ReaderID, r.LibraryID, string(r.Status), r.RequestDate.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	r.ReqID, err = res.LastInsertId()
	return r.ReqID, err
}

const requestColumns = `req_id, isbn, reader_id, library_id, status, request_date, approval_date, expected_return_date, return_date, approver_id`

func (s *SQLiteStore) GetRequest(ctx context.Context, reqID int64) (*Request, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM issue_requests WHERE req_id = ?`, reqID)
	r, err := scanRequest(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

func (s *SQLiteStore) ListRequests(ctx context.Context, libraryID int64) ([]Request, error) {
	return s.queryRequests(ctx,
		`SELECT `+requestColumns+` FROM issue_requests WHERE library_id = ? ORDER BY req_id`, libraryID)
}

func (s *SQLiteStore) ListRequestsByReader(ctx context.Context, readerID int64) ([]Request, error) {
	return s.queryRequests(ctx,
		`SELECT `+requestColumns+` FROM issue_requests WHERE reader_id = ? ORDER BY req_id`, readerID)
}

func (s *SQLiteStore) queryRequests(ctx context.Context, query string, args ...any) ([]Request, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []Request
	for rows.Next() {
		r, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *r)
	}
	return reqs, rows.Err()
}

func scanRequest(scan func(...any) error) (*Request, error) {
	var r Request
	var status, requestDate string
	var approvalDate, expectedReturn, returnDate sql.NullString
	var approverID sql.NullInt64

	err := scan(&r.ReqID, &r.ISBN, &r.ReaderID, &r.LibraryID, &status, &requestDate,
		&approvalDate, &expectedReturn, &returnDate, &approverID)
	if err != nil {
		return nil, err
	}

	r.Status = model.RequestStatus(status)
	r.RequestDate, _ = time.Parse(time.RFC3339Nano, requestDate)
	r.ApprovalDate = parseNullTime(approvalDate)
	r.ExpectedReturnDate = parseNullTime(expectedReturn)
	r.ReturnDate = parseNullTime(returnDate)
	if approverID.Valid {
		r.ApproverID = &approverID.Int64
	}
	return &r, nil
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, ns.String)
	if err != nil {
		return nil
	}
	return &t
}

func (s *SQLiteStore) CountActiveRequests(ctx context.Context, readerID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM issue_requests
		 WHERE reader_id = ? AND status IN (?, ?) AND return_date IS NULL`,
		readerID, string(model.StatusPending), string(model.StatusApprove),
	).Scan(&n)
	return n, err
}

func (s *SQLiteStore) HasActiveRequest(ctx context.Context, readerID int64, isbn string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM issue_requests
		 WHERE reader_id = ? AND isbn = ? AND status IN (?, ?) AND return_date IS NULL`,
		readerID, isbn, string(model.StatusPending), string(model.StatusApprove),
	).Scan(&n)
	return n > 0, err
}

func (s *SQLiteStore) UpdateRequest(ctx context.Context, r *Request) error {
	s.logger.Debug("sql", "op", "update", "table", "issue_requests", "req_id", r.ReqID, "status", r.Status)
	res, err := s.db.ExecContext(ctx,
		`UPDATE issue_requests
		 SET status = ?, approval_date = ?, expected_return_date = ?, return_date = ?, approver_id = ?
		 WHERE req_id = ?`,
		string(r.Status), formatNullTime(r.ApprovalDate), formatNullTime(r.ExpectedReturnDate),
		formatNullTime(r.ReturnDate), nullInt(r.ApproverID), r.ReqID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func formatNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func nullInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
