package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for all tables of the development backend.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS libraries (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		name           TEXT NOT NULL,
		email          TEXT NOT NULL UNIQUE,
		password_hash  TEXT NOT NULL,
		contact_number TEXT NOT NULL DEFAULT '',
		role           TEXT NOT NULL DEFAULT 'Reader',
		library_id     INTEGER NOT NULL,
		FOREIGN KEY (library_id) REFERENCES libraries(id)
	)`,

	`CREATE TABLE IF NOT EXISTS books (
		isbn             TEXT NOT NULL,
		library_id       INTEGER NOT NULL,
		title            TEXT NOT NULL,
		author           TEXT NOT NULL DEFAULT '',
		publisher        TEXT NOT NULL DEFAULT '',
		language         TEXT NOT NULL DEFAULT '',
		version          TEXT NOT NULL DEFAULT '',
		total_copies     INTEGER NOT NULL DEFAULT 0,
		available_copies INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (isbn, library_id),
		FOREIGN KEY (library_id) REFERENCES libraries(id)
	)`,

	`CREATE TABLE IF NOT EXISTS issue_requests (
		req_id               INTEGER PRIMARY KEY AUTOINCREMENT,
		isbn                 TEXT NOT NULL,
		reader_id            INTEGER NOT NULL,
		library_id           INTEGER NOT NULL,
		status               TEXT NOT NULL DEFAULT 'Pending',
		request_date         TEXT NOT NULL,
		approval_date        TEXT,
		expected_return_date TEXT,
		return_date          TEXT,
		approver_id          INTEGER,
		FOREIGN KEY (reader_id) REFERENCES users(id),
		FOREIGN KEY (library_id) REFERENCES libraries(id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_users_library_id ON users(library_id)`,
	`CREATE INDEX IF NOT EXISTS idx_books_library_id ON books(library_id)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_reader_id ON issue_requests(reader_id)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_library_id ON issue_requests(library_id)`,
	// Quota checks filter on reader + status.
	`CREATE INDEX IF NOT EXISTS idx_requests_reader_status ON issue_requests(reader_id, status)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
