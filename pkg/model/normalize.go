package model

import (
	"encoding/json"
	"time"
)

// The backend is not consistent about field casing: the same entity comes
// back as {"ISBN": ...} from one endpoint and {"isbn": ...} from another.
// All of that is folded onto the canonical structs here, at the ingestion
// boundary, so nothing downstream branches on casing.

// BookFromMap builds a Book from a loosely-typed server object.
func BookFromMap(m map[string]any) Book {
	return Book{
		ISBN:            str(m, "isbn", "ISBN", "book_id", "BookID"),
		Title:           str(m, "title", "Title", "book_name", "BookName"),
		Author:          str(m, "author", "Author", "authors"),
		Publisher:       str(m, "publisher", "Publisher"),
		Language:        str(m, "language", "Language"),
		Version:         str(m, "version", "Version"),
		TotalCopies:     num(m, "total_copies", "TotalCopies"),
		AvailableCopies: num(m, "available_copies", "AvailableCopies"),
	}
}

// LibraryFromMap builds a Library from a loosely-typed server object.
func LibraryFromMap(m map[string]any) Library {
	return Library{
		ID:   num(m, "id", "ID", "library_id", "LibraryID"),
		Name: str(m, "name", "Name", "library_name", "LibraryName"),
	}
}

// UserFromMap builds a User from a loosely-typed server object.
func UserFromMap(m map[string]any) User {
	role, _ := ParseRole(str(m, "role", "Role"))
	return User{
		ID:            num(m, "id", "ID"),
		Name:          str(m, "name", "Name"),
		Email:         str(m, "email", "Email"),
		Role:          role,
		ContactNumber: str(m, "contact_number", "ContactNumber"),
		LibraryID:     num(m, "library_id", "LibraryID"),
	}
}

// RequestFromMap builds an IssueRequest from a loosely-typed server object.
// An unrecognized status string is treated as Pending, matching how the
// admin view renders requests the backend has not yet decided.
func RequestFromMap(m map[string]any) IssueRequest {
	status, ok := ParseRequestStatus(str(m, "request_type", "RequestType", "status", "Status"))
	if !ok {
		status = StatusPending
	}
	return IssueRequest{
		ReqID:              num(m, "req_id", "ReqID", "id", "ID"),
		BookID:             str(m, "book_id", "BookID", "isbn", "ISBN"),
		BookName:           str(m, "book_name", "BookName"),
		ReaderName:         str(m, "reader_name", "ReaderName"),
		Status:             status,
		RequestDate:        date(m, "request_date", "RequestDate"),
		ApprovalDate:       datePtr(m, "approval_date", "ApprovalDate"),
		ExpectedReturnDate: datePtr(m, "expected_return_date", "ExpectedReturnDate"),
		ReturnDate:         datePtr(m, "return_date", "ReturnDate"),
		ApproverEmail:      str(m, "issue_approver_email", "IssueApproverEmail"),
	}
}

// RecordFromMap builds an IssueRecord from a loosely-typed server object.
func RecordFromMap(m map[string]any) IssueRecord {
	status, ok := ParseRequestStatus(str(m, "issue_status", "IssueStatus", "status", "Status"))
	if !ok {
		status = StatusPending
	}
	return IssueRecord{
		ISBN:               str(m, "isbn", "ISBN", "book_isbn", "BookISBN"),
		BookName:           str(m, "book_name", "BookName", "bookName"),
		Status:             status,
		IssueDate:          datePtr(m, "issue_date", "IssueDate", "issueDate"),
		ExpectedReturnDate: datePtr(m, "expected_return_date", "ExpectedReturnDate", "due_date", "DueDate"),
		ReturnDate:         datePtr(m, "return_date", "ReturnDate"),
		ApproverEmail:      str(m, "issue_approver_email", "IssueApproverEmail", "issueApproverEmail"),
	}
}

func str(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// num accepts both JSON numbers and numeric strings; gorm backends have
// been seen serializing IDs either way.
func num(m map[string]any, keys ...string) int {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return int(v)
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return int(n)
			}
		}
	}
	return 0
}

func date(m map[string]any, keys ...string) time.Time {
	if t := datePtr(m, keys...); t != nil {
		return *t
	}
	return time.Time{}
}

// datePtr parses a timestamp field, ignoring sentinel strings like
// "Rejected" that the backend writes into date columns of rejected rows.
func datePtr(m map[string]any, keys ...string) *time.Time {
	for _, k := range keys {
		s, ok := m[k].(string)
		if !ok || s == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				if t.IsZero() {
					break
				}
				return &t
			}
		}
	}
	return nil
}
