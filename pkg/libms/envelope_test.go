package libms

import (
	"reflect"
	"testing"
)

func TestDecodeList_EnvelopeShapes(t *testing.T) {
	// The same list wrapped in each accepted envelope shape must normalize
	// to identical ordered output.
	bodies := map[string]string{
		"bare array":   `[{"isbn":"978-1"},{"isbn":"978-2"}]`,
		"success/data": `{"success":true,"data":[{"isbn":"978-1"},{"isbn":"978-2"}]}`,
		"entity key":   `{"books":[{"isbn":"978-1"},{"isbn":"978-2"}]}`,
	}

	want := []map[string]any{{"isbn": "978-1"}, {"isbn": "978-2"}}
	for name, body := range bodies {
		got, err := decodeList([]byte(body), "books")
		if err != nil {
			t.Errorf("%s: decodeList() error: %v", name, err)
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: decodeList() = %v, want %v", name, got, want)
		}
	}
}

func TestDecodeList_EmptyShapes(t *testing.T) {
	for name, body := range map[string]string{
		"bare":    `[]`,
		"wrapped": `{"data":[]}`,
	} {
		got, err := decodeList([]byte(body), "books")
		if err != nil {
			t.Errorf("%s: decodeList() error: %v", name, err)
		}
		if len(got) != 0 {
			t.Errorf("%s: decodeList() = %v, want empty", name, got)
		}
	}
}

func TestDecodeList_ErrorEnvelope(t *testing.T) {
	_, err := decodeList([]byte(`{"error":"unauthorized"}`), "books")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("decodeList() error = %T, want *APIError", err)
	}
	if apiErr.Message != "unauthorized" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "unauthorized")
	}
}

func TestDecodeList_Malformed(t *testing.T) {
	for _, body := range []string{`not json`, `{"books":"nope"}`, `{"unrelated":1}`} {
		if _, err := decodeList([]byte(body), "books"); err == nil {
			t.Errorf("decodeList(%q) succeeded, want error", body)
		}
	}
}

func TestDecodeMessage(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr bool
	}{
		{"plain message", 200, `{"message":"Book added"}`, "Book added", false},
		{"success flag", 200, `{"success":true,"message":"ok"}`, "ok", false},
		{"error field wins", 200, `{"error":"duplicate ISBN"}`, "", true},
		{"http error with message", 403, `{"message":"forbidden"}`, "", true},
		{"empty envelope", 200, `{}`, "", true},
		{"not json", 200, `<html>`, "", true},
	}
	for _, tt := range tests {
		got, err := decodeMessage("test-op", tt.status, []byte(tt.body))
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: decodeMessage() error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: decodeMessage() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDecodeMessage_ServerTextSurfacedVerbatim(t *testing.T) {
	_, err := decodeMessage("add-book", 409, []byte(`{"error":"book already exists"}`))
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if apiErr.Message != "book already exists" {
		t.Errorf("Message = %q, want server text verbatim", apiErr.Message)
	}
	if apiErr.StatusCode != 409 {
		t.Errorf("StatusCode = %d, want 409", apiErr.StatusCode)
	}
}

func TestDecodeMessage_ParseFailureIsNetwork(t *testing.T) {
	_, err := decodeMessage("op", 502, []byte(`Bad Gateway`))
	if !IsNetwork(err) {
		t.Errorf("error = %T (%v), want NetworkError", err, err)
	}
}
