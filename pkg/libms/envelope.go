package libms

import (
	"encoding/json"
	"fmt"
)

// The backend's success envelope varies per endpoint: some return a bare
// array, some {"success": true, "data": [...]}, some {"<entity>": [...]}.
// Every list operation funnels through decodeList so callers never see the
// difference. This normalization is part of the client's contract.

// decodeList extracts the ordered object list from any of the accepted
// envelope shapes. entityKeys are the endpoint-specific wrapper keys to
// try ("books", "requests", ...); "data" is always tried.
func decodeList(body []byte, entityKeys ...string) ([]map[string]any, error) {
	// Bare array.
	var items []map[string]any
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected response shape: %w", err)
	}

	for _, key := range append([]string{"data"}, entityKeys...) {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("field %q is not a list: %w", key, err)
		}
		return items, nil
	}

	// An envelope with an error field is an application failure, not a
	// malformed body; the caller maps it via decodeMessage.
	if raw, ok := envelope["error"]; ok {
		var msg string
		if json.Unmarshal(raw, &msg) == nil && msg != "" {
			return nil, &APIError{Message: msg}
		}
	}
	return nil, fmt.Errorf("no list found in response envelope")
}

// serverMessage is the generic mutation-response envelope.
type serverMessage struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// decodeMessage parses a mutation response and converts a failure envelope
// into an *APIError. The body is inspected even on non-2xx statuses so the
// server's own error text reaches the user.
func decodeMessage(op string, status int, body []byte) (string, error) {
	var sm serverMessage
	if err := json.Unmarshal(body, &sm); err != nil {
		return "", &NetworkError{Op: op, Err: fmt.Errorf("parse response (status %d): %w", status, err)}
	}

	switch {
	case sm.Error != "":
		return "", &APIError{Op: op, StatusCode: status, Message: sm.Error}
	case status >= 400:
		return "", &APIError{Op: op, StatusCode: status, Message: sm.Message}
	case sm.Message == "" && (sm.Success == nil || !*sm.Success):
		return "", &APIError{Op: op, StatusCode: status}
	}
	return sm.Message, nil
}
