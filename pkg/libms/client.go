package libms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Client is the only component that talks to the backend. It translates a
// finite set of named operations into HTTP requests against the configured
// base URL, attaching the bearer token where the operation requires one.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	token      string
}

// NewClient creates a backend API client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("component", "libms-client"),
	}
}

// SetToken sets the bearer token attached to authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	return c.token
}

// do performs one HTTP request and returns the raw body and status code.
// The body is returned even on non-2xx responses; only transport failures
// become errors here.
func (c *Client) do(ctx context.Context, op, method, path string, body any, auth bool) ([]byte, int, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, &NetworkError{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		bodyReader = bytes.NewReader(data)
		c.logger.Debug("HTTP request body", "op", op, "body", string(data))
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, 0, &NetworkError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("HTTP request", "op", op, "method", method, "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &NetworkError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("HTTP response", "op", op, "status", resp.StatusCode, "body", string(respBody))
	return respBody, resp.StatusCode, nil
}

// doList performs an authenticated GET and normalizes the list envelope.
func (c *Client) doList(ctx context.Context, op, path string, auth bool, entityKeys ...string) ([]map[string]any, error) {
	body, status, err := c.do(ctx, op, http.MethodGet, path, nil, auth)
	if err != nil {
		return nil, err
	}
	items, err := decodeList(body, entityKeys...)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok {
			apiErr.Op = op
			apiErr.StatusCode = status
			return nil, apiErr
		}
		if status >= 400 {
			// Failure envelopes without an error field still mean failure.
			if msg, msgErr := decodeMessage(op, status, body); msgErr != nil {
				return nil, msgErr
			} else if msg != "" {
				return nil, &APIError{Op: op, StatusCode: status, Message: msg}
			}
		}
		return nil, &NetworkError{Op: op, Err: err}
	}
	return items, nil
}

// doMessage performs a mutation and returns the server's message.
func (c *Client) doMessage(ctx context.Context, op, method, path string, body any, auth bool) (string, error) {
	respBody, status, err := c.do(ctx, op, method, path, body, auth)
	if err != nil {
		return "", err
	}
	return decodeMessage(op, status, respBody)
}
