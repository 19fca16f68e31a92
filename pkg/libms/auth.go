package libms

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/me/shelfctl/pkg/model"
)

// loginResponse is the /auth/login success shape. The backend sometimes
// omits name, and error/message appear on failure envelopes.
type loginResponse struct {
	Token   string `json:"token"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Login authenticates with email and password and returns the session the
// backend granted. A response without a token is a failed login, whatever
// the HTTP status says.
func (c *Client) Login(ctx context.Context, email, password string) (*model.Session, error) {
	const op = "login"
	if email == "" {
		return nil, &ValidationError{Field: "email", Message: "required"}
	}
	if password == "" {
		return nil, &ValidationError{Field: "password", Message: "required"}
	}

	body, status, err := c.do(ctx, op, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, false)
	if err != nil {
		return nil, err
	}

	var lr loginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	if lr.Token == "" {
		msg := lr.Error
		if msg == "" {
			msg = lr.Message
		}
		return nil, &APIError{Op: op, StatusCode: status, Message: msg}
	}

	role, ok := model.ParseRole(lr.Role)
	if !ok {
		role = model.RoleReader
	}
	sessEmail := lr.Email
	if sessEmail == "" {
		sessEmail = email
	}
	return &model.Session{
		Name:  lr.Name,
		Email: sessEmail,
		Role:  role,
		Token: lr.Token,
	}, nil
}

// RegisterInput is the reader/admin registration payload.
type RegisterInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	ContactNumber string `json:"contact_number"`
	LibraryID     int    `json:"library_id"`
}

// Register creates a reader account in an existing library.
func (c *Client) Register(ctx context.Context, in RegisterInput) (string, error) {
	const op = "register"
	if in.Email == "" {
		return "", &ValidationError{Field: "email", Message: "required"}
	}
	if in.Password == "" {
		return "", &ValidationError{Field: "password", Message: "required"}
	}
	if in.LibraryID <= 0 {
		return "", &ValidationError{Field: "library_id", Message: "required"}
	}
	return c.doMessage(ctx, op, http.MethodPost, "/auth/register", in, false)
}

// OwnerRegisterInput is the owner registration payload. Owners create a
// new library rather than joining one.
type OwnerRegisterInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	ContactNumber string `json:"contact_number"`
	LibraryName   string `json:"library_name"`
}

// RegisterOwner creates a library owner together with their library.
func (c *Client) RegisterOwner(ctx context.Context, in OwnerRegisterInput) (string, error) {
	const op = "register-owner"
	if in.Email == "" {
		return "", &ValidationError{Field: "email", Message: "required"}
	}
	if in.Password == "" {
		return "", &ValidationError{Field: "password", Message: "required"}
	}
	if in.LibraryName == "" {
		return "", &ValidationError{Field: "library_name", Message: "required"}
	}
	return c.doMessage(ctx, op, http.MethodPost, "/owner/registration", in, false)
}

// ListLibraries fetches the registered libraries. Public; used by the
// registration flow to offer a library selection.
func (c *Client) ListLibraries(ctx context.Context) ([]model.Library, error) {
	items, err := c.doList(ctx, "list-libraries", "/libraries", false, "libraries")
	if err != nil {
		return nil, err
	}
	libs := make([]model.Library, 0, len(items))
	for _, m := range items {
		libs = append(libs, model.LibraryFromMap(m))
	}
	return libs, nil
}
