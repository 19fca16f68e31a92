package libms

import (
	"context"
	"net/http"

	"github.com/me/shelfctl/pkg/model"
)

// ListUsers fetches the members of the caller's library.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	items, err := c.doList(ctx, "list-users", "/users", true, "users")
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(items))
	for _, m := range items {
		users = append(users, model.UserFromMap(m))
	}
	return users, nil
}

// AssignAdmin promotes the member with the given email to library admin.
func (c *Client) AssignAdmin(ctx context.Context, email string) (string, error) {
	const op = "assign-admin"
	if email == "" {
		return "", &ValidationError{Field: "email", Message: "required"}
	}
	return c.doMessage(ctx, op, http.MethodPost, "/owner/assign-admin", map[string]string{"email": email}, true)
}

// RevokeAdmin demotes the admin with the given email back to reader.
func (c *Client) RevokeAdmin(ctx context.Context, email string) (string, error) {
	const op = "revoke-admin"
	if email == "" {
		return "", &ValidationError{Field: "email", Message: "required"}
	}
	return c.doMessage(ctx, op, http.MethodPost, "/owner/revoke-admin", map[string]string{"email": email}, true)
}
