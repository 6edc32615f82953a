package client

import (
	"context"
	"net/http"

	"github.com/trackly/tracker/internal/users/domain"
)

func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, call{method: http.MethodGet, path: "/users/me", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMe changes the caller's email and/or password.
func (c *Client) UpdateMe(ctx context.Context, in domain.UpdateUser) (*domain.User, error) {
	if in.Email == nil && in.Password == nil {
		return nil, &ValidationError{Message: "nothing to update"}
	}
	if in.Email != nil {
		if err := required("email", *in.Email); err != nil {
			return nil, err
		}
	}
	if in.Password != nil {
		if err := required("password", *in.Password); err != nil {
			return nil, err
		}
	}

	var out domain.User
	if err := c.do(ctx, call{method: http.MethodPatch, path: "/users/me", body: in, out: &out}); err != nil {
		return nil, err
	}
	if in.Email != nil {
		if err := c.session.SetEmail(out.Email); err != nil {
			return &out, err
		}
	}
	return &out, nil
}
