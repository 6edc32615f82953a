package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trackly/tracker/internal/users/domain"
)

func validateCredentials(email, password string) error {
	if err := required("email", email); err != nil {
		return err
	}
	return required("password", password)
}

// Login exchanges credentials for a token and stores it in the session.
func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, "/auth/login", email, password)
}

// Signup registers a new account and logs it in.
func (c *Client) Signup(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, "/auth/signup", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) error {
	if err := validateCredentials(email, password); err != nil {
		return err
	}
	var tok domain.Token
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   path,
		body:   domain.Credentials{Email: email, Password: password},
		out:    &tok,
		public: true,
	})
	if err != nil {
		return err
	}
	if tok.AccessToken == "" {
		return &TransportError{Op: "POST " + path, Err: fmt.Errorf("response carried no access_token")}
	}
	return c.session.Set(tok.AccessToken, email)
}

// Logout revokes the token server-side and always clears the local
// session. The revoke error, if any, is returned after clearing.
func (c *Client) Logout(ctx context.Context) error {
	var revokeErr error
	if c.session.LoggedIn() {
		revokeErr = c.do(ctx, call{method: http.MethodPost, path: "/auth/logout"})
	}
	if err := c.session.Clear(); err != nil {
		return err
	}
	return revokeErr
}
