package domain

import "time"

// User is an account that owns projects.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Credentials is the body of POST /auth/login and POST /auth/signup.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUser is the body of PATCH /users/me. Nil fields are left as-is.
type UpdateUser struct {
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Token is returned by login and signup.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
