package domain

import (
	"fmt"
	"strings"
)

const PasswordMinLen = 6

// Normalize lowercases the email and checks both fields.
func (c *Credentials) Normalize() error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if err := checkEmail(c.Email); err != nil {
		return err
	}
	return checkPassword(c.Password)
}

func (u *UpdateUser) Normalize() error {
	if u.Email == nil && u.Password == nil {
		return fmt.Errorf("%w: no fields to update", ErrInvalid)
	}
	if u.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*u.Email))
		u.Email = &e
		if err := checkEmail(e); err != nil {
			return err
		}
	}
	if u.Password != nil {
		return checkPassword(*u.Password)
	}
	return nil
}

func checkEmail(email string) error {
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrInvalid)
	}
	return nil
}

func checkPassword(pw string) error {
	if len(pw) < PasswordMinLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalid, PasswordMinLen)
	}
	return nil
}
