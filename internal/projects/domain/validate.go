package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	NameMinLen        = 2
	NameMaxLen        = 100
	DescriptionMaxLen = 500
)

// Normalize trims the name and validates lengths.
func (c *CreateProject) Normalize() error {
	c.Name = strings.TrimSpace(c.Name)
	if err := checkName(c.Name); err != nil {
		return err
	}
	return checkDescription(c.Description)
}

// Normalize trims a provided name and validates lengths.
func (u *UpdateProject) Normalize() error {
	if u.Name != nil {
		n := strings.TrimSpace(*u.Name)
		u.Name = &n
		if err := checkName(n); err != nil {
			return err
		}
	}
	return checkDescription(u.Description)
}

func checkName(name string) error {
	if n := utf8.RuneCountInString(name); n < NameMinLen || n > NameMaxLen {
		return fmt.Errorf("%w: name must be between %d and %d characters", ErrInvalid, NameMinLen, NameMaxLen)
	}
	return nil
}

func checkDescription(d *string) error {
	if d != nil && utf8.RuneCountInString(*d) > DescriptionMaxLen {
		return fmt.Errorf("%w: description must be at most %d characters", ErrInvalid, DescriptionMaxLen)
	}
	return nil
}
