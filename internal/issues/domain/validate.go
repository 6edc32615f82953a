package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	TitleMinLen       = 3
	TitleMaxLen       = 200
	DescriptionMaxLen = 1000
)

// Normalize trims the title, fills defaults and validates the result.
func (c *CreateIssue) Normalize() error {
	c.Title = strings.TrimSpace(c.Title)
	if c.Status == "" {
		c.Status = StatusOpen
	}
	if c.Priority == "" {
		c.Priority = PriorityMedium
	}
	if err := checkTitle(c.Title); err != nil {
		return err
	}
	if err := checkDescription(c.Description); err != nil {
		return err
	}
	if !c.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, c.Status)
	}
	if !c.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalid, c.Priority)
	}
	return nil
}

// Normalize validates the provided fields.
func (u *UpdateIssue) Normalize() error {
	if u.Empty() {
		return fmt.Errorf("%w: no fields to update", ErrInvalid)
	}
	if u.Title != nil {
		t := strings.TrimSpace(*u.Title)
		u.Title = &t
		if err := checkTitle(t); err != nil {
			return err
		}
	}
	if err := checkDescription(u.Description); err != nil {
		return err
	}
	if u.Status != nil && !u.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, *u.Status)
	}
	if u.Priority != nil && !u.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalid, *u.Priority)
	}
	return nil
}

// Validate checks the filter values, which may be empty.
func (f Filter) Validate() error {
	if f.Status != "" && !f.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, f.Status)
	}
	if f.Priority != "" && !f.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalid, f.Priority)
	}
	return nil
}

func checkTitle(title string) error {
	if n := utf8.RuneCountInString(title); n < TitleMinLen || n > TitleMaxLen {
		return fmt.Errorf("%w: title must be between %d and %d characters", ErrInvalid, TitleMinLen, TitleMaxLen)
	}
	return nil
}

func checkDescription(d *string) error {
	if d != nil && utf8.RuneCountInString(*d) > DescriptionMaxLen {
		return fmt.Errorf("%w: description must be at most %d characters", ErrInvalid, DescriptionMaxLen)
	}
	return nil
}
