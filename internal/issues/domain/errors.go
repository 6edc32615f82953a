package domain

import "errors"

var (
	ErrNotFound  = errors.New("issue not found")
	ErrForbidden = errors.New("not the owner of this issue's project")
	ErrInvalid   = errors.New("invalid issue")
)
