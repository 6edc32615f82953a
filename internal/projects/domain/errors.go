package domain

import "errors"

var (
	ErrNotFound  = errors.New("project not found")
	ErrForbidden = errors.New("not the owner of this project")
	ErrInvalid   = errors.New("invalid project")
)
