package domain

import (
	"time"

	"github.com/trackly/tracker/internal/pagination"
)

// Project is a container of issues owned by a single user.
// It is storage-agnostic and shared by the repository, HTTP and client layers.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateProject is the body of POST /projects.
type CreateProject struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// UpdateProject is the body of PATCH /projects/{id}. Nil fields are left as-is.
type UpdateProject struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

const (
	SortCreatedAt = "created_at"
	SortName      = "name"
)

// ListOptions selects one page of a user's projects.
type ListOptions struct {
	pagination.Params
	SortBy string
	Desc   bool
}
