package domain

import (
	"time"

	"github.com/trackly/tracker/internal/pagination"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

var Statuses = []Status{StatusOpen, StatusInProgress, StatusDone}

func (s Status) Valid() bool {
	return s.Rank() >= 0
}

// Rank orders statuses along the workflow: open < in_progress < done.
// Unknown values rank -1.
func (s Status) Rank() int {
	switch s {
	case StatusOpen:
		return 0
	case StatusInProgress:
		return 1
	case StatusDone:
		return 2
	}
	return -1
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	return p.Rank() >= 0
}

// Rank orders priorities low < medium < high. Unknown values rank -1.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	}
	return -1
}

// Issue is a unit of work scoped under a project.
type Issue struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// CreateIssue is the body of POST /issues/projects/{projectId}. Empty
// status and priority default to open and medium.
type CreateIssue struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Status      Status   `json:"status,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
}

// UpdateIssue is the body of PATCH /issues/{id}. Nil fields are left as-is.
type UpdateIssue struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
}

func (u UpdateIssue) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil && u.Priority == nil
}

const (
	SortCreatedAt = "created_at"
	SortPriority  = "priority"
	SortStatus    = "status"
)

// Filter narrows an issue listing. Zero values match everything.
type Filter struct {
	Status   Status
	Priority Priority
}

// ListOptions selects one page of issues.
type ListOptions struct {
	pagination.Params
	Filter
	SortBy string
	Desc   bool
}
