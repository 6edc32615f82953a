package listing

import (
	"cmp"
	"context"
	"strings"

	"github.com/trackly/tracker/internal/client"
	issuedomain "github.com/trackly/tracker/internal/issues/domain"
	"github.com/trackly/tracker/internal/pagination"
	projectdomain "github.com/trackly/tracker/internal/projects/domain"
)

// Filter names understood by the issue fetchers.
const (
	FilterStatus   = "status"
	FilterPriority = "priority"
	FilterSortBy   = "sort_by"
	FilterOrder    = "order"
)

// ProjectSource is the part of the API client the project list needs.
type ProjectSource interface {
	ListProjects(ctx context.Context, p client.ListParams) (pagination.Page[projectdomain.Project], error)
}

// IssueSource is the part of the API client the issue lists need.
type IssueSource interface {
	ListIssues(ctx context.Context, projectID string, p client.IssueParams) (pagination.Page[issuedomain.Issue], error)
	ListMyIssues(ctx context.Context, p client.IssueParams) (pagination.Page[issuedomain.Issue], error)
}

func listParams(q Query) client.ListParams {
	return client.ListParams{
		Page:     q.Page,
		PageSize: q.PageSize,
		SortBy:   q.Filter(FilterSortBy),
		Order:    q.Filter(FilterOrder),
	}
}

func issueParams(q Query) client.IssueParams {
	return client.IssueParams{
		ListParams: listParams(q),
		Status:     issuedomain.Status(q.Filter(FilterStatus)),
		Priority:   issuedomain.Priority(q.Filter(FilterPriority)),
	}
}

// NewProjectList returns a controller over the caller's projects.
func NewProjectList(src ProjectSource, pageSize int) *Controller[projectdomain.Project] {
	return New(func(ctx context.Context, q Query) (pagination.Page[projectdomain.Project], error) {
		return src.ListProjects(ctx, listParams(q))
	}, pageSize)
}

// NewIssueList returns a controller over one project's issues. With an
// empty projectID it lists issues across all of the caller's projects.
func NewIssueList(src IssueSource, projectID string, pageSize int) *Controller[issuedomain.Issue] {
	return New(func(ctx context.Context, q Query) (pagination.Page[issuedomain.Issue], error) {
		if projectID == "" {
			return src.ListMyIssues(ctx, issueParams(q))
		}
		return src.ListIssues(ctx, projectID, issueParams(q))
	}, pageSize)
}

func description(d *string) string {
	if d == nil {
		return ""
	}
	return *d
}

// ProjectSchema searches name and description and sorts by name or
// creation time.
var ProjectSchema = NewSchema(
	Field[projectdomain.Project]{
		Name: "name",
		Text: func(p projectdomain.Project) string { return p.Name },
	},
	Field[projectdomain.Project]{
		Name: "description",
		Text: func(p projectdomain.Project) string { return description(p.Description) },
	},
	Field[projectdomain.Project]{
		Name:    "created_at",
		Compare: func(a, b projectdomain.Project) int { return a.CreatedAt.Compare(b.CreatedAt) },
	},
)

// IssueSchema searches title and description and sorts by title, status,
// priority or creation time. Status and priority sort by workflow rank, not
// alphabetically.
var IssueSchema = NewSchema(
	Field[issuedomain.Issue]{
		Name: "title",
		Text: func(i issuedomain.Issue) string { return i.Title },
	},
	Field[issuedomain.Issue]{
		Name: "description",
		Text: func(i issuedomain.Issue) string { return description(i.Description) },
	},
	Field[issuedomain.Issue]{
		Name: "status",
		Compare: func(a, b issuedomain.Issue) int {
			return cmp.Compare(a.Status.Rank(), b.Status.Rank())
		},
	},
	Field[issuedomain.Issue]{
		Name: "priority",
		Compare: func(a, b issuedomain.Issue) int {
			return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
		},
	},
	Field[issuedomain.Issue]{
		Name:    "created_at",
		Compare: func(a, b issuedomain.Issue) int { return a.CreatedAt.Compare(b.CreatedAt) },
	},
)

// ServerOrder converts a sort key to the API's sort_by/order parameters,
// or ok=false when the API cannot sort by that field.
func ServerOrder(key Sort, allowed ...string) (sortBy, order string, ok bool) {
	for _, a := range allowed {
		if strings.EqualFold(a, key.Field) {
			return a, key.Dir.String(), true
		}
	}
	return "", "", false
}
