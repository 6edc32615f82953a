package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/trackly/tracker/internal/issues/domain"
	"github.com/trackly/tracker/internal/pagination"
)

// IssueParams adds the issue filters to ListParams.
type IssueParams struct {
	ListParams
	Status   domain.Status
	Priority domain.Priority
}

func (p IssueParams) values() url.Values {
	v := p.ListParams.values()
	if p.Status != "" {
		v.Set("status", string(p.Status))
	}
	if p.Priority != "" {
		v.Set("priority", string(p.Priority))
	}
	return v
}

// ListIssues returns one page of a project's issues.
func (c *Client) ListIssues(ctx context.Context, projectID string, p IssueParams) (pagination.Page[domain.Issue], error) {
	var out pagination.Page[domain.Issue]
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/issues/projects/" + url.PathEscape(projectID),
		query:  p.values(),
		out:    &out,
	})
	return out, err
}

// ListMyIssues returns one page of issues across all the caller's projects.
func (c *Client) ListMyIssues(ctx context.Context, p IssueParams) (pagination.Page[domain.Issue], error) {
	var out pagination.Page[domain.Issue]
	err := c.do(ctx, call{method: http.MethodGet, path: "/issues", query: p.values(), out: &out})
	return out, err
}

func (c *Client) GetIssue(ctx context.Context, id string) (*domain.Issue, error) {
	var out domain.Issue
	if err := c.do(ctx, call{method: http.MethodGet, path: "/issues/" + url.PathEscape(id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateIssue rejects an empty title locally with "title is required";
// no request is sent in that case.
func (c *Client) CreateIssue(ctx context.Context, projectID string, in domain.CreateIssue) (*domain.Issue, error) {
	if err := validateCreateIssue(in); err != nil {
		return nil, err
	}
	var out domain.Issue
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/issues/projects/" + url.PathEscape(projectID),
		body:   in,
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateIssue(ctx context.Context, id string, in domain.UpdateIssue) (*domain.Issue, error) {
	if err := validateUpdateIssue(in); err != nil {
		return nil, err
	}
	var out domain.Issue
	if err := c.do(ctx, call{method: http.MethodPatch, path: "/issues/" + url.PathEscape(id), body: in, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetIssueStatus is the status-only update used by list views.
func (c *Client) SetIssueStatus(ctx context.Context, id string, s domain.Status) (*domain.Issue, error) {
	return c.UpdateIssue(ctx, id, domain.UpdateIssue{Status: &s})
}

func (c *Client) DeleteIssue(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/issues/" + url.PathEscape(id)})
}
