package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/trackly/tracker/internal/pagination"
	"github.com/trackly/tracker/internal/projects/domain"
)

// ListParams are the query parameters shared by every list endpoint.
type ListParams struct {
	Page     int
	PageSize int
	SortBy   string
	Order    string
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if p.SortBy != "" {
		v.Set("sort_by", p.SortBy)
	}
	if p.Order != "" {
		v.Set("order", p.Order)
	}
	return v
}

func (c *Client) ListProjects(ctx context.Context, p ListParams) (pagination.Page[domain.Project], error) {
	var out pagination.Page[domain.Project]
	err := c.do(ctx, call{method: http.MethodGet, path: "/projects", query: p.values(), out: &out})
	return out, err
}

func (c *Client) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	var out domain.Project
	if err := c.do(ctx, call{method: http.MethodGet, path: "/projects/" + url.PathEscape(id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProject rejects an empty name locally with "name is required".
func (c *Client) CreateProject(ctx context.Context, in domain.CreateProject) (*domain.Project, error) {
	if err := validateCreateProject(in); err != nil {
		return nil, err
	}
	var out domain.Project
	if err := c.do(ctx, call{method: http.MethodPost, path: "/projects", body: in, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProject(ctx context.Context, id string, in domain.UpdateProject) (*domain.Project, error) {
	if err := validateUpdateProject(in); err != nil {
		return nil, err
	}
	var out domain.Project
	if err := c.do(ctx, call{method: http.MethodPatch, path: "/projects/" + url.PathEscape(id), body: in, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/projects/" + url.PathEscape(id)})
}
