package client

import (
	"context"
	"net/http"

	"github.com/trackly/tracker/internal/dashboard/domain"
)

func (c *Client) Dashboard(ctx context.Context) (*domain.Stats, error) {
	var out domain.Stats
	if err := c.do(ctx, call{method: http.MethodGet, path: "/dashboard", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}
