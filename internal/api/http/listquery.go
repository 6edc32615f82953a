package http

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/trackly/tracker/internal/pagination"
)

// ListQuery is the parsed page/sort part of a list request.
type ListQuery struct {
	pagination.Params
	SortBy string
	Desc   bool
}

// ParseListQuery reads page, page_size, sort_by and order. sort_by values
// outside allowed fall back to allowed[0]; order defaults to desc.
func ParseListQuery(c *gin.Context, allowed ...string) (ListQuery, error) {
	p, err := pagination.ParseParams(c.Query("page"), c.Query("page_size"))
	if err != nil {
		return ListQuery{}, err
	}

	q := ListQuery{Params: p, Desc: true}
	if len(allowed) > 0 {
		q.SortBy = allowed[0]
		if s := strings.ToLower(c.Query("sort_by")); slices.Contains(allowed, s) {
			q.SortBy = s
		}
	}

	switch strings.ToLower(c.DefaultQuery("order", "desc")) {
	case "desc":
	case "asc":
		q.Desc = false
	default:
		return ListQuery{}, fmt.Errorf("order must be asc or desc")
	}
	return q, nil
}
