// Package listing drives paginated, filterable views of a remote collection.
//
// A Controller owns the list state for one view: the current query, the
// items of the last applied page, the collection total, and the
// loading/error flags. Every change to the query issues a tagged Request;
// only the Result carrying the latest tag is applied, so a slow response
// for an old query can never overwrite the state produced by a newer one.
//
// The controller does not start goroutines itself. Event-driven callers
// (the TUI) run Requests in the background and feed Results back through
// Apply; sequential callers (the CLI) use Sync.
package listing

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/trackly/tracker/internal/pagination"
)

// Query is the tuple of pagination and filter parameters that selects a page.
type Query struct {
	Page     int
	PageSize int
	Filters  map[string]string
}

// Filter returns the value of a filter, or "" when it is unset.
func (q Query) Filter(name string) string {
	return q.Filters[name]
}

func (q Query) clone() Query {
	out := q
	out.Filters = maps.Clone(q.Filters)
	if out.Filters == nil {
		out.Filters = map[string]string{}
	}
	return out
}

// Fetcher loads one page of the collection for a query. It must not mutate
// controller state; the controller decides whether its result is applied.
type Fetcher[T any] func(ctx context.Context, q Query) (pagination.Page[T], error)

// Request is an issued fetch, identified by its tag.
type Request struct {
	Tag   uint64
	Query Query
}

// Result is a completed fetch for the request with the same tag.
type Result[T any] struct {
	Tag  uint64
	Page pagination.Page[T]
	Err  error
}

// Outcome reports what Apply did with a result.
type Outcome struct {
	// Stale is set when the result was superseded by a newer request and
	// discarded.
	Stale bool
	// Refetch is set when the applied page was empty past page 1; Next is
	// the request for the previous page.
	Refetch bool
	Next    Request
}

// State is a snapshot of a controller.
type State[T any] struct {
	Query      Query
	Items      []T
	Total      int
	Loading    bool
	Err        error
	TotalPages int
	HasPrev    bool
	HasNext    bool
}

// Controller maintains {items, total, loading, error} for the latest query.
type Controller[T any] struct {
	mu      sync.Mutex
	fetch   Fetcher[T]
	query   Query
	latest  uint64
	items   []T
	total   int
	loading bool
	err     error
}

// New creates a controller on page 1 with the given page size.
func New[T any](fetch Fetcher[T], pageSize int) *Controller[T] {
	if pageSize < 1 {
		pageSize = pagination.DefaultPageSize
	}
	return &Controller[T]{
		fetch: fetch,
		query: Query{Page: 1, PageSize: pageSize, Filters: map[string]string{}},
	}
}

// State returns a copy of the current state.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State[T]{
		Query:      c.query.clone(),
		Items:      slices.Clone(c.items),
		Total:      c.total,
		Loading:    c.loading,
		Err:        c.err,
		TotalPages: pagination.TotalPages(c.total, c.query.PageSize),
		HasPrev:    pagination.HasPrev(c.query.Page),
		HasNext:    pagination.HasNext(c.query.Page, c.query.PageSize, c.total),
	}
}

// issueLocked tags a request for the current query. c.mu must be held.
func (c *Controller[T]) issueLocked() Request {
	c.latest++
	c.loading = true
	return Request{Tag: c.latest, Query: c.query.clone()}
}

// Reload issues a request for the current query without changing it.
func (c *Controller[T]) Reload() Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issueLocked()
}

// SetPage moves to page (clamped to >= 1). It returns false when the page
// is unchanged and nothing needs fetching.
func (c *Controller[T]) SetPage(page int) (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if page < 1 {
		page = 1
	}
	if page == c.query.Page {
		return Request{}, false
	}
	c.query.Page = page
	return c.issueLocked(), true
}

// Next moves forward one page when a next page exists.
func (c *Controller[T]) Next() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !pagination.HasNext(c.query.Page, c.query.PageSize, c.total) {
		return Request{}, false
	}
	c.query.Page++
	return c.issueLocked(), true
}

// Prev moves back one page when not on page 1.
func (c *Controller[T]) Prev() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !pagination.HasPrev(c.query.Page) {
		return Request{}, false
	}
	c.query.Page--
	return c.issueLocked(), true
}

// SetPageSize changes the page size and returns to page 1, since page
// numbers under the old size do not address the same rows.
func (c *Controller[T]) SetPageSize(size int) (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if size < 1 || size == c.query.PageSize {
		return Request{}, false
	}
	c.query.PageSize = size
	c.query.Page = 1
	return c.issueLocked(), true
}

// SetFilter sets (or, with an empty value, clears) one filter. Any change
// resets the page to 1 before the request is built.
func (c *Controller[T]) SetFilter(name, value string) (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.query.Filters[name] == value {
		return Request{}, false
	}
	if value == "" {
		delete(c.query.Filters, name)
	} else {
		c.query.Filters[name] = value
	}
	c.query.Page = 1
	return c.issueLocked(), true
}

// ClearFilters drops every filter and resets the page to 1.
func (c *Controller[T]) ClearFilters() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.query.Filters) == 0 {
		return Request{}, false
	}
	c.query.Filters = map[string]string{}
	c.query.Page = 1
	return c.issueLocked(), true
}

// Run performs the fetch for req. It does not touch controller state and
// is safe to call from any goroutine.
func (c *Controller[T]) Run(ctx context.Context, req Request) Result[T] {
	page, err := c.fetch(ctx, req.Query)
	return Result[T]{Tag: req.Tag, Page: page, Err: err}
}

// Apply folds a completed fetch into the state. Results whose tag is not
// the latest issued tag are discarded.
//
// On error the previous items stay in place (empty before the first
// successful load). On success items and total are replaced together, which
// also discards any provisional Patch. An empty page past page 1 moves the
// query to the last page the reported total allows (or back one page when
// the total is zero) and asks the caller to fetch it.
func (c *Controller[T]) Apply(res Result[T]) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if res.Tag != c.latest {
		return Outcome{Stale: true}
	}

	if res.Err != nil {
		c.loading = false
		c.err = res.Err
		return Outcome{}
	}

	c.items = slices.Clone(res.Page.Items)
	c.total = res.Page.Total
	c.err = nil

	if len(c.items) == 0 && c.query.Page > 1 {
		prev := c.query.Page - 1
		if c.total > 0 {
			prev = min(prev, pagination.TotalPages(c.total, c.query.PageSize))
		}
		c.query.Page = prev
		return Outcome{Refetch: true, Next: c.issueLocked()}
	}

	c.loading = false
	return Outcome{}
}

// Sync runs req and any under-fill follow-ups to completion and returns
// the error of the last applied fetch.
func (c *Controller[T]) Sync(ctx context.Context, req Request) error {
	for {
		res := c.Run(ctx, req)
		out := c.Apply(res)
		if out.Stale {
			return nil
		}
		if !out.Refetch {
			return res.Err
		}
		req = out.Next
	}
}

// Removed records a successful delete of the items matching match. The
// items are dropped locally; when that empties the page and page > 1 the
// page is decremented. The returned request re-fetches the resulting page.
func (c *Controller[T]) Removed(match func(T) bool) Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := len(c.items)
	c.items = slices.DeleteFunc(c.items, match)
	if removed := before - len(c.items); removed > 0 {
		c.total = max(0, c.total-removed)
	}
	if len(c.items) == 0 && c.query.Page > 1 {
		c.query.Page--
	}
	return c.issueLocked()
}

// Patch provisionally updates the items matching match in place and
// returns how many were changed. The next applied fetch replaces them with
// the server's copy.
func (c *Controller[T]) Patch(match func(T) bool, update func(T) T) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for i, it := range c.items {
		if match(it) {
			c.items[i] = update(it)
			n++
		}
	}
	return n
}
