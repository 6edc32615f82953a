// Package pagination holds the page envelope shared by the API server and
// the client, plus the page arithmetic both sides rely on.
package pagination

import (
	"fmt"
	"strconv"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a bounded slice of a larger server-held collection plus the
// collection's total size.
type Page[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// Params selects one page of a collection.
type Params struct {
	Page     int
	PageSize int
}

// Offset is the number of rows skipped before the page starts.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Validate checks page >= 1 and 1 <= page_size <= MaxPageSize.
func (p Params) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("page must be >= 1")
	}
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		return fmt.Errorf("page_size must be between 1 and %d", MaxPageSize)
	}
	return nil
}

// ParseParams reads page and page_size from raw query values, applying the
// defaults for empty values.
func ParseParams(rawPage, rawPageSize string) (Params, error) {
	p := Params{Page: DefaultPage, PageSize: DefaultPageSize}
	if rawPage != "" {
		n, err := strconv.Atoi(rawPage)
		if err != nil {
			return Params{}, fmt.Errorf("page must be an integer")
		}
		p.Page = n
	}
	if rawPageSize != "" {
		n, err := strconv.Atoi(rawPageSize)
		if err != nil {
			return Params{}, fmt.Errorf("page_size must be an integer")
		}
		p.PageSize = n
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// NewPage wraps items for the given params. A nil slice becomes empty so the
// JSON body always carries an array.
func NewPage[T any](items []T, p Params, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Page: p.Page, PageSize: p.PageSize, Total: total}
}

// TotalPages returns ceil(total/pageSize) with a floor of 1, so an empty
// collection still displays as "page 1 of 1".
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	n := (total + pageSize - 1) / pageSize
	if n < 1 {
		return 1
	}
	return n
}

// HasPrev reports whether a previous page exists.
func HasPrev(page int) bool {
	return page > 1
}

// HasNext reports whether a next page exists.
func HasNext(page, pageSize, total int) bool {
	if total == 0 {
		return false
	}
	return page < TotalPages(total, pageSize)
}
