package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trackly/tracker/internal/listing"
)

// listFlags are the paging, server sort and local search flags of every
// list command.
type listFlags struct {
	page     int
	pageSize int
	sortBy   string
	asc      bool
	search   string
}

func (f *listFlags) bind(cmd *cobra.Command, sortable []string) {
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "items per page (default from config)")
	cmd.Flags().StringVar(&f.sortBy, "sort", "", fmt.Sprintf("server sort field %v", sortable))
	cmd.Flags().BoolVar(&f.asc, "asc", false, "sort ascending")
	cmd.Flags().StringVar(&f.search, "search", "", "only show rows on the fetched page containing this text")
}

// applyOrder sets the server sort filters. Filter changes reset the page,
// so load applies the requested page afterwards.
func applyOrder[T any](ctl *listing.Controller[T], f *listFlags, allowed ...string) error {
	if f.sortBy == "" {
		return nil
	}
	dir := listing.Descending
	if f.asc {
		dir = listing.Ascending
	}
	sortBy, order, ok := listing.ServerOrder(listing.Sort{Field: f.sortBy, Dir: dir}, allowed...)
	if !ok {
		return fmt.Errorf("cannot sort by %q, choose one of %v", f.sortBy, allowed)
	}
	ctl.SetFilter(listing.FilterSortBy, sortBy)
	ctl.SetFilter(listing.FilterOrder, order)
	return nil
}

// load fetches page through ctl. A page past the end settles on the last
// non-empty page.
func load[T any](ctx context.Context, ctl *listing.Controller[T], page int) (listing.State[T], error) {
	req, ok := ctl.SetPage(page)
	if !ok {
		req = ctl.Reload()
	}
	if err := ctl.Sync(ctx, req); err != nil {
		return listing.State[T]{}, err
	}
	return ctl.State(), nil
}

func (a *app) pageSize(f *listFlags) int {
	if f.pageSize > 0 {
		return f.pageSize
	}
	return a.cfg.PageSize
}
