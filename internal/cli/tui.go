package cli

import (
	"github.com/spf13/cobra"

	"github.com/trackly/tracker/internal/tui"
)

func (a *app) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse projects and issues interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.client.Session().LoggedIn() {
				return errNotLoggedIn
			}
			return tui.Run(a.ctx(cmd), a.client, a.cfg.PageSize)
		},
	}
}
