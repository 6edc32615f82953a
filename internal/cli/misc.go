package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trackly/tracker/internal/users/domain"
)

func (a *app) dashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show project and issue statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.client.Dashboard(a.ctx(cmd))
			if err != nil {
				return err
			}
			renderStats(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func (a *app) settingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View or change your account",
	}

	me := &cobra.Command{
		Use:   "me",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.client.Me(a.ctx(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ID:      %s\nEmail:   %s\nSince:   %s\n",
				u.ID, u.Email, u.CreatedAt.Local().Format(timeLayout))
			return nil
		},
	}

	var email, password string
	update := &cobra.Command{
		Use:   "update",
		Short: "Change your email or password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in domain.UpdateUser
			if cmd.Flags().Changed("email") {
				in.Email = &email
			}
			if cmd.Flags().Changed("password") {
				in.Password = &password
			}
			u, err := a.client.UpdateMe(a.ctx(cmd), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account updated (%s)\n", u.Email)
			return nil
		},
	}
	update.Flags().StringVar(&email, "email", "", "new email")
	update.Flags().StringVar(&password, "password", "", "new password")

	cmd.AddCommand(me, update)
	return cmd
}

func (a *app) healthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.client.Health(a.ctx(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "server: %s\n", a.client.BaseURL())
			renderMap(cmd.OutOrStdout(), h)
			return nil
		},
	}
}
