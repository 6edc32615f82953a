package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type credentialFlags struct {
	email    string
	password string
}

func (f *credentialFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.email, "email", "", "account email")
	cmd.Flags().StringVar(&f.password, "password", "", "account password (read from stdin when omitted)")
}

// resolve prompts on stdin for whatever the flags left out.
func (f *credentialFlags) resolve(cmd *cobra.Command) error {
	in := bufio.NewScanner(cmd.InOrStdin())
	ask := func(label string) string {
		fmt.Fprint(cmd.ErrOrStderr(), label+": ")
		if !in.Scan() {
			return ""
		}
		return strings.TrimSpace(in.Text())
	}
	if f.email == "" {
		f.email = ask("Email")
	}
	if f.password == "" {
		f.password = ask("Password")
	}
	return in.Err()
}

func (a *app) loginCommand() *cobra.Command {
	var creds credentialFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := creds.resolve(cmd); err != nil {
				return err
			}
			if err := a.client.Login(a.ctx(cmd), creds.email, creds.password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", creds.email)
			return nil
		},
	}
	creds.bind(cmd)
	return cmd
}

func (a *app) signupCommand() *cobra.Command {
	var creds credentialFlags
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := creds.resolve(cmd); err != nil {
				return err
			}
			if err := a.client.Signup(a.ctx(cmd), creds.email, creds.password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created, logged in as %s\n", creds.email)
			return nil
		},
	}
	creds.bind(cmd)
	return cmd
}

func (a *app) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session token and forget it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.client.Logout(a.ctx(cmd))
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: server did not confirm logout: %s\n", messageOf(err))
			}
			return nil
		},
	}
}
