package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trackly/tracker/internal/issues/domain"
	"github.com/trackly/tracker/internal/listing"
)

var issueSortFields = []string{domain.SortCreatedAt, domain.SortPriority, domain.SortStatus}

func (a *app) issuesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "issues",
		Aliases: []string{"issue", "i"},
		Short:   "List and manage issues",
	}
	cmd.AddCommand(
		a.issuesListCommand(),
		a.issuesMineCommand(),
		a.issuesGetCommand(),
		a.issuesCreateCommand(),
		a.issuesUpdateCommand(),
		a.issuesStatusCommand(),
		a.issuesDeleteCommand(),
	)
	return cmd
}

type issueFilterFlags struct {
	listFlags
	status   string
	priority string
}

func (f *issueFilterFlags) bind(cmd *cobra.Command) {
	f.listFlags.bind(cmd, issueSortFields)
	cmd.Flags().StringVar(&f.status, "status", "", "filter by status (open, in_progress, done)")
	cmd.Flags().StringVar(&f.priority, "priority", "", "filter by priority (low, medium, high)")
}

func (a *app) listIssues(cmd *cobra.Command, projectID string, f *issueFilterFlags) error {
	status := domain.Status(strings.ToLower(f.status))
	if status != "" && !status.Valid() {
		return fmt.Errorf("unknown status %q", f.status)
	}
	priority := domain.Priority(strings.ToLower(f.priority))
	if priority != "" && !priority.Valid() {
		return fmt.Errorf("unknown priority %q", f.priority)
	}

	ctl := listing.NewIssueList(a.client, projectID, a.pageSize(&f.listFlags))
	ctl.SetFilter(listing.FilterStatus, string(status))
	ctl.SetFilter(listing.FilterPriority, string(priority))
	if err := applyOrder(ctl, &f.listFlags, issueSortFields...); err != nil {
		return err
	}

	st, err := load(a.ctx(cmd), ctl, f.page)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if st.Total == 0 {
		fmt.Fprintln(out, "No issues match.")
		return nil
	}
	items := listing.IssueSchema.Derive(st.Items, f.search, listing.Sort{})
	renderIssues(out, items)
	fmt.Fprintln(out, pageFooter(st, len(items)))
	return nil
}

func (a *app) issuesListCommand() *cobra.Command {
	var f issueFilterFlags
	cmd := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List a project's issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listIssues(cmd, args[0], &f)
		},
	}
	f.bind(cmd)
	return cmd
}

func (a *app) issuesMineCommand() *cobra.Command {
	var f issueFilterFlags
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List issues across all your projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listIssues(cmd, "", &f)
		},
	}
	f.bind(cmd)
	return cmd
}

func (a *app) issuesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := a.client.GetIssue(a.ctx(cmd), args[0])
			if err != nil {
				return err
			}
			renderIssue(cmd.OutOrStdout(), i)
			return nil
		},
	}
}

func (a *app) issuesCreateCommand() *cobra.Command {
	var title, description, status, priority string
	cmd := &cobra.Command{
		Use:   "create <project-id>",
		Short: "Create an issue in a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := domain.CreateIssue{
				Title:    title,
				Status:   domain.Status(strings.ToLower(status)),
				Priority: domain.Priority(strings.ToLower(priority)),
			}
			if cmd.Flags().Changed("description") {
				in.Description = &description
			}
			i, err := a.client.CreateIssue(a.ctx(cmd), args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created issue %q (%s)\n", i.Title, i.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "issue title")
	cmd.Flags().StringVar(&description, "description", "", "issue description")
	cmd.Flags().StringVar(&status, "status", "", "initial status (default open)")
	cmd.Flags().StringVar(&priority, "priority", "", "priority (default medium)")
	return cmd
}

func (a *app) issuesUpdateCommand() *cobra.Command {
	var title, description, status, priority string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an issue's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in domain.UpdateIssue
			flags := cmd.Flags()
			if flags.Changed("title") {
				in.Title = &title
			}
			if flags.Changed("description") {
				in.Description = &description
			}
			if flags.Changed("status") {
				s := domain.Status(strings.ToLower(status))
				in.Status = &s
			}
			if flags.Changed("priority") {
				p := domain.Priority(strings.ToLower(priority))
				in.Priority = &p
			}
			i, err := a.client.UpdateIssue(a.ctx(cmd), args[0], in)
			if err != nil {
				return err
			}
			renderIssue(cmd.OutOrStdout(), i)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&status, "status", "", "new status")
	cmd.Flags().StringVar(&priority, "priority", "", "new priority")
	return cmd
}

func (a *app) issuesStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <open|in_progress|done>",
		Short: "Move an issue through the workflow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := a.client.SetIssueStatus(a.ctx(cmd), args[0], domain.Status(strings.ToLower(args[1])))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Issue %s is now %s\n", i.ID, i.Status)
			return nil
		},
	}
}

func (a *app) issuesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DeleteIssue(a.ctx(cmd), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted issue %s\n", args[0])
			return nil
		},
	}
}
