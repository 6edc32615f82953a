package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trackly/tracker/internal/listing"
	"github.com/trackly/tracker/internal/projects/domain"
)

func (a *app) projectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "p"},
		Short:   "List and manage projects",
	}
	cmd.AddCommand(
		a.projectsListCommand(),
		a.projectsGetCommand(),
		a.projectsCreateCommand(),
		a.projectsUpdateCommand(),
		a.projectsDeleteCommand(),
	)
	return cmd
}

func (a *app) projectsListCommand() *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl := listing.NewProjectList(a.client, a.pageSize(&f))
			if err := applyOrder(ctl, &f, domain.SortCreatedAt, domain.SortName); err != nil {
				return err
			}
			st, err := load(a.ctx(cmd), ctl, f.page)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if st.Total == 0 {
				fmt.Fprintln(out, "No projects yet. Create one with `tracker projects create --name ...`.")
				return nil
			}
			items := listing.ProjectSchema.Derive(st.Items, f.search, listing.Sort{})
			renderProjects(out, items)
			fmt.Fprintln(out, pageFooter(st, len(items)))
			return nil
		},
	}
	f.bind(cmd, []string{domain.SortCreatedAt, domain.SortName})
	return cmd
}

func (a *app) projectsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.GetProject(a.ctx(cmd), args[0])
			if err != nil {
				return err
			}
			renderProject(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func (a *app) projectsCreateCommand() *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := domain.CreateProject{Name: name}
			if cmd.Flags().Changed("description") {
				in.Description = &description
			}
			p, err := a.client.CreateProject(a.ctx(cmd), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name")
	cmd.Flags().StringVar(&description, "description", "", "project description")
	return cmd
}

func (a *app) projectsUpdateCommand() *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename a project or change its description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in domain.UpdateProject
			if cmd.Flags().Changed("name") {
				in.Name = &name
			}
			if cmd.Flags().Changed("description") {
				in.Description = &description
			}
			p, err := a.client.UpdateProject(a.ctx(cmd), args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	return cmd
}

func (a *app) projectsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project and all its issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DeleteProject(a.ctx(cmd), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", args[0])
			return nil
		},
	}
}
