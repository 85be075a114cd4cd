package commands

import (
	"encoding/json"
	"fmt"
	"quill/internal/services"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newGroupCmd(app *App) *cobra.Command {
	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Create, list and delete groups",
	}
	groupCmd.AddCommand(newGroupCreateCmd(app), newGroupListCmd(app), newGroupDeleteCmd(app))
	return groupCmd
}

func newGroupCreateCmd(app *App) *cobra.Command {
	var title, slug, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a group",
		Example: `  quilladmin group create --title "Cats" --slug cats
  quilladmin group create -t "Go" -s go -d "Everything Go"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := app.database()
			if err != nil {
				return err
			}
			group, err := services.NewGroupService(conn).Create(cmd.Context(), title, slug, description)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Created group %q (/group/%s/)", group.Title, group.Slug)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Group title")
	cmd.Flags().StringVarP(&slug, "slug", "s", "", "URL slug (letters, digits, - and _)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Group description")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("slug")
	return cmd
}

func newGroupListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := app.database()
			if err != nil {
				return err
			}
			groups, err := services.NewGroupService(conn).List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if app.jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(groups)
			}
			if len(groups) == 0 {
				warning(out, "No groups found")
				return nil
			}

			section(out, fmt.Sprintf("Groups (%d)", len(groups)))
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tSLUG\tTITLE")
			for _, g := range groups {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
			}
			return w.Flush()
		},
	}
}

func newGroupDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete a group; its posts are kept without a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := app.database()
			if err != nil {
				return err
			}
			if err := services.NewGroupService(conn).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Deleted group %s", args[0])
			return nil
		},
	}
}
