package commands

import (
	"fmt"
	"quill/internal/services"
	"strconv"

	"github.com/spf13/cobra"
)

func newPostCmd(app *App) *cobra.Command {
	postCmd := &cobra.Command{
		Use:   "post",
		Short: "Moderate posts",
	}
	postCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post together with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid post id %q", args[0])
			}
			conn, err := app.database()
			if err != nil {
				return err
			}
			if err := services.NewPostService(conn, nil).Delete(cmd.Context(), uint(id)); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Deleted post %d", id)
			muted(cmd.OutOrStdout(), "Cached index pages may still show it until they expire or the cache is flushed")
			return nil
		},
	})
	return postCmd
}
