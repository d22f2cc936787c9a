package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"ssrmodes/internal/posts"

	"github.com/spf13/cobra"
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Query the post endpoints and print JSON",
}

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List post ids and titles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		service, err := newPostService(loadConfig())
		if err != nil {
			return err
		}

		items, err := service.ListPostMetadata(cmd.Context())
		if err != nil {
			return fmt.Errorf("list posts: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), items)
	},
}

var postsGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Print one post, or null when it does not exist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := posts.ParseID(args[0])
		if err != nil {
			return fmt.Errorf("%s: %q", posts.KindInvalidID.Message(), args[0])
		}

		service, err := newPostService(loadConfig())
		if err != nil {
			return err
		}
		post, err := service.GetPost(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get post %d: %w", id, err)
		}
		return printJSON(cmd.OutOrStdout(), post)
	},
}

func init() {
	postsCmd.AddCommand(postsListCmd, postsGetCmd)
}

func printJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
