package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerAddCmd())
	cmd.AddCommand(newPlayerPhotoCmd())

	return cmd
}

func newPlayerAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <board-id> <name>",
		Short: "Add a player to a board",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": args[1]}

			var result Player
			if err := client.Post(fmt.Sprintf("/api/v1/boards/%s/players", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerPhotoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "photo <board-id> <player-id> <image-file>",
		Short: "Set a player's photo from an image file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[2])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			path := fmt.Sprintf("/api/v1/boards/%s/players/%s/photo", args[0], args[1])
			if err := client.DoRaw("PUT", path, "application/octet-stream", data, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Photo set for player %s", args[1]))
			return nil
		},
	}
}

func newActivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Activity type management commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <board-id> <name>",
		Short: "Add an activity type to a board",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": args[1]}

			var result Activity
			if err := client.Post(fmt.Sprintf("/api/v1/boards/%s/activities", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	})

	return cmd
}
