package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Board management commands",
	}

	cmd.AddCommand(newBoardCreateCmd())
	cmd.AddCommand(newBoardListCmd())
	cmd.AddCommand(newBoardGetCmd())
	cmd.AddCommand(newBoardSelectCmd())
	cmd.AddCommand(newBoardShareCmd())
	cmd.AddCommand(newBoardTransferCmd())
	cmd.AddCommand(newBoardExportCmd())

	return cmd
}

func newBoardCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": args[0]}

			var result Board
			if err := client.Post("/api/v1/boards", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newBoardListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List this profile's boards",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result BoardList
			if err := client.Get("/api/v1/boards", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newBoardGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <board-id>",
		Short: "Open a board (fetches the latest shared state)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Board
			if err := client.Get(fmt.Sprintf("/api/v1/boards/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newBoardSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <board-id>",
		Short: "Select a board as the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(fmt.Sprintf("/api/v1/boards/%s/select", args[0]), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Selected board %s", args[0]))
			return nil
		},
	}
}

func newBoardShareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "share <board-id>",
		Short: "Print the board's share link and edit token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ShareLink
			if err := client.Get(fmt.Sprintf("/api/v1/boards/%s/share", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newBoardTransferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <board-id> <new-owner-id>",
		Short: "Transfer board ownership (owner only, rotates the edit token)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"new_owner_id": args[1]}

			if err := client.Post(fmt.Sprintf("/api/v1/boards/%s/transfer", args[0]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Transferred board %s to %s", args[0], args[1]))
			return nil
		},
	}
}

func newBoardExportCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "export <board-id>",
		Short: "Export one board as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := client.GetBytes(fmt.Sprintf("/api/v1/boards/%s/export", args[0]))
			if err != nil {
				return err
			}

			if outFile == "" {
				fmt.Print(string(data))
				return nil
			}

			if err := os.WriteFile(outFile, data, 0600); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Exported board %s to %s", args[0], outFile))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "file", "f", "", "Write to file instead of stdout")

	return cmd
}
