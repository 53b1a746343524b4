package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export this profile's full state as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := client.GetBytes("/api/v1/export")
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
			out.PrintMessage(fmt.Sprintf("Exported to %s", outFile))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "file", "f", "", "Write to file instead of stdout")

	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a previously exported state, replacing this profile's boards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}

			var result BoardList
			if err := client.DoRaw("POST", "/api/v1/import", "application/json", data, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
