package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "tally",
		Short: "CLI tool for the tally leaderboard API",
		Long: `tally is a CLI tool for interacting with the tally leaderboard JSON API.

It supports board management, players, activities, score recording,
standings, export/import, and real-time SSE event streaming. Edit access
to a shared board is carried by the board's edit token (--token or a
share link's token).`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load the persisted profile id if not provided via flag/env
			if err := cfg.LoadProfile(); err != nil {
				return err
			}

			client = NewClient(cfg.ServerURL, cfg.Profile, cfg.Token, func(profile string) {
				_ = cfg.SaveProfile(profile)
			})
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: TALLY_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Profile, "profile", cfg.Profile, "Profile id (env: TALLY_PROFILE)")
	rootCmd.PersistentFlags().StringVar(&cfg.ProfileFile, "profile-file", cfg.ProfileFile, "Profile file path (env: TALLY_PROFILE_FILE)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Board edit token (env: TALLY_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")

	// Add subcommands
	rootCmd.AddCommand(newBoardCmd())
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newActivityCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newStandingsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
