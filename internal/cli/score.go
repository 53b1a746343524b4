package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score recording commands",
	}

	cmd.AddCommand(newScoreAddCmd())
	cmd.AddCommand(newScoreUndoCmd())
	cmd.AddCommand(newScoreClearCmd())

	return cmd
}

func newScoreAddCmd() *cobra.Command {
	var activityID string

	cmd := &cobra.Command{
		Use:   "add <board-id> <player-id>=<points> <player-id>=<points> [...]",
		Short: "Record a match result",
		Long: `Record a match result for two or more players.

Each participant is given as player-id=raw-points, for example:

  tally score add bd_1 --activity ac_1 pl_alice=11 pl_bob=7

The raw points only rank the participants within this match; standings
points (2 for the win, 1 each for a tie) are derived from them.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			boardID := args[0]

			participants := make([]map[string]any, 0, len(args)-1)
			for _, arg := range args[1:] {
				playerID, pointsStr, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("invalid participant %q, expected player-id=points", arg)
				}
				points, err := strconv.ParseFloat(pointsStr, 64)
				if err != nil {
					return fmt.Errorf("invalid points in %q: %w", arg, err)
				}
				participants = append(participants, map[string]any{
					"player_id": playerID,
					"points":    points,
				})
			}

			req := map[string]any{
				"activity_id":  activityID,
				"participants": participants,
			}

			var result Score
			if err := client.Post(fmt.Sprintf("/api/v1/boards/%s/scores", boardID), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&activityID, "activity", "", "Activity id (required)")
	_ = cmd.MarkFlagRequired("activity")

	return cmd
}

func newScoreUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo <board-id>",
		Short: "Remove the most recently recorded score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/v1/boards/%s/scores/last", args[0])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Last score removed")
			return nil
		},
	}
}

func newScoreClearCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "clear <board-id>",
		Short: "Clear every recorded score on a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("clearing is irreversible, pass --yes to confirm")
			}

			if err := client.Delete(fmt.Sprintf("/api/v1/boards/%s/scores", args[0])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("All scores cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm clearing all scores")

	return cmd
}

func newStandingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standings <board-id>",
		Short: "Show the board's leaderboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []StandingsRow
			if err := client.Get(fmt.Sprintf("/api/v1/boards/%s/standings", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
