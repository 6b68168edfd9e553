package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tileroll/internal/platform/tui"
	"github.com/vovakirdan/tileroll/internal/registry"
	"github.com/vovakirdan/tileroll/internal/storage"
)

var (
	flagScoresPlain bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show run history and the leaderboard",
	Long: `Browse the profile's best runs per mode and the shared leaderboard.

With --plain (or when stdout is not a terminal) the top 10 runs are printed
instead of opening the interactive scoreboard.

Examples:
  tileroll scores
  tileroll scores timed --plain
  tileroll scores --profile alice --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresPlain, "plain", false, "Print scores instead of opening the scoreboard")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the profile's run history")
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearRuns(flagProfile); err != nil {
			return err
		}
		fmt.Printf("Cleared run history for %q.\n", flagProfile)
		return nil
	}

	width, height, termErr := term.GetSize(int(os.Stdout.Fd()))
	if !flagScoresPlain && termErr == nil && len(args) == 0 {
		return tui.RunScoreboard(store, flagProfile, width, height)
	}

	modes := registry.List()
	if len(args) == 1 {
		mode, err := registry.Create(args[0])
		if err != nil {
			return err
		}
		modes = []registry.ModeInfo{{ID: mode.ID(), Title: mode.Title()}}
	}

	stats, err := store.RunStats(flagProfile)
	if err != nil {
		return err
	}
	fmt.Printf("Profile %s: %d games, best %d, %d tiles total\n", flagProfile, stats.Games, stats.Best, stats.Total)

	for _, m := range modes {
		runs, err := store.TopRuns(flagProfile, m.ID, 10)
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Printf("High Scores - %s\n", m.Title)
		if len(runs) == 0 {
			fmt.Println("  No runs recorded yet.")
			continue
		}
		fmt.Printf("  %-4s  %-6s  %-10s  %s\n", "Rank", "Score", "Ended by", "Date")
		fmt.Printf("  %-4s  %-6s  %-10s  %s\n", "----", "-----", "--------", "----")
		for i, r := range runs {
			fmt.Printf("  %-4d  %-6d  %-10s  %s\n", i+1, r.Score, r.Cause, r.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	top, err := store.Top(10)
	if err != nil {
		return err
	}
	if len(top) > 0 {
		fmt.Println()
		fmt.Println("Leaderboard")
		for i, e := range top {
			fmt.Printf("  #%-3d %-16s %d\n", i+1, e.Player, e.Score)
		}
	}
	return nil
}
