package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/report"
	"github.com/pable/go-nba-metrics/internal/storage"
)

var playerCmd = &cobra.Command{
	Use:   "player <player-id>",
	Short: "Show a player's stored game log and latest tier breakdown",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayer,
}

func runPlayer(cmd *cobra.Command, args []string) error {
	playerID := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	lines, err := db.GetPlayerSeason(playerID)
	if err != nil {
		return fmt.Errorf("get player season: %w", err)
	}
	if len(lines) == 0 {
		fmt.Fprintf(os.Stderr, "No box-score lines stored for player %q\n", playerID)
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n%s  |  %d game(s)\n\n", lines[0].PlayerName, len(lines))
	report.PrintSeasonTable(os.Stdout, lines)

	run, err := db.GetLatestClusterRun(playerID)
	if err != nil {
		return fmt.Errorf("get cluster run: %w", err)
	}
	if run == nil {
		fmt.Fprintf(os.Stdout, "\nNo clustering run stored. Run 'nbametrics cluster %s' to build one.\n", playerID)
		return nil
	}

	assigns, err := db.GetClusterAssignments(run.RunID)
	if err != nil {
		return fmt.Errorf("get assignments: %w", err)
	}
	report.PrintClusterRunHeader(os.Stdout, *run)
	report.PrintTierSummaryTable(os.Stdout, report.SummarizeTiers(assigns, lines))
	return nil
}
