package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/report"
	"github.com/pable/go-nba-metrics/internal/segment"
	"github.com/pable/go-nba-metrics/internal/storage"
)

var showPlayerID string

var showCmd = &cobra.Command{
	Use:   "show <game-id>",
	Short: "Show stored game analysis by id or unique prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showPlayerID, "player", "", "highlight a player id in the box score")
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	game, err := db.GetGame(args[0])
	if err != nil {
		return fmt.Errorf("query game: %w", err)
	}
	if game == nil {
		fmt.Fprintf(os.Stderr, "No game found matching %q\n", args[0])
		return nil
	}

	events, err := db.GetEvents(game.GameID)
	if err != nil {
		return fmt.Errorf("get events: %w", err)
	}
	// Stored streams partitioned cleanly at ingest time; re-deriving the
	// segments here is cheaper than persisting event slices per quarter.
	segs, err := segment.Partition(game.GameID, events)
	if err != nil {
		return fmt.Errorf("partition events: %w", err)
	}
	shifts, err := db.GetMomentumEvents(game.GameID)
	if err != nil {
		return fmt.Errorf("get momentum events: %w", err)
	}
	box, err := db.GetBoxScoreLines(game.GameID)
	if err != nil {
		return fmt.Errorf("get box score: %w", err)
	}

	report.PrintGameSummary(os.Stdout, *game)
	report.PrintQuarterTable(os.Stdout, segs)
	fmt.Fprintln(os.Stdout)
	report.PrintMomentumTable(os.Stdout, shifts)
	fmt.Fprintln(os.Stdout)
	report.PrintBoxScoreTable(os.Stdout, box, showPlayerID)
	return nil
}
