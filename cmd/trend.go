package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/report"
	"github.com/pable/go-nba-metrics/internal/storage"
)

var trendWindow int

var trendCmd = &cobra.Command{
	Use:   "trend <player-id>",
	Short: "Show a player's rolling game-impact trend",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrend,
}

func init() {
	trendCmd.Flags().IntVar(&trendWindow, "window", 5, "rolling average window in games")
}

func runTrend(cmd *cobra.Command, args []string) error {
	playerID := args[0]
	if trendWindow < 1 {
		return fmt.Errorf("--window must be >= 1")
	}

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

	games, err := db.ListGames()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	dateByGame := make(map[string]string, len(games))
	for _, g := range games {
		dateByGame[g.GameID] = g.GameDate
	}

	tierByGame := make(map[string]model.TierLabel)
	if run, err := db.GetLatestClusterRun(playerID); err != nil {
		return fmt.Errorf("get cluster run: %w", err)
	} else if run != nil {
		assigns, err := db.GetClusterAssignments(run.RunID)
		if err != nil {
			return fmt.Errorf("get assignments: %w", err)
		}
		for _, a := range assigns {
			tierByGame[a.GameID] = a.Label
		}
	}

	rows := make([]report.TrendRow, 0, len(lines))
	rollSum := 0.0
	for i, l := range lines {
		impact := l.GameImpact()
		rollSum += impact
		span := trendWindow
		if i+1 < span {
			span = i + 1
		} else if i >= trendWindow {
			rollSum -= lines[i-trendWindow].GameImpact()
		}
		rows = append(rows, report.TrendRow{
			GameID:     l.GameID,
			GameDate:   dateByGame[l.GameID],
			Impact:     impact,
			RollImpact: rollSum / float64(span),
			Tier:       tierByGame[l.GameID],
		})
	}

	fmt.Fprintf(os.Stdout, "\n%s  |  rolling window: %d game(s)\n\n", lines[0].PlayerName, trendWindow)
	report.PrintTrendTable(os.Stdout, rows, trendWindow)
	return nil
}
