package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/report"
	"github.com/pable/go-nba-metrics/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SELECT query against the metrics database and print
results as a table.

Schema overview:
  games(game_id, home_team, away_team, game_date, home_score, away_score, event_count)
  events(game_id, seq, quarter, clock_seconds, kind, team_id, player_id,
    home_score, away_score)
  malformed_records(game_id, seq, reason)
  quarter_segments(game_id, quarter, start_seq, end_seq, start_home, start_away,
    end_home, end_away)
  box_score_lines(game_id, player_id, player_name, pts, reb, ast, stl, blk, tov,
    fgm, fga, fg3m, fg3a, ftm, fta, plus_minus, minutes, team_possessions, won)
  momentum_events(game_id, quarter, seq, direction, magnitude, window_start, window_end)
  cluster_runs(run_id, player_id, k, seed, inertia, silhouette, created_at)
  cluster_assignments(run_id, player_id, game_id, cluster_id, label, distance)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	report.PrintQueryResult(os.Stdout, cols, rows)
	return nil
}
