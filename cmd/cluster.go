package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/cluster"
	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/pipeline"
	"github.com/pable/go-nba-metrics/internal/report"
	"github.com/pable/go-nba-metrics/internal/storage"
)

var (
	clusterK        int
	clusterSeed     int64
	clusterRestarts int
)

var clusterCmd = &cobra.Command{
	Use:   "cluster <player-id>",
	Short: "Cluster a player's stored games into performance tiers",
	Long: `Extract a feature vector from every stored box-score line of the player,
z-score the batch, and group the games into performance tiers with seeded
k-means. The run and its per-game assignments are stored and become the
player's latest tier view.`,
	Args: cobra.ExactArgs(1),
	RunE: runCluster,
}

func init() {
	clusterCmd.Flags().IntVar(&clusterK, "k", 0, "cluster count (default from config)")
	clusterCmd.Flags().Int64Var(&clusterSeed, "seed", 0, "random seed (default from config)")
	clusterCmd.Flags().IntVar(&clusterRestarts, "restarts", 0, "k-means restarts (default from config)")
}

func runCluster(cmd *cobra.Command, args []string) error {
	playerID := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("k") {
		cfg.ClusterCount = clusterK
	}
	if cmd.Flags().Changed("seed") {
		cfg.RandomSeed = clusterSeed
	}
	if cmd.Flags().Changed("restarts") {
		cfg.ClusterRestarts = clusterRestarts
	}
	if err := cfg.Validate(); err != nil {
		return err
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

	_, res, err := pipeline.ClusterSeason(lines, cfg)
	if err != nil {
		var insufficient *cluster.InsufficientDataError
		if errors.As(err, &insufficient) {
			fmt.Fprintf(os.Stderr, "Not enough games: %v. Ingest more games or lower --k.\n", insufficient)
			return nil
		}
		return err
	}

	run := model.ClusterRun{
		RunID:      res.RunID,
		PlayerID:   playerID,
		K:          res.K,
		Seed:       res.Seed,
		Inertia:    res.Inertia,
		Silhouette: res.Silhouette,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := db.InsertClusterRun(run, res.Assignments); err != nil {
		return fmt.Errorf("store cluster run: %w", err)
	}

	report.PrintClusterRunHeader(os.Stdout, run)
	report.PrintClusterTable(os.Stdout, res.Assignments)
	fmt.Fprintln(os.Stdout)
	report.PrintTierSummaryTable(os.Stdout, report.SummarizeTiers(res.Assignments, lines))
	return nil
}
