package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/config"
	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/momentum"
	"github.com/pable/go-nba-metrics/internal/report"
	"github.com/pable/go-nba-metrics/internal/segment"
	"github.com/pable/go-nba-metrics/internal/storage"
)

var (
	momentumWindow     int
	momentumMode       string
	momentumThreshold  float64
	momentumMultiplier float64
	momentumScope      string
)

var momentumCmd = &cobra.Command{
	Use:   "momentum <game-id>",
	Short: "Re-run momentum detection on a stored game",
	Long: `Re-run the momentum detector over a stored game's event stream with the
current config, optionally overridden per flag. The stored shifts are left
untouched; this command only prints the result.`,
	Args: cobra.ExactArgs(1),
	RunE: runMomentum,
}

func init() {
	momentumCmd.Flags().IntVar(&momentumWindow, "window", 0, "trailing window in possessions (default from config)")
	momentumCmd.Flags().StringVar(&momentumMode, "mode", "", "threshold mode: FIXED or VARIANCE_SCALED (default from config)")
	momentumCmd.Flags().Float64Var(&momentumThreshold, "threshold", 0, "reversal threshold in points, FIXED mode (default from config)")
	momentumCmd.Flags().Float64Var(&momentumMultiplier, "multiplier", 0, "stddev multiplier, VARIANCE_SCALED mode (default from config)")
	momentumCmd.Flags().StringVar(&momentumScope, "scope", "quarter", "detection scope: quarter or game")
}

func runMomentum(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("window") {
		cfg.MomentumWindowPossessions = momentumWindow
	}
	if cmd.Flags().Changed("mode") {
		cfg.MomentumThresholdMode = momentumMode
	}
	if cmd.Flags().Changed("threshold") {
		cfg.MomentumThreshold = momentumThreshold
	}
	if cmd.Flags().Changed("multiplier") {
		cfg.MomentumVarianceMultiplier = momentumMultiplier
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

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

	var shifts []model.MomentumEvent
	switch momentumScope {
	case "quarter":
		segs, err := segment.Partition(game.GameID, events)
		if err != nil {
			return fmt.Errorf("partition events: %w", err)
		}
		shifts, err = momentum.DetectQuarters(segs, cfg.MomentumConfig())
		if err != nil {
			return fmt.Errorf("detect momentum: %w", err)
		}
	case "game":
		shifts, err = momentum.Detect(events, 0, 0, cfg.MomentumConfig())
		if err != nil {
			return fmt.Errorf("detect momentum: %w", err)
		}
	default:
		return fmt.Errorf("unknown --scope %q: use quarter or game", momentumScope)
	}

	report.PrintGameSummary(os.Stdout, *game)
	fmt.Fprintf(os.Stdout, "Window: %d possessions  |  Mode: %s\n\n",
		cfg.MomentumWindowPossessions, momentumModeLabel(cfg))
	report.PrintMomentumTable(os.Stdout, shifts)
	return nil
}

func momentumModeLabel(cfg *config.Config) string {
	if cfg.MomentumThresholdMode == config.ThresholdFixed {
		return fmt.Sprintf("FIXED (%.1f pts)", cfg.MomentumThreshold)
	}
	return fmt.Sprintf("VARIANCE_SCALED (x%.2f)", cfg.MomentumVarianceMultiplier)
}
