package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/ingest"
	"github.com/pable/go-nba-metrics/internal/logging"
	"github.com/pable/go-nba-metrics/internal/pipeline"
	"github.com/pable/go-nba-metrics/internal/storage"
)

var ingestForce bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <game.json>...",
	Short: "Analyze game files and store the results",
	Long: `Load one or more play-by-play game files, run the full analysis
(normalization, quarter segmentation, momentum detection) and store every
output in the metrics database. Games already stored are skipped unless
--force is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestForce, "force", "f", false, "re-analyze games that are already stored")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel)
	defer log.Sync()

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	var inputs []pipeline.GameInput
	for _, path := range args {
		in, err := ingest.LoadGameFile(path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		if !ingestForce {
			exists, err := db.GameExists(in.GameID)
			if err != nil {
				return fmt.Errorf("check game %s: %w", in.GameID, err)
			}
			if exists {
				fmt.Fprintf(os.Stderr, "Game %s already stored, skipping (use --force to re-analyze)\n", in.GameID)
				continue
			}
		}
		inputs = append(inputs, in)
	}
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stdout, "Nothing to ingest.")
		return nil
	}

	analyses, failures, err := pipeline.AnalyzeGames(inputs, cfg, log)
	if err != nil {
		return err
	}

	for _, a := range analyses {
		if err := storeAnalysis(db, a); err != nil {
			return fmt.Errorf("store game %s: %w", a.Summary.GameID, err)
		}
		fmt.Fprintf(os.Stdout, "Stored %s: %d events, %d quarters, %d momentum shifts, %d malformed records\n",
			a.Summary.GameID, len(a.Events), len(a.Segments), len(a.Momentum), len(a.Malformed))
	}

	if len(failures) > 0 {
		for id, ferr := range failures {
			fmt.Fprintf(os.Stderr, "failed: %s: %v\n", id, ferr)
		}
		return fmt.Errorf("%d of %d game(s) failed", len(failures), len(inputs))
	}
	return nil
}

func storeAnalysis(db *storage.DB, a *pipeline.GameAnalysis) error {
	if err := db.InsertGame(a.Summary); err != nil {
		return err
	}
	if err := db.InsertEvents(a.Summary.GameID, a.Events); err != nil {
		return err
	}
	if err := db.InsertMalformedRecords(a.Summary.GameID, a.Malformed); err != nil {
		return err
	}
	if err := db.InsertQuarterSegments(a.Summary.GameID, a.Segments); err != nil {
		return err
	}
	if err := db.InsertBoxScoreLines(a.Summary.GameID, a.BoxScore); err != nil {
		return err
	}
	return db.InsertMomentumEvents(a.Summary.GameID, a.Momentum)
}
