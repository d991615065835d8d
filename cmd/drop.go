package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/storage"
)

var dropForce bool

var dropCmd = &cobra.Command{
	Use:   "drop [game-id]",
	Short: "Delete a stored game, or the whole database",
	Long: `With a game id, delete that game and every row derived from it.
Without arguments, permanently delete the SQLite metrics database; all stored
game data will be lost. Re-ingest your game files afterwards to rebuild.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return dropGame(args[0])
	}

	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func dropGame(idOrPrefix string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	game, err := db.GetGame(idOrPrefix)
	if err != nil {
		return fmt.Errorf("query game: %w", err)
	}
	if game == nil {
		fmt.Fprintf(os.Stderr, "No game found matching %q\n", idOrPrefix)
		return nil
	}
	if err := db.DeleteGame(game.GameID); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted game %s\n", game.GameID)
	return nil
}
