package cmd

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/storage"
)

var exportOut string

// exportDoc is the top-level JSON schema written by the export command. One
// record per stored entity so downstream consumers never have to re-derive
// analysis output.
type exportDoc struct {
	GameID     string             `json:"game_id"`
	HomeTeam   string             `json:"home_team"`
	AwayTeam   string             `json:"away_team"`
	GameDate   string             `json:"game_date"`
	HomeScore  int                `json:"home_score"`
	AwayScore  int                `json:"away_score"`
	Events     []exportEvent      `json:"events"`
	Segments   []exportSegment    `json:"quarter_segments"`
	Momentum   []exportMomentum   `json:"momentum_events"`
	BoxScore   []exportBoxScore   `json:"box_score"`
}

type exportEvent struct {
	Seq          int     `json:"seq"`
	Quarter      int     `json:"quarter"`
	ClockSeconds float64 `json:"clock_seconds"`
	Kind         string  `json:"kind"`
	TeamID       string  `json:"team_id,omitempty"`
	PlayerID     string  `json:"player_id,omitempty"`
	HomeScore    int     `json:"home_score"`
	AwayScore    int     `json:"away_score"`
}

type exportSegment struct {
	Quarter   int    `json:"quarter"`
	Label     string `json:"label"`
	StartHome int    `json:"start_home"`
	StartAway int    `json:"start_away"`
	EndHome   int    `json:"end_home"`
	EndAway   int    `json:"end_away"`
	NetHome   int    `json:"net_home"`
}

type exportMomentum struct {
	Quarter     int     `json:"quarter"`
	Seq         int     `json:"seq"`
	Direction   string  `json:"direction"`
	Magnitude   float64 `json:"magnitude"`
	WindowStart int     `json:"window_start"`
	WindowEnd   int     `json:"window_end"`
}

type exportBoxScore struct {
	PlayerID     string  `json:"player_id"`
	PlayerName   string  `json:"player_name"`
	Points       int     `json:"pts"`
	Rebounds     int     `json:"reb"`
	Assists      int     `json:"ast"`
	Steals       int     `json:"stl"`
	Blocks       int     `json:"blk"`
	Turnovers    int     `json:"tov"`
	PlusMinus    int     `json:"plus_minus"`
	TrueShooting float64 `json:"true_shooting"`
	UsageRate    float64 `json:"usage_rate"`
	GameImpact   float64 `json:"game_impact"`
	Won          bool    `json:"won"`
}

var exportCmd = &cobra.Command{
	Use:   "export <game-id>",
	Short: "Export a stored game analysis as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("no game found matching %q", args[0])
	}

	events, err := db.GetEvents(game.GameID)
	if err != nil {
		return fmt.Errorf("get events: %w", err)
	}
	segs, err := db.GetQuarterSegments(game.GameID)
	if err != nil {
		return fmt.Errorf("get segments: %w", err)
	}
	shifts, err := db.GetMomentumEvents(game.GameID)
	if err != nil {
		return fmt.Errorf("get momentum events: %w", err)
	}
	box, err := db.GetBoxScoreLines(game.GameID)
	if err != nil {
		return fmt.Errorf("get box score: %w", err)
	}

	doc := buildExportDoc(*game, events, segs, shifts, box)
	data, err := sonic.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	if exportOut == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOut, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", exportOut)
	return nil
}

func buildExportDoc(game model.GameSummary, events []model.Event,
	segs []model.QuarterSegment, shifts []model.MomentumEvent,
	box []model.BoxScoreLine) exportDoc {

	doc := exportDoc{
		GameID:    game.GameID,
		HomeTeam:  game.HomeTeam,
		AwayTeam:  game.AwayTeam,
		GameDate:  game.GameDate,
		HomeScore: game.HomeScore,
		AwayScore: game.AwayScore,
	}
	for _, e := range events {
		doc.Events = append(doc.Events, exportEvent{
			Seq:          e.Seq,
			Quarter:      e.Quarter,
			ClockSeconds: e.ClockSeconds,
			Kind:         e.Kind.String(),
			TeamID:       e.TeamID,
			PlayerID:     e.PlayerID,
			HomeScore:    e.HomeScore,
			AwayScore:    e.AwayScore,
		})
	}
	for _, s := range segs {
		doc.Segments = append(doc.Segments, exportSegment{
			Quarter:   s.Quarter,
			Label:     s.Label(),
			StartHome: s.StartHome,
			StartAway: s.StartAway,
			EndHome:   s.EndHome,
			EndAway:   s.EndAway,
			NetHome:   s.NetHome(),
		})
	}
	for _, m := range shifts {
		doc.Momentum = append(doc.Momentum, exportMomentum{
			Quarter:     m.Quarter,
			Seq:         m.Seq,
			Direction:   m.Direction.String(),
			Magnitude:   m.Magnitude,
			WindowStart: m.WindowStart,
			WindowEnd:   m.WindowEnd,
		})
	}
	for _, l := range box {
		doc.BoxScore = append(doc.BoxScore, exportBoxScore{
			PlayerID:     l.PlayerID,
			PlayerName:   l.PlayerName,
			Points:       l.Points,
			Rebounds:     l.Rebounds,
			Assists:      l.Assists,
			Steals:       l.Steals,
			Blocks:       l.Blocks,
			Turnovers:    l.Turnovers,
			PlusMinus:    l.PlusMinus,
			TrueShooting: l.TrueShooting(),
			UsageRate:    l.UsageRate(),
			GameImpact:   l.GameImpact(),
			Won:          l.Won,
		})
	}
	return doc
}
