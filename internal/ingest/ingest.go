// Package ingest decodes pre-fetched game files into pipeline inputs. All
// network fetching, caching, and rate limiting happens upstream; this layer
// only reads what is already on disk.
package ingest

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/pipeline"
)

// gameFile is the on-disk JSON schema for one game: metadata, the raw
// play-by-play rows, and the box-score aggregates.
type gameFile struct {
	GameID   string         `json:"game_id"`
	HomeTeam string         `json:"home_team"`
	AwayTeam string         `json:"away_team"`
	GameDate string         `json:"game_date"`
	Events   []eventRow     `json:"events"`
	BoxScore []boxScoreRow  `json:"box_score"`
}

// eventRow mirrors one upstream play-by-play record. Score fields are
// pointers: the feed omits the running score on rows that do not change it.
type eventRow struct {
	Seq          int     `json:"seq"`
	Quarter      int     `json:"quarter"`
	ClockSeconds float64 `json:"clock_seconds"`
	Description  string  `json:"description"`
	TeamID       string  `json:"team_id"`
	PlayerID     string  `json:"player_id"`
	HomeScore    *int    `json:"home_score"`
	AwayScore    *int    `json:"away_score"`
}

type boxScoreRow struct {
	PlayerID        string  `json:"player_id"`
	PlayerName      string  `json:"player_name"`
	Points          int     `json:"pts"`
	Rebounds        int     `json:"reb"`
	Assists         int     `json:"ast"`
	Steals          int     `json:"stl"`
	Blocks          int     `json:"blk"`
	Turnovers       int     `json:"tov"`
	FGMade          int     `json:"fgm"`
	FGAttempted     int     `json:"fga"`
	ThreeMade       int     `json:"fg3m"`
	ThreeAttempted  int     `json:"fg3a"`
	FTMade          int     `json:"ftm"`
	FTAttempted     int     `json:"fta"`
	PlusMinus       int     `json:"plus_minus"`
	MinutesPlayed   float64 `json:"min"`
	TeamPossessions int     `json:"team_possessions"`
	Won             bool    `json:"won"`
}

// LoadGameFile reads and decodes one game JSON file.
func LoadGameFile(path string) (pipeline.GameInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.GameInput{}, fmt.Errorf("read game file: %w", err)
	}
	return DecodeGame(data)
}

// DecodeGame decodes one game from raw JSON bytes.
func DecodeGame(data []byte) (pipeline.GameInput, error) {
	var f gameFile
	if err := sonic.Unmarshal(data, &f); err != nil {
		return pipeline.GameInput{}, fmt.Errorf("decode game file: %w", err)
	}
	if f.GameID == "" {
		return pipeline.GameInput{}, fmt.Errorf("game file missing game_id")
	}

	in := pipeline.GameInput{
		GameID:   f.GameID,
		HomeTeam: f.HomeTeam,
		AwayTeam: f.AwayTeam,
		GameDate: f.GameDate,
	}
	for _, r := range f.Events {
		in.Events = append(in.Events, model.RawEvent{
			Seq:          r.Seq,
			Quarter:      r.Quarter,
			ClockSeconds: r.ClockSeconds,
			Description:  r.Description,
			TeamID:       r.TeamID,
			PlayerID:     r.PlayerID,
			HomeScore:    r.HomeScore,
			AwayScore:    r.AwayScore,
		})
	}
	for _, r := range f.BoxScore {
		in.BoxScore = append(in.BoxScore, model.BoxScoreLine{
			PlayerID:        r.PlayerID,
			PlayerName:      r.PlayerName,
			GameID:          f.GameID,
			Points:          r.Points,
			Rebounds:        r.Rebounds,
			Assists:         r.Assists,
			Steals:          r.Steals,
			Blocks:          r.Blocks,
			Turnovers:       r.Turnovers,
			FGMade:          r.FGMade,
			FGAttempted:     r.FGAttempted,
			ThreeMade:       r.ThreeMade,
			ThreeAttempted:  r.ThreeAttempted,
			FTMade:          r.FTMade,
			FTAttempted:     r.FTAttempted,
			PlusMinus:       r.PlusMinus,
			MinutesPlayed:   r.MinutesPlayed,
			TeamPossessions: r.TeamPossessions,
			Won:             r.Won,
		})
	}
	return in, nil
}
