package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pable/go-nba-metrics/internal/config"
	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/normalize"
)

func ip(v int) *int { return &v }

func sampleInput(gameID string) GameInput {
	return GameInput{
		GameID:   gameID,
		HomeTeam: "GSW",
		AwayTeam: "DEN",
		GameDate: "2026-01-15",
		Events: []model.RawEvent{
			{Seq: 1, Quarter: 1, Description: "Curry 3PT Jump Shot", TeamID: "GSW", HomeScore: ip(3), AwayScore: ip(0)},
			{Seq: 2, Quarter: 1, Description: "Jokic Driving Dunk", TeamID: "DEN", AwayScore: ip(2)},
			{Seq: 3, Quarter: 1, Description: "Turnover: Bad Pass", TeamID: "GSW"},
			{Seq: 4, Quarter: 2, Description: "Murray Jump Shot", TeamID: "DEN", AwayScore: ip(4)},
			{Seq: 5, Quarter: 2, Description: "Green Defensive Rebound", TeamID: "GSW"},
			{Seq: 6, Quarter: 2, Description: "Curry Layup", TeamID: "GSW", HomeScore: ip(5)},
		},
		BoxScore: []model.BoxScoreLine{
			{GameID: gameID, PlayerID: "curry", PlayerName: "Stephen Curry", Points: 5},
		},
	}
}

func badInput(gameID string) GameInput {
	in := sampleInput(gameID)
	// Home score regresses, which normalization must reject.
	in.Events = append(in.Events, model.RawEvent{
		Seq: 7, Quarter: 2, Description: "Jokic Hook Shot", TeamID: "DEN", HomeScore: ip(1),
	})
	return in
}

func TestAnalyzeGame(t *testing.T) {
	res, err := AnalyzeGame(sampleInput("g1"), config.New())
	require.NoError(t, err)

	assert.Equal(t, "g1", res.Summary.GameID)
	assert.Equal(t, 6, res.Summary.EventCount)
	assert.Equal(t, 5, res.Summary.HomeScore)
	assert.Equal(t, 4, res.Summary.AwayScore)
	assert.Empty(t, res.Malformed)
	require.Len(t, res.Segments, 2)
	assert.Equal(t, 1, res.Segments[0].Quarter)
	assert.Equal(t, 2, res.Segments[1].Quarter)
	assert.Len(t, res.BoxScore, 1)
}

func TestAnalyzeGameNormalizeFailure(t *testing.T) {
	_, err := AnalyzeGame(badInput("g9"), config.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "g9")

	var mse *normalize.MalformedStreamError
	require.ErrorAs(t, err, &mse)
	assert.Equal(t, "g9", mse.GameID)
}

func TestAnalyzeGamesIsolatesFailures(t *testing.T) {
	ins := []GameInput{sampleInput("good1"), badInput("bad1"), sampleInput("good2")}

	analyses, failures, err := AnalyzeGames(ins, config.New(), zap.NewNop())
	require.NoError(t, err)

	assert.Len(t, analyses, 2)
	require.Len(t, failures, 1)
	assert.Contains(t, failures, "bad1")

	got := map[string]bool{}
	for _, a := range analyses {
		got[a.Summary.GameID] = true
	}
	assert.True(t, got["good1"] && got["good2"])
}

func TestClusterSeason(t *testing.T) {
	var lines []model.BoxScoreLine
	for i, pts := range []int{2, 3, 4, 15, 16, 17, 30, 31, 32} {
		lines = append(lines, model.BoxScoreLine{
			PlayerID: "curry",
			GameID:   string(rune('a' + i)),
			Points:   pts,
		})
	}

	batch, res, err := ClusterSeason(lines, config.New())
	require.NoError(t, err)
	assert.Len(t, batch.Features, 9)
	assert.Len(t, res.Assignments, 9)
	assert.Equal(t, 3, res.K)
}

func TestClusterSeasonInsufficientData(t *testing.T) {
	lines := []model.BoxScoreLine{{PlayerID: "curry", GameID: "g1", Points: 10}}

	_, _, err := ClusterSeason(lines, config.New())
	require.Error(t, err)
}
