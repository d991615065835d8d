package storage

import (
	"testing"

	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/normalize"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleGame(id, date string) model.GameSummary {
	return model.GameSummary{
		GameID:     id,
		HomeTeam:   "GSW",
		AwayTeam:   "DEN",
		GameDate:   date,
		HomeScore:  110,
		AwayScore:  104,
		EventCount: 2,
	}
}

func TestGameInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertGame(sampleGame("0022500001", "2026-01-01")); err != nil {
		t.Fatalf("InsertGame: %v", err)
	}

	exists, err := db.GameExists("0022500001")
	if err != nil {
		t.Fatalf("GameExists: %v", err)
	}
	if !exists {
		t.Error("expected game to exist after insert")
	}
	exists2, _ := db.GameExists("nonexistent")
	if exists2 {
		t.Error("expected unknown game to not exist")
	}
}

func TestListGamesOrder(t *testing.T) {
	db := openMemDB(t)

	db.InsertGame(sampleGame("g1", "2026-01-01"))
	db.InsertGame(sampleGame("g2", "2026-02-01"))

	list, err := db.ListGames()
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 games, got %d", len(list))
	}
	// Ordered by game_date DESC — g2 should be first.
	if list[0].GameID != "g2" {
		t.Errorf("expected g2 first (newest), got %s", list[0].GameID)
	}
}

func TestGetGameByPrefix(t *testing.T) {
	db := openMemDB(t)

	db.InsertGame(sampleGame("0022500312", "2026-01-01"))

	g, err := db.GetGame("00225")
	if err != nil {
		t.Fatalf("GetGame prefix: %v", err)
	}
	if g == nil || g.GameID != "0022500312" {
		t.Fatalf("expected match for prefix, got %+v", g)
	}

	g2, err := db.GetGame("ffff")
	if err != nil {
		t.Fatalf("GetGame no-match: %v", err)
	}
	if g2 != nil {
		t.Error("expected nil for unknown prefix")
	}

	db.InsertGame(sampleGame("0022500399", "2026-01-02"))
	if _, err := db.GetGame("00225"); err == nil {
		t.Error("expected error for ambiguous prefix")
	}
}

func TestEventsRoundTrip(t *testing.T) {
	db := openMemDB(t)
	db.InsertGame(sampleGame("g1", "2026-01-01"))

	events := []model.Event{
		{Seq: 1, Quarter: 1, ClockSeconds: 700, Kind: model.KindScore, TeamID: "GSW", PlayerID: "curry", HomeScore: 3, AwayScore: 0},
		{Seq: 2, Quarter: 1, ClockSeconds: 680, Kind: model.KindRebound, TeamID: "DEN", HomeScore: 3, AwayScore: 0},
	}
	if err := db.InsertEvents("g1", events); err != nil {
		t.Fatalf("InsertEvents: %v", err)
	}

	got, err := db.GetEvents("g1")
	if err != nil {
		t.Fatalf("GetEvents: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Kind != model.KindScore || got[1].Kind != model.KindRebound {
		t.Errorf("kinds did not round-trip: %v, %v", got[0].Kind, got[1].Kind)
	}
	if got[0].PlayerID != "curry" || got[0].HomeScore != 3 {
		t.Errorf("event fields mismatch: %+v", got[0])
	}
}

func TestMalformedRecordsStored(t *testing.T) {
	db := openMemDB(t)
	db.InsertGame(sampleGame("g1", "2026-01-01"))

	recs := []normalize.MalformedRecord{
		{Seq: 7, Reason: "SCORE event missing team"},
	}
	if err := db.InsertMalformedRecords("g1", recs); err != nil {
		t.Fatalf("InsertMalformedRecords: %v", err)
	}

	cols, rows, err := db.QueryRaw("SELECT seq, reason FROM malformed_records WHERE game_id = 'g1'")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 2 || len(rows) != 1 {
		t.Fatalf("expected 1 row of 2 cols, got %d/%d", len(rows), len(cols))
	}
	if rows[0][0] != "7" {
		t.Errorf("seq = %s, want 7", rows[0][0])
	}
}

func TestBoxScoreAndPlayerSeason(t *testing.T) {
	db := openMemDB(t)
	db.InsertGame(sampleGame("g1", "2026-02-01"))
	db.InsertGame(sampleGame("g2", "2026-01-01"))

	lines := []model.BoxScoreLine{
		{GameID: "g1", PlayerID: "curry", PlayerName: "Stephen Curry", Points: 31, Rebounds: 5, PlusMinus: 8, MinutesPlayed: 34.5, TeamPossessions: 98, Won: true},
	}
	if err := db.InsertBoxScoreLines("g1", lines); err != nil {
		t.Fatalf("InsertBoxScoreLines g1: %v", err)
	}
	lines[0].GameID = "g2"
	lines[0].Points = 18
	lines[0].Won = false
	if err := db.InsertBoxScoreLines("g2", lines); err != nil {
		t.Fatalf("InsertBoxScoreLines g2: %v", err)
	}

	season, err := db.GetPlayerSeason("curry")
	if err != nil {
		t.Fatalf("GetPlayerSeason: %v", err)
	}
	if len(season) != 2 {
		t.Fatalf("expected 2 season lines, got %d", len(season))
	}
	// Season order follows game_date ascending — g2 is the older game.
	if season[0].GameID != "g2" || season[1].GameID != "g1" {
		t.Errorf("season order: %s, %s", season[0].GameID, season[1].GameID)
	}
	if !season[1].Won || season[1].Points != 31 {
		t.Errorf("g1 line mismatch: %+v", season[1])
	}
	if season[1].MinutesPlayed != 34.5 {
		t.Errorf("minutes = %f, want 34.5", season[1].MinutesPlayed)
	}
}

func TestMomentumEventsRoundTrip(t *testing.T) {
	db := openMemDB(t)
	db.InsertGame(sampleGame("g1", "2026-01-01"))

	shifts := []model.MomentumEvent{
		{Quarter: 2, Seq: 120, Direction: model.DirectionAway, Magnitude: 9, WindowStart: 101, WindowEnd: 120},
	}
	if err := db.InsertMomentumEvents("g1", shifts); err != nil {
		t.Fatalf("InsertMomentumEvents: %v", err)
	}

	got, err := db.GetMomentumEvents("g1")
	if err != nil {
		t.Fatalf("GetMomentumEvents: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 shift, got %d", len(got))
	}
	if got[0].Direction != model.DirectionAway || got[0].Magnitude != 9 {
		t.Errorf("shift mismatch: %+v", got[0])
	}
}

func TestClusterRunRoundTrip(t *testing.T) {
	db := openMemDB(t)
	db.InsertGame(sampleGame("g1", "2026-01-01"))

	run := model.ClusterRun{
		RunID: "run-1", PlayerID: "curry", K: 3, Seed: 42,
		Inertia: 12.5, Silhouette: 0.61, CreatedAt: "2026-03-01T00:00:00Z",
	}
	assigns := []model.ClusterAssignment{
		{PlayerID: "curry", GameID: "g1", ClusterID: 2, Label: model.TierHot, Distance: 0.8},
	}
	if err := db.InsertClusterRun(run, assigns); err != nil {
		t.Fatalf("InsertClusterRun: %v", err)
	}

	latest, err := db.GetLatestClusterRun("curry")
	if err != nil {
		t.Fatalf("GetLatestClusterRun: %v", err)
	}
	if latest == nil || latest.RunID != "run-1" || latest.K != 3 {
		t.Fatalf("latest run mismatch: %+v", latest)
	}

	got, err := db.GetClusterAssignments("run-1")
	if err != nil {
		t.Fatalf("GetClusterAssignments: %v", err)
	}
	if len(got) != 1 || got[0].Label != model.TierHot || got[0].ClusterID != 2 {
		t.Errorf("assignment mismatch: %+v", got)
	}

	none, err := db.GetLatestClusterRun("unknown")
	if err != nil {
		t.Fatalf("GetLatestClusterRun unknown: %v", err)
	}
	if none != nil {
		t.Error("expected nil run for unknown player")
	}
}

func TestDeleteGame(t *testing.T) {
	db := openMemDB(t)
	db.InsertGame(sampleGame("g1", "2026-01-01"))
	db.InsertEvents("g1", []model.Event{{Seq: 1, Quarter: 1, Kind: model.KindScore, TeamID: "GSW", HomeScore: 2}})

	if err := db.DeleteGame("g1"); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	exists, _ := db.GameExists("g1")
	if exists {
		t.Error("game still exists after delete")
	}
	events, _ := db.GetEvents("g1")
	if len(events) != 0 {
		t.Errorf("expected no events after delete, got %d", len(events))
	}
}

func TestQueryRawRejectsWrites(t *testing.T) {
	db := openMemDB(t)

	if _, _, err := db.QueryRaw("DELETE FROM games"); err == nil {
		t.Error("expected non-SELECT query to be rejected")
	}
}

func TestInsertIdempotency(t *testing.T) {
	db := openMemDB(t)

	g := sampleGame("idem1", "2026-01-01")
	db.InsertGame(g)
	// Second insert should not error (INSERT OR REPLACE).
	if err := db.InsertGame(g); err != nil {
		t.Errorf("second InsertGame should succeed (idempotent): %v", err)
	}
}
