package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/normalize"
)

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// GameExists reports whether a game with the given id is already stored.
func (db *DB) GameExists(gameID string) (bool, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(1) FROM games WHERE game_id = ?`, gameID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query game: %w", err)
	}
	return n > 0, nil
}

// InsertGame upserts the game summary row.
func (db *DB) InsertGame(g model.GameSummary) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO games
			(game_id, home_team, away_team, game_date, home_score, away_score, event_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.GameID, g.HomeTeam, g.AwayTeam, g.GameDate, g.HomeScore, g.AwayScore, g.EventCount)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// InsertEvents stores the normalized event stream for one game.
func (db *DB) InsertEvents(gameID string, events []model.Event) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO events
			(game_id, seq, quarter, clock_seconds, kind, team_id, player_id, home_score, away_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare event insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(gameID, e.Seq, e.Quarter, e.ClockSeconds,
			e.Kind.String(), e.TeamID, e.PlayerID, e.HomeScore, e.AwayScore); err != nil {
			return fmt.Errorf("insert event seq %d: %w", e.Seq, err)
		}
	}
	return tx.Commit()
}

// InsertMalformedRecords stores the records dropped during normalization.
func (db *DB) InsertMalformedRecords(gameID string, recs []normalize.MalformedRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO malformed_records (game_id, seq, reason)
		VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare malformed insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range recs {
		if _, err := stmt.Exec(gameID, r.Seq, r.Reason); err != nil {
			return fmt.Errorf("insert malformed record seq %d: %w", r.Seq, err)
		}
	}
	return tx.Commit()
}

// InsertQuarterSegments stores the segment boundaries for one game. The
// events themselves live in the events table; a segment row only records
// where it starts and ends.
func (db *DB) InsertQuarterSegments(gameID string, segs []model.QuarterSegment) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO quarter_segments
			(game_id, quarter, start_seq, end_seq, start_home, start_away, end_home, end_away)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare segment insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range segs {
		startSeq, endSeq := 0, 0
		if n := len(s.Events); n > 0 {
			startSeq = s.Events[0].Seq
			endSeq = s.Events[n-1].Seq
		}
		if _, err := stmt.Exec(gameID, s.Quarter, startSeq, endSeq,
			s.StartHome, s.StartAway, s.EndHome, s.EndAway); err != nil {
			return fmt.Errorf("insert segment Q%d: %w", s.Quarter, err)
		}
	}
	return tx.Commit()
}

// InsertBoxScoreLines stores the per-player box score for one game.
func (db *DB) InsertBoxScoreLines(gameID string, lines []model.BoxScoreLine) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO box_score_lines
			(game_id, player_id, player_name, pts, reb, ast, stl, blk, tov,
			 fgm, fga, fg3m, fg3a, ftm, fta, plus_minus, minutes, team_possessions, won)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare box score insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range lines {
		if _, err := stmt.Exec(gameID, l.PlayerID, l.PlayerName,
			l.Points, l.Rebounds, l.Assists, l.Steals, l.Blocks, l.Turnovers,
			l.FGMade, l.FGAttempted, l.ThreeMade, l.ThreeAttempted, l.FTMade, l.FTAttempted,
			l.PlusMinus, l.MinutesPlayed, l.TeamPossessions, boolInt(l.Won)); err != nil {
			return fmt.Errorf("insert box score line for %s: %w", l.PlayerID, err)
		}
	}
	return tx.Commit()
}

// InsertMomentumEvents stores the detected momentum shifts for one game.
func (db *DB) InsertMomentumEvents(gameID string, shifts []model.MomentumEvent) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO momentum_events
			(game_id, quarter, seq, direction, magnitude, window_start, window_end)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare momentum insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range shifts {
		if _, err := stmt.Exec(gameID, s.Quarter, s.Seq,
			s.Direction.String(), s.Magnitude, s.WindowStart, s.WindowEnd); err != nil {
			return fmt.Errorf("insert momentum event seq %d: %w", s.Seq, err)
		}
	}
	return tx.Commit()
}

// InsertClusterRun stores a clustering run and its per-game assignments in
// one transaction.
func (db *DB) InsertClusterRun(run model.ClusterRun, assigns []model.ClusterAssignment) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO cluster_runs
			(run_id, player_id, k, seed, inertia, silhouette, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.PlayerID, run.K, run.Seed, run.Inertia, run.Silhouette, run.CreatedAt); err != nil {
		return fmt.Errorf("insert cluster run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO cluster_assignments
			(run_id, player_id, game_id, cluster_id, label, distance)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare assignment insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range assigns {
		if _, err := stmt.Exec(run.RunID, a.PlayerID, a.GameID,
			a.ClusterID, string(a.Label), a.Distance); err != nil {
			return fmt.Errorf("insert assignment for game %s: %w", a.GameID, err)
		}
	}
	return tx.Commit()
}

// ListGames returns every stored game summary, newest first.
func (db *DB) ListGames() ([]model.GameSummary, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, home_team, away_team, game_date, home_score, away_score, event_count
		FROM games ORDER BY game_date DESC, game_id`)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var out []model.GameSummary
	for rows.Next() {
		var g model.GameSummary
		if err := rows.Scan(&g.GameID, &g.HomeTeam, &g.AwayTeam, &g.GameDate,
			&g.HomeScore, &g.AwayScore, &g.EventCount); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetGame looks a game up by full id first, then by unique prefix. Returns
// nil when nothing matches and an error when a prefix is ambiguous.
func (db *DB) GetGame(idOrPrefix string) (*model.GameSummary, error) {
	scanOne := func(row *sql.Row) (*model.GameSummary, error) {
		var g model.GameSummary
		err := row.Scan(&g.GameID, &g.HomeTeam, &g.AwayTeam, &g.GameDate,
			&g.HomeScore, &g.AwayScore, &g.EventCount)
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		return &g, nil
	}

	g, err := scanOne(db.conn.QueryRow(`
		SELECT game_id, home_team, away_team, game_date, home_score, away_score, event_count
		FROM games WHERE game_id = ?`, idOrPrefix))
	if err != nil || g != nil {
		return g, err
	}

	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(1) FROM games WHERE game_id LIKE ?`,
		idOrPrefix+"%").Scan(&n); err != nil {
		return nil, fmt.Errorf("query game prefix: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	if n > 1 {
		return nil, fmt.Errorf("game id prefix %q is ambiguous (%d matches)", idOrPrefix, n)
	}
	return scanOne(db.conn.QueryRow(`
		SELECT game_id, home_team, away_team, game_date, home_score, away_score, event_count
		FROM games WHERE game_id LIKE ?`, idOrPrefix+"%"))
}

// GetEvents returns the normalized event stream for one game in seq order.
func (db *DB) GetEvents(gameID string) ([]model.Event, error) {
	rows, err := db.conn.Query(`
		SELECT seq, quarter, clock_seconds, kind, team_id, player_id, home_score, away_score
		FROM events WHERE game_id = ? ORDER BY seq`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var (
			e    model.Event
			kind string
		)
		if err := rows.Scan(&e.Seq, &e.Quarter, &e.ClockSeconds, &kind,
			&e.TeamID, &e.PlayerID, &e.HomeScore, &e.AwayScore); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Kind = model.KindFromString(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetQuarterSegments returns the stored segment boundaries for one game.
// Segments come back without their event slices; callers that need the
// events re-partition the stream from GetEvents.
func (db *DB) GetQuarterSegments(gameID string) ([]model.QuarterSegment, error) {
	rows, err := db.conn.Query(`
		SELECT quarter, start_home, start_away, end_home, end_away
		FROM quarter_segments WHERE game_id = ? ORDER BY start_seq`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	var out []model.QuarterSegment
	for rows.Next() {
		var s model.QuarterSegment
		if err := rows.Scan(&s.Quarter, &s.StartHome, &s.StartAway,
			&s.EndHome, &s.EndAway); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMomentumEvents returns the stored momentum shifts for one game.
func (db *DB) GetMomentumEvents(gameID string) ([]model.MomentumEvent, error) {
	rows, err := db.conn.Query(`
		SELECT quarter, seq, direction, magnitude, window_start, window_end
		FROM momentum_events WHERE game_id = ? ORDER BY seq`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query momentum events: %w", err)
	}
	defer rows.Close()

	var out []model.MomentumEvent
	for rows.Next() {
		var (
			m   model.MomentumEvent
			dir string
		)
		if err := rows.Scan(&m.Quarter, &m.Seq, &dir, &m.Magnitude,
			&m.WindowStart, &m.WindowEnd); err != nil {
			return nil, fmt.Errorf("scan momentum event: %w", err)
		}
		m.Direction = model.DirectionFromString(dir)
		out = append(out, m)
	}
	return out, rows.Err()
}

const boxScoreColumns = `game_id, player_id, player_name, pts, reb, ast, stl, blk, tov,
	fgm, fga, fg3m, fg3a, ftm, fta, plus_minus, minutes, team_possessions, won`

func scanBoxScoreRows(rows *sql.Rows) ([]model.BoxScoreLine, error) {
	var out []model.BoxScoreLine
	for rows.Next() {
		var (
			l   model.BoxScoreLine
			won int
		)
		if err := rows.Scan(&l.GameID, &l.PlayerID, &l.PlayerName,
			&l.Points, &l.Rebounds, &l.Assists, &l.Steals, &l.Blocks, &l.Turnovers,
			&l.FGMade, &l.FGAttempted, &l.ThreeMade, &l.ThreeAttempted, &l.FTMade, &l.FTAttempted,
			&l.PlusMinus, &l.MinutesPlayed, &l.TeamPossessions, &won); err != nil {
			return nil, fmt.Errorf("scan box score line: %w", err)
		}
		l.Won = won != 0
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetBoxScoreLines returns the box score for one game.
func (db *DB) GetBoxScoreLines(gameID string) ([]model.BoxScoreLine, error) {
	rows, err := db.conn.Query(`
		SELECT `+boxScoreColumns+`
		FROM box_score_lines WHERE game_id = ? ORDER BY pts DESC, player_id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query box score: %w", err)
	}
	defer rows.Close()
	return scanBoxScoreRows(rows)
}

// GetPlayerSeason returns every stored box-score line for one player in
// game-date order.
func (db *DB) GetPlayerSeason(playerID string) ([]model.BoxScoreLine, error) {
	rows, err := db.conn.Query(`
		SELECT b.game_id, b.player_id, b.player_name, b.pts, b.reb, b.ast, b.stl, b.blk, b.tov,
			b.fgm, b.fga, b.fg3m, b.fg3a, b.ftm, b.fta, b.plus_minus, b.minutes, b.team_possessions, b.won
		FROM box_score_lines b
		JOIN games g ON g.game_id = b.game_id
		WHERE b.player_id = ?
		ORDER BY g.game_date, g.game_id`, playerID)
	if err != nil {
		return nil, fmt.Errorf("query player season: %w", err)
	}
	defer rows.Close()
	return scanBoxScoreRows(rows)
}

// GetLatestClusterRun returns the most recent clustering run for a player,
// or nil when none is stored.
func (db *DB) GetLatestClusterRun(playerID string) (*model.ClusterRun, error) {
	var run model.ClusterRun
	err := db.conn.QueryRow(`
		SELECT run_id, player_id, k, seed, inertia, silhouette, created_at
		FROM cluster_runs WHERE player_id = ?
		ORDER BY created_at DESC, run_id DESC LIMIT 1`, playerID).
		Scan(&run.RunID, &run.PlayerID, &run.K, &run.Seed,
			&run.Inertia, &run.Silhouette, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query cluster run: %w", err)
	}
	return &run, nil
}

// GetClusterAssignments returns the assignments of one clustering run in
// game-date order.
func (db *DB) GetClusterAssignments(runID string) ([]model.ClusterAssignment, error) {
	rows, err := db.conn.Query(`
		SELECT a.player_id, a.game_id, a.cluster_id, a.label, a.distance
		FROM cluster_assignments a
		JOIN games g ON g.game_id = a.game_id
		WHERE a.run_id = ?
		ORDER BY g.game_date, g.game_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	var out []model.ClusterAssignment
	for rows.Next() {
		var (
			a     model.ClusterAssignment
			label string
		)
		if err := rows.Scan(&a.PlayerID, &a.GameID, &a.ClusterID, &label, &a.Distance); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		a.Label = model.TierLabel(label)
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteGame removes a game and every row derived from it.
func (db *DB) DeleteGame(gameID string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{
		"events", "malformed_records", "quarter_segments",
		"box_score_lines", "momentum_events", "games",
	} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE game_id = ?`, gameID); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// QueryRaw runs an arbitrary read-only query and returns the column names
// and stringified rows. Backs the sql command.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	q := strings.TrimSpace(strings.ToUpper(query))
	if !strings.HasPrefix(q, "SELECT") && !strings.HasPrefix(q, "WITH") {
		return nil, nil, fmt.Errorf("only SELECT queries are allowed")
	}

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("columns: %w", err)
	}

	var out [][]string
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan row: %w", err)
		}
		row := make([]string, len(cols))
		for i, v := range raw {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprintf("%v", x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
