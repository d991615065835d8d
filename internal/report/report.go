package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-nba-metrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintGameSummary prints a one-line summary header for the game.
func PrintGameSummary(w io.Writer, s model.GameSummary) {
	fmt.Fprintf(w, "\n%s @ %s  |  Date: %s  |  Final: %d – %d  |  Events: %d  |  ID: %s\n\n",
		s.AwayTeam, s.HomeTeam, s.GameDate, s.AwayScore, s.HomeScore, s.EventCount, s.GameID)
}

// PrintGamesList prints the stored games table.
func PrintGamesList(w io.Writer, games []model.GameSummary) {
	table := newTable(w)
	table.Header("GAME_ID", "DATE", "AWAY", "HOME", "SCORE", "EVENTS")

	for _, g := range games {
		table.Append(
			g.GameID,
			g.GameDate,
			g.AwayTeam,
			g.HomeTeam,
			fmt.Sprintf("%d–%d", g.AwayScore, g.HomeScore),
			strconv.Itoa(g.EventCount),
		)
	}
	table.Render()
}

// PrintQuarterTable prints the per-quarter scoring breakdown.
func PrintQuarterTable(w io.Writer, segs []model.QuarterSegment) {
	table := newTable(w)
	table.Header("QUARTER", "EVENTS", "HOME", "AWAY", "NET_HOME", "WINNER")

	for _, s := range segs {
		homePts := s.EndHome - s.StartHome
		awayPts := s.EndAway - s.StartAway
		table.Append(
			s.Label(),
			strconv.Itoa(len(s.Events)),
			strconv.Itoa(homePts),
			strconv.Itoa(awayPts),
			fmt.Sprintf("%+d", s.NetHome()),
			quarterWinner(s.NetHome()),
		)
	}
	table.Render()
}

func quarterWinner(netHome int) string {
	switch {
	case netHome > 0:
		return "HOME"
	case netHome < 0:
		return "AWAY"
	default:
		return "EVEN"
	}
}

// PrintBoxScoreTable prints the per-player box score for one game.
// If focusPlayerID is non-empty, that player's row is marked with ">".
func PrintBoxScoreTable(w io.Writer, lines []model.BoxScoreLine, focusPlayerID string) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "MIN", "PTS", "REB", "AST", "STL", "BLK", "TOV",
		"FG", "3PT", "FT", "TS%", "USG%", "+/-", "IMPACT")

	for _, l := range lines {
		marker := " "
		if focusPlayerID != "" && l.PlayerID == focusPlayerID {
			marker = ">"
		}
		table.Append(
			marker,
			l.PlayerName,
			fmt.Sprintf("%.0f", l.MinutesPlayed),
			strconv.Itoa(l.Points),
			strconv.Itoa(l.Rebounds),
			strconv.Itoa(l.Assists),
			strconv.Itoa(l.Steals),
			strconv.Itoa(l.Blocks),
			strconv.Itoa(l.Turnovers),
			fmt.Sprintf("%d/%d", l.FGMade, l.FGAttempted),
			fmt.Sprintf("%d/%d", l.ThreeMade, l.ThreeAttempted),
			fmt.Sprintf("%d/%d", l.FTMade, l.FTAttempted),
			pctOrDash(l.TrueShooting(), l.FGAttempted+l.FTAttempted),
			pctOrDash(l.UsageRate(), l.TeamPossessions),
			fmt.Sprintf("%+d", l.PlusMinus),
			fmt.Sprintf("%.1f", l.GameImpact()),
		)
	}
	table.Render()
}

func pctOrDash(frac float64, attempts int) string {
	if attempts == 0 {
		return "—"
	}
	return fmt.Sprintf("%.0f%%", frac*100)
}

// PrintMomentumTable prints the detected momentum shifts for one game.
func PrintMomentumTable(w io.Writer, shifts []model.MomentumEvent) {
	if len(shifts) == 0 {
		fmt.Fprintln(w, "No momentum shifts detected.")
		return
	}

	table := newTable(w)
	table.Header("QUARTER", "SEQ", "DIRECTION", "MAGNITUDE", "POSS_WINDOW")

	for _, s := range shifts {
		table.Append(
			model.QuarterLabel(s.Quarter),
			strconv.Itoa(s.Seq),
			s.Direction.String(),
			fmt.Sprintf("%.0f", s.Magnitude),
			fmt.Sprintf("%d–%d", s.WindowStart, s.WindowEnd),
		)
	}
	table.Render()
}

// PrintSeasonTable prints a player's stored game log in date order.
func PrintSeasonTable(w io.Writer, lines []model.BoxScoreLine) {
	table := newTable(w)
	table.Header("GAME_ID", "MIN", "PTS", "REB", "AST", "STL", "BLK", "TOV",
		"FG%", "TS%", "+/-", "IMPACT", "W/L")

	for _, l := range lines {
		wl := "L"
		if l.Won {
			wl = "W"
		}
		table.Append(
			l.GameID,
			fmt.Sprintf("%.0f", l.MinutesPlayed),
			strconv.Itoa(l.Points),
			strconv.Itoa(l.Rebounds),
			strconv.Itoa(l.Assists),
			strconv.Itoa(l.Steals),
			strconv.Itoa(l.Blocks),
			strconv.Itoa(l.Turnovers),
			pctOrDash(l.FGPct(), l.FGAttempted),
			pctOrDash(l.TrueShooting(), l.FGAttempted+l.FTAttempted),
			fmt.Sprintf("%+d", l.PlusMinus),
			fmt.Sprintf("%.1f", l.GameImpact()),
			wl,
		)
	}
	table.Render()
}

// PrintClusterRunHeader prints the run metadata line.
func PrintClusterRunHeader(w io.Writer, run model.ClusterRun) {
	fmt.Fprintf(w, "\nRun: %s  |  Player: %s  |  K: %d  |  Seed: %d  |  Inertia: %.2f  |  Silhouette: %.3f\n\n",
		run.RunID[:8], run.PlayerID, run.K, run.Seed, run.Inertia, run.Silhouette)
}

// PrintClusterTable prints per-game tier assignments in date order.
func PrintClusterTable(w io.Writer, assigns []model.ClusterAssignment) {
	table := newTable(w)
	table.Header("GAME_ID", "CLUSTER", "TIER", "DIST")

	for _, a := range assigns {
		table.Append(
			a.GameID,
			strconv.Itoa(a.ClusterID),
			string(a.Label),
			fmt.Sprintf("%.2f", a.Distance),
		)
	}
	table.Render()
}

// TierSummary aggregates the box-score lines that landed in one tier.
type TierSummary struct {
	Label     model.TierLabel
	Games     int
	AvgPoints float64
	AvgImpact float64
	WinRate   float64
}

// SummarizeTiers groups assignments by tier and averages the underlying
// box-score lines. Tiers come back in COLD, AVERAGE, HOT order.
func SummarizeTiers(assigns []model.ClusterAssignment, lines []model.BoxScoreLine) []TierSummary {
	byGame := make(map[string]model.BoxScoreLine, len(lines))
	for _, l := range lines {
		byGame[l.GameID] = l
	}

	acc := make(map[model.TierLabel]*TierSummary)
	for _, a := range assigns {
		l, ok := byGame[a.GameID]
		if !ok {
			continue
		}
		s := acc[a.Label]
		if s == nil {
			s = &TierSummary{Label: a.Label}
			acc[a.Label] = s
		}
		s.Games++
		s.AvgPoints += float64(l.Points)
		s.AvgImpact += l.GameImpact()
		if l.Won {
			s.WinRate++
		}
	}

	var out []TierSummary
	for _, label := range []model.TierLabel{model.TierCold, model.TierAverage, model.TierHot} {
		s := acc[label]
		if s == nil {
			continue
		}
		n := float64(s.Games)
		s.AvgPoints /= n
		s.AvgImpact /= n
		s.WinRate /= n
		out = append(out, *s)
	}
	return out
}

// PrintTierSummaryTable prints the per-tier aggregate view.
func PrintTierSummaryTable(w io.Writer, tiers []TierSummary) {
	table := newTable(w)
	table.Header("TIER", "GAMES", "AVG_PTS", "AVG_IMPACT", "WIN%")

	for _, t := range tiers {
		table.Append(
			string(t.Label),
			strconv.Itoa(t.Games),
			fmt.Sprintf("%.1f", t.AvgPoints),
			fmt.Sprintf("%.1f", t.AvgImpact),
			fmt.Sprintf("%.0f%%", t.WinRate*100),
		)
	}
	table.Render()
}

// TrendRow is one game in a player's rolling trend view.
type TrendRow struct {
	GameID     string
	GameDate   string
	Impact     float64
	RollImpact float64
	Tier       model.TierLabel
}

// PrintTrendTable prints the rolling-impact trend for a player.
func PrintTrendTable(w io.Writer, rows []TrendRow, window int) {
	table := newTable(w)
	table.Header("GAME_ID", "DATE", "IMPACT", fmt.Sprintf("ROLL_%d", window), "TIER")

	for _, r := range rows {
		tier := "—"
		if r.Tier != "" {
			tier = string(r.Tier)
		}
		table.Append(
			r.GameID,
			r.GameDate,
			fmt.Sprintf("%.1f", r.Impact),
			fmt.Sprintf("%.1f", r.RollImpact),
			tier,
		)
	}
	table.Render()
}

// PrintQueryResult prints arbitrary query output as a table.
func PrintQueryResult(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)

	for _, r := range rows {
		cells := make([]any, len(r))
		for i, c := range r {
			cells[i] = c
		}
		table.Append(cells...)
	}
	table.Render()
	fmt.Fprintf(w, "\n%d row(s)\n", len(rows))
}
