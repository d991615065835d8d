package model

import "strconv"

// EventKind classifies a play-by-play event.
type EventKind int

const (
	KindOther EventKind = iota
	KindScore
	KindRebound
	KindTurnover
	KindFoul
	KindSubstitution
)

func (k EventKind) String() string {
	switch k {
	case KindScore:
		return "SCORE"
	case KindRebound:
		return "REBOUND"
	case KindTurnover:
		return "TURNOVER"
	case KindFoul:
		return "FOUL"
	case KindSubstitution:
		return "SUBSTITUTION"
	default:
		return "OTHER"
	}
}

// KindFromString is the inverse of EventKind.String. Unknown strings map to OTHER.
func KindFromString(s string) EventKind {
	switch s {
	case "SCORE":
		return KindScore
	case "REBOUND":
		return KindRebound
	case "TURNOVER":
		return KindTurnover
	case "FOUL":
		return KindFoul
	case "SUBSTITUTION":
		return KindSubstitution
	default:
		return KindOther
	}
}

// ---- Raw records supplied by the upstream data source ----

// RawEvent is one loosely-typed play-by-play record as fetched upstream.
// Score pointers are nil when the feed omitted the running score for that row.
type RawEvent struct {
	Seq          int
	Quarter      int
	ClockSeconds float64
	Description  string
	TeamID       string
	PlayerID     string
	HomeScore    *int
	AwayScore    *int
}

// ---- Canonical entities ----

// Event is one normalized play-by-play event. HomeScore/AwayScore are the
// running score after the event; both are non-decreasing across a valid stream.
type Event struct {
	Seq          int
	Quarter      int
	ClockSeconds float64
	Kind         EventKind
	TeamID       string
	PlayerID     string // empty when no individual actor
	HomeScore    int
	AwayScore    int
}

// QuarterSegment is the slice of a game belonging to one quarter (or overtime
// period, quarter > 4). Start/end scores are the running score at the first
// and last event of the segment.
type QuarterSegment struct {
	Quarter   int
	Events    []Event
	StartHome int
	StartAway int
	EndHome   int
	EndAway   int
}

// NetHome returns the home scoring margin produced inside the segment.
func (s *QuarterSegment) NetHome() int {
	return (s.EndHome - s.StartHome) - (s.EndAway - s.StartAway)
}

// Label returns "Q1".."Q4" or "OT1", "OT2", ... for overtime periods.
func (s *QuarterSegment) Label() string {
	return QuarterLabel(s.Quarter)
}

// QuarterLabel formats a quarter number, treating periods past 4 as overtime.
func QuarterLabel(q int) string {
	if q <= 4 {
		return "Q" + strconv.Itoa(q)
	}
	return "OT" + strconv.Itoa(q-4)
}

// BoxScoreLine holds one player's box-score aggregates for one game, as
// supplied by the upstream source.
type BoxScoreLine struct {
	PlayerID   string
	PlayerName string
	GameID     string

	Points         int
	Rebounds       int
	Assists        int
	Steals         int
	Blocks         int
	Turnovers      int
	FGMade         int
	FGAttempted    int
	ThreeMade      int
	ThreeAttempted int
	FTMade         int
	FTAttempted    int
	PlusMinus      int

	MinutesPlayed   float64
	TeamPossessions int
	Won             bool
}

// FGPct returns field-goal percentage as a fraction, 0 when no attempts.
func (l *BoxScoreLine) FGPct() float64 {
	return ratio(l.FGMade, l.FGAttempted)
}

// ThreePct returns three-point percentage as a fraction, 0 when no attempts.
func (l *BoxScoreLine) ThreePct() float64 {
	return ratio(l.ThreeMade, l.ThreeAttempted)
}

// FTPct returns free-throw percentage as a fraction, 0 when no attempts.
func (l *BoxScoreLine) FTPct() float64 {
	return ratio(l.FTMade, l.FTAttempted)
}

// TrueShooting returns PTS / (2 * (FGA + 0.44*FTA)), 0 when the player took
// no shots.
func (l *BoxScoreLine) TrueShooting() float64 {
	denom := 2 * (float64(l.FGAttempted) + 0.44*float64(l.FTAttempted))
	if denom == 0 {
		return 0
	}
	return float64(l.Points) / denom
}

// UsageRate approximates the share of team possessions the player finished:
// (FGA + 0.44*FTA + TOV) / team possessions. 0 when possessions are unknown.
func (l *BoxScoreLine) UsageRate() float64 {
	if l.TeamPossessions == 0 {
		return 0
	}
	used := float64(l.FGAttempted) + 0.44*float64(l.FTAttempted) + float64(l.Turnovers)
	return used / float64(l.TeamPossessions)
}

// GameImpact is the composite box-score impact score:
// PTS + 1.2*REB + 1.5*AST + 2*STL + 2*BLK - TOV + 0.5*PLUS_MINUS.
func (l *BoxScoreLine) GameImpact() float64 {
	return float64(l.Points) +
		1.2*float64(l.Rebounds) +
		1.5*float64(l.Assists) +
		2.0*float64(l.Steals) +
		2.0*float64(l.Blocks) -
		1.0*float64(l.Turnovers) +
		0.5*float64(l.PlusMinus)
}

func ratio(num, denom int) float64 {
	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom)
}

// PlayerGameFeatures is one player-game feature vector in the fixed order
// defined by the features package.
type PlayerGameFeatures struct {
	PlayerID string
	GameID   string
	Vector   []float64
}

// ---- Clustering output ----

// TierLabel is the qualitative performance tier assigned to a cluster.
type TierLabel string

const (
	TierHot     TierLabel = "HOT"
	TierAverage TierLabel = "AVERAGE"
	TierCold    TierLabel = "COLD"
)

// ClusterAssignment maps one player-game to a cluster of a single run.
type ClusterAssignment struct {
	PlayerID  string
	GameID    string
	ClusterID int
	Label     TierLabel
	Distance  float64 // euclidean distance to the assigned centroid, z-scored space
}

// ClusterRun records the parameters and diagnostics of one clustering run.
type ClusterRun struct {
	RunID      string
	PlayerID   string // player whose season was clustered; empty for mixed batches
	K          int
	Seed       int64
	Inertia    float64
	Silhouette float64
	CreatedAt  string
}

// ---- Momentum output ----

// Direction says which team the momentum swung toward.
type Direction int

const (
	DirectionHome Direction = iota
	DirectionAway
)

func (d Direction) String() string {
	if d == DirectionAway {
		return "AWAY"
	}
	return "HOME"
}

// DirectionFromString is the inverse of Direction.String.
func DirectionFromString(s string) Direction {
	if s == "AWAY" {
		return DirectionAway
	}
	return DirectionHome
}

// MomentumEvent marks a point where the scoring trend reversed. Seq points at
// the event that completed the reversal; WindowStart/WindowEnd bound the
// coalesced trigger window in event sequence indices.
type MomentumEvent struct {
	Quarter     int
	Seq         int
	Direction   Direction
	Magnitude   float64
	WindowStart int
	WindowEnd   int
}

// GameSummary is a lightweight record for list/show commands.
type GameSummary struct {
	GameID     string
	HomeTeam   string
	AwayTeam   string
	GameDate   string
	HomeScore  int
	AwayScore  int
	EventCount int
}
