package features

import (
	"math"
	"testing"

	"github.com/pable/go-nba-metrics/internal/model"
)

func line(points, fgm, fga, ftm, fta int) model.BoxScoreLine {
	return model.BoxScoreLine{
		PlayerID:    "p1",
		GameID:      "g1",
		Points:      points,
		FGMade:      fgm,
		FGAttempted: fga,
		FTMade:      ftm,
		FTAttempted: fta,
	}
}

func TestVectorOrderMatchesNames(t *testing.T) {
	v := Vector(model.BoxScoreLine{Points: 30, Rebounds: 10, Assists: 5})
	if len(v) != len(Names) {
		t.Fatalf("vector length %d, names %d", len(v), len(Names))
	}
	if v[Index("points")] != 30 {
		t.Errorf("points slot = %f, want 30", v[Index("points")])
	}
	if v[Index("rebounds")] != 10 {
		t.Errorf("rebounds slot = %f, want 10", v[Index("rebounds")])
	}
	if v[Index("assists")] != 5 {
		t.Errorf("assists slot = %f, want 5", v[Index("assists")])
	}
	if Index("no_such_feature") != -1 {
		t.Error("unknown feature should index to -1")
	}
}

func TestVectorZeroAttemptGuards(t *testing.T) {
	v := Vector(line(0, 0, 0, 0, 0))
	for _, name := range []string{"fg_pct", "three_pct", "ft_pct", "true_shooting", "usage_rate"} {
		if got := v[Index(name)]; got != 0 {
			t.Errorf("%s with zero attempts = %f, want 0", name, got)
		}
	}
}

func TestExtractZScores(t *testing.T) {
	lines := []model.BoxScoreLine{
		line(10, 4, 10, 2, 2),
		line(20, 8, 16, 4, 4),
		line(30, 12, 22, 6, 6),
	}

	b := Extract(lines)
	if len(b.Normalized) != 3 {
		t.Fatalf("expected 3 normalized vectors, got %d", len(b.Normalized))
	}

	pts := Index("points")
	if b.Stats[pts].Mean != 20 {
		t.Errorf("points mean = %f, want 20", b.Stats[pts].Mean)
	}
	wantStd := math.Sqrt(200.0 / 3.0)
	if math.Abs(b.Stats[pts].StdDev-wantStd) > 1e-9 {
		t.Errorf("points stddev = %f, want %f", b.Stats[pts].StdDev, wantStd)
	}

	// z-scores of a symmetric batch sum to zero and the middle point sits at 0.
	if math.Abs(b.Normalized[1][pts]) > 1e-9 {
		t.Errorf("middle z-score = %f, want 0", b.Normalized[1][pts])
	}
	if math.Abs(b.Normalized[0][pts]+b.Normalized[2][pts]) > 1e-9 {
		t.Errorf("z-scores not symmetric: %f, %f", b.Normalized[0][pts], b.Normalized[2][pts])
	}
}

func TestExtractZeroVarianceFeature(t *testing.T) {
	lines := []model.BoxScoreLine{
		{PlayerID: "p1", GameID: "g1", Points: 10, Steals: 2},
		{PlayerID: "p1", GameID: "g2", Points: 20, Steals: 2},
	}

	b := Extract(lines)
	stl := Index("steals")
	if b.Stats[stl].StdDev != 0 {
		t.Fatalf("steals stddev = %f, want 0", b.Stats[stl].StdDev)
	}
	for i, z := range b.Normalized {
		if z[stl] != 0 {
			t.Errorf("vector %d: zero-variance feature z = %f, want 0", i, z[stl])
		}
	}
}

func TestExtractEmpty(t *testing.T) {
	b := Extract(nil)
	if len(b.Features) != 0 || len(b.Normalized) != 0 {
		t.Errorf("expected empty batch, got %d features", len(b.Features))
	}
	if len(b.Stats) != len(Names) {
		t.Errorf("stats length = %d, want %d", len(b.Stats), len(Names))
	}
}
