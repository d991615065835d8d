package cluster

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pable/go-nba-metrics/internal/features"
	"github.com/pable/go-nba-metrics/internal/model"
)

// seasonLines builds nine player-games in three well-separated tiers.
func seasonLines() []model.BoxScoreLine {
	specs := []struct {
		pts, reb, pm int
	}{
		{2, 1, -10}, {4, 2, -8}, {3, 1, -12},
		{15, 5, 0}, {16, 6, 1}, {14, 5, -1},
		{30, 10, 12}, {32, 11, 15}, {31, 9, 14},
	}
	var lines []model.BoxScoreLine
	for i, s := range specs {
		lines = append(lines, model.BoxScoreLine{
			PlayerID:    "p1",
			GameID:      fmt.Sprintf("g%d", i+1),
			Points:      s.pts,
			Rebounds:    s.reb,
			PlusMinus:   s.pm,
			FGMade:      s.pts / 2,
			FGAttempted: 10,
		})
	}
	return lines
}

func TestRunIsDeterministic(t *testing.T) {
	batch := features.Extract(seasonLines())
	cfg := Config{K: 3, Seed: 42}

	a, err := Run(batch, cfg)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	b, err := Run(batch, cfg)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if a.Inertia != b.Inertia {
		t.Errorf("inertia differs: %f vs %f", a.Inertia, b.Inertia)
	}
	if a.Silhouette != b.Silhouette {
		t.Errorf("silhouette differs: %f vs %f", a.Silhouette, b.Silhouette)
	}
	for i := range a.Assignments {
		if a.Assignments[i].ClusterID != b.Assignments[i].ClusterID {
			t.Errorf("assignment %d differs: %d vs %d",
				i, a.Assignments[i].ClusterID, b.Assignments[i].ClusterID)
		}
		if a.Assignments[i].Label != b.Assignments[i].Label {
			t.Errorf("label %d differs: %s vs %s",
				i, a.Assignments[i].Label, b.Assignments[i].Label)
		}
	}
}

func TestRunProducesKNonEmptyClusters(t *testing.T) {
	batch := features.Extract(seasonLines())
	res, err := Run(batch, Config{K: 3, Seed: 42, Restarts: 20})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	counts := make(map[int]int)
	for _, a := range res.Assignments {
		counts[a.ClusterID]++
	}
	if len(counts) != 3 {
		t.Fatalf("expected 3 non-empty clusters, got %d", len(counts))
	}
	for c, n := range counts {
		if n == 0 {
			t.Errorf("cluster %d is empty", c)
		}
	}
}

func TestRunTierLabels(t *testing.T) {
	batch := features.Extract(seasonLines())
	res, err := Run(batch, Config{K: 3, Seed: 42, Restarts: 20})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	byGame := make(map[string]model.TierLabel)
	for _, a := range res.Assignments {
		byGame[a.GameID] = a.Label
	}
	// Highest-scoring games land in HOT, lowest in COLD, the rest in AVERAGE.
	if byGame["g8"] != model.TierHot {
		t.Errorf("g8 label = %s, want HOT", byGame["g8"])
	}
	if byGame["g3"] != model.TierCold {
		t.Errorf("g3 label = %s, want COLD", byGame["g3"])
	}
	if byGame["g5"] != model.TierAverage {
		t.Errorf("g5 label = %s, want AVERAGE", byGame["g5"])
	}
}

func TestRunKTwoKeepsHotAndCold(t *testing.T) {
	batch := features.Extract(seasonLines())
	res, err := Run(batch, Config{K: 2, Seed: 42})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	seen := make(map[model.TierLabel]bool)
	for _, a := range res.Assignments {
		seen[a.Label] = true
	}
	if !seen[model.TierHot] || !seen[model.TierCold] {
		t.Errorf("K=2 labels = %v, want HOT and COLD", seen)
	}
	if seen[model.TierAverage] {
		t.Error("K=2 must not produce AVERAGE")
	}
}

func TestRunInsufficientData(t *testing.T) {
	batch := features.Extract(seasonLines()[:2])
	_, err := Run(batch, Config{K: 3, Seed: 42})
	if err == nil {
		t.Fatal("expected error for 2 points with K=3")
	}
	var ide *InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("expected InsufficientDataError, got %T", err)
	}
	if ide.Points != 2 || ide.K != 3 {
		t.Errorf("error fields: points=%d k=%d, want 2/3", ide.Points, ide.K)
	}
}

func TestRunSilhouetteInRange(t *testing.T) {
	batch := features.Extract(seasonLines())
	res, err := Run(batch, Config{K: 3, Seed: 42})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Silhouette < -1 || res.Silhouette > 1 {
		t.Errorf("silhouette %f outside [-1, 1]", res.Silhouette)
	}
	// Well-separated tiers should cluster cleanly.
	if res.Silhouette <= 0 {
		t.Errorf("silhouette %f, want > 0 for separated tiers", res.Silhouette)
	}
}
