// Package features builds fixed-order numeric feature vectors from box-score
// aggregates and z-scores them against the batch for clustering.
package features

import (
	"math"

	"github.com/pable/go-nba-metrics/internal/model"
)

// Names lists every feature in vector order. Index positions are part of the
// contract: centroids, stats, and stored vectors all use this order.
var Names = []string{
	"points",
	"fg_pct",
	"three_pct",
	"ft_pct",
	"true_shooting",
	"rebounds",
	"assists",
	"steals",
	"blocks",
	"turnovers",
	"plus_minus",
	"usage_rate",
	"game_impact",
}

// Index returns the vector position of a named feature, -1 if unknown.
func Index(name string) int {
	for i, n := range Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Stat holds the batch normalization statistics for one feature. They are part
// of the extraction output so cluster boundaries can be reproduced later.
type Stat struct {
	Name   string
	Mean   float64
	StdDev float64
}

// Batch is the output of one Extract invocation over a set of player-games.
type Batch struct {
	Features   []model.PlayerGameFeatures // raw (un-normalized) vectors
	Normalized [][]float64                // z-scored vectors, same order
	Stats      []Stat                     // per-feature batch mean/stddev
}

// Vector builds the raw feature vector for one box-score line, in Names order.
// Ratio features emit 0 when the denominator is zero.
func Vector(l model.BoxScoreLine) []float64 {
	return []float64{
		float64(l.Points),
		l.FGPct(),
		l.ThreePct(),
		l.FTPct(),
		l.TrueShooting(),
		float64(l.Rebounds),
		float64(l.Assists),
		float64(l.Steals),
		float64(l.Blocks),
		float64(l.Turnovers),
		float64(l.PlusMinus),
		l.UsageRate(),
		l.GameImpact(),
	}
}

// Extract derives one feature vector per box-score line and z-scores every
// feature against the full batch. Extraction itself is stateless per line;
// the normalization statistics are computed once over the whole invocation.
func Extract(lines []model.BoxScoreLine) Batch {
	b := Batch{
		Features:   make([]model.PlayerGameFeatures, 0, len(lines)),
		Normalized: make([][]float64, 0, len(lines)),
		Stats:      make([]Stat, len(Names)),
	}
	for i := range b.Stats {
		b.Stats[i].Name = Names[i]
	}
	if len(lines) == 0 {
		return b
	}

	for i := range lines {
		b.Features = append(b.Features, model.PlayerGameFeatures{
			PlayerID: lines[i].PlayerID,
			GameID:   lines[i].GameID,
			Vector:   Vector(lines[i]),
		})
	}

	n := float64(len(lines))
	for f := range Names {
		sum := 0.0
		for _, pg := range b.Features {
			sum += pg.Vector[f]
		}
		mean := sum / n

		varSum := 0.0
		for _, pg := range b.Features {
			d := pg.Vector[f] - mean
			varSum += d * d
		}
		b.Stats[f].Mean = mean
		b.Stats[f].StdDev = math.Sqrt(varSum / n)
	}

	for _, pg := range b.Features {
		z := make([]float64, len(Names))
		for f := range Names {
			// A zero-variance feature carries no signal; z-score to 0 so the
			// distance metric ignores it instead of dividing by zero.
			if b.Stats[f].StdDev > 0 {
				z[f] = (pg.Vector[f] - b.Stats[f].Mean) / b.Stats[f].StdDev
			}
		}
		b.Normalized = append(b.Normalized, z)
	}
	return b
}
