package cluster

import (
	"sort"

	"github.com/pable/go-nba-metrics/internal/features"
	"github.com/pable/go-nba-metrics/internal/model"
)

// qualityFeatures are the z-scored centroid components that rank a cluster:
// raw production, on-court margin, and the efficiency composites.
var qualityFeatures = []string{"points", "plus_minus", "true_shooting", "game_impact"}

// centroidQuality computes the composite quality scalar for each centroid:
// the mean of its quality-feature components. Centroids live in z-scored
// space, so an equal-weight mean already compares like with like.
func centroidQuality(centroids [][]float64) []float64 {
	idx := make([]int, 0, len(qualityFeatures))
	for _, name := range qualityFeatures {
		if i := features.Index(name); i >= 0 {
			idx = append(idx, i)
		}
	}
	quality := make([]float64, len(centroids))
	for c, ctr := range centroids {
		sum := 0.0
		for _, i := range idx {
			sum += ctr[i]
		}
		quality[c] = sum / float64(len(idx))
	}
	return quality
}

// tierLabels assigns a label per cluster id by quality rank: the lowest
// centroid is COLD, the highest HOT, and everything between AVERAGE. For K=3
// that is the even COLD/AVERAGE/HOT split; for K=2 no AVERAGE tier exists.
func tierLabels(quality []float64) []model.TierLabel {
	order := make([]int, len(quality))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return quality[order[a]] < quality[order[b]]
	})

	labels := make([]model.TierLabel, len(quality))
	for rank, c := range order {
		switch rank {
		case 0:
			labels[c] = model.TierCold
		case len(order) - 1:
			labels[c] = model.TierHot
		default:
			labels[c] = model.TierAverage
		}
	}
	return labels
}
