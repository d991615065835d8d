package cluster

import "math"

// silhouette computes the mean silhouette coefficient: per point, the margin
// between its average distance to its own cluster and to the nearest other
// cluster, normalized by the larger of the two. Diagnostic only; it never
// changes assignments.
func silhouette(points [][]float64, assign []int, k int) float64 {
	if k < 2 || len(points) < 2 {
		return 0
	}

	members := make([][]int, k)
	for i, c := range assign {
		members[c] = append(members[c], i)
	}

	total, counted := 0.0, 0
	for i, pt := range points {
		own := assign[i]
		if len(members[own]) <= 1 {
			// Singleton clusters have no intra-cluster distance; by
			// convention their silhouette is 0.
			counted++
			continue
		}

		a := 0.0
		for _, j := range members[own] {
			if j != i {
				a += math.Sqrt(sqDist(pt, points[j]))
			}
		}
		a /= float64(len(members[own]) - 1)

		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || len(members[c]) == 0 {
				continue
			}
			d := 0.0
			for _, j := range members[c] {
				d += math.Sqrt(sqDist(pt, points[j]))
			}
			d /= float64(len(members[c]))
			if d < b {
				b = d
			}
		}

		if denom := math.Max(a, b); denom > 0 {
			total += (b - a) / denom
		}
		counted++
	}
	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}
