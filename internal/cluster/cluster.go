// Package cluster groups player-game feature vectors into performance tiers
// with seeded multi-restart k-means.
package cluster

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/pable/go-nba-metrics/internal/features"
	"github.com/pable/go-nba-metrics/internal/model"
)

// InsufficientDataError reports a batch smaller than the requested cluster
// count. Recoverable: the caller can lower K or skip clustering the batch.
type InsufficientDataError struct {
	Points int
	K      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("cannot form %d clusters from %d player-games", e.K, e.Points)
}

// Config controls one clustering run. Zero fields fall back to defaults.
type Config struct {
	K             int   // cluster count, default 3
	Restarts      int   // independent random initializations, default 10
	MaxIterations int   // relocation iteration bound per restart, default 300
	Seed          int64 // base seed; restart r uses Seed+r
}

const (
	defaultK             = 3
	defaultRestarts      = 10
	defaultMaxIterations = 300
)

func (c Config) withDefaults() Config {
	if c.K == 0 {
		c.K = defaultK
	}
	if c.Restarts <= 0 {
		c.Restarts = defaultRestarts
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = defaultMaxIterations
	}
	return c
}

// Result is the outcome of one clustering run. Given identical batch and
// Config it is bit-for-bit reproducible.
type Result struct {
	RunID       string
	K           int
	Seed        int64
	Assignments []model.ClusterAssignment
	Centroids   [][]float64        // z-scored space, indexed by cluster id
	Labels      []model.TierLabel  // per cluster id
	Quality     []float64          // composite quality scalar per cluster id
	Inertia     float64            // within-cluster sum of squared distances
	Silhouette  float64            // mean silhouette over all points
}

// Run clusters the batch into cfg.K tiers. Restarts execute concurrently;
// the winner is the restart with the lowest inertia, ties going to the lowest
// restart index, so the reduction is deterministic.
func Run(batch features.Batch, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	points := batch.Normalized
	if len(points) < cfg.K {
		return nil, &InsufficientDataError{Points: len(points), K: cfg.K}
	}

	outcomes := make([]restartOutcome, cfg.Restarts)
	p := pool.New().WithMaxGoroutines(runtime.NumCPU())
	for r := 0; r < cfg.Restarts; r++ {
		p.Go(func() {
			outcomes[r] = runOnce(points, cfg.K, cfg.MaxIterations, cfg.Seed+int64(r))
		})
	}
	p.Wait()

	best := outcomes[0]
	for _, o := range outcomes[1:] {
		if o.inertia < best.inertia {
			best = o
		}
	}

	quality := centroidQuality(best.centroids)
	labels := tierLabels(quality)

	res := &Result{
		RunID:      uuid.NewString(),
		K:          cfg.K,
		Seed:       cfg.Seed,
		Centroids:  best.centroids,
		Labels:     labels,
		Quality:    quality,
		Inertia:    best.inertia,
		Silhouette: silhouette(points, best.assign, cfg.K),
	}
	for i, pg := range batch.Features {
		c := best.assign[i]
		res.Assignments = append(res.Assignments, model.ClusterAssignment{
			PlayerID:  pg.PlayerID,
			GameID:    pg.GameID,
			ClusterID: c,
			Label:     labels[c],
			Distance:  math.Sqrt(sqDist(points[i], best.centroids[c])),
		})
	}
	return res, nil
}

type restartOutcome struct {
	centroids [][]float64
	assign    []int
	inertia   float64
}

// runOnce is one full k-means pass from a single seeded initialization.
func runOnce(points [][]float64, k, maxIter int, seed int64) restartOutcome {
	rng := rand.New(rand.NewSource(seed))
	dim := len(points[0])

	centroids := make([][]float64, k)
	for i, pi := range rng.Perm(len(points))[:k] {
		centroids[i] = append([]float64(nil), points[pi]...)
	}

	assign := make([]int, len(points))
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, pt := range points {
			c := nearest(pt, centroids)
			if c != assign[i] {
				assign[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}

		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, pt := range points {
			c := assign[i]
			counts[c]++
			for d, v := range pt {
				sums[c][d] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Relocation starved a cluster; reseed it with the point
				// farthest from its current centroid so K non-empty clusters
				// survive to convergence.
				centroids[c] = append([]float64(nil), points[farthest(points, assign, centroids)]...)
				continue
			}
			for d := range centroids[c] {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	inertia := 0.0
	for i, pt := range points {
		inertia += sqDist(pt, centroids[assign[i]])
	}
	return restartOutcome{centroids: centroids, assign: assign, inertia: inertia}
}

// nearest returns the index of the closest centroid; ties break toward the
// lower index to keep assignment deterministic.
func nearest(pt []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, ctr := range centroids {
		if d := sqDist(pt, ctr); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// farthest returns the index of the point with the largest distance to its
// assigned centroid (ties to the lowest index).
func farthest(points [][]float64, assign []int, centroids [][]float64) int {
	best, bestDist := 0, -1.0
	for i, pt := range points {
		if d := sqDist(pt, centroids[assign[i]]); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}
