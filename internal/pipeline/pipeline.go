// Package pipeline composes the analysis stages: normalize -> segment ->
// momentum per game, and feature extraction -> clustering per player batch.
// Every stage stays a pure transformation; this package only wires them.
package pipeline

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/pable/go-nba-metrics/internal/cluster"
	"github.com/pable/go-nba-metrics/internal/config"
	"github.com/pable/go-nba-metrics/internal/features"
	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/momentum"
	"github.com/pable/go-nba-metrics/internal/normalize"
	"github.com/pable/go-nba-metrics/internal/segment"
)

// GameInput is one game's worth of pre-fetched upstream data.
type GameInput struct {
	GameID   string
	HomeTeam string
	AwayTeam string
	GameDate string
	Events   []model.RawEvent
	BoxScore []model.BoxScoreLine
}

// GameAnalysis bundles every per-game analysis output.
type GameAnalysis struct {
	Summary   model.GameSummary
	Events    []model.Event
	Malformed []normalize.MalformedRecord
	Segments  []model.QuarterSegment
	Momentum  []model.MomentumEvent
	BoxScore  []model.BoxScoreLine
}

// AnalyzeGame runs the per-game stages for one game. Normalization and
// segmentation failures are fatal for the game and come back annotated with
// its id.
func AnalyzeGame(in GameInput, cfg *config.Config) (*GameAnalysis, error) {
	norm, err := normalize.Normalize(in.GameID, in.Events)
	if err != nil {
		return nil, errors.Wrapf(err, "normalize game %s", in.GameID)
	}

	segs, err := segment.Partition(in.GameID, norm.Events)
	if err != nil {
		return nil, errors.Wrapf(err, "segment game %s", in.GameID)
	}

	shifts, err := momentum.DetectQuarters(segs, cfg.MomentumConfig())
	if err != nil {
		return nil, errors.Wrapf(err, "detect momentum for game %s", in.GameID)
	}

	summary := model.GameSummary{
		GameID:     in.GameID,
		HomeTeam:   in.HomeTeam,
		AwayTeam:   in.AwayTeam,
		GameDate:   in.GameDate,
		EventCount: len(norm.Events),
	}
	if n := len(norm.Events); n > 0 {
		summary.HomeScore = norm.Events[n-1].HomeScore
		summary.AwayScore = norm.Events[n-1].AwayScore
	}

	return &GameAnalysis{
		Summary:   summary,
		Events:    norm.Events,
		Malformed: norm.Malformed,
		Segments:  segs,
		Momentum:  shifts,
		BoxScore:  in.BoxScore,
	}, nil
}

// AnalyzeGames fans independent games out over a worker pool. Games never
// share state, so the only synchronization is collecting results. A failed
// game is reported in the error map without aborting the rest.
func AnalyzeGames(ins []GameInput, cfg *config.Config, log *zap.Logger) ([]*GameAnalysis, map[string]error, error) {
	p, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create worker pool")
	}
	defer p.Release()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		analyses = make([]*GameAnalysis, 0, len(ins))
		failures = make(map[string]error)
	)

	for _, in := range ins {
		wg.Add(1)
		if err := p.Submit(func() {
			defer wg.Done()
			res, err := AnalyzeGame(in, cfg)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn("game analysis failed",
					zap.String("game_id", in.GameID),
					zap.Error(err))
				failures[in.GameID] = err
				return
			}
			log.Info("game analyzed",
				zap.String("game_id", in.GameID),
				zap.Int("events", len(res.Events)),
				zap.Int("segments", len(res.Segments)),
				zap.Int("momentum_shifts", len(res.Momentum)))
			analyses = append(analyses, res)
		}); err != nil {
			wg.Done()
			return nil, nil, errors.Wrap(err, "submit game to worker pool")
		}
	}
	wg.Wait()

	return analyses, failures, nil
}

// ClusterSeason extracts features from a batch of box-score lines and
// clusters them into performance tiers. The returned batch carries the
// normalization statistics needed to reproduce the cluster boundaries.
func ClusterSeason(lines []model.BoxScoreLine, cfg *config.Config) (features.Batch, *cluster.Result, error) {
	batch := features.Extract(lines)
	res, err := cluster.Run(batch, cfg.ClusterConfig())
	if err != nil {
		return batch, nil, errors.Wrap(err, "cluster player-games")
	}
	return batch, res, nil
}
