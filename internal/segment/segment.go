// Package segment partitions a normalized event stream into per-quarter
// slices with boundary score snapshots.
package segment

import (
	"fmt"

	"github.com/pable/go-nba-metrics/internal/model"
)

// SegmentationError reports a quarter whose events are not contiguous in the
// normalized stream. Post-normalization that cannot happen with valid input,
// so it signals an upstream normalization bug rather than a bad game.
type SegmentationError struct {
	GameID  string
	Quarter int
}

func (e *SegmentationError) Error() string {
	return fmt.Sprintf("game %s: quarter %d appears non-contiguously in normalized stream", e.GameID, e.Quarter)
}

// Partition groups contiguous runs of equal quarter into QuarterSegments.
// Overtime periods (quarter > 4) become segments of their own. The segments,
// concatenated in order, reproduce the input exactly.
func Partition(gameID string, events []model.Event) ([]model.QuarterSegment, error) {
	if len(events) == 0 {
		return nil, nil
	}

	var segs []model.QuarterSegment
	seen := make(map[int]bool)
	start := 0

	flush := func(end int) error {
		q := events[start].Quarter
		if seen[q] {
			return &SegmentationError{GameID: gameID, Quarter: q}
		}
		seen[q] = true
		run := events[start:end]
		segs = append(segs, model.QuarterSegment{
			Quarter:   q,
			Events:    run,
			StartHome: run[0].HomeScore,
			StartAway: run[0].AwayScore,
			EndHome:   run[len(run)-1].HomeScore,
			EndAway:   run[len(run)-1].AwayScore,
		})
		return nil
	}

	for i := 1; i < len(events); i++ {
		if events[i].Quarter == events[start].Quarter {
			continue
		}
		if err := flush(i); err != nil {
			return nil, err
		}
		start = i
	}
	if err := flush(len(events)); err != nil {
		return nil, err
	}
	return segs, nil
}
