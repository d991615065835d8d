// Package normalize turns raw upstream play-by-play records into the
// canonical Event stream every other analysis stage consumes.
package normalize

import (
	"fmt"
	"sort"

	"github.com/pable/go-nba-metrics/internal/model"
)

// MalformedStreamError reports a score regression that survived reordering
// and score carry-forward. A decreasing score is never a valid game state, so
// this always means broken input or an upstream correction we cannot apply.
type MalformedStreamError struct {
	GameID string
	Seq    int
	Reason string
}

func (e *MalformedStreamError) Error() string {
	return fmt.Sprintf("malformed stream for game %s at seq %d: %s", e.GameID, e.Seq, e.Reason)
}

// MalformedRecord describes one raw record that was excluded from the
// canonical stream, and why. Records are never dropped without one of these.
type MalformedRecord struct {
	Seq    int
	Reason string
}

// Result is the output of one Normalize call.
type Result struct {
	Events    []model.Event
	Malformed []MalformedRecord
}

// Normalize converts raw records into a canonical Event sequence:
// reorders on sequence inversions, classifies descriptions into kinds,
// carries the running score forward across rows that omit it, and collects
// malformed records into a side list. Returns *MalformedStreamError when the
// corrected stream still contains a score regression.
func Normalize(gameID string, raws []model.RawEvent) (Result, error) {
	ordered := make([]model.RawEvent, len(raws))
	copy(ordered, raws)

	// Upstream correction rows can arrive out of order; restore sequence
	// order only when an inversion is actually present.
	inverted := false
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Seq < ordered[i-1].Seq {
			inverted = true
			break
		}
	}
	if inverted {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Seq < ordered[j].Seq
		})
	}

	res := Result{}
	lastHome, lastAway := 0, 0

	for _, raw := range ordered {
		if raw.Quarter < 1 {
			res.Malformed = append(res.Malformed, MalformedRecord{
				Seq:    raw.Seq,
				Reason: fmt.Sprintf("quarter %d out of range", raw.Quarter),
			})
			continue
		}

		kind := Classify(raw.Description)

		switch kind {
		case model.KindScore, model.KindRebound, model.KindTurnover, model.KindFoul:
			if raw.TeamID == "" {
				res.Malformed = append(res.Malformed, MalformedRecord{
					Seq:    raw.Seq,
					Reason: kind.String() + " event missing team",
				})
				continue
			}
		case model.KindSubstitution:
			if raw.PlayerID == "" {
				res.Malformed = append(res.Malformed, MalformedRecord{
					Seq:    raw.Seq,
					Reason: "SUBSTITUTION event missing player",
				})
				continue
			}
		}

		home, away := lastHome, lastAway
		if raw.HomeScore != nil {
			home = *raw.HomeScore
		}
		if raw.AwayScore != nil {
			away = *raw.AwayScore
		}

		if home < lastHome {
			return Result{}, &MalformedStreamError{
				GameID: gameID,
				Seq:    raw.Seq,
				Reason: fmt.Sprintf("home score regressed %d -> %d", lastHome, home),
			}
		}
		if away < lastAway {
			return Result{}, &MalformedStreamError{
				GameID: gameID,
				Seq:    raw.Seq,
				Reason: fmt.Sprintf("away score regressed %d -> %d", lastAway, away),
			}
		}
		lastHome, lastAway = home, away

		res.Events = append(res.Events, model.Event{
			Seq:          raw.Seq,
			Quarter:      raw.Quarter,
			ClockSeconds: raw.ClockSeconds,
			Kind:         kind,
			TeamID:       raw.TeamID,
			PlayerID:     raw.PlayerID,
			HomeScore:    home,
			AwayScore:    away,
		})
	}

	return res, nil
}
