// Package momentum detects scoring-trend reversals over a sliding window of
// possessions. The pass is deterministic: no training, no randomness.
package momentum

import (
	"errors"
	"fmt"
	"math"

	"github.com/pable/go-nba-metrics/internal/model"
)

// Mode selects how the reversal threshold is derived.
type Mode int

const (
	// ModeVarianceScaled derives the threshold from the stream's own
	// per-possession scoring variance, so it scales with game pace.
	ModeVarianceScaled Mode = iota
	// ModeFixed uses a configured point value.
	ModeFixed
)

func (m Mode) String() string {
	if m == ModeFixed {
		return "FIXED"
	}
	return "VARIANCE_SCALED"
}

// DefaultWindowPossessions is the trailing window width when none is set.
const DefaultWindowPossessions = 6

// Config controls one detector pass.
type Config struct {
	WindowPossessions  int     // trailing window width, default 6
	Mode               Mode
	FixedThreshold     float64 // points; ModeFixed only
	VarianceMultiplier float64 // stddev multiplier, default 1.0; ModeVarianceScaled only
}

// DegenerateWindowError reports a scope with fewer possessions than the
// window. Recoverable: shrink the window for that scope only.
type DegenerateWindowError struct {
	Possessions int
	Window      int
}

func (e *DegenerateWindowError) Error() string {
	return fmt.Sprintf("momentum window of %d possessions wider than the %d available", e.Window, e.Possessions)
}

// possession is a contiguous event span ending in a score, turnover, or
// defensive rebound. net is the home-minus-away score change inside it.
type possession struct {
	startSeq int
	endSeq   int
	quarter  int
	net      float64
}

// buildPossessions splits events at possession-ending boundaries. startHome
// and startAway are the running score before the first event, needed because
// events only carry score-after values.
func buildPossessions(events []model.Event, startHome, startAway int) []possession {
	var poss []possession
	cur := possession{startSeq: -1}
	ph, pa := startHome, startAway

	for i, ev := range events {
		dh := ev.HomeScore - ph
		da := ev.AwayScore - pa
		ph, pa = ev.HomeScore, ev.AwayScore

		if cur.startSeq == -1 {
			cur.startSeq = ev.Seq
		}
		cur.net += float64(dh - da)
		cur.endSeq = ev.Seq
		cur.quarter = ev.Quarter

		boundary := false
		switch ev.Kind {
		case model.KindScore, model.KindTurnover:
			boundary = true
		case model.KindRebound:
			// A rebound by the team that was not acting is defensive and
			// flips control.
			if i > 0 && ev.TeamID != "" && ev.TeamID != events[i-1].TeamID {
				boundary = true
			}
		}
		if boundary {
			poss = append(poss, cur)
			cur = possession{startSeq: -1}
		}
	}
	if cur.startSeq != -1 {
		poss = append(poss, cur)
	}
	return poss
}

// threshold resolves the reversal threshold for this stream.
func threshold(poss []possession, cfg Config) float64 {
	if cfg.Mode == ModeFixed {
		return cfg.FixedThreshold
	}
	mult := cfg.VarianceMultiplier
	if mult <= 0 {
		mult = 1.0
	}
	mean := 0.0
	for _, p := range poss {
		mean += p.net
	}
	mean /= float64(len(poss))
	varSum := 0.0
	for _, p := range poss {
		d := p.net - mean
		varSum += d * d
	}
	return mult * math.Sqrt(varSum/float64(len(poss)))
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Detect scans one event scope (a full game or a single quarter) and emits
// ordered momentum shifts with non-overlapping trigger windows. Consecutive
// same-sign trend windows coalesce into one shift whose magnitude is the net
// differential over the coalesced span. Returns *DegenerateWindowError when
// the scope holds fewer possessions than the window.
func Detect(events []model.Event, startHome, startAway int, cfg Config) ([]model.MomentumEvent, error) {
	w := cfg.WindowPossessions
	if w <= 0 {
		w = DefaultWindowPossessions
	}

	poss := buildPossessions(events, startHome, startAway)
	if len(poss) == 0 {
		return nil, nil
	}
	if len(poss) < w {
		return nil, &DegenerateWindowError{Possessions: len(poss), Window: w}
	}
	thr := threshold(poss, cfg)

	prefix := make([]float64, len(poss)+1)
	for i, p := range poss {
		prefix[i+1] = prefix[i] + p.net
	}
	trend := func(i int) float64 { return prefix[i+1] - prefix[i+1-w] }

	var out []model.MomentumEvent

	// A "run" is a maximal stretch of windows sharing one trend sign. The
	// first run only establishes the baseline direction; every later run
	// that reverses the last emitted (or baseline) direction with enough
	// accumulated differential becomes a shift.
	runDir := 0
	runStart, runEnd := 0, -1
	runNet := 0.0
	lastDir, baseDir := 0, 0
	prevRunEnd := -1

	closeRun := func() {
		if runDir == 0 {
			return
		}
		if lastDir == 0 && baseDir == 0 {
			baseDir = runDir
		} else {
			ref := lastDir
			if ref == 0 {
				ref = baseDir
			}
			if runDir != ref && runNet != 0 && math.Abs(runNet) >= thr {
				dir := model.DirectionHome
				if runNet < 0 {
					dir = model.DirectionAway
				}
				out = append(out, model.MomentumEvent{
					Quarter:     poss[runEnd].quarter,
					Seq:         poss[runEnd].endSeq,
					Direction:   dir,
					Magnitude:   math.Abs(runNet),
					WindowStart: poss[runStart].startSeq,
					WindowEnd:   poss[runEnd].endSeq,
				})
				lastDir = runDir
			}
		}
		prevRunEnd = runEnd
		runDir = 0
	}

	for i := w - 1; i < len(poss); i++ {
		s := sign(trend(i))
		if s == 0 {
			continue
		}
		if s == runDir {
			runNet += prefix[i+1] - prefix[runEnd+1]
			runEnd = i
			continue
		}
		closeRun()
		start := i - w + 1
		if start <= prevRunEnd {
			// Clamp so trigger windows of successive runs never overlap.
			start = prevRunEnd + 1
		}
		runDir, runStart, runEnd = s, start, i
		runNet = prefix[i+1] - prefix[start]
	}
	closeRun()

	return out, nil
}

// DetectQuarters runs the detector quarter by quarter, carrying boundary
// scores across segments. A quarter with fewer possessions than the window
// is retried with the window shrunk to fit that quarter only.
func DetectQuarters(segs []model.QuarterSegment, cfg Config) ([]model.MomentumEvent, error) {
	var out []model.MomentumEvent
	prevHome, prevAway := 0, 0

	for _, seg := range segs {
		shifts, err := Detect(seg.Events, prevHome, prevAway, cfg)

		var degen *DegenerateWindowError
		if errors.As(err, &degen) {
			shrunk := cfg
			shrunk.WindowPossessions = degen.Possessions
			shifts, err = Detect(seg.Events, prevHome, prevAway, shrunk)
		}
		if err != nil {
			return nil, err
		}

		out = append(out, shifts...)
		prevHome, prevAway = seg.EndHome, seg.EndAway
	}
	return out, nil
}
